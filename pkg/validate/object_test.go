package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vtool/internal/testutil"
	"github.com/leapstack-labs/vtool/pkg/core"
	"github.com/leapstack-labs/vtool/pkg/dict"
	"github.com/leapstack-labs/vtool/pkg/label"
)

func line(n int) label.Position { return label.Position{File: "test.lbl", Line: n} }

func num(s string) label.Value { return label.NewNumeric(s, "") }

// testDictionary defines OBJ (requires A and B, B aliased as OBJ.B_ALT),
// IMAGE (requires LINES, optional TABLE) and TABLE (alias TAB).
func testDictionary(t *testing.T) *dict.Dictionary {
	t.Helper()
	d := dict.New()
	for _, e := range []*dict.ElementDefinition{
		{Identifier: "A", DataType: "INTEGER"},
		{Identifier: "B", DataType: "INTEGER", Aliases: []dict.Alias{{Object: "OBJ", Identifier: "B_ALT"}}},
		{Identifier: "LINES", DataType: "INTEGER", Minimum: strptr("1")},
		{Identifier: "NAME", DataType: "CHARACTER", Aliases: []dict.Alias{{Identifier: "OLD_NAME"}}},
		{Identifier: "ROWS", DataType: "INTEGER"},
	} {
		require.NoError(t, d.AddElement(e))
	}
	for _, o := range []*dict.ObjectDefinition{
		{Identifier: "OBJ", RequiredElements: []string{"A", "B"}},
		{Identifier: "IMAGE", RequiredElements: []string{"LINES"}, OptionalElements: []string{"NAME"},
			OptionalObjects: []string{"TABLE"}},
		{Identifier: "TABLE", RequiredElements: []string{"ROWS"}, Aliases: []string{"TAB"}},
		{Identifier: "PRODUCT", RequiredObjects: []string{"TABLE"}, OptionalObjects: []string{"IMAGE", "OBJ"}},
	} {
		require.NoError(t, d.AddObject(o))
	}
	return d
}

func newObjectValidator(t *testing.T, opts Options) *ObjectValidator {
	return NewObjectValidator(testDictionary(t), nil, opts, testutil.NewTestLogger(t))
}

func TestObjectValidator_RequiredElementViaScopedAlias(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "OBJ",
		label.NewAttribute(line(2), "A", num("1")),
		label.NewAttribute(line(3), "B_ALT", num("2")),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.Diagnostics)
	assert.Empty(t, res.Diagnostics.WithCode(core.CodeMissingRequiredElement))
	assert.Empty(t, res.Diagnostics.WithCode(core.CodeUnexpectedElement))
}

func TestObjectValidator_MissingRequiredElement(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "OBJ", label.NewAttribute(line(2), "A", num("1")))

	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	missing := res.Diagnostics.WithCode(core.CodeMissingRequiredElement)
	require.Len(t, missing, 1)
	assert.Contains(t, missing[0].Message, "required element B")
	assert.Equal(t, 1, missing[0].Line)
}

func TestObjectValidator_ScopedAliasWrongObject(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	// B_ALT is only an alias inside OBJ.
	obj := label.NewObject(line(1), "IMAGE",
		label.NewAttribute(line(2), "LINES", num("5")),
		label.NewAttribute(line(3), "B_ALT", num("2")),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeUnexpectedElement), 1)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeDefinitionNotFound), 1)
}

func TestObjectValidator_UnexpectedAndAliasedElements(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "IMAGE",
		label.NewAttribute(line(2), "LINES", num("5")),
		label.NewAttribute(line(3), "OLD_NAME", label.NewText("x")),
		label.NewAttribute(line(4), "ROWS", num("3")),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	unexpected := res.Diagnostics.WithCode(core.CodeUnexpectedElement)
	require.Len(t, unexpected, 1)
	assert.Contains(t, unexpected[0].Message, "ROWS")
	assert.Equal(t, 4, unexpected[0].Line)
}

func TestObjectValidator_NoAliasing(t *testing.T) {
	v := newObjectValidator(t, Options{Aliasing: false})
	obj := label.NewObject(line(1), "OBJ",
		label.NewAttribute(line(2), "A", num("1")),
		label.NewAttribute(line(3), "B_ALT", num("2")),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeMissingRequiredElement), 1)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeUnexpectedElement), 1)

	_, err = v.Validate(label.NewObject(line(1), "TAB", label.NewAttribute(line(2), "ROWS", num("1"))))
	var dnf *core.DefinitionNotFoundError
	assert.True(t, errors.As(err, &dnf), "object aliases are disabled too")
}

func TestObjectValidator_ElementFailureMarksObjectInvalid(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "IMAGE", label.NewAttribute(line(2), "LINES", num("0")))
	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{core.CodeOutOfRange}, codes(res.Diagnostics))
}

func TestObjectValidator_RequiredObjectViaAlias(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "PRODUCT",
		label.NewObject(line(2), "TAB", label.NewAttribute(line(3), "ROWS", num("1"))),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.Diagnostics)

	missing, err := v.Validate(label.NewObject(line(1), "PRODUCT"))
	require.NoError(t, err)
	assert.False(t, missing.Valid)
	assert.Len(t, missing.Diagnostics.WithCode(core.CodeMissingRequiredObject), 1)
}

func TestObjectValidator_NestedDefinitionNotFound(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "PRODUCT",
		label.NewObject(line(2), "MYSTERY", label.NewAttribute(line(3), "ROWS", num("1"))),
		label.NewObject(line(5), "TABLE", label.NewAttribute(line(6), "ROWS", num("x"))),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err, "nested missing definitions are diagnostics")
	assert.False(t, res.Valid)

	notFound := res.Diagnostics.WithCode(core.CodeDefinitionNotFound)
	require.Len(t, notFound, 1)
	assert.Equal(t, 2, notFound[0].Line)
	assert.Contains(t, notFound[0].Message, "MYSTERY")

	assert.Len(t, res.Diagnostics.WithCode(core.CodeUnexpectedObject), 1)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeInvalidType), 1, "sibling is still validated")
}

func TestObjectValidator_TopLevelDefinitionNotFound(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	_, err := v.Validate(label.NewObject(line(1), "MYSTERY"))
	var dnf *core.DefinitionNotFoundError
	require.True(t, errors.As(err, &dnf))
	assert.Equal(t, core.KindObject, dnf.Kind)
	assert.Equal(t, "could not find object definition for MYSTERY", err.Error())
}

func TestObjectValidator_GenericObjectClass(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "PRODUCT",
		label.NewObject(line(2), "TABLE", label.NewAttribute(line(3), "ROWS", num("1"))),
		label.NewObject(line(4), "INDEX_TABLE", label.NewAttribute(line(5), "ROWS", num("1"))),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.Diagnostics)
}

func TestObjectValidator_SubtreeNotShortCircuited(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "PRODUCT",
		label.NewObject(line(2), "OBJ", label.NewAttribute(line(3), "A", num("x"))),
		label.NewObject(line(4), "IMAGE",
			label.NewObject(line(5), "TABLE"),
		),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeMissingRequiredObject), 1, "PRODUCT lacks TABLE")
	assert.Len(t, res.Diagnostics.WithCode(core.CodeInvalidType), 1)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeMissingRequiredElement), 3, "OBJ lacks B, IMAGE lacks LINES, TABLE lacks ROWS")
}

func TestObjectValidator_DiagnosticOrder(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "IMAGE",
		label.NewAttribute(line(9), "LINES", num("x")),
		label.NewAttribute(line(4), "NAME", nil),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, 4, res.Diagnostics[0].Line)
	assert.Equal(t, 9, res.Diagnostics[1].Line)
}

func TestObjectValidator_MaxDepth(t *testing.T) {
	d := dict.New()
	require.NoError(t, d.AddObject(&dict.ObjectDefinition{Identifier: "NODE", OptionalObjects: []string{"NODE"}}))
	v := NewObjectValidator(d, nil, Options{Aliasing: true, MaxDepth: 3}, testutil.NewTestLogger(t))

	// Four levels of NODE.
	obj := label.NewObject(line(1), "NODE",
		label.NewObject(line(2), "NODE",
			label.NewObject(line(3), "NODE",
				label.NewObject(line(4), "NODE"),
			),
		),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	deep := res.Diagnostics.WithCode(core.CodeMaxDepth)
	require.Len(t, deep, 1)
	assert.Equal(t, 4, deep[0].Line)

	shallow, err := v.Validate(obj.Objects()[0])
	require.NoError(t, err)
	assert.True(t, shallow.Valid)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.Aliasing)
	assert.Equal(t, DefaultMaxDepth, opts.MaxDepth)

	v := NewObjectValidator(dict.New(), nil, Options{}, nil)
	assert.Equal(t, DefaultMaxDepth, v.opts.MaxDepth)
}

func TestResult_Merge(t *testing.T) {
	r := Pass()
	r.Merge(Pass())
	assert.True(t, r.Valid)

	bad := Pass()
	bad.fail(core.SeverityError, core.CodeInvalidType, line(3), "bad %s", "value")
	r.Merge(bad)
	r.Merge(Pass())
	assert.False(t, r.Valid)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "bad value", r.Diagnostics[0].Message)

	collector := core.NewCollector()
	r.Emit(collector)
	assert.Equal(t, 1, collector.Len())
}

func TestObjectValidator_SuggestsMisspelledElement(t *testing.T) {
	v := newObjectValidator(t, DefaultOptions())
	obj := label.NewObject(line(1), "IMAGE",
		label.NewAttribute(line(2), "LINES", num("5")),
		label.NewAttribute(line(3), "LINEZ", num("5")),
	)
	res, err := v.Validate(obj)
	require.NoError(t, err)

	notFound := res.Diagnostics.WithCode(core.CodeDefinitionNotFound)
	require.Len(t, notFound, 1)
	assert.Contains(t, notFound[0].Message, "did you mean LINES?")
}

func TestObjectValidator_GenericClassScopedAlias(t *testing.T) {
	d := dict.New()
	require.NoError(t, d.AddElement(&dict.ElementDefinition{
		Identifier: "ROWS",
		DataType:   "INTEGER",
		Aliases:    []dict.Alias{{Object: "INDEX_TABLE", Identifier: "ROW_COUNT"}},
	}))
	require.NoError(t, d.AddObject(&dict.ObjectDefinition{Identifier: "TABLE", RequiredElements: []string{"ROWS"}}))

	for _, aliasing := range []bool{true, false} {
		opts := DefaultOptions()
		opts.Aliasing = aliasing
		v := NewObjectValidator(d, nil, opts, testutil.NewTestLogger(t))

		obj := label.NewObject(line(1), "INDEX_TABLE", label.NewAttribute(line(2), "ROW_COUNT", num("3")))
		res, err := v.Validate(obj)
		require.NoError(t, err)

		if aliasing {
			assert.True(t, res.Valid, "%v", res.Diagnostics)
			assert.Empty(t, res.Diagnostics)
			continue
		}
		assert.False(t, res.Valid)
		assert.Len(t, res.Diagnostics.WithCode(core.CodeMissingRequiredElement), 1)
		assert.Len(t, res.Diagnostics.WithCode(core.CodeUnexpectedElement), 1)
		assert.Len(t, res.Diagnostics.WithCode(core.CodeDefinitionNotFound), 1)
	}
}
