package validate

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vtool/internal/testutil"
	"github.com/leapstack-labs/vtool/pkg/core"
	"github.com/leapstack-labs/vtool/pkg/dict"
	"github.com/leapstack-labs/vtool/pkg/label"
)

func attachedLabel() *label.Label {
	return &label.Label{
		Filename: "image.img",
		Type:     label.LabelAttached,
		Statements: []label.Statement{
			label.NewAttribute(line(1), "RECORD_TYPE", sym("FIXED_LENGTH")),
			label.NewAttribute(line(2), "RECORD_BYTES", num("80")),
			label.NewAttribute(line(3), "FILE_RECORDS", num("100")),
			label.NewAttribute(line(4), "LABEL_RECORDS", num("2")),
			label.NewPointerStatement(line(5), "IMAGE", num("3")),
			label.NewObject(line(6), "IMAGE", label.NewAttribute(line(7), "LINES", num("800"))),
		},
	}
}

func labelDictionary(t *testing.T) *dict.Dictionary {
	d := testDictionary(t)
	for _, id := range []string{"RECORD_TYPE", "RECORD_BYTES", "FILE_RECORDS", "LABEL_RECORDS"} {
		dt := "INTEGER"
		if id == "RECORD_TYPE" {
			dt = "IDENTIFIER"
		}
		require.NoError(t, d.AddElement(&dict.ElementDefinition{Identifier: id, DataType: dt}))
	}
	return d
}

func TestValidator_Validate(t *testing.T) {
	v := New(labelDictionary(t), nil, DefaultOptions(), testutil.NewTestLogger(t))

	res, err := v.Validate(attachedLabel())
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.Diagnostics)
	assert.Empty(t, res.Diagnostics)
}

func TestValidator_MergesStructureAndFileCharacteristics(t *testing.T) {
	v := New(labelDictionary(t), nil, DefaultOptions(), testutil.NewTestLogger(t))

	l := attachedLabel()
	l.Statements = append(l.Statements[:3], l.Statements[4:]...) // drop LABEL_RECORDS
	l.Statements = append(l.Statements, label.NewAttribute(line(20), "UNKNOWN_KEY", num("1")))

	res, err := v.Validate(l)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeDefinitionNotFound), 1)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeMissingFileElement), 1)
}

func TestValidator_RootDefinition(t *testing.T) {
	d := labelDictionary(t)
	require.NoError(t, d.AddObject(&dict.ObjectDefinition{
		Identifier:       label.RootIdentifier,
		RequiredElements: []string{"RECORD_TYPE", "PDS_VERSION_ID"},
		OptionalElements: []string{"RECORD_BYTES", "FILE_RECORDS", "LABEL_RECORDS"},
		OptionalObjects:  []string{"IMAGE"},
	}))
	v := New(d, nil, DefaultOptions(), testutil.NewTestLogger(t))

	res, err := v.Validate(attachedLabel())
	require.NoError(t, err)
	assert.False(t, res.Valid)
	missing := res.Diagnostics.WithCode(core.CodeMissingRequiredElement)
	require.Len(t, missing, 1)
	assert.Contains(t, missing[0].Message, "PDS_VERSION_ID")
}

func TestValidator_UnknownTopLevelObject(t *testing.T) {
	v := New(labelDictionary(t), nil, DefaultOptions(), nil)
	l := attachedLabel()
	l.Statements = append(l.Statements, label.NewObject(line(30), "MYSTERY"),
		label.NewObject(line(40), "IMAGE", label.NewAttribute(line(41), "LINES", num("x"))))

	res, err := v.Validate(l)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeDefinitionNotFound), 1)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeInvalidType), 1)
}

func TestValidator_NilInput(t *testing.T) {
	v := New(labelDictionary(t), nil, DefaultOptions(), nil)
	_, err := v.Validate(nil)
	assert.True(t, errors.Is(err, core.ErrNilInput))
	res := v.ValidateLabel(nil)
	assert.False(t, res.Valid)
	assert.Len(t, res.Diagnostics.WithCode(core.CodeNilInput), 1)

	noDict := New(nil, nil, DefaultOptions(), nil)
	_, err = noDict.Validate(attachedLabel())
	assert.ErrorIs(t, err, core.ErrNilInput)
}

func TestValidator_Concurrent(t *testing.T) {
	v := New(labelDictionary(t), nil, DefaultOptions(), nil)
	collector := core.NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := attachedLabel()
			l.Statements = append(l.Statements, label.NewAttribute(line(50), "UNKNOWN_KEY", num("1")))
			v.ValidateLabel(l).Emit(collector)
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, collector.Len())
}
