package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(line int) Position { return Position{File: "test.lbl", Line: line} }

func sampleLabel() *Label {
	image := NewObject(pos(5), "IMAGE",
		NewAttribute(pos(6), "LINES", NewNumeric("800", "")),
		NewAttribute(pos(7), "LINE_SAMPLES", NewNumeric("800", "")),
	)
	return &Label{
		Filename: "test.lbl",
		Statements: []Statement{
			NewAttribute(pos(1), "PDS_VERSION_ID", NewScalar("PDS3")),
			NewAttribute(pos(2), "RECORD_TYPE", NewScalar("FIXED_LENGTH")),
			NewPointerStatement(pos(3), "IMAGE", NewNumeric("3", "")),
			image,
		},
	}
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "abc", NewText("abc").String())
	assert.Equal(t, "12.5", NewNumeric("12.5", "KM").String())
	assert.Equal(t, "(1, 2, 2)", NewSequence(NewScalar("1"), NewScalar("2"), NewScalar("2")).String())
	assert.Equal(t, "{A, B}", NewSet(NewScalar("A"), NewScalar("B"), NewScalar("A")).String())
}

func TestNewSet_DropsDuplicates(t *testing.T) {
	s := NewSet(NewScalar("A"), NewSymbol("A"), NewScalar("B"))
	require.Len(t, s.Members, 2)
}

func TestNewSequence_CopiesMembers(t *testing.T) {
	members := []Value{NewScalar("1"), NewScalar("2")}
	seq := NewSequence(members...)
	members[0] = NewScalar("changed")
	assert.Equal(t, "1", seq.Members[0].String())
}

func TestMembers(t *testing.T) {
	m, ok := Members(NewSet(NewScalar("A")))
	assert.True(t, ok)
	assert.Len(t, m, 1)

	_, ok = Members(NewScalar("A"))
	assert.False(t, ok)
}

func TestNumeric_HasUnits(t *testing.T) {
	assert.True(t, NewNumeric("1", " KM ").HasUnits())
	assert.Equal(t, "KM", NewNumeric("1", " KM ").Units)
	assert.False(t, NewNumeric("1", "").HasUnits())
}

func TestAttributeStatement_Identifier(t *testing.T) {
	a := NewAttribute(pos(1), "TEMP", NewScalar("1"))
	assert.Equal(t, "TEMP", a.Identifier())
	assert.False(t, a.HasNamespace())

	a.Namespace = "MRO"
	assert.Equal(t, "MRO:TEMP", a.Identifier())
	assert.Equal(t, "TEMP", a.ElementIdentifier())
	assert.True(t, a.HasNamespace())
}

func TestObjectStatement_Lookups(t *testing.T) {
	l := sampleLabel()
	root := l.Root()

	assert.Equal(t, RootIdentifier, root.Identifier())
	assert.Len(t, root.Attributes(), 2)
	assert.Len(t, root.Objects(), 1)
	assert.Len(t, root.Pointers(), 1)
	assert.True(t, root.HasAttribute("RECORD_TYPE"))
	assert.False(t, root.HasAttribute("LINES"))
	assert.True(t, root.HasObject("IMAGE"))
	assert.False(t, root.HasObject("TABLE"))

	image := l.Objects("IMAGE")[0]
	require.NotNil(t, image.Attribute("LINES"))
	assert.Equal(t, "800", image.Attribute("LINES").Value.String())
}

func TestLabel_Find(t *testing.T) {
	l := sampleLabel()

	found := l.Find("LINE_SAMPLES")
	require.NotNil(t, found)
	assert.Equal(t, 7, found.Pos().Line)

	assert.Nil(t, l.Find("MISSING"))
}

func TestSortByPosition(t *testing.T) {
	stmts := []*AttributeStatement{
		NewAttribute(Position{File: "b", Line: 1}, "X", nil),
		NewAttribute(Position{File: "a", Line: 9}, "Y", nil),
		NewAttribute(Position{File: "a", Line: 2}, "Z", nil),
	}
	SortByPosition(stmts)
	assert.Equal(t, []string{"Z", "Y", "X"}, []string{stmts[0].Element, stmts[1].Element, stmts[2].Element})
}

func TestInferType(t *testing.T) {
	t.Run("attached", func(t *testing.T) {
		assert.Equal(t, LabelAttached, InferType(sampleLabel()))
	})

	t.Run("detached", func(t *testing.T) {
		l := &Label{Statements: []Statement{
			NewPointerStatement(pos(1), "IMAGE", NewText("IMG.DAT")),
		}}
		assert.Equal(t, LabelDetached, InferType(l))
	})

	t.Run("combined detached", func(t *testing.T) {
		l := &Label{Statements: []Statement{
			NewObject(pos(1), "FILE", NewAttribute(pos(2), "RECORD_TYPE", NewScalar("STREAM"))),
		}}
		assert.Equal(t, LabelCombinedDetached, InferType(l))
	})

	t.Run("description pointers do not count", func(t *testing.T) {
		l := &Label{Statements: []Statement{
			NewPointerStatement(pos(1), "DESCRIPTION", NewText("DESC.TXT")),
		}}
		assert.Equal(t, LabelUndefined, InferType(l))
	})

	t.Run("no pointers", func(t *testing.T) {
		assert.Equal(t, LabelUndefined, InferType(&Label{}))
	})
}

func TestLabelType_String(t *testing.T) {
	assert.Equal(t, "attached", LabelAttached.String())
	assert.Equal(t, "detached", LabelDetached.String())
	assert.Equal(t, "combined-detached", LabelCombinedDetached.String())
	assert.Equal(t, "undefined", LabelUndefined.String())
}
