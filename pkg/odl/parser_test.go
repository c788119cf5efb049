package odl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vtool/pkg/label"
)

const attachedImage = `PDS_VERSION_ID       = PDS3
/* File characteristics */
RECORD_TYPE          = FIXED_LENGTH
RECORD_BYTES         = 800
FILE_RECORDS         = 802
LABEL_RECORDS        = 2
^IMAGE               = 3
DATA_SET_ID          = "MGS-M-MOC-NA/WA-2-DSDP-L0-V1.0"
TARGET_NAME          = MARS
START_TIME           = 1999-03-09T12:00:00.000Z
PRODUCT_CREATION_TIME = 2004-075
NOTE                 = "A note that
  spans two lines"
MGS:ORBIT_NUMBER     = 1234
OBJECT               = IMAGE
  LINES              = 800
  LINE_SAMPLES       = 800
  SAMPLE_BITS        = 8
  SAMPLE_TYPE        = 'UNSIGNED_INTEGER'
  EXPOSURE_DURATION  = 12.5 <MS>
  MASK               = 16#FF#
  FILTER_NAME        = {RED, GREEN, "BLUE"}
  OFFSETS            = (1, 2, (3, 4))
  EMPTY              = {}
  MISSING_CONSTANT   = N/A
END_OBJECT           = IMAGE
END
binary data follows here = { not ODL
`

func TestParse_AttachedImage(t *testing.T) {
	l, err := Parse("image.img", attachedImage)
	require.NoError(t, err)

	assert.Equal(t, "image.img", l.Filename)
	assert.Equal(t, label.LabelAttached, l.Type)

	rt := l.Attribute("RECORD_TYPE")
	require.NotNil(t, rt)
	assert.Equal(t, "FIXED_LENGTH", rt.Value.String())
	assert.Equal(t, 3, rt.Line)
	assert.Equal(t, "image.img", rt.File)

	rb := l.Attribute("RECORD_BYTES")
	require.NotNil(t, rb)
	require.IsType(t, &label.Numeric{}, rb.Value)
	assert.Equal(t, "800", rb.Value.String())

	ds := l.Attribute("DATA_SET_ID")
	require.NotNil(t, ds)
	scalar := ds.Value.(*label.Scalar)
	assert.Equal(t, label.FormatQuoted, scalar.Format)
	assert.Equal(t, "MGS-M-MOC-NA/WA-2-DSDP-L0-V1.0", scalar.Text)

	assert.Equal(t, "1999-03-09T12:00:00.000Z", l.Attribute("START_TIME").Value.String())
	assert.Equal(t, "2004-075", l.Attribute("PRODUCT_CREATION_TIME").Value.String())
	assert.Equal(t, "A note that\n  spans two lines", l.Attribute("NOTE").Value.String())

	orbit := l.Attribute("MGS:ORBIT_NUMBER")
	require.NotNil(t, orbit)
	assert.Equal(t, "MGS", orbit.Namespace)
	assert.Equal(t, "ORBIT_NUMBER", orbit.Element)

	ptrs := l.Pointers()
	require.Len(t, ptrs, 1)
	assert.Equal(t, "IMAGE", ptrs[0].Name)
	assert.Equal(t, label.PointerDataLocation, ptrs[0].Kind)

	require.Len(t, l.Comments, 1)
	assert.Equal(t, "File characteristics", l.Comments[0].Text)
	assert.Equal(t, 2, l.Comments[0].Line)

	images := l.Objects("IMAGE")
	require.Len(t, images, 1)
	image := images[0]
	assert.Equal(t, 15, image.Line)
	assert.False(t, image.Group)

	exposure := image.Attribute("EXPOSURE_DURATION").Value.(*label.Numeric)
	assert.Equal(t, "12.5", exposure.Text)
	assert.Equal(t, "MS", exposure.Units)

	assert.Equal(t, "16#FF#", image.Attribute("MASK").Value.String())

	sampleType := image.Attribute("SAMPLE_TYPE").Value.(*label.Scalar)
	assert.Equal(t, label.FormatSymbol, sampleType.Format)
	assert.Equal(t, "UNSIGNED_INTEGER", sampleType.Text)

	filters, ok := image.Attribute("FILTER_NAME").Value.(*label.Set)
	require.True(t, ok)
	assert.Equal(t, "{RED, GREEN, BLUE}", filters.String())

	offsets, ok := image.Attribute("OFFSETS").Value.(*label.Sequence)
	require.True(t, ok)
	require.Len(t, offsets.Members, 3)
	assert.IsType(t, &label.Sequence{}, offsets.Members[2])

	empty, ok := image.Attribute("EMPTY").Value.(*label.Set)
	require.True(t, ok)
	assert.Empty(t, empty.Members)

	assert.Equal(t, "N/A", image.Attribute("MISSING_CONSTANT").Value.String())
}

func TestParse_DetachedAndCombined(t *testing.T) {
	detached := `RECORD_TYPE = STREAM
^TABLE = ("DATA.TAB", 2)
OBJECT = TABLE
  ROWS = 10
END_OBJECT
END
`
	l, err := Parse("data.lbl", detached)
	require.NoError(t, err)
	assert.Equal(t, label.LabelDetached, l.Type)

	combined := `PDS_VERSION_ID = PDS3
OBJECT = FILE
  RECORD_TYPE = STREAM
END_OBJECT = FILE
OBJECT = FILE
  RECORD_TYPE = FIXED_LENGTH
END_OBJECT = FILE
END`
	l, err = Parse("combined.lbl", combined)
	require.NoError(t, err)
	assert.Equal(t, label.LabelCombinedDetached, l.Type)
	assert.Len(t, l.Objects("FILE"), 2)
}

func TestParse_GroupsAndNesting(t *testing.T) {
	src := `GROUP = PARAMETERS
  GAIN = 2
  OBJECT = INNER
    VALUE = 'X'
  END_OBJECT = INNER
END_GROUP = PARAMETERS
^STRUCTURE = "IMAGE.FMT"
^DESCRIPTION = "IMAGE.TXT"
`
	l, err := Parse("g.lbl", src)
	require.NoError(t, err)
	groups := l.Objects("PARAMETERS")
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Group)
	require.Len(t, groups[0].Objects(), 1)
	assert.Equal(t, "INNER", groups[0].Objects()[0].Name)

	found := l.Find("VALUE")
	require.NotNil(t, found)
	assert.Equal(t, 4, found.Pos().Line)

	ptrs := l.Pointers()
	require.Len(t, ptrs, 2)
	assert.Equal(t, label.PointerInclude, ptrs[0].Kind)
	assert.Equal(t, label.PointerDescription, ptrs[1].Kind)
	assert.Equal(t, label.LabelUndefined, l.Type)
}

func TestParse_CaseInsensitiveKeywords(t *testing.T) {
	src := "object = IMAGE\n  LINES = 1\nend_object = IMAGE\nend\n"
	l, err := Parse("lower.lbl", src)
	require.NoError(t, err)
	assert.Len(t, l.Objects("IMAGE"), 1)
}

func TestParse_EndInsideTextOrComment(t *testing.T) {
	src := "DESCRIPTION = \"first line\nEND\nthird\"\n/* a comment\nEND\n*/\nRECORD_TYPE = STREAM\nEND\nTRAILING = junk ="
	l, err := Parse("quoted.lbl", src)
	require.NoError(t, err)

	desc := l.Attribute("DESCRIPTION")
	require.NotNil(t, desc)
	assert.Contains(t, desc.Value.String(), "third")
	require.NotNil(t, l.Attribute("RECORD_TYPE"))
	assert.Nil(t, l.Attribute("TRAILING"))
}

func TestParse_EndAfterSymbolWithQuote(t *testing.T) {
	src := "NOTE = 'say \"hi'\nRECORD_TYPE = STREAM\nEND\nTRAILING = junk ="
	l, err := Parse("symbol.lbl", src)
	require.NoError(t, err)

	note := l.Attribute("NOTE")
	require.NotNil(t, note)
	assert.Equal(t, `say "hi`, note.Value.String())
	require.NotNil(t, l.Attribute("RECORD_TYPE"))
	assert.Nil(t, l.Attribute("TRAILING"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{name: "mismatched end name", src: "OBJECT = IMAGE\n  LINES = 1\nEND_OBJECT = TABLE\nEND\n", line: 3},
		{name: "group closed as object", src: "GROUP = G\n  A = 1\nEND_OBJECT = G\nEND\n", line: 3},
		{name: "missing value", src: "RECORD_TYPE =\nRECORD_BYTES = 80\n", line: 2},
		{name: "unterminated object", src: "OBJECT = IMAGE\n  LINES = 1\n"},
		{name: "bad character", src: "A = 1\nB = @\n", line: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.lbl", tt.src)
			require.Error(t, err)
			var perr *Error
			require.True(t, errors.As(err, &perr), "got %T: %v", err, err)
			assert.Equal(t, "bad.lbl", perr.File)
			if tt.line > 0 {
				assert.Equal(t, tt.line, perr.Line, perr.Error())
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.lbl")
	require.NoError(t, os.WriteFile(path, []byte("A = 1\nEND\n"), 0o600))

	l, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Filename)
	require.NotNil(t, l.Attribute("A"))

	_, err = ParseFile(filepath.Join(dir, "missing.lbl"))
	assert.Error(t, err)
}

func TestError_String(t *testing.T) {
	assert.Equal(t, "a.lbl:3:5: boom", (&Error{File: "a.lbl", Line: 3, Column: 5, Msg: "boom"}).Error())
	assert.Equal(t, "a.lbl: boom", (&Error{File: "a.lbl", Msg: "boom"}).Error())
}
