package label

import "strings"

// PointerKind classifies what a pointer refers to.
type PointerKind int

// Pointer kinds.
const (
	// PointerUndefined is the zero value before classification.
	PointerUndefined PointerKind = iota
	// PointerInclude references a file whose statements belong in this label.
	PointerInclude
	// PointerDescription references a free-text description file.
	PointerDescription
	// PointerDataLocation references the data an object describes.
	PointerDataLocation
)

func (k PointerKind) String() string {
	switch k {
	case PointerInclude:
		return "include"
	case PointerDescription:
		return "description"
	case PointerDataLocation:
		return "data-location"
	default:
		return "undefined"
	}
}

// Suffix tables checked in order; the first match wins.
var (
	includeSuffixes     = []string{"STRUCTURE", "CATALOG", "DATA_SET_MAP_PROJECTION"}
	descriptionSuffixes = []string{"DESCRIPTION", "TEXT"}
)

// ClassifyPointer returns the kind for a pointer identifier. The result depends
// only on the identifier's suffix, never on dictionary content.
func ClassifyPointer(identifier string) PointerKind {
	for _, s := range includeSuffixes {
		if strings.HasSuffix(identifier, s) {
			return PointerInclude
		}
	}
	for _, s := range descriptionSuffixes {
		if strings.HasSuffix(identifier, s) {
			return PointerDescription
		}
	}
	return PointerDataLocation
}

// NewPointerStatement creates a pointer and classifies it once.
func NewPointerStatement(pos Position, name string, value Value) *PointerStatement {
	return &PointerStatement{
		Position: pos,
		Name:     name,
		Value:    value,
		Kind:     ClassifyPointer(name),
	}
}

// TargetFile returns the file name a pointer references, if any. Pointers are
// written ^X = "FILE.DAT", ^X = ("FILE.DAT", 12) or ^X = 12 for an offset into
// the label's own file.
func (p *PointerStatement) TargetFile() (string, bool) {
	switch v := p.Value.(type) {
	case *Scalar:
		if v.Format == FormatQuoted {
			return v.Text, true
		}
	case *Sequence:
		if len(v.Members) > 0 {
			if s, ok := v.Members[0].(*Scalar); ok && s.Format == FormatQuoted {
				return s.Text, true
			}
		}
	}
	return "", false
}
