package dict

import "slices"

// ObjectDefinition describes one legal object and its membership.
type ObjectDefinition struct {
	Identifier string

	RequiredElements []string
	OptionalElements []string
	RequiredObjects  []string
	OptionalObjects  []string

	Aliases []string // alternate identifiers for the object itself
}

// IsElementPossible reports whether id is a required or optional element.
func (o *ObjectDefinition) IsElementPossible(id string) bool {
	return slices.Contains(o.RequiredElements, id) || slices.Contains(o.OptionalElements, id)
}

// IsObjectPossible reports whether id is a required or optional nested object.
func (o *ObjectDefinition) IsObjectPossible(id string) bool {
	return slices.Contains(o.RequiredObjects, id) || slices.Contains(o.OptionalObjects, id)
}
