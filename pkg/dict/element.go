package dict

import (
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinels shared by element definitions and label values.
const (
	// UnitNone marks an element that must not carry units.
	UnitNone = "NONE"
	// ValueTypeStatic marks an authoritative valid-value list.
	ValueTypeStatic = "STATIC"
)

// NoDataValues are the values that mean "no data"; they skip all value checks.
var NoDataValues = []string{"N/A", "NULL", "UNK"}

// IsNoData reports whether s is one of the no-data sentinels. The match is
// exact and case-sensitive.
func IsNoData(s string) bool {
	return slices.Contains(NoDataValues, s)
}

var upper = cases.Upper(language.Und)

// ElementDefinition describes one legal attribute.
type ElementDefinition struct {
	Identifier string
	DataType   string

	MinLength int
	MaxLength int // <= 0 means unbounded

	Minimum *string // numeric bounds in the element's own textual form
	Maximum *string

	UnitID string   // unit class, NONE, or a no-data sentinel
	Units  []string // allowed unit tokens, upper case

	ValueType string   // STATIC when Values is authoritative
	Values    []string // finite list of valid values, empty when open

	Aliases []Alias
}

// HasValidValues reports whether the definition restricts values to a list.
func (e *ElementDefinition) HasValidValues() bool { return len(e.Values) > 0 }

// IsValidValue reports whether v is in the valid-value list (exact match).
func (e *ElementDefinition) IsValidValue(v string) bool { return slices.Contains(e.Values, v) }

// IsStatic reports whether the valid-value list is authoritative.
func (e *ElementDefinition) IsStatic() bool { return e.ValueType == ValueTypeStatic }

// HasMinimum reports whether a numeric minimum is declared.
func (e *ElementDefinition) HasMinimum() bool { return e.Minimum != nil }

// HasMaximum reports whether a numeric maximum is declared.
func (e *ElementDefinition) HasMaximum() bool { return e.Maximum != nil }

// IsUnitAllowed reports whether unit is one of the allowed units. Both sides
// are compared upper-cased.
func (e *ElementDefinition) IsUnitAllowed(unit string) bool {
	u := upper.String(unit)
	for _, allowed := range e.Units {
		if upper.String(allowed) == u {
			return true
		}
	}
	return false
}
