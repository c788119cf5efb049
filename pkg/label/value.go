package label

import "strings"

// Value is the right-hand side of an attribute or pointer statement.
type Value interface {
	// String returns the raw textual form, without quotes or units.
	String() string
	valueNode()
}

// Format is a formatting hint recorded by the parser for scalar text.
type Format int

// Scalar formats.
const (
	// FormatBare is an unquoted identifier, number or date.
	FormatBare Format = iota
	// FormatQuoted is a "double quoted" text string.
	FormatQuoted
	// FormatSymbol is a 'single quoted' symbol.
	FormatSymbol
)

// ---------- Scalar ----------

// Scalar is a single textual value.
type Scalar struct {
	Text   string
	Format Format
}

// NewScalar creates a bare scalar.
func NewScalar(text string) *Scalar {
	return &Scalar{Text: text}
}

// NewText creates a quoted text scalar.
func NewText(text string) *Scalar {
	return &Scalar{Text: text, Format: FormatQuoted}
}

// NewSymbol creates a symbol scalar.
func NewSymbol(text string) *Scalar {
	return &Scalar{Text: text, Format: FormatSymbol}
}

func (*Scalar) valueNode() {}

func (s *Scalar) String() string { return s.Text }

// ---------- Numeric ----------

// Numeric is a number with an optional unit token, e.g. 12.5 <KM>.
type Numeric struct {
	Scalar
	Units string // without angle brackets; empty when absent
}

// NewNumeric creates a numeric value. Units may be empty.
func NewNumeric(text, units string) *Numeric {
	return &Numeric{Scalar: Scalar{Text: text}, Units: strings.TrimSpace(units)}
}

func (*Numeric) valueNode() {}

// HasUnits reports whether a unit token was given.
func (n *Numeric) HasUnits() bool { return n.Units != "" }

// ---------- Set ----------

// Set is an unordered collection with unique members, written {a, b}.
type Set struct {
	Members []Value
}

// NewSet creates a set, dropping members whose textual form repeats.
func NewSet(members ...Value) *Set {
	seen := make(map[string]bool, len(members))
	out := make([]Value, 0, len(members))
	for _, m := range members {
		key := m.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return &Set{Members: out}
}

func (*Set) valueNode() {}

func (s *Set) String() string { return joinMembers("{", s.Members, "}") }

// ---------- Sequence ----------

// Sequence is an ordered collection, written (a, b). Members may repeat.
type Sequence struct {
	Members []Value
}

// NewSequence creates a sequence from a copy of members.
func NewSequence(members ...Value) *Sequence {
	out := make([]Value, len(members))
	copy(out, members)
	return &Sequence{Members: out}
}

func (*Sequence) valueNode() {}

func (s *Sequence) String() string { return joinMembers("(", s.Members, ")") }

func joinMembers(open string, members []Value, closing string) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return open + strings.Join(parts, ", ") + closing
}

// Members returns the members of a Set or Sequence, and ok=false for scalars.
func Members(v Value) (members []Value, ok bool) {
	switch c := v.(type) {
	case *Set:
		return c.Members, true
	case *Sequence:
		return c.Members, true
	default:
		return nil, false
	}
}
