package typecheck

import (
	"regexp"

	"github.com/leapstack-labs/vtool/pkg/core"
)

// text is a string-family checker. A nil pattern accepts any text.
type text struct {
	lengths
	name    string
	pattern *regexp.Regexp
}

func (c *text) Type() string { return c.name }

func (c *text) Cast(s string) (any, error) {
	if c.pattern != nil && !c.pattern.MatchString(s) {
		return nil, &core.InvalidTypeError{Type: c.name, Value: s}
	}
	return s, nil
}

var (
	identifierPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	alphabetPattern     = regexp.MustCompile(`^[A-Za-z\s]*$`)
	alphanumericPattern = regexp.MustCompile(`^[A-Za-z0-9_\s]*$`)
)

// NewCharacter returns the CHARACTER checker, which accepts any text.
func NewCharacter() Checker { return &text{name: TypeCharacter} }

// NewContextDependent returns the CONTEXT_DEPENDENT checker, which accepts any
// text; its meaning is defined by the enclosing object.
func NewContextDependent() Checker { return &text{name: TypeContextDependent} }

// NewIdentifier returns the IDENTIFIER checker: a letter followed by letters,
// digits or underscores.
func NewIdentifier() Checker { return &text{name: TypeIdentifier, pattern: identifierPattern} }

// NewAlphabet returns the ALPHABET checker: letters and whitespace.
func NewAlphabet() Checker { return &text{name: TypeAlphabet, pattern: alphabetPattern} }

// NewAlphanumeric returns the ALPHANUMERIC checker: letters, digits,
// underscores and whitespace.
func NewAlphanumeric() Checker { return &text{name: TypeAlphanumeric, pattern: alphanumericPattern} }
