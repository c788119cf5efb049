package typecheck

import (
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/vtool/pkg/core"
)

// Data type names understood by the default registry.
const (
	TypeInteger          = "INTEGER"
	TypeNonDecimal       = "NON_DECIMAL"
	TypeReal             = "REAL"
	TypeCharacter        = "CHARACTER"
	TypeIdentifier       = "IDENTIFIER"
	TypeAlphabet         = "ALPHABET"
	TypeAlphanumeric     = "ALPHANUMERIC"
	TypeContextDependent = "CONTEXT_DEPENDENT"
	TypeDate             = "DATE"
	TypeTime             = "TIME"
)

// Checker casts and length-checks values of one data type.
type Checker interface {
	// Type returns the data type name the checker handles.
	Type() string
	// Cast parses text into the type's semantic representation. It returns a
	// *core.InvalidTypeError when the text is not a value of the type.
	Cast(text string) (any, error)
	// CheckMinLength returns a *core.InvalidLengthError when text is shorter
	// than min characters. A min <= 0 always passes.
	CheckMinLength(text string, min int) error
	// CheckMaxLength returns a *core.InvalidLengthError when text is longer
	// than max characters. A max <= 0 means unbounded.
	CheckMaxLength(text string, max int) error
}

// NumericChecker is a Checker whose cast values are Numbers with an ordering.
type NumericChecker interface {
	Checker
	// ParseBound parses a dictionary minimum or maximum.
	ParseBound(text string) (*apd.Decimal, error)
	// CheckMinValue returns a *core.OutOfRangeError when v < bound.
	CheckMinValue(v Number, bound *apd.Decimal) error
	// CheckMaxValue returns a *core.OutOfRangeError when v > bound.
	CheckMaxValue(v Number, bound *apd.Decimal) error
}

// lengths implements the length checks shared by every checker.
type lengths struct{}

func (lengths) CheckMinLength(text string, min int) error {
	if min <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(text); n < min {
		return &core.InvalidLengthError{Value: text, Length: n, Limit: min}
	}
	return nil
}

func (lengths) CheckMaxLength(text string, max int) error {
	if max <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(text); n > max {
		return &core.InvalidLengthError{Value: text, Length: n, Limit: max, Max: true}
	}
	return nil
}
