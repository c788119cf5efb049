package core

import (
	"errors"
	"fmt"
)

// ErrNilInput is returned when a validation entry point receives a nil
// dictionary or label.
var ErrNilInput = errors.New("nil dictionary or label")

// DefinitionKind names what kind of dictionary definition was looked up.
type DefinitionKind string

// Definition kinds.
const (
	KindElement DefinitionKind = "element"
	KindObject  DefinitionKind = "object"
)

// DefinitionNotFoundError is returned when a dictionary lookup required to
// proceed yields nothing. It aborts validation of only the statement at hand.
type DefinitionNotFoundError struct {
	Kind       DefinitionKind
	Identifier string
	// Suggestion is a close dictionary identifier, empty when none is close.
	Suggestion string
}

func (e *DefinitionNotFoundError) Error() string {
	msg := fmt.Sprintf("undefined element: %s", e.Identifier)
	if e.Kind == KindObject {
		msg = fmt.Sprintf("could not find object definition for %s", e.Identifier)
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}
	return msg
}

// UnsupportedTypeError is returned when no type checker is registered for a
// declared data type.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported data type %q", e.Type)
}

// InvalidTypeError reports text that cannot be cast to the declared type.
type InvalidTypeError struct {
	Type  string
	Value string
	Err   error // optional underlying parse error
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("%q is not a valid %s value", e.Value, e.Type)
}

func (e *InvalidTypeError) Unwrap() error { return e.Err }

// InvalidLengthError reports a textual length outside the declared bounds.
type InvalidLengthError struct {
	Value  string
	Length int
	Limit  int
	Max    bool // true when Limit is a maximum
}

func (e *InvalidLengthError) Error() string {
	if e.Max {
		return fmt.Sprintf("%q exceeds max length of %d (found %d)", e.Value, e.Limit, e.Length)
	}
	return fmt.Sprintf("%q is less than min length of %d (found %d)", e.Value, e.Limit, e.Length)
}

// OutOfRangeError reports a numeric value outside the declared bounds.
type OutOfRangeError struct {
	Value string
	Bound string
	Max   bool // true when Bound is a maximum
}

func (e *OutOfRangeError) Error() string {
	if e.Max {
		return fmt.Sprintf("value %s is greater than the maximum of %s", e.Value, e.Bound)
	}
	return fmt.Sprintf("value %s is less than the minimum of %s", e.Value, e.Bound)
}
