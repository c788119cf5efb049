// Package typecheck implements the per-data-type checkers used by element
// validation. A checker casts the raw text of a value to its semantic form and
// checks textual length; numeric checkers additionally check value ranges.
//
// Checkers are obtained from a Registry keyed by the declared data type name.
// The registry is an ordinary value: construct one with NewRegistry and pass
// it to the validators that need it.
package typecheck
