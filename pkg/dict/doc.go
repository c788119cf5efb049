// Package dict holds the data dictionary against which labels are validated:
// element definitions (data type, bounds, units, valid values), object
// definitions (required and optional membership) and their aliases.
//
// A Dictionary is built once and only read afterwards, so it may be shared by
// concurrent validations without locking.
package dict
