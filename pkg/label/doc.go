// Package label models a parsed PDS label: the value variants on the right-hand
// side of a statement, the statement tree itself, pointer classification, and
// the label aggregate with its topology.
//
// Both hierarchies are closed: Value is implemented only by *Scalar, *Numeric,
// *Set and *Sequence; Statement only by *AttributeStatement, *ObjectStatement,
// *PointerStatement and *CommentStatement. Consumers switch on the concrete
// type and the marker methods keep outside packages from adding variants.
//
// Trees are built once by a parser and treated as read-only afterwards.
package label
