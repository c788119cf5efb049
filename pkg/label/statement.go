package label

import (
	"fmt"
	"sort"
)

// Position locates a statement in its source.
type Position struct {
	File    string // file the statement was read from
	Context string // file that included File, empty for top-level content
	Line    int    // 1-based; 0 when unknown
}

func (p Position) String() string {
	if p.Line <= 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Statement is one entry of a label's statement tree.
type Statement interface {
	// Identifier returns the statement's identifier as used for dictionary lookup.
	Identifier() string
	// Pos returns where the statement appeared.
	Pos() Position
	stmtNode()
}

// ---------- Attribute ----------

// AttributeStatement is a KEY = VALUE entry, optionally namespaced (NS:KEY).
type AttributeStatement struct {
	Position
	Namespace string
	Element   string
	Value     Value // nil when the parser found no value
}

// NewAttribute creates an attribute statement.
func NewAttribute(pos Position, element string, value Value) *AttributeStatement {
	return &AttributeStatement{Position: pos, Element: element, Value: value}
}

func (*AttributeStatement) stmtNode() {}

// Pos implements Statement.
func (a *AttributeStatement) Pos() Position { return a.Position }

// Identifier returns NS:ELEMENT when namespaced, otherwise ELEMENT.
func (a *AttributeStatement) Identifier() string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Element
	}
	return a.Element
}

// ElementIdentifier returns the identifier without its namespace.
func (a *AttributeStatement) ElementIdentifier() string { return a.Element }

// HasNamespace reports whether a namespace qualifier was given.
func (a *AttributeStatement) HasNamespace() bool { return a.Namespace != "" }

// ---------- Pointer ----------

// PointerStatement is a ^NAME = VALUE entry.
type PointerStatement struct {
	Position
	Name  string
	Value Value
	Kind  PointerKind
}

func (*PointerStatement) stmtNode() {}

// Pos implements Statement.
func (p *PointerStatement) Pos() Position { return p.Position }

// Identifier implements Statement.
func (p *PointerStatement) Identifier() string { return p.Name }

// ---------- Comment ----------

// CommentStatement is a /* ... */ comment.
type CommentStatement struct {
	Position
	Text string
}

func (*CommentStatement) stmtNode() {}

// Pos implements Statement.
func (c *CommentStatement) Pos() Position { return c.Position }

// Identifier implements Statement. Comments have none.
func (c *CommentStatement) Identifier() string { return "" }

// ---------- Object ----------

// ObjectStatement is an OBJECT = NAME ... END_OBJECT block, or a GROUP block
// when Group is set.
type ObjectStatement struct {
	Position
	Name       string
	Group      bool
	Statements []Statement
}

// NewObject creates an object statement.
func NewObject(pos Position, name string, children ...Statement) *ObjectStatement {
	return &ObjectStatement{Position: pos, Name: name, Statements: children}
}

func (*ObjectStatement) stmtNode() {}

// Pos implements Statement.
func (o *ObjectStatement) Pos() Position { return o.Position }

// Identifier implements Statement.
func (o *ObjectStatement) Identifier() string { return o.Name }

// Attributes returns the direct attribute children in source order.
func (o *ObjectStatement) Attributes() []*AttributeStatement {
	var out []*AttributeStatement
	for _, s := range o.Statements {
		if a, ok := s.(*AttributeStatement); ok {
			out = append(out, a)
		}
	}
	return out
}

// Objects returns the direct object children in source order.
func (o *ObjectStatement) Objects() []*ObjectStatement {
	var out []*ObjectStatement
	for _, s := range o.Statements {
		if c, ok := s.(*ObjectStatement); ok {
			out = append(out, c)
		}
	}
	return out
}

// Pointers returns the direct pointer children in source order.
func (o *ObjectStatement) Pointers() []*PointerStatement {
	var out []*PointerStatement
	for _, s := range o.Statements {
		if p, ok := s.(*PointerStatement); ok {
			out = append(out, p)
		}
	}
	return out
}

// Attribute returns the first direct attribute with the given identifier.
func (o *ObjectStatement) Attribute(id string) *AttributeStatement {
	for _, s := range o.Statements {
		if a, ok := s.(*AttributeStatement); ok && a.Identifier() == id {
			return a
		}
	}
	return nil
}

// HasAttribute reports whether a direct attribute with the identifier exists.
func (o *ObjectStatement) HasAttribute(id string) bool {
	return o.Attribute(id) != nil
}

// ObjectsNamed returns the direct object children with the given identifier.
func (o *ObjectStatement) ObjectsNamed(id string) []*ObjectStatement {
	var out []*ObjectStatement
	for _, s := range o.Statements {
		if c, ok := s.(*ObjectStatement); ok && c.Name == id {
			out = append(out, c)
		}
	}
	return out
}

// HasObject reports whether a direct object child with the identifier exists.
func (o *ObjectStatement) HasObject(id string) bool {
	return len(o.ObjectsNamed(id)) > 0
}

// SortByPosition orders statements by file then line. Statements from the
// same position keep their relative order.
func SortByPosition[S Statement](stmts []S) {
	sort.SliceStable(stmts, func(i, j int) bool {
		pi, pj := stmts[i].Pos(), stmts[j].Pos()
		if pi.File != pj.File {
			return pi.File < pj.File
		}
		return pi.Line < pj.Line
	})
}
