package label

// LabelType is the topology of a label relative to its data.
type LabelType int

// Label topologies.
const (
	LabelUndefined LabelType = iota
	LabelAttached
	LabelDetached
	LabelCombinedDetached
)

func (t LabelType) String() string {
	switch t {
	case LabelAttached:
		return "attached"
	case LabelDetached:
		return "detached"
	case LabelCombinedDetached:
		return "combined-detached"
	default:
		return "undefined"
	}
}

// RootIdentifier names the synthetic object that holds a label's top-level statements.
const RootIdentifier = "ROOT"

// Label is the root of a parsed statement tree.
type Label struct {
	Filename   string
	Type       LabelType
	Statements []Statement
	Comments   []*CommentStatement
}

// Root exposes the top-level statements as an object named ROOT so the object
// validator can treat the label like any other container.
func (l *Label) Root() *ObjectStatement {
	return &ObjectStatement{
		Position:   Position{File: l.Filename, Line: 1},
		Name:       RootIdentifier,
		Statements: l.Statements,
	}
}

// Attribute returns the first top-level attribute with the identifier, or nil.
func (l *Label) Attribute(id string) *AttributeStatement {
	return l.Root().Attribute(id)
}

// Attributes returns the top-level attributes.
func (l *Label) Attributes() []*AttributeStatement {
	return l.Root().Attributes()
}

// Objects returns the top-level objects with the identifier.
func (l *Label) Objects(id string) []*ObjectStatement {
	return l.Root().ObjectsNamed(id)
}

// Pointers returns the top-level pointers.
func (l *Label) Pointers() []*PointerStatement {
	return l.Root().Pointers()
}

// Find returns the first statement with the identifier, searching depth-first
// through nested objects.
func (l *Label) Find(id string) Statement {
	return find(l.Statements, id)
}

func find(stmts []Statement, id string) Statement {
	for _, s := range stmts {
		if s.Identifier() == id {
			return s
		}
		if o, ok := s.(*ObjectStatement); ok {
			if found := find(o.Statements, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// InferType derives the label topology from its top-level content:
// FILE objects make it combined-detached, a data pointer naming another file
// makes it detached, and a data pointer holding a record offset makes it
// attached. Anything else is undefined.
func InferType(l *Label) LabelType {
	if len(l.Objects("FILE")) > 0 {
		return LabelCombinedDetached
	}
	attached := false
	for _, p := range l.Pointers() {
		if p.Kind != PointerDataLocation {
			continue
		}
		if _, ok := p.TargetFile(); ok {
			return LabelDetached
		}
		switch p.Value.(type) {
		case *Numeric, *Scalar:
			attached = true
		}
	}
	if attached {
		return LabelAttached
	}
	return LabelUndefined
}
