package validate

import (
	"log/slog"
	"slices"

	"github.com/leapstack-labs/vtool/pkg/core"
	"github.com/leapstack-labs/vtool/pkg/dict"
	"github.com/leapstack-labs/vtool/pkg/label"
	"github.com/leapstack-labs/vtool/pkg/typecheck"
)

// DefaultMaxDepth is the default object nesting limit.
const DefaultMaxDepth = 64

// Options tune object validation.
type Options struct {
	// Aliasing enables every alias fallback: element and object aliases,
	// scoped and unscoped. When false only canonical identifiers match.
	Aliasing bool
	// MaxDepth limits object nesting; deeper objects are reported and not
	// descended into. Values <= 0 use DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns aliasing enabled and the default depth limit.
func DefaultOptions() Options {
	return Options{Aliasing: true, MaxDepth: DefaultMaxDepth}
}

// ObjectValidator checks object statements, and everything nested in them,
// against object definitions.
type ObjectValidator struct {
	dict     *dict.Dictionary
	elements *ElementValidator
	opts     Options
	logger   *slog.Logger
}

// NewObjectValidator creates an object validator. A nil registry uses the
// built-in checkers and a nil logger discards.
func NewObjectValidator(d *dict.Dictionary, registry *typecheck.Registry, opts Options, logger *slog.Logger) *ObjectValidator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &ObjectValidator{
		dict:     d,
		elements: NewElementValidator(registry),
		opts:     opts,
		logger:   logger,
	}
}

// Validate checks obj and its whole subtree. It returns a
// *core.DefinitionNotFoundError when obj itself has no definition; missing
// definitions of nested objects are reported as diagnostics instead.
func (v *ObjectValidator) Validate(obj *label.ObjectStatement) (Result, error) {
	return v.validate(obj, 1)
}

func (v *ObjectValidator) validate(obj *label.ObjectStatement, depth int) (Result, error) {
	if depth > v.opts.MaxDepth {
		res := Pass()
		res.fail(core.SeverityError, core.CodeMaxDepth, obj.Pos(),
			"object %s is nested deeper than %d levels and was not validated", obj.Name, v.opts.MaxDepth)
		return res, nil
	}

	def, ok := v.object(obj.Name)
	if !ok {
		return Result{}, &core.DefinitionNotFoundError{Kind: core.KindObject, Identifier: obj.Name}
	}
	v.logger.Debug("validating object", slog.String("object", obj.Name),
		slog.String("definition", def.Identifier), slog.Int("depth", depth))

	res := Pass()
	v.checkRequiredElements(&res, def, obj)
	v.checkAttributes(&res, def, obj)
	v.checkRequiredObjects(&res, def, obj)
	v.checkObjects(&res, def, obj, depth)
	return res, nil
}

func (v *ObjectValidator) checkRequiredElements(res *Result, def *dict.ObjectDefinition, obj *label.ObjectStatement) {
	for _, required := range def.RequiredElements {
		if obj.HasAttribute(required) || v.requiredElementAliased(def, obj, required) {
			continue
		}
		res.fail(core.SeverityError, core.CodeMissingRequiredElement, obj.Pos(),
			"object %s does not contain required element %s", obj.Name, required)
	}
}

// requiredElementAliased reports whether obj carries an alias of the
// required element scoped to this object.
func (v *ObjectValidator) requiredElementAliased(def *dict.ObjectDefinition, obj *label.ObjectStatement, required string) bool {
	if !v.opts.Aliasing {
		return false
	}
	elem, ok := v.dict.Element(required)
	if !ok {
		return false
	}
	allowed := scopes(def, obj)
	for _, alias := range elem.Aliases {
		if !slices.Contains(allowed, alias.Object) {
			continue
		}
		if obj.HasAttribute(alias.Identifier) {
			return true
		}
	}
	return false
}

func (v *ObjectValidator) checkAttributes(res *Result, def *dict.ObjectDefinition, obj *label.ObjectStatement) {
	attrs := obj.Attributes()
	label.SortByPosition(attrs)
	for _, attr := range attrs {
		id := attr.Identifier()
		elem, found := v.element(id, scopes(def, obj)...)

		if !def.IsElementPossible(id) && (!found || !def.IsElementPossible(elem.Identifier)) {
			res.fail(core.SeverityError, core.CodeUnexpectedElement, attr.Pos(),
				"object %s contains the element %s which is neither required nor optional", obj.Name, id)
		}

		if !found {
			err := &core.DefinitionNotFoundError{Kind: core.KindElement, Identifier: id}
			err.Suggestion, _ = v.dict.SuggestElement(id)
			res.fail(core.SeverityError, core.CodeDefinitionNotFound, attr.Pos(), "%v", err)
			continue
		}
		res.Merge(v.elements.Validate(elem, attr))
	}
}

func (v *ObjectValidator) checkRequiredObjects(res *Result, def *dict.ObjectDefinition, obj *label.ObjectStatement) {
	for _, required := range def.RequiredObjects {
		if obj.HasObject(required) || v.requiredObjectAliased(obj, required) {
			continue
		}
		res.fail(core.SeverityError, core.CodeMissingRequiredObject, obj.Pos(),
			"object %s does not contain required object %s", obj.Name, required)
	}
}

// requiredObjectAliased reports whether any alias of the required object is
// present as a direct child. Object aliases are not scoped.
func (v *ObjectValidator) requiredObjectAliased(obj *label.ObjectStatement, required string) bool {
	if !v.opts.Aliasing {
		return false
	}
	def, ok := v.dict.CanonicalObject(required)
	if !ok {
		return false
	}
	for _, alias := range def.Aliases {
		if obj.HasObject(alias) {
			return true
		}
	}
	return false
}

func (v *ObjectValidator) checkObjects(res *Result, def *dict.ObjectDefinition, obj *label.ObjectStatement, depth int) {
	children := obj.Objects()
	label.SortByPosition(children)
	for _, child := range children {
		if !def.IsObjectPossible(child.Name) {
			childDef, ok := v.object(child.Name)
			if !ok || !def.IsObjectPossible(childDef.Identifier) {
				res.fail(core.SeverityError, core.CodeUnexpectedObject, child.Pos(),
					"object %s contains the object %s which is neither required nor optional", obj.Name, child.Name)
			}
		}
		res.Merge(v.validateChild(child, depth+1))
	}
}

// validateChild validates a nested object, turning a missing definition into
// a diagnostic so siblings are still checked.
func (v *ObjectValidator) validateChild(child *label.ObjectStatement, depth int) Result {
	childRes, err := v.validate(child, depth)
	if err == nil {
		return childRes
	}
	res := Pass()
	res.fail(core.SeverityError, core.CodeDefinitionNotFound, child.Pos(), "%v", err)
	return res
}

// element resolves an attribute identifier, honoring the aliasing option.
// Scoped aliases are tried against each scope in turn: the governing
// definition and, for generic classes, the statement name. With no scopes
// only canonical identifiers and unscoped aliases match.
func (v *ObjectValidator) element(id string, scopes ...string) (*dict.ElementDefinition, bool) {
	if !v.opts.Aliasing {
		return v.dict.CanonicalElement(id)
	}
	if len(scopes) == 0 {
		return v.dict.Element(id)
	}
	for _, scope := range scopes {
		if elem, ok := v.dict.ElementInContext(scope, id); ok {
			return elem, true
		}
	}
	return nil, false
}

// scopes lists the object identifiers a scoped alias inside obj may name.
func scopes(def *dict.ObjectDefinition, obj *label.ObjectStatement) []string {
	if obj.Name == def.Identifier {
		return []string{def.Identifier}
	}
	return []string{def.Identifier, obj.Name}
}

// object resolves the definition governing an object statement name,
// honoring the aliasing option.
func (v *ObjectValidator) object(name string) (*dict.ObjectDefinition, bool) {
	if v.opts.Aliasing {
		return v.dict.ObjectClass(name)
	}
	return v.dict.CanonicalObjectClass(name)
}
