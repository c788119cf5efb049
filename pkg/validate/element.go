package validate

import (
	"errors"

	"github.com/leapstack-labs/vtool/pkg/core"
	"github.com/leapstack-labs/vtool/pkg/dict"
	"github.com/leapstack-labs/vtool/pkg/label"
	"github.com/leapstack-labs/vtool/pkg/typecheck"
)

// Identifier limits.
const (
	MaxNamespaceLength  = 30
	MaxIdentifierLength = 30
)

// ElementValidator checks attribute values against element definitions.
type ElementValidator struct {
	registry *typecheck.Registry
}

// NewElementValidator creates an element validator. A nil registry uses the
// built-in checkers.
func NewElementValidator(registry *typecheck.Registry) *ElementValidator {
	if registry == nil {
		registry = typecheck.NewRegistry()
	}
	return &ElementValidator{registry: registry}
}

// ValidateInContext looks the attribute up as it appears inside the object
// identified by object, then validates it. A missing definition returns a
// *core.DefinitionNotFoundError.
func (v *ElementValidator) ValidateInContext(d *dict.Dictionary, object string, attr *label.AttributeStatement) (Result, error) {
	def, ok := d.ElementInContext(object, attr.Identifier())
	if !ok {
		return Result{}, &core.DefinitionNotFoundError{Kind: core.KindElement, Identifier: attr.Identifier()}
	}
	return v.Validate(def, attr), nil
}

// ValidateUnscoped is ValidateInContext without an enclosing object.
func (v *ElementValidator) ValidateUnscoped(d *dict.Dictionary, attr *label.AttributeStatement) (Result, error) {
	return v.ValidateInContext(d, "", attr)
}

// Validate checks one attribute against def. Every check runs; any failure
// makes the result invalid.
func (v *ElementValidator) Validate(def *dict.ElementDefinition, attr *label.AttributeStatement) Result {
	res := Pass()
	pos := attr.Pos()

	if attr.HasNamespace() && len(attr.Namespace) > MaxNamespaceLength {
		res.fail(core.SeverityError, core.CodeNamespaceLength, pos,
			"namespace %s exceeds max length of %d characters", attr.Namespace, MaxNamespaceLength)
	}
	if len(attr.ElementIdentifier()) > MaxIdentifierLength {
		res.fail(core.SeverityError, core.CodeIdentifierLength, pos,
			"identifier %s exceeds max length of %d characters", attr.ElementIdentifier(), MaxIdentifierLength)
	}

	checker, err := v.registry.Lookup(def.DataType)
	if err != nil {
		res.fail(core.SeverityError, core.CodeUnsupportedType, pos, "%s: %v", attr.Identifier(), err)
		return res
	}

	res.Merge(v.validateValue(def, attr, checker, attr.Value))
	return res
}

func (v *ElementValidator) validateValue(def *dict.ElementDefinition, attr *label.AttributeStatement, checker typecheck.Checker, value label.Value) Result {
	res := Pass()
	pos := attr.Pos()

	if value == nil {
		res.note(core.SeverityWarning, core.CodeMissingValue, pos, "found no value for %s", attr.Identifier())
		return res
	}
	if members, ok := label.Members(value); ok {
		for _, m := range members {
			res.Merge(v.validateValue(def, attr, checker, m))
		}
		return res
	}

	text := value.String()
	if dict.IsNoData(text) {
		return res
	}

	if def.HasValidValues() {
		checkValidValue(&res, def, attr, text)
	}

	cast, err := checker.Cast(text)
	if err != nil {
		res.fail(core.SeverityError, core.CodeInvalidType, pos, "%s: %v", attr.Identifier(), err)
	}
	if err := checker.CheckMinLength(text, def.MinLength); err != nil {
		res.fail(core.SeverityError, core.CodeInvalidLength, pos, "%s: %v", attr.Identifier(), err)
	}
	if err := checker.CheckMaxLength(text, def.MaxLength); err != nil {
		res.fail(core.SeverityError, core.CodeInvalidLength, pos, "%s: %v", attr.Identifier(), err)
	}

	numeric, isNumeric := checker.(typecheck.NumericChecker)
	number, isNumber := cast.(typecheck.Number)
	if !isNumeric || !isNumber {
		return res
	}

	if def.HasMinimum() {
		checkBound(&res, numeric, attr, number, *def.Minimum, false)
	}
	if def.HasMaximum() {
		checkBound(&res, numeric, attr, number, *def.Maximum, true)
	}

	if n, ok := value.(*label.Numeric); ok && n.HasUnits() && !dict.IsNoData(def.UnitID) {
		switch {
		case def.UnitID == dict.UnitNone:
			res.note(core.SeverityWarning, core.CodeUnitsNotExpected, pos,
				"units specified for %s when none should be present, found %s", attr.ElementIdentifier(), n.Units)
		case !def.IsUnitAllowed(n.Units):
			res.fail(core.SeverityError, core.CodeUnitsNotAllowed, pos,
				"units do not match those specified for %s by dictionary, found %s", attr.ElementIdentifier(), n.Units)
		}
	}
	return res
}

// checkValidValue matches text against the valid-value list exactly, then
// after stripping new lines, then after collapsing whitespace.
func checkValidValue(res *Result, def *dict.ElementDefinition, attr *label.AttributeStatement, text string) {
	if def.IsValidValue(text) {
		return
	}
	pos := attr.Pos()
	stripped := StripNewLines(text)
	if def.IsValidValue(stripped) || def.IsValidValue(FilterString(stripped)) {
		res.note(core.SeverityInfo, core.CodeManipulatedValue, pos,
			"manipulated value for %s to find valid value", attr.Identifier())
		return
	}
	if def.IsStatic() {
		res.fail(core.SeverityError, core.CodeInvalidValue, pos,
			"%s is not in the list of valid values for %s", text, attr.Identifier())
		return
	}
	res.fail(core.SeverityWarning, core.CodeSuggestedValue, pos,
		"%s is not in the suggested list of valid values for %s", text, attr.Identifier())
}

func checkBound(res *Result, checker typecheck.NumericChecker, attr *label.AttributeStatement, n typecheck.Number, boundText string, isMax bool) {
	pos := attr.Pos()
	bound, err := checker.ParseBound(boundText)
	if err != nil {
		res.note(core.SeverityWarning, core.CodeOutOfRange, pos,
			"cannot check range of %s: dictionary %v", attr.Identifier(), err)
		return
	}
	if isMax {
		err = checker.CheckMaxValue(n, bound)
	} else {
		err = checker.CheckMinValue(n, bound)
	}
	var oor *core.OutOfRangeError
	if errors.As(err, &oor) {
		res.fail(core.SeverityError, core.CodeOutOfRange, pos, "%s: %v", attr.Identifier(), err)
	}
}
