package validate

import (
	"log/slog"

	"github.com/leapstack-labs/vtool/pkg/core"
	"github.com/leapstack-labs/vtool/pkg/dict"
	"github.com/leapstack-labs/vtool/pkg/label"
	"github.com/leapstack-labs/vtool/pkg/typecheck"
)

// Validator validates whole labels: their statement tree against the
// dictionary and their file characteristics.
type Validator struct {
	dict    *dict.Dictionary
	objects *ObjectValidator
	files   FileCharacteristicValidator
	logger  *slog.Logger
}

// New creates a label validator. A nil registry uses the built-in checkers
// and a nil logger discards.
func New(d *dict.Dictionary, registry *typecheck.Registry, opts Options, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{
		dict:    d,
		objects: NewObjectValidator(d, registry, opts, logger),
		logger:  logger,
	}
}

// Validate checks l and returns the merged result. It returns
// core.ErrNilInput when the dictionary or the label is missing.
func (v *Validator) Validate(l *label.Label) (Result, error) {
	if v == nil || v.dict == nil || l == nil {
		return Result{}, core.ErrNilInput
	}
	v.logger.Debug("validating label", slog.String("file", l.Filename), slog.String("type", l.Type.String()))

	res := v.validateRoot(l)
	res.Merge(v.files.Validate(l))
	return res, nil
}

// ValidateLabel is Validate for callers that want every outcome as a
// result. A nil dictionary or label yields a single nil-input error.
func (v *Validator) ValidateLabel(l *label.Label) Result {
	res, err := v.Validate(l)
	if err != nil {
		res = Pass()
		res.fail(core.SeverityError, core.CodeNilInput, label.Position{}, "%v", err)
	}
	return res
}

// validateRoot checks the top level of the label. When the dictionary
// defines a ROOT object the label is validated as that object; otherwise
// each top-level attribute is looked up without context and each top-level
// object is validated on its own.
func (v *Validator) validateRoot(l *label.Label) Result {
	root := l.Root()
	if _, ok := v.dict.CanonicalObject(label.RootIdentifier); ok {
		return v.objects.validateChild(root, 1)
	}

	res := Pass()
	attrs := root.Attributes()
	label.SortByPosition(attrs)
	for _, attr := range attrs {
		def, ok := v.objects.element(attr.Identifier())
		if !ok {
			err := &core.DefinitionNotFoundError{Kind: core.KindElement, Identifier: attr.Identifier()}
			err.Suggestion, _ = v.dict.SuggestElement(attr.Identifier())
			res.fail(core.SeverityError, core.CodeDefinitionNotFound, attr.Pos(), "%v", err)
			continue
		}
		res.Merge(v.objects.elements.Validate(def, attr))
	}

	objects := root.Objects()
	label.SortByPosition(objects)
	for _, obj := range objects {
		res.Merge(v.objects.validateChild(obj, 1))
	}
	return res
}
