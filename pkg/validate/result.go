package validate

import (
	"fmt"

	"github.com/leapstack-labs/vtool/pkg/core"
	"github.com/leapstack-labs/vtool/pkg/label"
)

// Result is the outcome of validating one statement or label.
type Result struct {
	Valid       bool
	Diagnostics core.Diagnostics
}

// Pass returns a valid result with no diagnostics.
func Pass() Result { return Result{Valid: true} }

// Merge folds other into r: the verdict is the logical AND and diagnostics
// are appended in order.
func (r *Result) Merge(other Result) {
	r.Valid = r.Valid && other.Valid
	r.Diagnostics = append(r.Diagnostics, other.Diagnostics...)
}

// Emit sends the diagnostics to sink.
func (r Result) Emit(sink core.Sink) {
	for _, d := range r.Diagnostics {
		sink.Report(d)
	}
}

// note records a diagnostic without changing the verdict.
func (r *Result) note(sev core.Severity, code string, pos label.Position, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, core.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		File:     pos.File,
		Context:  pos.Context,
		Line:     pos.Line,
	})
}

// fail records a diagnostic and marks the result invalid.
func (r *Result) fail(sev core.Severity, code string, pos label.Position, format string, args ...any) {
	r.Valid = false
	r.note(sev, code, pos, format, args...)
}
