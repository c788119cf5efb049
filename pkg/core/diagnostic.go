package core

import (
	"fmt"
	"sort"
)

// Finding codes. Each Diagnostic carries one so reports and tests can match on
// a stable identifier instead of message text.
const (
	CodeDefinitionNotFound     = "definition-not-found"
	CodeUnsupportedType        = "unsupported-type"
	CodeNamespaceLength        = "namespace-too-long"
	CodeIdentifierLength       = "identifier-too-long"
	CodeMissingValue           = "missing-value"
	CodeInvalidValue           = "invalid-value"
	CodeSuggestedValue         = "not-suggested-value"
	CodeManipulatedValue       = "manipulated-value"
	CodeInvalidType            = "invalid-type"
	CodeInvalidLength          = "invalid-length"
	CodeOutOfRange             = "out-of-range"
	CodeUnitsNotExpected       = "units-not-expected"
	CodeUnitsNotAllowed        = "units-not-allowed"
	CodeMissingRequiredElement = "missing-required-element"
	CodeMissingRequiredObject  = "missing-required-object"
	CodeUnexpectedElement      = "unexpected-element"
	CodeUnexpectedObject       = "unexpected-object"
	CodeMaxDepth               = "max-depth-exceeded"
	CodeFileCharacteristics    = "file-characteristics"
	CodeMissingFileElement     = "missing-file-element"
	CodeParse                  = "parse-error"
	CodeNilInput               = "nil-input"
)

// Diagnostic is one validation finding. Diagnostics are collected, never thrown,
// so a run always completes with a full report.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	Context  string   `json:"context,omitempty"` // file that referenced File, for included content
	Line     int      `json:"line,omitempty"`    // 0 when unknown
}

// String renders the diagnostic as "file:line: severity: message".
func (d Diagnostic) String() string {
	loc := d.File
	if loc == "" {
		loc = "-"
	}
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, d.Line)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Severity, d.Message)
}

// Diagnostics is an ordered list of findings.
type Diagnostics []Diagnostic

// Count returns how many diagnostics have the given severity.
func (ds Diagnostics) Count(sev Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any diagnostic is an error.
func (ds Diagnostics) HasErrors() bool {
	return ds.Count(SeverityError) > 0
}

// AtLeast returns the diagnostics at or above the given severity threshold.
func (ds Diagnostics) AtLeast(threshold Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity <= threshold {
			out = append(out, d)
		}
	}
	return out
}

// WithCode returns the diagnostics carrying the given code.
func (ds Diagnostics) WithCode(code string) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// SortByPosition orders diagnostics by file then line, keeping emission order for ties.
func (ds Diagnostics) SortByPosition() {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].File != ds[j].File {
			return ds[i].File < ds[j].File
		}
		return ds[i].Line < ds[j].Line
	})
}
