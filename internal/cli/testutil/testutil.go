// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/vtool/internal/cli/output"
)

// Dictionary is a small data dictionary covering the fixture labels.
const Dictionary = `
elements:
  - identifier: PDS_VERSION_ID
    type: IDENTIFIER
  - identifier: RECORD_TYPE
    type: IDENTIFIER
    value_type: STATIC
    values: [FIXED_LENGTH, VARIABLE_LENGTH, STREAM, UNDEFINED]
  - identifier: RECORD_BYTES
    type: INTEGER
  - identifier: FILE_RECORDS
    type: INTEGER
  - identifier: LABEL_RECORDS
    type: INTEGER
  - identifier: LINES
    type: INTEGER
    minimum: 1
    aliases: [IMAGE.IMAGE_LINES]
  - identifier: LINE_SAMPLES
    type: INTEGER
objects:
  - identifier: IMAGE
    required_elements: [LINES]
    optional_elements: [LINE_SAMPLES]
`

// ValidLabel is an attached label that passes against Dictionary.
const ValidLabel = `PDS_VERSION_ID = PDS3
RECORD_TYPE = FIXED_LENGTH
RECORD_BYTES = 80
FILE_RECORDS = 100
LABEL_RECORDS = 2
^IMAGE = 3
OBJECT = IMAGE
  LINES = 800
  LINE_SAMPLES = 800
END_OBJECT = IMAGE
END
`

// InvalidLabel lacks the required LINES element and has a bad integer.
const InvalidLabel = `PDS_VERSION_ID = PDS3
RECORD_TYPE = FIXED_LENGTH
RECORD_BYTES = 80
FILE_RECORDS = 100
LABEL_RECORDS = 2
^IMAGE = 3
OBJECT = IMAGE
  LINE_SAMPLES = "x"
END_OBJECT = IMAGE
END
`

// SetupTestProject creates a temporary project holding a vtool.yaml, the
// fixture dictionary and a labels directory with one valid and one invalid
// label. It returns the project root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	labels := filepath.Join(tmpDir, "labels")
	if err := os.MkdirAll(labels, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", labels, err)
	}

	files := map[string]string{
		filepath.Join(tmpDir, "pdsdd.yaml"): Dictionary,
		filepath.Join(tmpDir, "vtool.yaml"): "dictionaries: [pdsdd.yaml]\nstate_path: .vtool/history.db\n",
		filepath.Join(labels, "good.lbl"):   ValidLabel,
		filepath.Join(labels, "bad.lbl"):    InvalidLabel,
		filepath.Join(labels, "README.txt"): "not a label",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the given mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
