package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vtool/internal/cli/output"
	"github.com/leapstack-labs/vtool/internal/cli/testutil"
	"github.com/leapstack-labs/vtool/internal/config"
	"github.com/leapstack-labs/vtool/internal/engine"
	"github.com/leapstack-labs/vtool/pkg/core"
)

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	assert.Equal(t, "validate [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"dict", "recursive", "include", "exclude", "no-alias", "max-errors",
		"max-depth", "severity", "format", "workers", "watch", "no-history"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.NotNil(t, cmd.Flags().ShorthandLookup("d"))
	assert.NotNil(t, cmd.Flags().ShorthandLookup("w"))
}

func TestNewDictCommand(t *testing.T) {
	cmd := NewDictCommand()

	assert.Equal(t, "dict", cmd.Use)
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"element", "object"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("dict"))
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history [run-id]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("limit"))
	assert.NotNil(t, cmd.Flags().Lookup("severity"))
}

func TestNewTypesCommand(t *testing.T) {
	cmd := NewTypesCommand()

	assert.Equal(t, "types", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}

func TestGetConfig_Defaults(t *testing.T) {
	cfg := GetConfig(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultSeverity, cfg.Severity)

	want := &config.Config{Severity: "error"}
	assert.Same(t, want, GetConfig(WithConfig(context.Background(), want)))
	assert.NotNil(t, GetLogger(context.Background()))
}

func TestRenderValidateResults(t *testing.T) {
	reports := []engine.FileReport{
		{File: "a.lbl", Type: "attached", Valid: true},
		{File: "b.lbl", Type: "detached", Diagnostics: core.Diagnostics{
			{Severity: core.SeverityError, Code: core.CodeMissingRequiredElement, Message: "missing LINES", Line: 4},
			{Severity: core.SeverityInfo, Code: core.CodeManipulatedValue, Message: "matched after filtering", Line: 6},
			{Severity: core.SeverityWarning, Code: core.CodeSuggestedValue, Message: "not suggested", File: "b.fmt", Line: 2},
		}, Truncated: 3},
	}
	summary := engine.Summarize(reports)

	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		require.NoError(t, renderValidateResults(tr.Renderer, reports, summary, core.SeverityWarning, "run-1"))

		out := tr.Output()
		assert.Contains(t, out, "- valid    a.lbl  attached")
		assert.Contains(t, out, "- invalid  b.lbl  detached, 1 error(s)")
		assert.Contains(t, out, "line 4 error   missing-required-element missing LINES")
		assert.Contains(t, out, "b.fmt line 2 warning not-suggested-value")
		assert.NotContains(t, out, "manipulated-value", "below the threshold")
		assert.Contains(t, out, "3 more diagnostic(s) not shown")
		assert.Contains(t, out, "Summary: 2 label(s), 1 valid, 1 invalid, 1 error(s), 1 warning(s)")
		assert.Contains(t, out, "Run: run-1")
		testutil.AssertNoANSI(t, out)
	})

	t.Run("text", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		valid := reports[:1]
		require.NoError(t, renderValidateResults(tr.Renderer, valid, engine.Summarize(valid), core.SeverityDebug, ""))

		out := tr.Output()
		assert.Contains(t, out, "✓ Summary: 1 label(s), 1 valid, 0 invalid")
		assert.NotContains(t, out, "Run:")
	})

	t.Run("json", func(t *testing.T) {
		tr := testutil.NewTestRendererJSON()
		require.NoError(t, renderValidateResults(tr.Renderer, reports, summary, core.SeverityError, ""))
		assert.Contains(t, tr.Output(), `"diagnostics": []`)
		assert.Contains(t, tr.Output(), `"code": "missing-required-element"`)
		assert.NotContains(t, tr.Output(), "not-suggested-value")
	})
}

func TestKeyValue(t *testing.T) {
	md := testutil.NewTestRendererMarkdown()
	keyValue(md.Renderer, "Type", "REAL")
	assert.Equal(t, "- **Type:** REAL\n", md.Output())

	plain := testutil.NewTestRenderer(output.ModeText, false)
	keyValue(plain.Renderer, "Type", "REAL")
	assert.Equal(t, "Type: REAL\n", plain.Output())
}
