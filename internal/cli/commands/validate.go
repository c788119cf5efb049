package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/vtool/internal/cli/output"
	"github.com/leapstack-labs/vtool/internal/engine"
	"github.com/leapstack-labs/vtool/internal/state"
	"github.com/leapstack-labs/vtool/pkg/core"
)

// ErrInvalidLabels is returned when at least one label failed validation.
var ErrInvalidLabels = errors.New("invalid labels found")

// ValidateOptions holds options for the validate command that are not part
// of the layered configuration.
type ValidateOptions struct {
	Watch     bool
	NoHistory bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Validate PDS labels against data dictionaries",
		Long: `Validate PDS label files against one or more data dictionaries.

Paths may be label files, directories or glob patterns. Directories are
scanned for files matching the include patterns (default *.lbl and *.LBL).

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format

Exits with status 1 when any label is invalid.`,
		Example: `  # Validate every label in the current directory
  vtool validate --dict pdsdd.yaml

  # Recurse and skip scratch directories
  vtool validate -r --exclude "**/tmp/**" ./volume

  # Only report errors, as JSON
  vtool validate --severity error --format json a.lbl b.lbl

  # Re-validate labels as they change
  vtool validate --watch -r ./volume`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringSliceP("dict", "d", nil, "Data dictionary files (repeatable or comma separated)")
	f.BoolP("recursive", "r", false, "Descend into subdirectories")
	f.StringSliceP("include", "e", nil, "Patterns selecting label files in directories")
	f.StringSliceP("exclude", "X", nil, "Patterns excluding files and directories")
	f.Bool("no-alias", false, "Disable element and object aliases")
	f.IntP("max-errors", "m", 0, "Maximum diagnostics kept per label (0 keeps all)")
	f.Int("max-depth", 0, "Maximum object nesting depth")
	f.String("severity", "", "Minimum severity reported: error, warning, info, debug")
	f.StringP("format", "f", "", "Output format: auto, text, markdown, json")
	f.Int("workers", 0, "Concurrent validations (default GOMAXPROCS)")
	f.BoolVarP(&opts.Watch, "watch", "w", false, "Re-validate labels when they change")
	f.BoolVar(&opts.NoHistory, "no-history", false, "Do not record this run in the history database")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "debug"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	discovery := engine.DiscoveryOptions{
		Recursive: cfg.Recursive,
		Include:   cfg.Include,
		Exclude:   cfg.Exclude,
	}
	files, err := engine.Discover(paths, discovery)
	if err != nil {
		return err
	}

	var store *state.SQLiteStore
	if !opts.NoHistory {
		store, err = cmdCtx.OpenStore()
		if err != nil {
			return err
		}
		if store != nil {
			defer func() { _ = store.Close() }()
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var summary engine.Summary
	if len(files) == 0 {
		cmdCtx.Renderer.Warning("no label files found")
	} else if summary, err = validateBatch(ctx, cmdCtx, store, files); err != nil {
		return err
	}

	if opts.Watch {
		return watchLabels(ctx, cmdCtx, store, paths, discovery)
	}
	if summary.Invalid > 0 {
		return ErrInvalidLabels
	}
	return nil
}

// validateBatch validates files, then records and renders the results.
func validateBatch(ctx context.Context, cmdCtx *CommandContext, store *state.SQLiteStore, files []string) (engine.Summary, error) {
	reports, runErr := cmdCtx.Engine.ValidateFiles(ctx, files)
	return reportBatch(ctx, cmdCtx, store, reports, runErr)
}

// reportBatch records a batch of reports as one run, when history is
// enabled, and renders them.
func reportBatch(ctx context.Context, cmdCtx *CommandContext, store *state.SQLiteStore, reports []engine.FileReport, runErr error) (engine.Summary, error) {
	summary := engine.Summarize(reports)

	runID := ""
	if store != nil {
		// History writes ignore cancellation so interrupted runs are still recorded.
		hctx := context.WithoutCancel(ctx)
		run, err := store.CreateRun(hctx, cmdCtx.Cfg.Dictionaries)
		if err != nil {
			return summary, err
		}
		runID = run.ID
		if err := recordRun(hctx, store, run.ID, reports, summary, runErr); err != nil {
			cmdCtx.Logger.Warn("failed to record run", "run", run.ID, "error", err)
		}
	}

	if err := renderValidateResults(cmdCtx.Renderer, reports, summary, cmdCtx.Cfg.SeverityThreshold(), runID); err != nil {
		return summary, err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return summary, runErr
	}
	return summary, nil
}

func recordRun(ctx context.Context, store *state.SQLiteStore, runID string, reports []engine.FileReport, summary engine.Summary, runErr error) error {
	for _, r := range reports {
		rec := state.LabelRecord{
			RunID:     runID,
			File:      r.File,
			LabelType: r.Type,
			Valid:     r.Valid,
			Truncated: r.Truncated,
		}
		if err := store.SaveReport(ctx, rec, r.Diagnostics); err != nil {
			return err
		}
	}

	status, msg := state.RunStatusCompleted, ""
	switch {
	case errors.Is(runErr, context.Canceled):
		status = state.RunStatusCancelled
	case runErr != nil:
		status, msg = state.RunStatusFailed, runErr.Error()
	}
	return store.CompleteRun(ctx, runID, status, state.Totals{
		Labels:      summary.Files,
		ValidLabels: summary.Valid,
		Errors:      summary.Errors,
		Warnings:    summary.Warnings,
	}, msg)
}

// watchLabels re-validates changed labels under the directory arguments
// until ctx is cancelled.
func watchLabels(ctx context.Context, cmdCtx *CommandContext, store *state.SQLiteStore, paths []string, discovery engine.DiscoveryOptions) error {
	var dirs []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs = append(dirs, p)
		}
	}
	if len(dirs) == 0 {
		return fmt.Errorf("watch mode needs at least one directory argument")
	}

	cmdCtx.Renderer.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", strings.Join(dirs, ", ")))
	err := cmdCtx.Engine.Watch(ctx, dirs, discovery, engine.DefaultDebounce, func(ctx context.Context, reports []engine.FileReport) {
		if _, err := reportBatch(ctx, cmdCtx, store, reports, nil); err != nil {
			cmdCtx.Logger.Warn("watch batch failed", "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ValidateOutput is the JSON document of a validation run.
type ValidateOutput struct {
	RunID   string         `json:"run_id,omitempty"`
	Files   []FileOutput   `json:"files"`
	Summary engine.Summary `json:"summary"`
}

// FileOutput is one label's result in JSON output.
type FileOutput struct {
	File        string           `json:"file"`
	LabelType   string           `json:"label_type,omitempty"`
	Valid       bool             `json:"valid"`
	Diagnostics core.Diagnostics `json:"diagnostics"`
	Truncated   int              `json:"truncated,omitempty"`
}

func renderValidateResults(r *output.Renderer, reports []engine.FileReport, summary engine.Summary, threshold core.Severity, runID string) error {
	if r.EffectiveMode() == output.ModeJSON {
		out := ValidateOutput{RunID: runID, Files: make([]FileOutput, 0, len(reports)), Summary: summary}
		for _, rep := range reports {
			diags := rep.Diagnostics.AtLeast(threshold)
			if diags == nil {
				diags = core.Diagnostics{}
			}
			out.Files = append(out.Files, FileOutput{
				File:        rep.File,
				LabelType:   rep.Type,
				Valid:       rep.Valid,
				Diagnostics: diags,
				Truncated:   rep.Truncated,
			})
		}
		return r.JSON(out)
	}

	styles := r.Styles()
	for _, rep := range reports {
		diags := rep.Diagnostics.AtLeast(threshold)
		status := "valid"
		if !rep.Valid {
			status = "invalid"
		}
		detail := rep.Type
		if n := diags.Count(core.SeverityError); n > 0 {
			detail = fmt.Sprintf("%s, %d error(s)", detail, n)
		}
		r.StatusLine(rep.File, status, strings.TrimPrefix(detail, ", "))

		for _, d := range diags {
			sevStyle := styles.Info
			switch d.Severity {
			case core.SeverityError:
				sevStyle = styles.Error
			case core.SeverityWarning:
				sevStyle = styles.Warning
			case core.SeverityDebug:
				sevStyle = styles.Muted
			}
			loc := ""
			if d.Line > 0 {
				loc = fmt.Sprintf("line %d ", d.Line)
			}
			if d.File != "" && d.File != rep.File {
				loc = d.File + " " + loc
			}
			r.Printf("    %s%s %s %s\n",
				styles.Muted.Render(loc),
				sevStyle.Render(fmt.Sprintf("%-7s", d.Severity)),
				styles.Muted.Render(d.Code),
				d.Message)
		}
		if rep.Truncated > 0 {
			r.Muted(fmt.Sprintf("    ... %d more diagnostic(s) not shown", rep.Truncated))
		}
	}

	r.Println()
	line := fmt.Sprintf("Summary: %d label(s), %d valid, %d invalid, %d error(s), %d warning(s)",
		summary.Files, summary.Valid, summary.Invalid, summary.Errors, summary.Warnings)
	if summary.Invalid == 0 {
		r.Success(line)
	} else {
		r.Println(styles.Bold.Render(line))
	}
	if runID != "" {
		r.Muted("Run: " + runID)
	}
	return nil
}
