package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/vtool/internal/cli/output"
	"github.com/leapstack-labs/vtool/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		limit  int
		remove bool
	)
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded validation runs",
		Long: `List recent validation runs from the history database, or show the
labels and findings of one run.`,
		Example: `  # Last runs
  vtool history --limit 5

  # Findings of one run, errors only
  vtool history 7f3c... --severity error

  # Forget a run
  vtool history 7f3c... --delete`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			store, err := cmdCtx.requireStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			switch {
			case remove && len(args) == 0:
				return fmt.Errorf("--delete needs a run id")
			case remove:
				if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
					return err
				}
				cmdCtx.Renderer.Success("Deleted run " + args[0])
				return nil
			case len(args) == 1:
				return showRun(cmd, cmdCtx, store, args[0])
			}
			return listRuns(cmd, cmdCtx, store, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list (0 lists all)")
	cmd.Flags().String("severity", "", "Minimum severity of findings shown: error, warning, info, debug")
	cmd.Flags().BoolVar(&remove, "delete", false, "Delete the given run instead of showing it")
	return cmd
}

func listRuns(cmd *cobra.Command, cmdCtx *CommandContext, store *state.SQLiteStore, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []*state.Run{}
		}
		return r.JSON(map[string]any{"runs": runs})
	}
	if len(runs) == 0 {
		r.Muted("No runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			string(run.Status),
			fmt.Sprintf("%d/%d", run.ValidLabels, run.Labels),
			fmt.Sprint(run.Errors),
			fmt.Sprint(run.Warnings),
		})
	}
	r.Header(2, "Validation runs")
	r.Table([]string{"Run", "Started", "Status", "Valid", "Errors", "Warnings"}, rows)
	return nil
}

// RunOutput is the JSON document of one recorded run.
type RunOutput struct {
	Run      *state.Run          `json:"run"`
	Labels   []state.LabelRecord `json:"labels"`
	Findings []state.Finding     `json:"findings"`
}

func showRun(cmd *cobra.Command, cmdCtx *CommandContext, store *state.SQLiteStore, id string) error {
	ctx := cmd.Context()
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	labels, err := store.Labels(ctx, id)
	if err != nil {
		return err
	}
	findings, err := store.Findings(ctx, id, cmdCtx.Cfg.SeverityThreshold())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if labels == nil {
			labels = []state.LabelRecord{}
		}
		if findings == nil {
			findings = []state.Finding{}
		}
		return r.JSON(RunOutput{Run: run, Labels: labels, Findings: findings})
	}

	r.Header(2, "Run "+run.ID)
	keyValue(r, "Status", string(run.Status))
	keyValue(r, "Started", run.StartedAt.Local().Format(time.DateTime))
	if run.CompletedAt != nil {
		keyValue(r, "Duration", run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String())
	}
	if len(run.Dictionaries) > 0 {
		keyValue(r, "Dictionaries", strings.Join(run.Dictionaries, ", "))
	}
	keyValue(r, "Labels", fmt.Sprintf("%d (%d valid)", run.Labels, run.ValidLabels))
	if run.Error != "" {
		keyValue(r, "Error", run.Error)
	}
	r.Println()

	if len(labels) > 0 {
		rows := make([][]string, 0, len(labels))
		for _, l := range labels {
			verdict := "valid"
			if !l.Valid {
				verdict = "invalid"
			}
			rows = append(rows, []string{l.File, l.LabelType, verdict})
		}
		r.Table([]string{"Label", "Type", "Verdict"}, rows)
	}

	if len(findings) > 0 {
		rows := make([][]string, 0, len(findings))
		for _, f := range findings {
			line := ""
			if f.Line > 0 {
				line = fmt.Sprint(f.Line)
			}
			rows = append(rows, []string{f.File, line, f.Severity.String(), f.Code, f.Message})
		}
		r.Table([]string{"File", "Line", "Severity", "Code", "Message"}, rows)
	}
	return nil
}
