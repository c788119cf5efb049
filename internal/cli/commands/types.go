package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/vtool/internal/cli/output"
)

// NewTypesCommand creates the types command.
func NewTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported element data types",
		Long:  `List the data types that have a value checker. Elements of any other type are reported as unsupported.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			types := cmdCtx.Registry.Types()

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string][]string{"types": types})
			}
			r.Header(2, "Data types")
			for _, t := range types {
				if r.EffectiveMode() == output.ModeMarkdown {
					r.Println("- " + t)
				} else {
					r.Println("  " + t)
				}
			}
			return nil
		},
	}
}
