package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/vtool/internal/cli/output"
	"github.com/leapstack-labs/vtool/pkg/core"
	"github.com/leapstack-labs/vtool/pkg/dict"
)

// NewDictCommand creates the dict command group.
func NewDictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Inspect data dictionary definitions",
		Long: `Look up element and object definitions in the configured data dictionaries.

Lookups resolve aliases the same way validation does.`,
	}
	cmd.PersistentFlags().StringSliceP("dict", "d", nil, "Data dictionary files (repeatable or comma separated)")
	cmd.PersistentFlags().Bool("no-alias", false, "Do not resolve aliases")
	cmd.AddCommand(newDictElementCommand(), newDictObjectCommand())
	return cmd
}

func newDictElementCommand() *cobra.Command {
	var object string
	cmd := &cobra.Command{
		Use:   "element <ID>",
		Short: "Show an element definition",
		Example: `  vtool dict element LINES
  vtool dict element IMAGE_LINES --context IMAGE`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContextWithDictionary(cmd)
			if err != nil {
				return err
			}
			def, ok := lookupElement(cmdCtx, object, args[0])
			if !ok {
				err := &core.DefinitionNotFoundError{Kind: core.KindElement, Identifier: args[0]}
				err.Suggestion, _ = cmdCtx.Dict.SuggestElement(args[0])
				return err
			}
			return renderElement(cmdCtx.Renderer, def)
		},
	}
	cmd.Flags().StringVar(&object, "context", "", "Enclosing object used to resolve scoped aliases")
	return cmd
}

func newDictObjectCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "object <ID>",
		Short:   "Show an object definition",
		Example: `  vtool dict object IMAGE`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContextWithDictionary(cmd)
			if err != nil {
				return err
			}
			def, ok := lookupObject(cmdCtx, args[0])
			if !ok {
				err := &core.DefinitionNotFoundError{Kind: core.KindObject, Identifier: args[0]}
				err.Suggestion, _ = cmdCtx.Dict.SuggestObject(args[0])
				return err
			}
			return renderObject(cmdCtx.Renderer, def)
		},
	}
}

func lookupElement(c *CommandContext, object, id string) (*dict.ElementDefinition, bool) {
	if !c.Cfg.Aliasing {
		return c.Dict.CanonicalElement(id)
	}
	if object != "" {
		return c.Dict.ElementInContext(object, id)
	}
	return c.Dict.Element(id)
}

func lookupObject(c *CommandContext, id string) (*dict.ObjectDefinition, bool) {
	if !c.Cfg.Aliasing {
		return c.Dict.CanonicalObjectClass(id)
	}
	return c.Dict.ObjectClass(id)
}

// ElementOutput is the JSON form of an element definition.
type ElementOutput struct {
	Identifier string   `json:"identifier"`
	Type       string   `json:"type"`
	MinLength  int      `json:"min_length,omitempty"`
	MaxLength  int      `json:"max_length,omitempty"`
	Minimum    *string  `json:"minimum,omitempty"`
	Maximum    *string  `json:"maximum,omitempty"`
	UnitID     string   `json:"unit_id,omitempty"`
	Units      []string `json:"units,omitempty"`
	ValueType  string   `json:"value_type,omitempty"`
	Values     []string `json:"values,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
}

// ObjectOutput is the JSON form of an object definition.
type ObjectOutput struct {
	Identifier       string   `json:"identifier"`
	RequiredElements []string `json:"required_elements"`
	OptionalElements []string `json:"optional_elements"`
	RequiredObjects  []string `json:"required_objects"`
	OptionalObjects  []string `json:"optional_objects"`
	Aliases          []string `json:"aliases,omitempty"`
}

func renderElement(r *output.Renderer, def *dict.ElementDefinition) error {
	aliases := make([]string, len(def.Aliases))
	for i, a := range def.Aliases {
		aliases[i] = a.String()
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(ElementOutput{
			Identifier: def.Identifier,
			Type:       def.DataType,
			MinLength:  def.MinLength,
			MaxLength:  def.MaxLength,
			Minimum:    def.Minimum,
			Maximum:    def.Maximum,
			UnitID:     def.UnitID,
			Units:      def.Units,
			ValueType:  def.ValueType,
			Values:     def.Values,
			Aliases:    aliases,
		})
	}

	r.Header(2, "Element "+def.Identifier)
	keyValue(r, "Type", def.DataType)
	if def.MinLength > 0 || def.MaxLength > 0 {
		maxLen := "unbounded"
		if def.MaxLength > 0 {
			maxLen = fmt.Sprint(def.MaxLength)
		}
		keyValue(r, "Length", fmt.Sprintf("%d..%s", def.MinLength, maxLen))
	}
	if def.HasMinimum() {
		keyValue(r, "Minimum", *def.Minimum)
	}
	if def.HasMaximum() {
		keyValue(r, "Maximum", *def.Maximum)
	}
	if def.UnitID != "" {
		keyValue(r, "Unit", def.UnitID)
	}
	if len(def.Units) > 0 {
		keyValue(r, "Units", strings.Join(def.Units, ", "))
	}
	if def.HasValidValues() {
		kind := "suggested"
		if def.IsStatic() {
			kind = "static"
		}
		keyValue(r, "Values ("+kind+")", strings.Join(def.Values, ", "))
	}
	if len(aliases) > 0 {
		keyValue(r, "Aliases", strings.Join(aliases, ", "))
	}
	return nil
}

func renderObject(r *output.Renderer, def *dict.ObjectDefinition) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(ObjectOutput{
			Identifier:       def.Identifier,
			RequiredElements: nonNil(def.RequiredElements),
			OptionalElements: nonNil(def.OptionalElements),
			RequiredObjects:  nonNil(def.RequiredObjects),
			OptionalObjects:  nonNil(def.OptionalObjects),
			Aliases:          def.Aliases,
		})
	}

	r.Header(2, "Object "+def.Identifier)
	if len(def.Aliases) > 0 {
		keyValue(r, "Aliases", strings.Join(def.Aliases, ", "))
	}
	r.Println()

	var rows [][]string
	for _, id := range def.RequiredElements {
		rows = append(rows, []string{id, "element", "required"})
	}
	for _, id := range def.OptionalElements {
		rows = append(rows, []string{id, "element", "optional"})
	}
	for _, id := range def.RequiredObjects {
		rows = append(rows, []string{id, "object", "required"})
	}
	for _, id := range def.OptionalObjects {
		rows = append(rows, []string{id, "object", "optional"})
	}
	if len(rows) == 0 {
		r.Muted("No members.")
		return nil
	}
	r.Table([]string{"Member", "Kind", "Presence"}, rows)
	return nil
}

func keyValue(r *output.Renderer, key, value string) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue(key, value))
		return
	}
	r.Printf("%s %s\n", r.Styles().Bold.Render(key+":"), value)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
