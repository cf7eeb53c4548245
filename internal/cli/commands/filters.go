package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/internal/cli/output"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// NewFiltersCommand creates the filters command.
func NewFiltersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the recognized filters",
		Long: `List every filter the query language recognizes, with the value
form each one takes, its fixed value set where it has one, and a usage
example.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all filters
  clipql filters

  # Machine-readable listing
  clipql filters -f json`,
		Args: cobra.NoArgs,
		RunE: runFilters,
	}
}

func runFilters(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	filters := parser.AllFilters()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(map[string]any{"filters": filters})
	case output.ModeMarkdown:
		return writeFiltersMarkdown(r, filters)
	default:
		return writeFiltersTable(r, filters)
	}
}

func writeFiltersTable(r *output.Renderer, filters []parser.FilterInfo) error {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Filter", "Kind", "Values", "Example", "Description"})

	for _, f := range filters {
		t.AppendRow(table.Row{
			string(f.Name),
			string(f.Kind),
			strings.Join(f.Values, ", "),
			f.Example,
			f.Description,
		})
	}

	t.Render()
	r.Println("")
	r.Muted("Negate any filter with a leading dash: -game:fortnite")
	return nil
}

func writeFiltersMarkdown(r *output.Renderer, filters []parser.FilterInfo) error {
	r.Println("# Filters")
	r.Println("")
	r.Println("| Filter | Kind | Values | Example | Description |")
	r.Println("| --- | --- | --- | --- | --- |")
	for _, f := range filters {
		r.Printf("| %s | %s | %s | `%s` | %s |\n",
			f.Name, f.Kind, strings.Join(f.Values, ", "), f.Example, f.Description)
	}
	r.Println("")
	return nil
}
