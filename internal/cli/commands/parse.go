package commands

import (
	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/internal/cli/output"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [query]",
		Short: "Parse a query and print its syntax tree",
		Long: `Parse a clip search query and print the resulting syntax tree.

Invalid queries print a diagnostic with the error code, position, and
suggestions, and exit with status 1.

Output adapts to environment:
  - Terminal: Indented tree with positions
  - Piped/Scripted: JSON code block
  - JSON: Raw AST, the same shape the parse API serves`,
		Example: `  # Parse a query
  clipql parse 'game:valorant votes:>100 "epic save"'

  # Parse from stdin
  echo 'tag:clutch after:last-week' | clipql parse

  # Raw AST as JSON
  clipql parse 'game:valorant' -f json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args)
		},
	}
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	query, err := queryFromArgsOrStdin(cmd, args)
	if err != nil {
		return err
	}

	q, err := parser.ParseWithConfig(query, cmdCtx.Cfg.Limits)
	if err != nil {
		return renderQueryError(r, err)
	}

	cmdCtx.Logger.Debug("parsed query", "terms", len(q.Terms), "filters", len(q.Filters))

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(q)
	case output.ModeMarkdown:
		return writeJSONBlock(r, q)
	default:
		writeQueryTree(r, q)
		return nil
	}
}
