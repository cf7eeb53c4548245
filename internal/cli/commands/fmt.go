package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/internal/cli/output"
	"github.com/subculture-collective/clipper-sub005/pkg/format"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Check bool // Report instead of rewrite
}

var errNotCanonical = errors.New("query is not in canonical form")

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [query]",
		Short: "Rewrite a query in canonical form",
		Long: `Parse a query and print it back in canonical form.

Canonical form normalizes whitespace, lowercases filter names, tightens
operators, and orders free-text terms before filters. Formatting a
canonical query is a no-op, so fmt can run repeatedly in pipelines.`,
		Example: `  # Normalize a messy query
  clipql fmt '  GAME:Valorant   epic   is:FEATURED '

  # Check canonical form without rewriting (exits 1 on a diff)
  clipql fmt --check 'game:valorant epic'

  # Read the query from stdin
  echo 'votes:>100 "epic comeback"' | clipql fmt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit non-zero when the query is not already canonical")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
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

	canonical := format.Format(q)
	changed := canonical != query

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(map[string]any{
			"query":     query,
			"canonical": canonical,
			"changed":   changed,
		}); err != nil {
			return err
		}
		if opts.Check && changed {
			return errNotCanonical
		}
		return nil
	}

	if opts.Check {
		if changed {
			r.Println(canonical)
			return errNotCanonical
		}
		r.Success("already canonical")
		return nil
	}

	r.Println(canonical)
	return nil
}
