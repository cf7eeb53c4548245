package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/internal/cli/output"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
	"github.com/subculture-collective/clipper-sub005/pkg/plan"
)

// ExplainOptions holds options for the explain command.
type ExplainOptions struct {
	Backend string // sql, search, all
}

// NewExplainCommand creates the explain command.
func NewExplainCommand() *cobra.Command {
	opts := &ExplainOptions{}
	cmd := &cobra.Command{
		Use:   "explain [query]",
		Short: "Show backend execution plans for a query",
		Long: `Parse a query and lower it into backend execution plans.

The sql backend produces a parameterized PostgreSQL WHERE clause with
positional arguments. The search backend produces an OpenSearch bool
query. Directives (sort:, type:) never reach the predicate; they are
lifted into ordering and search-target hints.`,
		Example: `  # Plans for both backends
  clipql explain 'game:valorant votes:>100'

  # SQL plan only
  clipql explain --backend sql 'epic clutch is:featured'

  # Machine-readable plans
  clipql explain -f json 'after:last-week sort:popular'`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Backend, "backend", "b", "all", "Backend to plan for: sql, search, all")
	_ = cmd.RegisterFlagCompletionFunc("backend", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"sql", "search", "all"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runExplain(cmd *cobra.Command, args []string, opts *ExplainOptions) error {
	switch opts.Backend {
	case "sql", "search", "all":
	default:
		return fmt.Errorf("invalid backend %q (valid: sql, search, all)", opts.Backend)
	}

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

	planOpts := plan.DefaultOptions()

	var sqlPlan *plan.SQLPlan
	var searchPlan *plan.SearchPlan
	if opts.Backend == "sql" || opts.Backend == "all" {
		if sqlPlan, err = plan.SQL(q, planOpts); err != nil {
			return err
		}
	}
	if opts.Backend == "search" || opts.Backend == "all" {
		if searchPlan, err = plan.Search(q, planOpts); err != nil {
			return err
		}
	}

	cmdCtx.Logger.Debug("planned query", "backend", opts.Backend)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := map[string]any{}
		if sqlPlan != nil {
			out["sql"] = sqlPlan
		}
		if searchPlan != nil {
			out["search"] = searchPlan
		}
		return r.JSON(out)
	case output.ModeMarkdown:
		return writeExplainMarkdown(r, sqlPlan, searchPlan)
	default:
		return writeExplainText(r, sqlPlan, searchPlan)
	}
}

func writeExplainText(r *output.Renderer, sqlPlan *plan.SQLPlan, searchPlan *plan.SearchPlan) error {
	styles := r.Styles()

	if sqlPlan != nil {
		r.Println("")
		r.Header(1, "SQL")
		where := sqlPlan.Where
		if where == "" {
			where = "(no predicate)"
		}
		r.Printf("  %s: %s\n", styles.Bold.Render("Where"), styles.Code.Render(where))
		for i, arg := range sqlPlan.Args {
			r.Printf("    $%d = %v\n", i+1, arg)
		}
		if sqlPlan.OrderBy != "" {
			r.Printf("  %s: %s\n", styles.Bold.Render("Order by"), sqlPlan.OrderBy)
		}
		r.Printf("  %s: %s\n", styles.Bold.Render("Targets"), strings.Join(sqlPlan.Targets, ", "))
	}

	if searchPlan != nil {
		r.Println("")
		r.Header(1, "OpenSearch")
		body, err := jsonIndent(searchPlan.Query, "  ")
		if err != nil {
			return err
		}
		r.Printf("  %s: %s\n", styles.Bold.Render("Query"), body)
		if len(searchPlan.Sort) > 0 {
			sortBody, err := json.Marshal(searchPlan.Sort)
			if err != nil {
				return err
			}
			r.Printf("  %s: %s\n", styles.Bold.Render("Sort"), string(sortBody))
		}
		r.Printf("  %s: %s\n", styles.Bold.Render("Targets"), strings.Join(searchPlan.Targets, ", "))
	}

	r.Println("")
	return nil
}

// jsonIndent renders v as indented JSON without HTML escaping, so SQL
// operators survive verbatim.
func jsonIndent(v any, prefix string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func writeExplainMarkdown(r *output.Renderer, sqlPlan *plan.SQLPlan, searchPlan *plan.SearchPlan) error {
	if sqlPlan != nil {
		r.Header(2, "SQL")
		if err := writeJSONBlock(r, sqlPlan); err != nil {
			return err
		}
	}
	if searchPlan != nil {
		r.Header(2, "OpenSearch")
		if err := writeJSONBlock(r, searchPlan); err != nil {
			return err
		}
	}
	return nil
}
