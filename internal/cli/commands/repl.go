package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/pkg/format"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
	"github.com/subculture-collective/clipper-sub005/pkg/plan"
	"github.com/subculture-collective/clipper-sub005/pkg/token"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively explore queries",
		Long: `Start an interactive session for exploring how queries parse.

Each line is parsed and shown as a tree. Dot-commands inspect the other
surfaces: .plan lowers a query into backend plans, .fmt prints canonical
form. History persists across sessions and tab completion knows the
filter names.`,
		Example: `  clipql repl`,
		Args:    cobra.NoArgs,
		RunE:    runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "clipql> ",
		HistoryFile:     cmdCtx.Cfg.HistoryPath(),
		AutoComplete:    newQueryCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r.Println("clipql REPL")
	r.Println("Type .help for commands, .quit to exit")
	r.Println("")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(cmd, cmdCtx, line); quit {
				break
			}
			continue
		}

		parseAndShow(cmdCtx, line)
		r.Println("")
	}

	return nil
}

func parseAndShow(cmdCtx *CommandContext, query string) {
	r := cmdCtx.Renderer
	q, err := parser.ParseWithConfig(query, cmdCtx.Cfg.Limits)
	if err != nil {
		_ = renderQueryError(r, err)
		return
	}
	writeQueryTree(r, q)
}

func handleDotCommand(cmd *cobra.Command, cmdCtx *CommandContext, line string) (quit bool) {
	r := cmdCtx.Renderer
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	rest := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".ast":
		if rest == "" {
			r.Error("usage: .ast <query>")
			return false
		}
		parseAndShow(cmdCtx, rest)

	case ".filters":
		if err := writeFiltersTable(r, parser.AllFilters()); err != nil {
			r.Error(err.Error())
		}

	case ".codes":
		if err := listCodesText(r, parser.AllCodes()); err != nil {
			r.Error(err.Error())
		}

	case ".fmt":
		if rest == "" {
			r.Error("usage: .fmt <query>")
			return false
		}
		q, err := parser.ParseWithConfig(rest, cmdCtx.Cfg.Limits)
		if err != nil {
			_ = renderQueryError(r, err)
			return false
		}
		r.Println(format.Format(q))

	case ".plan":
		if rest == "" {
			r.Error("usage: .plan <query>")
			return false
		}
		showPlans(cmdCtx, rest)

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		r.Error(fmt.Sprintf("unknown command: %s (type .help for commands)", command))
	}

	return false
}

func showPlans(cmdCtx *CommandContext, query string) {
	r := cmdCtx.Renderer
	q, err := parser.ParseWithConfig(query, cmdCtx.Cfg.Limits)
	if err != nil {
		_ = renderQueryError(r, err)
		return
	}

	opts := plan.DefaultOptions()
	sqlPlan, err := plan.SQL(q, opts)
	if err != nil {
		r.Error(err.Error())
		return
	}
	searchPlan, err := plan.Search(q, opts)
	if err != nil {
		r.Error(err.Error())
		return
	}
	if err := writeExplainText(r, sqlPlan, searchPlan); err != nil {
		r.Error(err.Error())
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .ast <query>    Parse a query and show its tree
  .filters        List the recognized filters
  .codes          List parse error codes
  .fmt <query>    Print the query in canonical form
  .plan <query>   Show backend execution plans
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - Any other line is parsed and shown as a tree
  - Use arrow keys to navigate history
  - Tab completion works for filter names
`
	_, _ = fmt.Fprintln(w, help)
}

// newQueryCompleter completes filter names and dot-commands.
func newQueryCompleter() *readline.PrefixCompleter {
	names := token.FilterNames()
	items := make([]readline.PrefixCompleterInterface, 0, len(names)+9)
	for _, name := range names {
		items = append(items, readline.PcItem(string(name)+":"))
	}
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".ast"),
		readline.PcItem(".filters"),
		readline.PcItem(".codes"),
		readline.PcItem(".fmt"),
		readline.PcItem(".plan"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
