package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/internal/cli/output"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool // Re-check on file change
}

var errCheckFailed = errors.New("some queries are invalid")

// checkDiagnostic is one failed line in a check run.
type checkDiagnostic struct {
	Line  int                `json:"line"`
	Query string             `json:"query"`
	Error *parser.QueryError `json:"error"`
}

// checkReport summarizes one pass over a query file.
type checkReport struct {
	File        string            `json:"file"`
	Checked     int               `json:"checked"`
	Invalid     int               `json:"invalid"`
	Diagnostics []checkDiagnostic `json:"diagnostics"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a file of queries",
		Long: `Validate every query in a file, one query per line.

Blank lines and lines starting with # are skipped. Each invalid query
produces a file:line:column diagnostic with its error code. The command
exits non-zero when any query fails.

With no file argument, queries are read from stdin.`,
		Example: `  # Validate saved searches
  clipql check queries.txt

  # Re-validate whenever the file changes
  clipql check --watch queries.txt

  # Validate queries from a pipe
  grep -v deprecated queries.txt | clipql check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check whenever the file changes")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)

	if len(args) == 0 {
		if opts.Watch {
			return errors.New("--watch requires a file argument")
		}
		query, err := queryFromArgsOrStdin(cmd, nil)
		if err != nil {
			return err
		}
		report := checkQueries("<stdin>", query, cmdCtx.Cfg.Limits)
		return renderCheckReport(cmdCtx.Renderer, report)
	}

	path := args[0]
	if opts.Watch {
		return watchAndCheck(cmd, cmdCtx, path)
	}
	return checkFile(cmdCtx, path)
}

func checkFile(cmdCtx *CommandContext, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	report := checkQueries(path, string(content), cmdCtx.Cfg.Limits)
	return renderCheckReport(cmdCtx.Renderer, report)
}

// checkQueries validates content line by line. Blank lines and #-comment
// lines keep their line numbers but are not checked.
func checkQueries(name, content string, limits parser.Config) checkReport {
	report := checkReport{File: name, Diagnostics: []checkDiagnostic{}}

	for i, line := range strings.Split(content, "\n") {
		query := strings.TrimSpace(line)
		if query == "" || strings.HasPrefix(query, "#") {
			continue
		}

		report.Checked++
		_, err := parser.ParseWithConfig(query, limits)
		if err == nil {
			continue
		}

		report.Invalid++
		var qe *parser.QueryError
		if !errors.As(err, &qe) {
			qe = &parser.QueryError{Message: err.Error(), Suggestions: []string{}}
		}
		report.Diagnostics = append(report.Diagnostics, checkDiagnostic{
			Line:  i + 1,
			Query: query,
			Error: qe,
		})
	}

	return report
}

func renderCheckReport(r *output.Renderer, report checkReport) error {
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(report); err != nil {
			return err
		}
		if report.Invalid > 0 {
			return errCheckFailed
		}
		return nil
	}

	styles := r.Styles()
	for _, d := range report.Diagnostics {
		col := 1
		if d.Error.Pos != nil {
			col = d.Error.Pos.Column
		}
		r.Printf("%s:%d:%d: %s %s\n",
			report.File, d.Line, col,
			styles.Code.Render(string(d.Error.Code)), d.Error.Message)
		for _, s := range d.Error.Suggestions {
			r.Muted("  - " + s)
		}
	}

	if report.Invalid > 0 {
		r.Error(fmt.Sprintf("%d of %d queries invalid", report.Invalid, report.Checked))
		return errCheckFailed
	}
	r.Success(fmt.Sprintf("%d queries valid", report.Checked))
	return nil
}

// watchAndCheck re-runs the check whenever path changes. The watch is on
// the parent directory because editors often replace files on save.
func watchAndCheck(cmd *cobra.Command, cmdCtx *CommandContext, path string) error {
	r := cmdCtx.Renderer
	logger := cmdCtx.Logger

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	run := func() {
		if err := checkFile(cmdCtx, path); err != nil && !errors.Is(err, errCheckFailed) {
			logger.Error("check failed", "path", path, "error", err)
		}
	}

	run()
	r.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", path))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, run)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", werr)
		}
	}
}
