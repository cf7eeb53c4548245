// Package commands implements the clipql subcommands.
package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/internal/cli/config"
	"github.com/subculture-collective/clipper-sub005/internal/cli/output"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the shared dependencies for a command
// invocation from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Format))
	if cfg.NoColor {
		r.SetColorEnabled(false)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, falling back to defaults
// when a command runs without the root command's config loading.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		LogLevel: config.DefaultLogLevel,
		Format:   config.DefaultFormat,
		Limits:   parser.DefaultConfig(),
		Serve:    config.ServeConfig{Addr: config.DefaultServeAddr},
	}
}

// queryFromArgsOrStdin returns the query text either from the command
// arguments or, when none are given, from piped standard input.
func queryFromArgsOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(bufio.NewReader(cmd.InOrStdin()))
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", fmt.Errorf("no query given: pass it as an argument or pipe it on stdin")
	}
	return query, nil
}
