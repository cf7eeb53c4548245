// Package config loads clipql configuration from files, environment
// variables, and flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// Default configuration values.
const (
	DefaultLogLevel  = "info"
	DefaultFormat    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultServeAddr = ":8632"

	// DefaultHistoryName is the REPL history file name, stored in the
	// user's home directory unless history_file is set.
	DefaultHistoryName = ".clipql_history"
)

// ServeConfig holds the parse service settings.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Config holds all CLI configuration options.
type Config struct {
	LogLevel    string        `koanf:"log_level"`
	Format      string        `koanf:"format"`
	NoColor     bool          `koanf:"no_color"`
	HistoryFile string        `koanf:"history_file"`
	Limits      parser.Config `koanf:"limits"`
	Serve       ServeConfig   `koanf:"serve"`
}

// Validate rejects option values that would otherwise surface as confusing
// failures deep inside a command.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn, or error)", c.LogLevel)
	}
	switch c.Format {
	case "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid format %q (expected auto, text, markdown, or json)", c.Format)
	}
	limits := map[string]int{
		"limits.max_query_length":  c.Limits.MaxQueryLength,
		"limits.max_filters":       c.Limits.MaxFilters,
		"limits.max_nesting_depth": c.Limits.MaxNestingDepth,
		"limits.max_or_clauses":    c.Limits.MaxOrClauses,
		"limits.max_terms":         c.Limits.MaxTerms,
	}
	for key, v := range limits {
		if v < 0 {
			return fmt.Errorf("invalid %s: must not be negative", key)
		}
	}
	return nil
}

// HistoryPath resolves the REPL history file location.
func (c *Config) HistoryPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultHistoryName
	}
	return filepath.Join(home, DefaultHistoryName)
}

// SlogLevel maps the configured log level to its slog value.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
