package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/internal/httpapi"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Long: `Start an HTTP server exposing the parser.

Endpoints:
  GET /healthz          Liveness probe
  GET /v1/parse?q=...   Parse a query into its tree or a structured error
  GET /v1/plan?q=...    Backend execution plans for a query
  GET /v1/filters       The recognized filters
  GET /v1/codes         The parse error code registry

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  # Serve on the configured address
  clipql serve

  # Custom listen address
  clipql serve --addr :9000

  # Try it
  curl 'localhost:8632/v1/parse?q=game:valorant+votes:%3E100'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (overrides the configured serve.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)

	addr := opts.Addr
	if addr == "" {
		addr = cmdCtx.Cfg.Serve.Addr
	}

	srv := httpapi.New(httpapi.Config{
		Addr:   addr,
		Limits: cmdCtx.Cfg.Limits,
		Logger: cmdCtx.Logger,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		cmdCtx.Logger.Info("signal received, shutting down")
		cancel()
	}()

	return srv.Serve(ctx)
}
