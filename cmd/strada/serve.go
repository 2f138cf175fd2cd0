package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/strada-dev/strada/pkg/middleware"
	"github.com/strada-dev/strada/pkg/server"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route tree for inspection",
		Long: `Compile the routes directory and serve it for inspection.

Handlers are discovered by source inspection, not compiled, so every
matched route answers 501 Not Implemented. What this preview is for:
exercising the table's matching behavior (404, 405, precedence), the
documentation endpoints, and the metrics endpoint, without building the
application. Production apps embed the server in their own main.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default: from strada.json)")

	return cmd
}

func runServe(addr string) error {
	cfg, table, err := compileFromConfig()
	if err != nil {
		return err
	}

	serverCfg := server.DefaultServerConfig().
		WithAddress(cfg.Address()).
		WithGlobal(middleware.Logging()).
		WithDebug(cfg.Debug)
	if addr != "" {
		serverCfg.WithAddress(addr)
	}
	serverCfg.Metrics = cfg.MetricsEnabled()
	serverCfg.Tracing = cfg.Observability.Tracing
	serverCfg.Docs = &server.DocsConfig{
		Enabled:     cfg.DocsEnabled(),
		Title:       cfg.Docs.Title,
		Description: cfg.Docs.Description,
		Version:     cfg.Docs.Version,
		SpecPath:    "/openapi.json",
		UIPath:      "/docs",
	}

	srv, err := server.New(table, serverCfg)
	if err != nil {
		return err
	}

	info("%d routes compiled from %s", table.Len(), cfg.RoutesPath())
	success("serving on %s (preview: handlers answer 501)", serverCfg.Address)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		stop()
		return srv.Shutdown(context.Background())
	}
}
