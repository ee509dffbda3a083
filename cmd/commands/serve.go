package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/handlers"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/logging"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/mcp"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/middleware"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, MCP endpoint and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewLogger(cfg.Env)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			logger.Info("Configuration loaded",
				zap.String("env", cfg.Env),
				zap.String("base_url", cfg.BaseURL),
				zap.String("dataset", cfg.Data.DatasetPath),
				zap.String("llm_provider", cfg.LLM.Provider),
				zap.String("llm_endpoint", logging.SanitizeEndpoint(cfg.LLM.Endpoint)),
				zap.String("translation_endpoint", logging.SanitizeEndpoint(cfg.Translation.Endpoint)))

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, a, net.JoinHostPort(cfg.BindAddr, cfg.Port))
		},
	}
}

// newMux registers every HTTP route of the service.
func newMux(a *app) http.Handler {
	mux := http.NewServeMux()

	handlers.NewHealthHandler(a.cfg, a.store, a.breaker(), a.logger).RegisterRoutes(mux)
	handlers.NewChatHandler(a.assistant, a.supports, a.logger).RegisterRoutes(mux)
	handlers.RegisterStaticCharts(mux, a.cfg.Chart)
	mux.Handle("GET /metrics", a.metrics.Handler())

	mcpServer := mcp.NewGroundwaterServer(a.cfg.Version, mcp.Deps{
		Assistant: a.assistant,
		Locations: a.store,
		Dataset:   a.store,
		Supports:  a.supports,
	}, a.logger)
	handlers.NewMCPHandler(mcpServer, a.logger.Named("mcp")).RegisterRoutes(mux)

	return middleware.Chain(mux,
		middleware.CORS(a.cfg.CORSAllowedOrigins),
		middleware.RequestID(),
		middleware.RequestLogger(a.logger.Named("http")),
	)
}

func serve(ctx context.Context, a *app, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting ekaya-groundwater",
			zap.String("addr", addr),
			zap.String("version", a.cfg.Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
