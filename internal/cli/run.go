// Package cli runs the relay process.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"subtasker/internal/config"
	"subtasker/internal/exitcode"
	"subtasker/internal/handler"
	"subtasker/internal/logging"
	"subtasker/internal/server"
	"subtasker/internal/service"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 30 * time.Second

// ServiceFactory creates a Suggester from config.
// Used to inject the backend at startup.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Suggester, error)

// Runner loads configuration and serves until its context is cancelled.
type Runner struct {
	factory ServiceFactory

	// Ready, if set, is called with the bound address once listening.
	Ready func(addr string)
}

// NewRunner creates a runner with the given service factory.
func NewRunner(factory ServiceFactory) *Runner {
	return &Runner{factory: factory}
}

// Run loads config from dir, starts the server, and blocks until ctx is done.
// Returns the exit code.
func (r *Runner) Run(ctx context.Context, dir string, errOut io.Writer) int {
	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}

	if err := logging.InitWriter(errOut, cfg.LogFormat, cfg.Debug); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}

	suggester, err := r.factory(ctx, cfg)
	if err != nil {
		logging.Error("failed to initialize backend", "error", err)
		return exitcode.ServerError
	}

	srv := server.NewServer(server.Config{
		Addr:         cfg.Addr(),
		StaticDir:    cfg.StaticDir,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Timeout + 10*time.Second,
	}, handler.NewSuggestionHandler(suggester))

	if err := srv.Listen(); err != nil {
		logging.Error("failed to listen", "addr", cfg.Addr(), "error", err)
		return exitcode.ServerError
	}

	logging.Info(fmt.Sprintf("Server running on http://localhost:%d", cfg.Port))
	if !cfg.HasAPIKey() {
		logging.Warn(fmt.Sprintf("Make sure %s exists and contains your %s.", cfg.EnvPath(), config.KeyAPIKey))
	}
	if r.Ready != nil {
		r.Ready(srv.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("server failed", "error", err)
			return exitcode.ServerError
		}
		return exitcode.Success
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("server forced to shutdown", "error", err)
		return exitcode.ServerError
	}
	if err := <-errCh; err != nil {
		logging.Error("server failed", "error", err)
		return exitcode.ServerError
	}

	logging.Info("server exited")
	return exitcode.Success
}
