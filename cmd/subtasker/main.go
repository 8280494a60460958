// Package main is the entry point for the subtasker relay.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"subtasker/internal/backend/gemini"
	"subtasker/internal/cli"
	"subtasker/internal/config"
	"subtasker/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (service.Suggester, error) {
		return gemini.New(ctx, cfg)
	}

	code := cli.NewRunner(factory).Run(ctx, config.DefaultConfigDir(), os.Stderr)
	stop()
	os.Exit(code)
}
