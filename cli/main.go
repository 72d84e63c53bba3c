// Package cli implements the progression command line interface.
package cli

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/courtflow/progression/cli/internal/clifactory"
	"github.com/courtflow/progression/internal/config"
	"github.com/logrusorgru/aurora"
)

// Main is the entrypoint for the CLI. Call Main from an actual main function.
func Main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(aurora.Red(err))
	}

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal(aurora.Red(err))
	}
	defer logger.Sync()

	app := New(clifactory.Context(ctx), clifactory.Config(cfg), clifactory.Logger(logger))

	if err := app.Run(); err != nil {
		if errors.Is(err, clifactory.ErrInvalidConfig) {
			log.Fatalf(
				aurora.Red("Invalid configuration. Check PROGRESSION_BACKEND and the backend url: %v").String(),
				err,
			)
		}
		log.Fatal(aurora.Red(err))
	}
}
