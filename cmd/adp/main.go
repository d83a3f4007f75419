// cmd/adp/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bestball/adp/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	// Cancelling the context lets the browser session close before exit
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unwatch := context.AfterFunc(ctx, func() {
		log.Warn().Msg("Interrupt received, shutting down gracefully...")
	})
	defer unwatch()

	// Execute CLI (app initialization happens inside cli.Execute)
	cli.Execute(ctx)
}
