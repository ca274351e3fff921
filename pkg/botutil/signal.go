package botutil

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
)

// WaitForShutdown blocks until SIGINT or SIGTERM is received or ctx is done,
// then logs the shutdown.
func WaitForShutdown(ctx context.Context, log *slog.Logger, name string) {
	log.Info(name + " is running. Press Ctrl+C to exit.")
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("Shutting down.")
}
