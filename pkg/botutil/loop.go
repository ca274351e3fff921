package botutil

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const readyPollInterval = time.Second

// RunLoop calls fn every interval once ready is set, until ctx is done.
// A panic in fn is logged and the loop carries on.
func RunLoop(ctx context.Context, ready *atomic.Bool, interval time.Duration, fn func()) {
	if !awaitReady(ctx, ready) {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			safeCall(fn)
		}
	}
}

// awaitReady polls ready and reports false if ctx ends first.
func awaitReady(ctx context.Context, ready *atomic.Bool) bool {
	poll := time.NewTicker(readyPollInterval)
	defer poll.Stop()
	for !ready.Load() {
		select {
		case <-ctx.Done():
			return false
		case <-poll.C:
		}
	}
	return ctx.Err() == nil
}

func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in loop", "error", r)
		}
	}()
	fn()
}
