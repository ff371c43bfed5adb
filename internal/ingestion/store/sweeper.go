package store

import (
	"context"
	"log/slog"
	"time"
)

// RetentionWindow is how long a RequestLog row is kept before the sweeper
// prunes it.
const RetentionWindow = 24 * time.Hour

// Sweeper periodically deletes RequestLog rows older than RetentionWindow.
// Runs until ctx is cancelled; intended to be started as its own goroutine
// from cmd/server/main.go, following the teacher's startPprofServer pattern
// of a long-running side goroutine launched alongside the HTTP server.
func Sweeper(ctx context.Context, repo Repository, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("request log sweeper stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-RetentionWindow)
			n, err := repo.PruneOlderThan(ctx, cutoff)
			if err != nil {
				logger.Error("request log sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("request log sweep completed", "rows_deleted", n, "cutoff", cutoff)
			}
		}
	}
}
