package state

import (
	"context"
	"time"

	"contentbot/core/logger"
	"log/slog"
)

// RunSweeper evicts stale sessions every interval until ctx is done. A user
// whose flow is evicted simply restarts it; nothing durable is lost.
func RunSweeper(ctx context.Context, mgr Manager, ttl, interval time.Duration) {
	if mgr == nil || ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := mgr.Sweep(ttl); evicted > 0 {
				logger.Info(ctx, "fsm", "session.sweep",
					slog.Int("count", evicted),
					slog.String("status", "ok"),
				)
			}
		}
	}
}
