package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
)

// StartSweep runs a background goroutine that periodically removes expired
// sessions and fires the expiry callback for each. Lazy expiry on read keeps
// the system correct without it; the sweep exists so users whose local timers
// were lost still get an expiry notice, and so dead rows do not accumulate.
func StartSweep(ctx context.Context, repo store.Repository, sup *Supervisor, window, interval time.Duration, onExpiry Callback) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("session sweep started", "interval", interval, "window", window)

		for {
			select {
			case <-ticker.C:
				sweepExpired(ctx, repo, sup, window, onExpiry)
			case <-ctx.Done():
				slog.Info("session sweep shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweepExpired(ctx context.Context, repo store.Repository, sup *Supervisor, window time.Duration, onExpiry Callback) {
	expired, err := repo.GetExpiredSessions(ctx, window)
	if err != nil {
		slog.Error("session sweep failed to list expired sessions", "error", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	slog.Info("session sweep found expired sessions", "count", len(expired))

	for _, session := range expired {
		if err := repo.DeleteSession(ctx, session.UserID); err != nil {
			slog.Warn("session sweep failed to delete session",
				"user_id", session.UserID,
				"error", err)
			continue
		}

		if sup != nil {
			sup.Cancel(session.UserID)
		}
		if onExpiry != nil {
			onExpiry(session.UserID)
		}
	}

	slog.Info("session sweep completed", "cleaned", len(expired))
}
