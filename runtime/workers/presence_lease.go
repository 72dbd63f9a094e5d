package workers

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"context"
	"log/slog"
	"time"
)

// PresenceLease renews the presence lease of this instance and gives back the presence
// left behind by instances that died without disconnecting their users.
type PresenceLease struct {
	log      *slog.Logger
	lease    contract.IPresenceLease
	tracker  contract.IPresenceTracker
	interval time.Duration
}

func NewPresenceLease(log *slog.Logger, lease contract.IPresenceLease,
	tracker contract.IPresenceTracker, interval time.Duration) *PresenceLease {
	return &PresenceLease{log: log, lease: lease, tracker: tracker, interval: interval}
}

func (w *PresenceLease) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping presence lease")
			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *PresenceLease) tick(ctx context.Context) {
	if err := w.lease.Renew(ctx); err != nil {
		w.log.Error("Presence lease renewal failed", "error", err)
	}
	released, err := w.lease.ReapExpired(ctx)
	if err != nil {
		w.log.Error("Presence reaping failed", "error", err)
	}
	for _, r := range released {
		w.log.Info("Stale presence released", "room_id", r.RoomID, "user_id", r.UserID,
			"released", r.Released, "remaining", r.Remaining)
		if _, err := w.tracker.Announce(ctx, r.UserID, r.RoomID, domain.PresenceDisconnected); err != nil {
			w.log.Warn("Failed to announce released presence", "room_id", r.RoomID, "error", err)
		}
	}
}
