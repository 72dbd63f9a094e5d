package workers

import (
	"chat-hub/contract"
	"context"
	"log/slog"
	"time"
)

// StreamReaper periodically closes the streams whose producer went silent.
type StreamReaper struct {
	log       *slog.Logger
	sequencer contract.ISequencer
	interval  time.Duration
}

func NewStreamReaper(log *slog.Logger, sequencer contract.ISequencer, interval time.Duration) *StreamReaper {
	return &StreamReaper{log: log, sequencer: sequencer, interval: interval}
}

func (w *StreamReaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping stream reaper")
			return nil
		case now := <-ticker.C:
			evicted, err := w.sequencer.EvictIdle(ctx, now.UTC())
			if err != nil {
				w.log.Error("Idle stream eviction failed", "error", err)
				continue
			}
			if evicted > 0 {
				w.log.Info("Idle streams evicted", "count", evicted)
			}
		}
	}
}
