package workers

import (
	"chat-hub/runtime"
	"context"
	"fmt"
	"log/slog"
)

type FrameSubscriber interface {
	// Frames returns a channel closed when the subscription ends.
	Frames(ctx context.Context) (<-chan runtime.Frame, error)
}

type FrameDeliverer interface {
	Deliver(ctx context.Context, frame runtime.Frame) error
}

// BackplaneListener replays the frames published by any instance into the local hub.
type BackplaneListener struct {
	log        *slog.Logger
	subscriber FrameSubscriber
	hub        FrameDeliverer
}

func NewBackplaneListener(log *slog.Logger, subscriber FrameSubscriber, hub FrameDeliverer) *BackplaneListener {
	return &BackplaneListener{log: log, subscriber: subscriber, hub: hub}
}

func (w *BackplaneListener) Run(ctx context.Context) error {
	frames, err := w.subscriber.Frames(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to backplane: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping backplane listener")
			return nil
		case frame, ok := <-frames:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("backplane subscription closed")
			}
			if err := w.hub.Deliver(ctx, frame); err != nil {
				w.log.Warn("Failed to replay backplane frame", "kind", frame.Kind, "target", frame.Target, "error", err)
			}
		}
	}
}
