// Package router maps every bus event type to the handler translating it
// into presence, sequencer, room and delivery calls.
package router

import (
	"chat-hub/contract"
	"chat-hub/domain/event"
	apperrors "chat-hub/errors"
	"chat-hub/observability"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Handler handles one event. It must be safe to run again for the same event.
type Handler func(ctx context.Context, e event.Event) error

var _ contract.IEventRouter = (*Router)(nil)

type Router struct {
	log      *slog.Logger
	dedup    contract.IDedupStore
	metrics  *observability.Metrics
	handlers map[event.Type]Handler
}

// NewRouter refuses a table that leaves any known event type without a handler.
func NewRouter(log *slog.Logger, dedup contract.IDedupStore, metrics *observability.Metrics,
	handlers map[event.Type]Handler) (*Router, error) {
	for _, t := range event.AllTypes {
		if handlers[t] == nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingHandler, t)
		}
	}
	return &Router{log: log, dedup: dedup, metrics: metrics, handlers: handlers}, nil
}

// Route runs the handler of the event type.
// Unknown types and events already handled are acknowledged without effect.
// A handler error is returned so the bus redelivers the event.
func (r *Router) Route(ctx context.Context, e event.Event) error {
	if !e.Type.Known() {
		r.log.Warn("Event ignored", "event_id", e.ID, "error", fmt.Errorf("%w: %q", apperrors.ErrUnknownEventType, e.Type))
		r.metrics.EventsRouted.WithLabelValues("unknown", "ignored").Inc()
		return nil
	}
	if e.ID != "" {
		seen, err := r.dedup.Seen(ctx, e.ID)
		if err != nil {
			return fmt.Errorf("dedup lookup %s: %w", e.ID, err)
		}
		if seen {
			r.log.Debug("Event already handled", "event_id", e.ID, "type", e.Type)
			r.metrics.EventsRouted.WithLabelValues(string(e.Type), "duplicate").Inc()
			return nil
		}
	}

	start := time.Now()
	err := r.handlers[e.Type](ctx, e)
	r.metrics.HandlerDuration.WithLabelValues(string(e.Type)).Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.EventsRouted.WithLabelValues(string(e.Type), "failed").Inc()
		return fmt.Errorf("handle %s %s: %w", e.Type, e.ID, err)
	}

	if e.ID != "" {
		if err = r.dedup.Mark(ctx, e.ID); err != nil {
			// The effects are idempotent, a redelivery is harmless
			r.log.Warn("Failed to mark event as handled", "event_id", e.ID, "error", err)
		}
	}
	r.metrics.EventsRouted.WithLabelValues(string(e.Type), "handled").Inc()
	r.log.Debug("Event handled", "event_id", e.ID, "type", e.Type, "duration", time.Since(start))
	return nil
}
