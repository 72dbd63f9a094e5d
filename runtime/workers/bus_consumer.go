package workers

import (
	"chat-hub/contract"
	"chat-hub/domain/event"
	apperrors "chat-hub/errors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// BusConsumer pulls events from the bus and settles each of them:
//   - Ack when the router handled it (or skipped it as unknown / already seen)
//   - Term when the envelope or payload is malformed, retrying cannot help
//   - NakWithDelay on any other failure so the bus redelivers later
//
// Up to `workers` deliveries are settled at the same time, each in its own goroutine.
type BusConsumer struct {
	log        *slog.Logger
	subscriber contract.ISubscriber
	router     contract.IEventRouter
	nakDelay   time.Duration
	workers    int
}

func NewBusConsumer(log *slog.Logger, subscriber contract.ISubscriber,
	router contract.IEventRouter, nakDelay time.Duration, workers int) *BusConsumer {
	return &BusConsumer{log: log, subscriber: subscriber, router: router, nakDelay: nakDelay, workers: max(workers, 1)}
}

func (w *BusConsumer) Run(ctx context.Context) error {
	it, err := w.subscriber.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to bus: %w", err)
	}
	defer it.Stop()
	// Next blocks; stopping the iterator is the only way to wake it up
	stop := context.AfterFunc(ctx, it.Stop)
	defer stop()

	slots := make(chan struct{}, w.workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	w.log.Info("Bus consumer started", "workers", w.workers)
	for {
		// Wait for a free slot before pulling, so unsettled messages stay on the bus
		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			w.log.Debug("Context done, stopping bus consumer")
			return nil
		}
		delivery, err := it.Next()
		if err != nil {
			<-slots
			if ctx.Err() != nil {
				w.log.Debug("Context done, stopping bus consumer")
				return nil
			}
			if errors.Is(err, apperrors.ErrQueueUnavailable) {
				return err
			}
			w.log.Warn("Failed to fetch bus message", "error", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-slots }()
			w.Settle(ctx, delivery)
		}()
	}
}

// Settle routes one delivery and acknowledges it according to the outcome.
func (w *BusConsumer) Settle(ctx context.Context, delivery contract.Delivery) {
	var e event.Event
	if err := json.Unmarshal(delivery.Data(), &e); err != nil {
		w.log.Warn("Malformed bus envelope, terminated", "error", err)
		w.settle(delivery.Term(), "term")
		return
	}

	err := w.router.Route(ctx, e)
	switch {
	case err == nil:
		w.settle(delivery.Ack(), "ack")
	case errors.Is(err, apperrors.ErrInvalidPayload):
		w.log.Warn("Invalid event payload, terminated", "event_id", e.ID, "type", e.Type, "error", err)
		w.settle(delivery.Term(), "term")
	default:
		w.log.Error("Event handling failed, redelivery requested",
			"event_id", e.ID, "type", e.Type, "delay", w.nakDelay, "error", err)
		w.settle(delivery.NakWithDelay(w.nakDelay), "nak")
	}
}

func (w *BusConsumer) settle(err error, action string) {
	if err != nil {
		w.log.Warn("Failed to settle bus message", "action", action, "error", err)
	}
}
