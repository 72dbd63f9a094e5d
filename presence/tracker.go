// Package presence tracks which users are reachable in which rooms.
// Presence is a reference count per (room, user): a user with two tabs open
// stays online when one of them closes.
package presence

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/observability"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type Tracker struct {
	log        *slog.Logger
	store      contract.IPresenceStore
	dispatcher contract.IDispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

func NewTracker(log *slog.Logger, store contract.IPresenceStore,
	dispatcher contract.IDispatcher, metrics *observability.Metrics) *Tracker {
	return &Tracker{
		log:        log,
		store:      store,
		dispatcher: dispatcher,
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Connect registers a live connection of a user, independently of any room.
func (t *Tracker) Connect(ctx context.Context, userID, connID string) error {
	count, err := t.store.AddConnection(ctx, userID, connID)
	if err != nil {
		return fmt.Errorf("add connection: %w", err)
	}
	t.log.Debug("Connection registered", "user_id", userID, "conn_id", connID, "connections", count)
	return nil
}

// Disconnect releases every room the connection had entered, then forgets the connection.
// Each released room receives a "disconnected" delta.
func (t *Tracker) Disconnect(ctx context.Context, userID, connID string, rooms []string) error {
	var errs []error
	for _, roomID := range rooms {
		if _, err := t.exit(ctx, userID, roomID, domain.PresenceDisconnected); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := t.store.RemoveConnection(ctx, userID, connID); err != nil {
		errs = append(errs, fmt.Errorf("remove connection: %w", err))
	}
	return errors.Join(errs...)
}

func (t *Tracker) EnterRoom(ctx context.Context, userID, roomID string) (*domain.PresenceDelta, error) {
	if _, err := t.store.Enter(ctx, roomID, userID, t.now()); err != nil {
		return nil, fmt.Errorf("enter room %s: %w", roomID, err)
	}
	delta, err := t.publish(ctx, userID, roomID, domain.PresenceJoined)
	if err != nil {
		return nil, err
	}
	return &delta, nil
}

// ExitRoom decrements the refcount. An exit without a matching enter is ignored and returns nil.
func (t *Tracker) ExitRoom(ctx context.Context, userID, roomID string) (*domain.PresenceDelta, error) {
	return t.exit(ctx, userID, roomID, domain.PresenceLeft)
}

// Announce emits a delta for a membership change without touching refcounts.
func (t *Tracker) Announce(ctx context.Context, userID, roomID string,
	eventType domain.PresenceEventType) (domain.PresenceDelta, error) {
	return t.publish(ctx, userID, roomID, eventType)
}

func (t *Tracker) OnlineUsers(ctx context.Context, roomID string) ([]domain.OnlineUser, error) {
	return t.store.Online(ctx, roomID)
}

func (t *Tracker) IsOnline(ctx context.Context, userID, roomID string) (bool, error) {
	count, err := t.store.Count(ctx, roomID, userID)
	return count > 0, err
}

func (t *Tracker) exit(ctx context.Context, userID, roomID string,
	eventType domain.PresenceEventType) (*domain.PresenceDelta, error) {
	count, ok, err := t.store.Exit(ctx, roomID, userID, t.now())
	if err != nil {
		return nil, fmt.Errorf("exit room %s: %w", roomID, err)
	}
	if !ok {
		t.log.Warn("Unbalanced presence exit ignored", "room_id", roomID, "user_id", userID, "event_type", eventType)
		return nil, nil
	}
	t.log.Debug("Presence exit", "room_id", roomID, "user_id", userID, "remaining", count)
	delta, err := t.publish(ctx, userID, roomID, eventType)
	if err != nil {
		return nil, err
	}
	return &delta, nil
}

func (t *Tracker) publish(ctx context.Context, userID, roomID string,
	eventType domain.PresenceEventType) (domain.PresenceDelta, error) {
	online, err := t.store.Online(ctx, roomID)
	if err != nil {
		return domain.PresenceDelta{}, fmt.Errorf("presence snapshot %s: %w", roomID, err)
	}
	delta := domain.PresenceDelta{
		RoomID:      roomID,
		UserID:      userID,
		EventType:   eventType,
		OnlineCount: len(online),
		OnlineUsers: online,
		Timestamp:   t.now(),
	}
	t.metrics.PresenceDeltas.WithLabelValues(string(eventType)).Inc()
	if err = t.dispatcher.GroupMulticast(ctx, roomID, domain.NewOutbound(domain.OnlineStatusUpdated, delta)); err != nil {
		return delta, fmt.Errorf("multicast presence delta: %w", err)
	}
	return delta, nil
}
