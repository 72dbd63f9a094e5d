package cache

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/runtime"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

var _ contract.IDispatcher = (*Backplane)(nil)

const FramesChannel = KeyPrefix + "frames"

// Backplane is the dispatcher used when several instances run.
// It publishes every delivery on a Redis channel; each instance, this one included,
// replays the frames it receives into its local hub.
type Backplane struct {
	client *redis.Client
	log    *slog.Logger
}

func NewBackplane(client *redis.Client, log *slog.Logger) *Backplane {
	return &Backplane{client: client, log: log}
}

func (b *Backplane) Unicast(ctx context.Context, userID string, msg domain.Outbound) error {
	return b.publish(ctx, runtime.KindUnicast, userID, "", msg)
}

func (b *Backplane) GroupMulticast(ctx context.Context, group string, msg domain.Outbound) error {
	return b.publish(ctx, runtime.KindMulticast, group, "", msg)
}

func (b *Backplane) GroupMulticastExcept(ctx context.Context, group, exceptConnID string, msg domain.Outbound) error {
	return b.publish(ctx, runtime.KindMulticastExcept, group, exceptConnID, msg)
}

func (b *Backplane) Broadcast(ctx context.Context, msg domain.Outbound) error {
	return b.publish(ctx, runtime.KindBroadcast, "", "", msg)
}

func (b *Backplane) publish(ctx context.Context, kind runtime.DeliveryKind, target, except string, msg domain.Outbound) error {
	frame, err := runtime.NewFrame(kind, target, except, msg)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if err = b.client.Publish(ctx, FramesChannel, raw).Err(); err != nil {
		return fmt.Errorf("publish %s frame: %w", kind, err)
	}
	return nil
}

// Frames subscribes to the channel. The returned channel is closed when ctx is done
// or the subscription breaks.
func (b *Backplane) Frames(ctx context.Context) (<-chan runtime.Frame, error) {
	sub := b.client.Subscribe(ctx, FramesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", FramesChannel, err)
	}
	frames := make(chan runtime.Frame)
	go func() {
		defer close(frames)
		defer func() { _ = sub.Close() }()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-messages:
				if !ok {
					return
				}
				var frame runtime.Frame
				if err := json.Unmarshal([]byte(message.Payload), &frame); err != nil {
					b.log.Warn("Dropping malformed backplane frame", "error", err)
					continue
				}
				select {
				case frames <- frame:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return frames, nil
}
