package bus

import (
	"chat-hub/domain/event"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	url := os.Getenv("CHAT_HUB_NATS_URL")
	if url == "" {
		t.Skip("Skipping test: CHAT_HUB_NATS_URL is not set")
	}
	suffix := uuid.NewString()[:8]
	client := NewClient(logs.GetLoggerFromLevel(slog.LevelDebug), Config{
		URL:        url,
		Stream:     "HUB_EVENTS_TEST_" + suffix,
		Consumer:   "hub-test-" + suffix,
		MaxDeliver: 3,
		AckWait:    5 * time.Second,
		MaxAge:     time.Hour,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		t.Skipf("Skipping test: NATS not available: %v", err)
	}
	t.Cleanup(func() {
		_ = client.js.DeleteStream(context.Background(), client.cfg.Stream)
		client.Close()
	})
	require.NoError(t, client.EnsureConsumer(ctx))
	return client
}

func TestClient_Publish_Then_Consume(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client := newTestClient(t)

	e, err := event.New(uuid.NewString(), event.NotificationType, map[string]string{"title": "hello"})
	req.NoError(err)

	// Given the same event is published twice
	req.NoError(client.Publish(ctx, e))
	req.NoError(client.Publish(ctx, e))

	// When consuming
	it, err := client.Subscribe(ctx)
	req.NoError(err)
	defer it.Stop()
	delivery, err := it.Next()
	req.NoError(err)

	// Then the envelope is intact and stored once
	var got event.Event
	req.NoError(json.Unmarshal(delivery.Data(), &got))
	req.Equal(e.ID, got.ID)
	req.Equal(event.NotificationType, got.Type)
	req.NoError(delivery.Ack())

	info, err := client.stream.Info(ctx)
	req.NoError(err)
	req.Equal(uint64(1), info.State.Msgs)
}
