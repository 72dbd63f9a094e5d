package postgres

import (
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	url := os.Getenv("CHAT_HUB_POSTGRES_URL")
	if url == "" {
		t.Skip("Skipping test: CHAT_HUB_POSTGRES_URL is not set")
	}
	ctx := context.Background()
	store, err := NewStore(ctx, logs.GetLoggerFromLevel(slog.LevelDebug), url)
	if err != nil {
		t.Skipf("Skipping test: database not available: %v", err)
	}
	t.Cleanup(store.Close)
	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestStore_Concurrent_GetOrCreate_Event_Room(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := newTestStore(t)
	eventID := "event-" + uuid.NewString()
	const k = 20

	var wg sync.WaitGroup
	ids := make([]string, k)
	created := make([]bool, k)
	errs := make([]error, k)
	wg.Add(k)
	for i := 0; i < k; i++ {
		go func(i int) {
			defer wg.Done()
			var room domain.Room
			room, created[i], errs[i] = store.GetOrCreateRoom(ctx,
				domain.NewEventRoom(uuid.NewString(), eventID, "", "", "", time.Now().UTC()))
			ids[i] = room.ID
		}(i)
	}
	wg.Wait()

	creations := 0
	for i := 0; i < k; i++ {
		req.NoError(errs[i])
		req.Equal(ids[0], ids[i])
		if created[i] {
			creations++
		}
	}
	req.Equal(1, creations)
}

func TestStore_Members_And_Messages(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := newTestStore(t)
	at := time.Now().UTC().Truncate(time.Millisecond)
	room, _, err := store.GetOrCreateRoom(ctx, domain.Room{
		ID: uuid.NewString(), Kind: domain.PublicRoom, Title: "Lobby", IsPublic: true, CreatedAt: at,
	})
	req.NoError(err)

	// Given an owner re-joining as a member
	_, created, err := store.UpsertMember(ctx, domain.Membership{
		RoomID: room.ID, UserID: "alice", Role: domain.OwnerRole, JoinedAt: at, LastSeenAt: at,
	})
	req.NoError(err)
	req.True(created)
	member, created, err := store.UpsertMember(ctx, domain.Membership{
		RoomID: room.ID, UserID: "alice", DisplayName: "Alice", Role: domain.MemberRole, JoinedAt: at, LastSeenAt: at,
	})
	req.NoError(err)
	req.False(created)
	req.Equal(domain.OwnerRole, member.Role)
	req.Equal("Alice", member.DisplayName)

	// When alice posts then deletes a message
	message := domain.Message{
		ID: uuid.New(), RoomID: room.ID, AuthorID: "alice", Body: "hello", Type: domain.TextMessage,
		Mentions: []string{"bob"}, CreatedAt: at,
	}
	req.NoError(store.StoreMessage(ctx, message))
	stored, err := store.GetMessage(ctx, room.ID, message.ID)
	req.NoError(err)
	req.Equal([]string{"bob"}, stored.Mentions)

	_, err = store.DeleteMessage(ctx, room.ID, message.ID, "bob", at)
	req.ErrorIs(err, apperrors.ErrNotMessageOwner)
	deleted, err := store.DeleteMessage(ctx, room.ID, message.ID, "alice", at)
	req.NoError(err)
	req.True(deleted.IsDeleted())

	// Then the message is hidden
	messages, err := store.GetMessages(ctx, room.ID, domain.NewPage(1, 10, domain.DefaultMessagePage))
	req.NoError(err)
	req.Empty(messages)
	_, err = store.DeleteMessage(ctx, room.ID, message.ID, "alice", at)
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
}
