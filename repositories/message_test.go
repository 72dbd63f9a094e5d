package repositories

import (
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMessage(room, author, body string, at time.Time) domain.Message {
	return domain.Message{
		ID:         uuid.New(),
		RoomID:     room,
		AuthorID:   author,
		AuthorName: author,
		Body:       body,
		Type:       domain.TextMessage,
		Mentions:   []string{},
		CreatedAt:  at,
	}
}

func Test_Record_Multiple_Message_Newest_First(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	room := "room-1"
	content := "this message will self destruct in 5 seconds"
	at := time.Now().UTC()
	messages := []domain.Message{
		newMessage(room, "alice", content, at),
		newMessage(room, "bob", content, at.Add(1*time.Minute)),
		newMessage(room, "clara", content, at.Add(2*time.Minute)),
	}
	for _, m := range messages {
		req.NoError(repository.StoreMessage(ctx, m))
	}
	// And a message in another room
	req.NoError(repository.StoreMessage(ctx, newMessage("room-10", "dave", content, at)))

	fetched, err := repository.GetMessages(ctx, room, domain.NewPage(1, 10, domain.DefaultMessagePage))
	req.NoError(err)
	req.Len(fetched, len(messages))
	req.Equal(messages[2].ID, fetched[0].ID)
	req.Equal(messages[0].ID, fetched[2].ID)
}

func Test_Record_Multiple_Message_And_Paginate(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	at := time.Now().UTC()
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		m := newMessage("room-1", "alice", "hello", at.Add(time.Duration(i)*time.Second))
		ids = append(ids, m.ID)
		req.NoError(repository.StoreMessage(ctx, m))
	}

	page1, err := repository.GetMessages(ctx, "room-1", domain.NewPage(1, 2, domain.DefaultMessagePage))
	req.NoError(err)
	page3, err := repository.GetMessages(ctx, "room-1", domain.NewPage(3, 2, domain.DefaultMessagePage))
	req.NoError(err)
	page4, err := repository.GetMessages(ctx, "room-1", domain.NewPage(4, 2, domain.DefaultMessagePage))
	req.NoError(err)

	req.Len(page1, 2)
	req.Equal(ids[4], page1[0].ID)
	req.Len(page3, 1)
	req.Equal(ids[0], page3[0].ID)
	req.Empty(page4)
}

func Test_Posted_Message_Is_First_Of_Next_Fetch(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	at := time.Now().UTC()
	req.NoError(repository.StoreMessage(ctx, newMessage("room-1", "alice", "first", at)))

	// When a new message is posted
	posted := newMessage("room-1", "bob", "latest", at.Add(time.Second))
	req.NoError(repository.StoreMessage(ctx, posted))

	// Then it is the first item of page 1
	fetched, err := repository.GetMessages(ctx, "room-1", domain.NewPage(1, 0, domain.DefaultMessagePage))
	req.NoError(err)
	req.Equal(posted.ID, fetched[0].ID)
}

func Test_Delete_By_Author_Hides_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	message := newMessage("room-1", "alice", "oops", time.Now().UTC())
	req.NoError(repository.StoreMessage(ctx, message))

	// When alice deletes her message
	deleted, err := repository.DeleteMessage(ctx, "room-1", message.ID, "alice", time.Now().UTC())

	// Then it is gone from fetches
	req.NoError(err)
	req.True(deleted.IsDeleted())
	fetched, err := repository.GetMessages(ctx, "room-1", domain.NewPage(1, 10, domain.DefaultMessagePage))
	req.NoError(err)
	req.Empty(fetched)
	_, err = repository.GetMessage(ctx, "room-1", message.ID)
	req.ErrorIs(err, apperrors.ErrMessageNotFound)

	// And deleting twice reports not found
	_, err = repository.DeleteMessage(ctx, "room-1", message.ID, "alice", time.Now().UTC())
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
}

func Test_Delete_By_Other_User_Is_Rejected(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	message := newMessage("room-1", "alice", "mine", time.Now().UTC())
	req.NoError(repository.StoreMessage(ctx, message))

	// When bob tries to delete alice's message
	_, err := repository.DeleteMessage(ctx, "room-1", message.ID, "bob", time.Now().UTC())

	// Then it fails and the message is still there
	req.ErrorIs(err, apperrors.ErrNotMessageOwner)
	stored, err := repository.GetMessage(ctx, "room-1", message.ID)
	req.NoError(err)
	req.False(stored.IsDeleted())
}

func Test_Get_Message_From_Another_Room(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	message := newMessage("room-1", "alice", "hello", time.Now().UTC())
	req.NoError(repository.StoreMessage(ctx, message))

	_, err := repository.GetMessage(ctx, "room-2", message.ID)
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
	_, err = repository.GetMessage(ctx, "room-1", uuid.New())
	req.ErrorIs(err, apperrors.ErrMessageNotFound)
}
