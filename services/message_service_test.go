package services

import (
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"chat-hub/mocks"
	"chat-hub/moderation"
	"chat-hub/repositories"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type messageFixture struct {
	service    *MessageService
	dispatcher *mocks.MockIDispatcher
	room       domain.Room
}

func newMessageFixture(t *testing.T) messageFixture {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db := openDB(t)
	rooms := repositories.NewRoomRepository(db, log)
	dispatcher := mocks.NewMockIDispatcher(ctrl)
	chats := NewChatService(log, rooms, mocks.NewMockIPresenceTracker(ctrl), dispatcher)

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })
	moderator, err := moderation.NewModerator([]string{"badger"}, '*', log)
	req.NoError(err)

	room, _, err := rooms.GetOrCreateRoom(context.Background(), domain.Room{
		ID: "room-1", Kind: domain.PublicRoom, Title: "Lobby", IsPublic: true, CreatedAt: time.Now().UTC(),
	})
	req.NoError(err)

	service := NewMessageService(log, chats, repositories.NewMessageRepository(db, log),
		repositories.NewSearchIndex(writer, log), moderator, dispatcher, 200)
	return messageFixture{service: service, dispatcher: dispatcher, room: room}
}

func (f messageFixture) expectMulticast(t *testing.T, outbound domain.OutboundType, times int) {
	f.dispatcher.EXPECT().GroupMulticast(gomock.Any(), f.room.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msg domain.Outbound) error {
			require.Equal(t, outbound, msg.Type)
			return nil
		}).Times(times)
}

func TestMessageService_Post_Censors_Stores_And_Multicasts(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newMessageFixture(t)
	f.expectMulticast(t, domain.NewMessage, 1)
	author := domain.Profile{UserID: "alice", DisplayName: "Alice"}
	body := "The badger walked across the garden while all of us were watching the sunset together"

	// When alice posts a message containing a censored word
	posted, err := f.service.PostMessage(ctx, PostMessageRequest{
		RoomKey:  f.room.ID,
		Author:   author,
		Body:     body,
		Mentions: []string{"bob", "bob", ""},
	})

	// Then it is stored censored and is the newest message
	req.NoError(err)
	req.Equal(strings.Replace(body, "badger", "******", 1), posted.Body)
	req.Equal(domain.TextMessage, posted.Type)
	req.Equal([]string{"bob"}, posted.Mentions)
	req.Equal("en", posted.Language)
	req.Equal("Alice", posted.AuthorName)

	messages, err := f.service.GetMessages(ctx, f.room.ID, domain.NewPage(1, 10, domain.DefaultMessagePage))
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal(posted.ID, messages[0].ID)

	// And it can be found by search
	result, err := f.service.SearchMessages(ctx, f.room.ID, "garden", 10)
	req.NoError(err)
	req.Equal(uint64(1), result.Total)
	req.Equal(posted.ID, result.Messages[0].ID)
}

func TestMessageService_Reply_Preview(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newMessageFixture(t)
	f.expectMulticast(t, domain.NewMessage, 2)
	original, err := f.service.PostMessage(ctx, PostMessageRequest{
		RoomKey: f.room.ID, Author: domain.Profile{UserID: "alice", DisplayName: "Alice"}, Body: strings.Repeat("a", 150),
	})
	req.NoError(err)

	reply, err := f.service.PostMessage(ctx, PostMessageRequest{
		RoomKey: f.room.ID, Author: domain.Profile{UserID: "bob"}, Body: "agreed", ReplyToID: &original.ID,
	})
	req.NoError(err)
	req.NotNil(reply.ReplyTo)
	req.Equal(original.ID, reply.ReplyTo.MessageID)
	req.Equal("Alice", reply.ReplyTo.AuthorName)
	req.Equal(strings.Repeat("a", domain.ReplyPreviewLength)+"...", reply.ReplyTo.Body)

	// A reply to an unknown message is rejected
	missing := uuid.New()
	_, err = f.service.PostMessage(ctx, PostMessageRequest{
		RoomKey: f.room.ID, Author: domain.Profile{UserID: "bob"}, Body: "what?", ReplyToID: &missing,
	})
	req.ErrorIs(err, apperrors.ErrReplyTargetMissing)
}

func TestMessageService_Attachment_Sets_Type(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)
	f.expectMulticast(t, domain.NewMessage, 1)

	posted, err := f.service.PostMessage(context.Background(), PostMessageRequest{
		RoomKey:    f.room.ID,
		Author:     domain.Profile{UserID: "alice"},
		Attachment: &domain.Attachment{URL: "https://cdn.example/p.png", MimeType: "image/png"},
	})

	req.NoError(err)
	req.Equal(domain.ImageMessage, posted.Type)
	req.Equal(".png", posted.Attachment.Extension)
}

func TestMessageService_Delete_Checks_Owner(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newMessageFixture(t)
	f.dispatcher.EXPECT().GroupMulticast(gomock.Any(), f.room.ID, gomock.Any()).Return(nil)
	posted, err := f.service.PostMessage(ctx, PostMessageRequest{RoomKey: f.room.ID, Author: domain.Profile{UserID: "alice"}, Body: "mine"})
	req.NoError(err)

	// When bob tries to delete it, nothing is emitted
	req.ErrorIs(f.service.DeleteMessage(ctx, f.room.ID, posted.ID, "bob"), apperrors.ErrNotMessageOwner)

	// When alice deletes it, the room is told
	f.expectMulticast(t, domain.MessageDeleted, 1)
	req.NoError(f.service.DeleteMessage(ctx, f.room.ID, posted.ID, "alice"))

	messages, err := f.service.GetMessages(ctx, f.room.ID, domain.NewPage(1, 10, domain.DefaultMessagePage))
	req.NoError(err)
	req.Empty(messages)
	result, err := f.service.SearchMessages(ctx, f.room.ID, "mine", 10)
	req.NoError(err)
	req.Empty(result.Messages)
}

func TestMessageService_Rejects_Invalid_Posts(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newMessageFixture(t)

	tests := []struct {
		name    string
		request PostMessageRequest
		want    error
	}{
		{"no author", PostMessageRequest{RoomKey: f.room.ID, Body: "hi"}, apperrors.ErrMissingIdentity},
		{"empty body", PostMessageRequest{RoomKey: f.room.ID, Author: domain.Profile{UserID: "a"}, Body: "  "}, apperrors.ErrInvalidRequest},
		{"too long", PostMessageRequest{RoomKey: f.room.ID, Author: domain.Profile{UserID: "a"}, Body: strings.Repeat("x", 201)}, apperrors.ErrInvalidRequest},
		{"unknown type", PostMessageRequest{RoomKey: f.room.ID, Author: domain.Profile{UserID: "a"}, Body: "hi", Type: "sticker"}, apperrors.ErrInvalidRequest},
		{"unknown room", PostMessageRequest{RoomKey: "nope", Author: domain.Profile{UserID: "a"}, Body: "hi"}, apperrors.ErrRoomNotFound},
	}
	for _, tt := range tests {
		_, err := f.service.PostMessage(ctx, tt.request)
		req.ErrorIs(err, tt.want, tt.name)
	}
}
