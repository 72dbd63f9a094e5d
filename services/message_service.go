package services

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/mimetypes"
	"chat-hub/domain/search"
	apperrors "chat-hub/errors"
	"chat-hub/moderation"
	"chat-hub/repositories"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageService interface {
	PostMessage(ctx context.Context, req PostMessageRequest) (domain.Message, error)
	GetMessages(ctx context.Context, roomKey string, page domain.Page) ([]domain.Message, error)
	DeleteMessage(ctx context.Context, roomKey string, messageID uuid.UUID, userID string) error
	SearchMessages(ctx context.Context, roomKey, input string, limit int) (SearchResult, error)
}

// RoomResolver maps a room key, canonical or virtual, to a durable room.
type RoomResolver interface {
	ResolveRoom(ctx context.Context, roomKey string) (domain.Room, error)
}

type PostMessageRequest struct {
	RoomKey    string
	Author     domain.Profile
	Body       string
	Type       domain.MessageType
	ReplyToID  *uuid.UUID
	Mentions   []string
	Attachment *domain.Attachment
}

type MessageDeletedEvent struct {
	RoomID    string    `json:"roomId"`
	MessageID uuid.UUID `json:"messageId"`
	DeletedBy string    `json:"deletedBy"`
	Timestamp time.Time `json:"timestamp"`
}

type SearchResult struct {
	Messages []domain.Message `json:"messages"`
	Total    uint64           `json:"total"`
}

type MessageService struct {
	log        *slog.Logger
	rooms      RoomResolver
	messages   repositories.IMessageRepository
	index      repositories.ISearchIndex
	moderator  moderation.Moderator
	dispatcher contract.IDispatcher
	maxLength  int
	now        func() time.Time
}

func NewMessageService(log *slog.Logger, rooms RoomResolver, messages repositories.IMessageRepository,
	index repositories.ISearchIndex, moderator moderation.Moderator, dispatcher contract.IDispatcher,
	maxLength int) *MessageService {
	return &MessageService{
		log:        log,
		rooms:      rooms,
		messages:   messages,
		index:      index,
		moderator:  moderator,
		dispatcher: dispatcher,
		maxLength:  maxLength,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// PostMessage censors, stores, indexes and multicasts a message to its room.
// Posting does not require a membership.
func (s *MessageService) PostMessage(ctx context.Context, req PostMessageRequest) (domain.Message, error) {
	if req.Author.UserID == "" {
		return domain.Message{}, apperrors.ErrMissingIdentity
	}
	body := strings.TrimSpace(req.Body)
	if body == "" && req.Attachment == nil {
		return domain.Message{}, fmt.Errorf("%w: empty message", apperrors.ErrInvalidRequest)
	}
	if s.maxLength > 0 && len([]rune(body)) > s.maxLength {
		return domain.Message{}, fmt.Errorf("%w: message longer than %d characters", apperrors.ErrInvalidRequest, s.maxLength)
	}
	if req.Type != "" && !req.Type.Valid() {
		return domain.Message{}, fmt.Errorf("%w: unknown message type %q", apperrors.ErrInvalidRequest, req.Type)
	}
	room, err := s.rooms.ResolveRoom(ctx, req.RoomKey)
	if err != nil {
		return domain.Message{}, err
	}

	censored, words := s.moderator.Censor(body)
	if len(words) > 0 {
		s.log.Info("Message censored", "room_id", room.ID, "author_id", req.Author.UserID, "words", len(words))
	}
	message := domain.Message{
		ID:           uuid.New(),
		RoomID:       room.ID,
		AuthorID:     req.Author.UserID,
		AuthorName:   displayName(req.Author),
		AuthorAvatar: req.Author.AvatarURL,
		Body:         censored,
		Type:         lo.Ternary(req.Type == "", domain.TextMessage, req.Type),
		Mentions:     lo.Uniq(lo.Compact(req.Mentions)),
		Language:     moderation.DetectLanguage(body),
		CreatedAt:    s.now(),
	}
	if message.Mentions == nil {
		message.Mentions = []string{}
	}
	if req.Attachment != nil {
		attachment, messageType := mimetypes.Normalize(*req.Attachment, req.Type)
		message.Attachment = &attachment
		message.Type = messageType
	}
	if req.ReplyToID != nil {
		target, err := s.messages.GetMessage(ctx, room.ID, *req.ReplyToID)
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			return domain.Message{}, fmt.Errorf("reply to %s: %w", req.ReplyToID, apperrors.ErrReplyTargetMissing)
		}
		if err != nil {
			return domain.Message{}, err
		}
		preview := target.Preview()
		message.ReplyToID = req.ReplyToID
		message.ReplyTo = &preview
	}

	if err = s.messages.StoreMessage(ctx, message); err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	if err = s.index.Index(message); err != nil {
		s.log.Warn("Failed to index message", "message_id", message.ID, "error", err)
	}
	if err = s.dispatcher.GroupMulticast(ctx, room.ID, domain.NewOutbound(domain.NewMessage, message)); err != nil {
		s.log.Warn("Failed to multicast new message", "room_id", room.ID, "message_id", message.ID, "error", err)
	}
	s.log.Debug("Message posted", "room_id", room.ID, "message_id", message.ID, "type", message.Type, "language", message.Language)
	return message, nil
}

func (s *MessageService) GetMessages(ctx context.Context, roomKey string, page domain.Page) ([]domain.Message, error) {
	room, err := s.rooms.ResolveRoom(ctx, roomKey)
	if err != nil {
		return nil, err
	}
	return s.messages.GetMessages(ctx, room.ID, page)
}

// DeleteMessage soft deletes a message owned by userID and tells the room.
func (s *MessageService) DeleteMessage(ctx context.Context, roomKey string, messageID uuid.UUID, userID string) error {
	if userID == "" {
		return apperrors.ErrMissingIdentity
	}
	room, err := s.rooms.ResolveRoom(ctx, roomKey)
	if err != nil {
		return err
	}
	deleted, err := s.messages.DeleteMessage(ctx, room.ID, messageID, userID, s.now())
	if err != nil {
		return err
	}
	if err = s.index.Delete(deleted.ID); err != nil {
		s.log.Warn("Failed to remove message from index", "message_id", deleted.ID, "error", err)
	}
	err = s.dispatcher.GroupMulticast(ctx, room.ID, domain.NewOutbound(domain.MessageDeleted, MessageDeletedEvent{
		RoomID:    room.ID,
		MessageID: deleted.ID,
		DeletedBy: userID,
		Timestamp: *deleted.DeletedAt,
	}))
	if err != nil {
		s.log.Warn("Failed to multicast message deletion", "room_id", room.ID, "message_id", deleted.ID, "error", err)
	}
	s.log.Info("Message deleted", "room_id", room.ID, "message_id", deleted.ID, "user_id", userID)
	return nil
}

// SearchMessages runs a full-text query restricted to the room.
// Hits whose message was deleted meanwhile are skipped.
func (s *MessageService) SearchMessages(ctx context.Context, roomKey, input string, limit int) (SearchResult, error) {
	room, err := s.rooms.ResolveRoom(ctx, roomKey)
	if err != nil {
		return SearchResult{}, err
	}
	ids, total, err := s.index.Search(ctx, search.NewQuery(room.ID, input, limit))
	if err != nil {
		return SearchResult{}, fmt.Errorf("search room %s: %w", room.ID, err)
	}
	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := s.messages.GetMessage(ctx, room.ID, id)
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			continue
		}
		if err != nil {
			return SearchResult{}, err
		}
		messages = append(messages, message)
	}
	return SearchResult{Messages: messages, Total: total}, nil
}
