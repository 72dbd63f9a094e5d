//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(ctx context.Context, message domain.Message) error
	GetMessage(ctx context.Context, roomID string, id uuid.UUID) (domain.Message, error)
	// GetMessages returns the visible messages of a room, newest first.
	GetMessages(ctx context.Context, roomID string, page domain.Page) ([]domain.Message, error)
	// DeleteMessage soft deletes a message owned by userID.
	DeleteMessage(ctx context.Context, roomID string, id uuid.UUID, userID string, at time.Time) (domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

// messageKey is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}":
//  1. 19-digit zero padding keeps lexicographical order chronological.
//  2. The uuid separates two messages created at the same nanosecond.
func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", message.RoomID, message.CreatedAt.UnixNano(), message.ID))
}

func messageIDKey(id uuid.UUID) []byte {
	return []byte("msgid:" + id.String())
}

// StoreMessage persists the message and its id index in one transaction.
func (m *MessageRepository) StoreMessage(_ context.Context, message domain.Message) error {
	key := messageKey(message)
	return m.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, key, message); err != nil {
			return err
		}
		return txn.Set(messageIDKey(message.ID), key)
	})
}

func (m *MessageRepository) GetMessage(_ context.Context, roomID string, id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, _, err = lookup(txn, id)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) || (err == nil && (message.RoomID != roomID || message.IsDeleted())) {
		return domain.Message{}, fmt.Errorf("message %s in room %s: %w", id, roomID, apperrors.ErrMessageNotFound)
	}
	return message, err
}

// GetMessages scans the room prefix backwards from the newest key.
// Soft deleted messages are skipped and do not count in the offset.
func (m *MessageRepository) GetMessages(_ context.Context, roomID string, page domain.Page) ([]domain.Message, error) {
	messages := make([]domain.Message, 0, page.Size)
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", roomID))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		skipped := 0
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(messages) == page.Size {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", page.Size))
				break
			}
			var message domain.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			}); err != nil {
				return err
			}
			if message.IsDeleted() {
				continue
			}
			if skipped < page.Offset() {
				skipped++
				continue
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

// DeleteMessage checks ownership inside the transaction: a message owned by
// someone else is left untouched.
func (m *MessageRepository) DeleteMessage(_ context.Context, roomID string, id uuid.UUID,
	userID string, at time.Time) (domain.Message, error) {
	var deleted domain.Message
	err := m.db.Update(func(txn *badger.Txn) error {
		message, key, err := lookup(txn, id)
		if err != nil {
			return err
		}
		if message.RoomID != roomID || message.IsDeleted() {
			return badger.ErrKeyNotFound
		}
		if message.AuthorID != userID {
			return fmt.Errorf("message %s by %s: %w", id, userID, apperrors.ErrNotMessageOwner)
		}
		message.DeletedAt = &at
		deleted = message
		return setJSON(txn, key, message)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, fmt.Errorf("message %s in room %s: %w", id, roomID, apperrors.ErrMessageNotFound)
	}
	return deleted, err
}

func lookup(txn *badger.Txn, id uuid.UUID) (domain.Message, []byte, error) {
	key, err := getString(txn, messageIDKey(id))
	if err != nil {
		return domain.Message{}, nil, err
	}
	var message domain.Message
	if err = getJSON(txn, []byte(key), &message); err != nil {
		return domain.Message{}, nil, err
	}
	return message, []byte(key), nil
}
