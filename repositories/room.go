//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds the optimistic retries of get-or-create transactions.
const maxConflictRetries = 16

type IRoomRepository interface {
	GetRoom(ctx context.Context, id string) (domain.Room, error)
	GetRoomByEvent(ctx context.Context, eventID string) (domain.Room, error)
	// GetOrCreateRoom returns the existing room, keyed on LinkedEventID for event rooms
	// and on ID otherwise, or persists the given one. The bool is true when it was created.
	GetOrCreateRoom(ctx context.Context, room domain.Room) (domain.Room, bool, error)
	ListPublicRooms(ctx context.Context, page domain.Page) ([]domain.Room, error)
	ListUserRooms(ctx context.Context, userID string, page domain.Page) ([]domain.Room, error)

	// UpsertMember never duplicates a membership; the bool is true for a first join.
	UpsertMember(ctx context.Context, member domain.Membership) (domain.Membership, bool, error)
	RemoveMember(ctx context.Context, roomID, userID string) error
	GetMember(ctx context.Context, roomID, userID string) (domain.Membership, error)
	ListMembers(ctx context.Context, roomID string, page domain.Page) ([]domain.Membership, error)
	CountMembers(ctx context.Context, roomID string) (int, error)
}

// RoomRepository stores rooms and memberships in BadgerDB as JSON values.
//
// Keys:
//
//	room:{id}                          -> Room
//	roomlink:{eventId}                 -> room id
//	public:{createdAt padded}:{id}     -> room id
//	member:{roomId}:{userId}           -> Membership
//	userroom:{userId}:{roomId}         -> empty
type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) *RoomRepository {
	return &RoomRepository{db: db, log: log}
}

func roomKey(id string) []byte          { return []byte("room:" + id) }
func roomLinkKey(eventID string) []byte { return []byte("roomlink:" + eventID) }
func memberKey(roomID, userID string) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", roomID, userID))
}
func userRoomKey(userID, roomID string) []byte {
	return []byte(fmt.Sprintf("userroom:%s:%s", userID, roomID))
}
func publicKey(room domain.Room) []byte {
	return []byte(fmt.Sprintf("public:%019d:%s", room.CreatedAt.UnixNano(), room.ID))
}

func (r *RoomRepository) GetRoom(_ context.Context, id string) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, roomKey(id), &room)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, fmt.Errorf("room %s: %w", id, apperrors.ErrRoomNotFound)
	}
	return room, err
}

func (r *RoomRepository) GetRoomByEvent(_ context.Context, eventID string) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, roomLinkKey(eventID))
		if err != nil {
			return err
		}
		return getJSON(txn, roomKey(id), &room)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, fmt.Errorf("room of event %s: %w", eventID, apperrors.ErrRoomNotFound)
	}
	return room, err
}

// GetOrCreateRoom is an atomic conditional insert. Two concurrent transactions
// writing the same link key make the second commit fail with badger.ErrConflict;
// it is retried and then reads the winner's room.
func (r *RoomRepository) GetOrCreateRoom(_ context.Context, room domain.Room) (domain.Room, bool, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		result, created, err := r.getOrCreate(room)
		if errors.Is(err, badger.ErrConflict) {
			r.log.Debug("Room creation conflict, retrying", "room_id", room.ID, "event_id", room.LinkedEventID, "attempt", attempt)
			continue
		}
		return result, created, err
	}
	return domain.Room{}, false, fmt.Errorf("create room %s: %w", room.ID, badger.ErrConflict)
}

func (r *RoomRepository) getOrCreate(room domain.Room) (domain.Room, bool, error) {
	var existing domain.Room
	created := false
	err := r.db.Update(func(txn *badger.Txn) error {
		id := room.ID
		if room.LinkedEventID != "" {
			linked, err := getString(txn, roomLinkKey(room.LinkedEventID))
			switch {
			case err == nil:
				return getJSON(txn, roomKey(linked), &existing)
			case !errors.Is(err, badger.ErrKeyNotFound):
				return err
			}
			if err = txn.Set(roomLinkKey(room.LinkedEventID), []byte(id)); err != nil {
				return err
			}
		} else {
			err := getJSON(txn, roomKey(id), &existing)
			switch {
			case err == nil:
				return nil
			case !errors.Is(err, badger.ErrKeyNotFound):
				return err
			}
		}
		if err := setJSON(txn, roomKey(id), room); err != nil {
			return err
		}
		if room.IsPublic {
			if err := txn.Set(publicKey(room), []byte(id)); err != nil {
				return err
			}
		}
		existing = room
		created = true
		return nil
	})
	if err != nil {
		return domain.Room{}, false, err
	}
	return existing, created, nil
}

// ListPublicRooms lists public rooms, newest first.
func (r *RoomRepository) ListPublicRooms(_ context.Context, page domain.Page) ([]domain.Room, error) {
	rooms := make([]domain.Room, 0, page.Size)
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("public:")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		skipped := 0
		// Newest key first: "public:" followed by the highest possible timestamp
		for it.Seek([]byte("public:9999999999999999999")); it.ValidForPrefix(prefix); it.Next() {
			if skipped < page.Offset() {
				skipped++
				continue
			}
			if len(rooms) == page.Size {
				break
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var room domain.Room
			if err := getJSON(txn, roomKey(string(id)), &room); err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	return rooms, err
}

// ListUserRooms lists the rooms a user is a member of, newest first.
func (r *RoomRepository) ListUserRooms(_ context.Context, userID string, page domain.Page) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("userroom:%s:", userID))
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			roomID := string(it.Item().Key()[len(prefix):])
			var room domain.Room
			err := getJSON(txn, roomKey(roomID), &room)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rooms, func(i, j int) bool { return rooms[i].CreatedAt.After(rooms[j].CreatedAt) })
	return paginate(rooms, page), nil
}

func (r *RoomRepository) UpsertMember(_ context.Context, member domain.Membership) (domain.Membership, bool, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		var stored domain.Membership
		created := false
		err := r.db.Update(func(txn *badger.Txn) error {
			var existing domain.Membership
			err := getJSON(txn, memberKey(member.RoomID, member.UserID), &existing)
			switch {
			case err == nil:
				stored = existing.Merge(member)
			case errors.Is(err, badger.ErrKeyNotFound):
				stored = member
				created = true
				if err = txn.Set(userRoomKey(member.UserID, member.RoomID), nil); err != nil {
					return err
				}
			default:
				return err
			}
			return setJSON(txn, memberKey(member.RoomID, member.UserID), stored)
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return stored, created, err
	}
	return domain.Membership{}, false, fmt.Errorf("upsert member %s in %s: %w", member.UserID, member.RoomID, badger.ErrConflict)
}

func (r *RoomRepository) RemoveMember(_ context.Context, roomID, userID string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(memberKey(roomID, userID)); err != nil {
			return err
		}
		if err := txn.Delete(memberKey(roomID, userID)); err != nil {
			return err
		}
		return txn.Delete(userRoomKey(userID, roomID))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("user %s in room %s: %w", userID, roomID, apperrors.ErrMembershipNotFound)
	}
	return err
}

func (r *RoomRepository) GetMember(_ context.Context, roomID, userID string) (domain.Membership, error) {
	var member domain.Membership
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, memberKey(roomID, userID), &member)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Membership{}, fmt.Errorf("user %s in room %s: %w", userID, roomID, apperrors.ErrMembershipNotFound)
	}
	return member, err
}

// ListMembers returns owners first, then members by join date.
func (r *RoomRepository) ListMembers(_ context.Context, roomID string, page domain.Page) ([]domain.Membership, error) {
	var members []domain.Membership
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("member:%s:", roomID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var member domain.Membership
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &member)
			}); err != nil {
				return err
			}
			members = append(members, member)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Role != members[j].Role {
			return members[i].Role == domain.OwnerRole
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return paginate(members, page), nil
}

func (r *RoomRepository) CountMembers(_ context.Context, roomID string) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("member:%s:", roomID))
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func getString(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	return string(val), err
}

func paginate[T any](items []T, page domain.Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
