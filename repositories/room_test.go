package repositories

import (
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newRoomRepository(t *testing.T) (*RoomRepository, *badger.DB) {
	db := openDB(t)
	return NewRoomRepository(db, logs.GetLoggerFromLevel(slog.LevelDebug)), db
}

func countKeys(t *testing.T, db *badger.DB, prefix string) int {
	count := 0
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

func TestRoomRepository_Concurrent_GetOrCreate_Event_Room(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, db := newRoomRepository(t)
	const k = 20

	// Given k callers racing on the same event
	var wg sync.WaitGroup
	ids := make([]string, k)
	created := make([]bool, k)
	errs := make([]error, k)
	wg.Add(k)
	for i := 0; i < k; i++ {
		go func(i int) {
			defer wg.Done()
			room := domain.NewEventRoom(uuid.NewString(), "event-42", "", "Hiking", "", time.Now().UTC())
			var stored domain.Room
			stored, created[i], errs[i] = repository.GetOrCreateRoom(ctx, room)
			ids[i] = stored.ID
		}(i)
	}
	wg.Wait()

	// Then every caller observed the same room
	for i := 0; i < k; i++ {
		req.NoError(errs[i])
		req.Equal(ids[0], ids[i])
	}
	// And exactly one of them created it
	creations := 0
	for _, c := range created {
		if c {
			creations++
		}
	}
	req.Equal(1, creations)
	req.Equal(1, countKeys(t, db, "room:"))

	room, err := repository.GetRoomByEvent(ctx, "event-42")
	req.NoError(err)
	req.Equal(ids[0], room.ID)
	req.Equal(domain.DefaultEventRoomTitle, room.Title)
}

func TestRoomRepository_GetRoom_Not_Found(t *testing.T) {
	req := require.New(t)
	repository, _ := newRoomRepository(t)

	_, err := repository.GetRoom(context.Background(), "nope")
	req.ErrorIs(err, apperrors.ErrRoomNotFound)
	_, err = repository.GetRoomByEvent(context.Background(), "nope")
	req.ErrorIs(err, apperrors.ErrRoomNotFound)
}

func TestRoomRepository_Public_Rooms_Newest_First(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, _ := newRoomRepository(t)
	at := time.Now().UTC()

	for i := 0; i < 3; i++ {
		_, _, err := repository.GetOrCreateRoom(ctx, domain.Room{
			ID:        fmt.Sprintf("public-%d", i),
			Kind:      domain.PublicRoom,
			Title:     fmt.Sprintf("Room %d", i),
			IsPublic:  true,
			CreatedAt: at.Add(time.Duration(i) * time.Minute),
		})
		req.NoError(err)
	}
	// And a private event room which must not be listed
	_, _, err := repository.GetOrCreateRoom(ctx, domain.NewEventRoom("private", "event-1", "", "", "", at))
	req.NoError(err)

	page1, err := repository.ListPublicRooms(ctx, domain.NewPage(1, 2, domain.DefaultPageSize))
	req.NoError(err)
	page2, err := repository.ListPublicRooms(ctx, domain.NewPage(2, 2, domain.DefaultPageSize))
	req.NoError(err)

	req.Len(page1, 2)
	req.Equal("public-2", page1[0].ID)
	req.Equal("public-1", page1[1].ID)
	req.Len(page2, 1)
	req.Equal("public-0", page2[0].ID)
}

func TestRoomRepository_UpsertMember_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, _ := newRoomRepository(t)
	at := time.Now().UTC()

	// Given alice owns the room
	_, created, err := repository.UpsertMember(ctx, domain.Membership{
		RoomID: "room-1", UserID: "alice", DisplayName: "Alice", Role: domain.OwnerRole, JoinedAt: at, LastSeenAt: at,
	})
	req.NoError(err)
	req.True(created)

	// When she joins again as a plain member with a new name
	later := at.Add(time.Hour)
	member, created, err := repository.UpsertMember(ctx, domain.Membership{
		RoomID: "room-1", UserID: "alice", DisplayName: "Alice B.", Role: domain.MemberRole, JoinedAt: later, LastSeenAt: later,
	})

	// Then the membership is updated, not duplicated, and still owner
	req.NoError(err)
	req.False(created)
	req.Equal("Alice B.", member.DisplayName)
	req.Equal(domain.OwnerRole, member.Role)
	req.True(member.JoinedAt.Equal(at))
	count, err := repository.CountMembers(ctx, "room-1")
	req.NoError(err)
	req.Equal(1, count)
}

func TestRoomRepository_Members_And_User_Rooms(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, _ := newRoomRepository(t)
	at := time.Now().UTC()

	room, _, err := repository.GetOrCreateRoom(ctx, domain.Room{ID: "room-1", Kind: domain.PublicRoom, IsPublic: true, CreatedAt: at})
	req.NoError(err)
	for i, user := range []string{"carol", "bob", "alice"} {
		role := domain.MemberRole
		if user == "bob" {
			role = domain.OwnerRole
		}
		joined := at.Add(time.Duration(i) * time.Minute)
		_, _, err = repository.UpsertMember(ctx, domain.Membership{RoomID: room.ID, UserID: user, Role: role, JoinedAt: joined, LastSeenAt: joined})
		req.NoError(err)
	}

	// Owners first, then by join date
	members, err := repository.ListMembers(ctx, room.ID, domain.NewPage(1, 10, domain.DefaultPageSize))
	req.NoError(err)
	req.Equal([]string{"bob", "carol", "alice"}, []string{members[0].UserID, members[1].UserID, members[2].UserID})

	rooms, err := repository.ListUserRooms(ctx, "alice", domain.NewPage(1, 10, domain.DefaultPageSize))
	req.NoError(err)
	req.Len(rooms, 1)

	// When alice leaves
	req.NoError(repository.RemoveMember(ctx, room.ID, "alice"))

	// Then she is neither a member nor listing the room
	_, err = repository.GetMember(ctx, room.ID, "alice")
	req.ErrorIs(err, apperrors.ErrMembershipNotFound)
	rooms, err = repository.ListUserRooms(ctx, "alice", domain.NewPage(1, 10, domain.DefaultPageSize))
	req.NoError(err)
	req.Empty(rooms)

	// And leaving twice is reported
	req.ErrorIs(repository.RemoveMember(ctx, room.ID, "alice"), apperrors.ErrMembershipNotFound)
}
