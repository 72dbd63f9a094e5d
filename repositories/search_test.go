package repositories

import (
	"chat-hub/domain/search"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newSearchIndex(t *testing.T) *SearchIndex {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewSearchIndex(writer, logs.GetLoggerFromLevel(slog.LevelDebug))
}

func TestSearchIndex_Room_Isolation_And_Case(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := newSearchIndex(t)
	at := time.Now().UTC()

	inRoom := newMessage("room-1", "alice", "Secret rooftop Party tonight", at)
	otherRoom := newMessage("room-2", "bob", "secret party elsewhere", at)
	noise := newMessage("room-1", "carol", "nothing to see", at)
	req.NoError(index.Index(inRoom))
	req.NoError(index.Index(otherRoom))
	req.NoError(index.Index(noise))

	// When searching room-1 with a different case
	ids, total, err := index.Search(ctx, search.NewQuery("room-1", "PARTY", 10))

	// Then only the room-1 message matches
	req.NoError(err)
	req.Equal(uint64(1), total)
	req.Len(ids, 1)
	req.Equal(inRoom.ID, ids[0])
}

func TestSearchIndex_Deleted_Message_Is_Not_Found(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := newSearchIndex(t)
	message := newMessage("room-1", "alice", "temporary announcement", time.Now().UTC())
	req.NoError(index.Index(message))

	req.NoError(index.Delete(message.ID))

	ids, total, err := index.Search(ctx, search.NewQuery("room-1", "announcement", 10))
	req.NoError(err)
	req.Zero(total)
	req.Empty(ids)
}

func TestSearchIndex_Empty_Terms(t *testing.T) {
	req := require.New(t)
	index := newSearchIndex(t)

	ids, total, err := index.Search(context.Background(), search.NewQuery("room-1", "/find", 10))
	req.NoError(err)
	req.Zero(total)
	req.Empty(ids)
}
