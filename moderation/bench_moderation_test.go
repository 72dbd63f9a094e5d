package moderation

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func Test_Moderation_Startup_From_Blacklist(t *testing.T) {
	// Given a large blacklist stored in badger
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	wordCount := 100_000
	words := make([]string, 0, wordCount+1)
	for i := 0; i < wordCount; i++ {
		words = append(words, fmt.Sprintf("word_%d", i))
	}
	words = append(words, "Badger")

	startSeed := time.Now()
	req.NoError(SeedWords(db, words))
	log.Debug("Seeded blacklist", "words", wordCount, "elapsed", time.Since(startSeed))

	// When the moderator is built from it
	startLoad := time.Now()
	loaded, err := LoadWords(db)
	req.NoError(err)
	req.Len(loaded, wordCount+1)
	mod, err := NewModerator(loaded, replacementChar, log)
	req.NoError(err)
	log.Debug("Moderator built from badger", "elapsed", time.Since(startLoad))

	// Then stored words are censored case-insensitively
	content, found := mod.Censor("a BADGER appears")
	req.Equal("a ****** appears", content)
	req.Equal([]string{"badger"}, found)
}
