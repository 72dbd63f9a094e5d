package moderation

import (
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const blacklistPrefix = "blacklist:"

// SeedWords stores censored words; the word is the key and the value is empty.
func SeedWords(db *badger.DB, words []string) error {
	wb := db.NewWriteBatch()
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if err := wb.Set([]byte(blacklistPrefix+word), nil); err != nil {
			wb.Cancel()
			return err
		}
	}
	return wb.Flush()
}

// LoadWords reads every censored word, keys only.
func LoadWords(db *badger.DB) ([]string, error) {
	var words []string
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(blacklistPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			words = append(words, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return words, err
}
