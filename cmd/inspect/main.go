// Command inspect prints the rooms, memberships and messages stored in a Badger directory.
// It opens the database read-only, so it can run next to a live hub.
package main

import (
	"chat-hub/domain"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "room:", "Prefix to scan: room:, member:, msg: or blacklist:")
	limit := flag.Int("limit", 200, "Maximum number of rows")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Timestamp", "Owner", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes) && rows < *limit; it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				row, ok := describe(key, v)
				if !ok {
					fmt.Println(color.Yellow.Sprintf("skipping undecodable key %s", key))
					return nil
				}
				table.Append(row)
				rows++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	fmt.Println(color.Green.Sprintf("%d row(s) under %q", rows, *prefix))
}

// describe turns one stored value into a table row, according to its key prefix.
func describe(key string, value []byte) ([]string, bool) {
	switch {
	case strings.HasPrefix(key, "room:"):
		var room domain.Room
		if err := json.Unmarshal(value, &room); err != nil {
			return nil, false
		}
		return []string{key, color.Cyan.Sprint(room.Kind), room.CreatedAt.Format("2006-01-02 15:04:05"),
			room.CreatedBy, room.Title}, true
	case strings.HasPrefix(key, "member:"):
		var member domain.Membership
		if err := json.Unmarshal(value, &member); err != nil {
			return nil, false
		}
		return []string{key, color.Magenta.Sprint(member.Role), member.JoinedAt.Format("2006-01-02 15:04:05"),
			member.UserID, member.DisplayName}, true
	case strings.HasPrefix(key, "msg:"):
		var message domain.Message
		if err := json.Unmarshal(value, &message); err != nil {
			return nil, false
		}
		kind := color.Blue.Sprint(message.Type)
		if message.IsDeleted() {
			kind = color.Red.Sprint("deleted")
		}
		return []string{key, kind, message.CreatedAt.Format("15:04:05"), message.AuthorID, shorten(message.Body, 60)}, true
	case strings.HasPrefix(key, "blacklist:"):
		return []string{key, "word", "", "", strings.TrimPrefix(key, "blacklist:")}, true
	}
	return []string{key, "raw", "", "", shorten(string(value), 60)}, true
}

func shorten(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
