package search

import (
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Query is a parsed message search.
// It decouples the raw user input from what the index needs.
type Query struct {
	RawInput string // The original input from the user
	Terms    string // The text matched against message bodies
	RoomID   string // Room the search is scoped to
	Limit    int    // Maximum number of results
}

// NewQuery parses a raw input scoped to a room.
// Command-style words ("/find") are ignored and a "--limit N" flag overrides limit.
// Example: /find "invoice" --limit 5
func NewQuery(roomID, input string, limit int) Query {
	query := Query{RawInput: input, RoomID: roomID, Limit: clamp(limit)}

	parts := strings.Fields(input)
	var textTerms []string
	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if part == "--limit" && i+1 < len(parts) {
			if n, err := strconv.Atoi(parts[i+1]); err == nil {
				query.Limit = clamp(n)
			}
			i++ // Skip the value part in next iteration
			continue
		}
		if strings.HasPrefix(part, "/") {
			continue
		}
		textTerms = append(textTerms, strings.Trim(part, `"`))
	}

	query.Terms = strings.TrimSpace(strings.Join(textTerms, " "))
	return query
}

func clamp(limit int) int {
	switch {
	case limit < 1:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
