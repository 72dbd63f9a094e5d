package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		limit     int
		wantTerms string
		wantLimit int
	}{
		{"plain words", "rooftop party", 10, "rooftop party", 10},
		{"command and quotes", `/find "invoice"`, 10, "invoice", 10},
		{"limit flag", "bike --limit 5", 10, "bike", 5},
		{"invalid limit flag", "bike --limit many", 10, "bike", 10},
		{"default limit", "bike", 0, "bike", DefaultLimit},
		{"limit capped", "bike", 1000, "bike", MaxLimit},
		{"only a command", "/find", 10, "", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			query := NewQuery("room-1", tt.input, tt.limit)
			req.Equal(tt.wantTerms, query.Terms)
			req.Equal(tt.wantLimit, query.Limit)
			req.Equal("room-1", query.RoomID)
		})
	}
}
