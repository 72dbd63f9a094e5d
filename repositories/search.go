package repositories

import (
	"chat-hub/domain"
	"chat-hub/domain/search"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

const (
	bodyField = "body"
	roomField = "room"
)

type ISearchIndex interface {
	Index(message domain.Message) error
	Delete(id uuid.UUID) error
	// Search returns the ids of the best matching messages and the total hit count.
	Search(ctx context.Context, query search.Query) ([]uuid.UUID, uint64, error)
}

// SearchIndex is the full-text index of message bodies.
// Badger stays the source of truth: the index only stores ids and room.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

func (s *SearchIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField(bodyField, message.Body)).
		AddField(bluge.NewKeywordField(roomField, message.RoomID).StoreValue())
	if err := s.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message %s: %w", message.ID, err)
	}
	return nil
}

func (s *SearchIndex) Delete(id uuid.UUID) error {
	return s.writer.Delete(bluge.Identifier(id.String()))
}

func (s *SearchIndex) Search(ctx context.Context, query search.Query) ([]uuid.UUID, uint64, error) {
	if strings.TrimSpace(query.Terms) == "" {
		return nil, 0, nil
	}
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, 0, fmt.Errorf("open index reader: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField(bodyField))
	if query.RoomID != "" {
		q.AddMust(bluge.NewTermQuery(query.RoomID).SetField(roomField))
	}
	request := bluge.NewTopNSearch(query.Limit, q).WithStandardAggregations()

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, fmt.Errorf("search %q: %w", query.Terms, err)
	}

	var ids []uuid.UUID
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				id, parseErr := uuid.ParseBytes(value)
				if parseErr != nil {
					s.log.Warn("Unexpected document id in index", "id", string(value))
					return true
				}
				ids = append(ids, id)
			}
			return true
		})
		if err != nil {
			break
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read search results: %w", err)
	}
	return ids, matches.Aggregations().Count(), nil
}
