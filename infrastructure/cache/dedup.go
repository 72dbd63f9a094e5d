package cache

import (
	"chat-hub/contract"
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ contract.IDedupStore = (*DedupStore)(nil)

// DedupStore remembers handled event ids for ttl.
type DedupStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDedupStore(client *redis.Client, ttl time.Duration) *DedupStore {
	return &DedupStore{client: client, ttl: ttl}
}

func dedupKey(id string) string { return KeyPrefix + "dedup:" + id }

func (s *DedupStore) Seen(ctx context.Context, id string) (bool, error) {
	count, err := s.client.Exists(ctx, dedupKey(id)).Result()
	return count > 0, err
}

func (s *DedupStore) Mark(ctx context.Context, id string) error {
	return s.client.SetNX(ctx, dedupKey(id), "1", s.ttl).Err()
}
