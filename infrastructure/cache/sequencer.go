package cache

import (
	"chat-hub/contract"
	"chat-hub/domain"
	apperrors "chat-hub/errors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ contract.ISequencerStore = (*SequencerStore)(nil)

const (
	lockRetryDelay = 10 * time.Millisecond
	idleIndexKey   = KeyPrefix + "seq:idle"
)

// unlockScript releases a lock only if it is still held by the caller's token.
var unlockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SequencerStore keeps stream states in Redis so any instance can take the next chunk of a stream.
// The idle index is a sorted set of stream keys scored by their last activity.
type SequencerStore struct {
	client    *redis.Client
	lockTTL   time.Duration
	lockWait  time.Duration
	retention time.Duration
}

func NewSequencerStore(client *redis.Client, lockTTL, lockWait, retention time.Duration) *SequencerStore {
	return &SequencerStore{client: client, lockTTL: lockTTL, lockWait: lockWait, retention: retention}
}

func stateKey(key domain.StreamKey) string  { return KeyPrefix + "seq:state:" + key.String() }
func lockKey(key domain.StreamKey) string   { return KeyPrefix + "seq:lock:" + key.String() }
func closedKey(key domain.StreamKey) string { return KeyPrefix + "seq:closed:" + key.String() }

// Lock spins on SET NX until it gets the lock, lockWait expires or ctx is done.
func (s *SequencerStore) Lock(ctx context.Context, key domain.StreamKey) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(s.lockWait)
	for {
		ok, err := s.client.SetNX(ctx, lockKey(key), token, s.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("lock stream %s: %w", key, err)
		}
		if ok {
			return func() {
				// The caller's ctx may already be cancelled, the lock must still be released
				_ = unlockScript.Run(context.WithoutCancel(ctx), s.client, []string{lockKey(key)}, token).Err()
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("lock stream %s: %w", key, apperrors.ErrStreamLockTaken)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
}

func (s *SequencerStore) Load(ctx context.Context, key domain.StreamKey) (*domain.StreamState, error) {
	var closed *redis.IntCmd
	var state *redis.StringCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		closed = pipe.Exists(ctx, closedKey(key))
		state = pipe.Get(ctx, stateKey(key))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load stream %s: %w", key, err)
	}
	if closed.Val() > 0 {
		return &domain.StreamState{Key: key, Closed: true}, nil
	}
	raw, err := state.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var loaded domain.StreamState
	if err = json.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("decode stream %s: %w", key, err)
	}
	return &loaded, nil
}

func (s *SequencerStore) Save(ctx context.Context, state domain.StreamState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	member, err := json.Marshal(state.Key)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, stateKey(state.Key), raw, 0)
		pipe.ZAdd(ctx, idleIndexKey, redis.Z{Score: float64(state.LastSeenAt.UnixMilli()), Member: string(member)})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save stream %s: %w", state.Key, err)
	}
	return nil
}

func (s *SequencerStore) Close(ctx context.Context, key domain.StreamKey) error {
	member, err := json.Marshal(key)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, stateKey(key))
		pipe.ZRem(ctx, idleIndexKey, string(member))
		pipe.Set(ctx, closedKey(key), "1", s.retention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("close stream %s: %w", key, err)
	}
	return nil
}

// Idle lists the streams last seen strictly before the given instant.
// Closed markers expire on their own through their TTL.
func (s *SequencerStore) Idle(ctx context.Context, before time.Time) ([]domain.StreamKey, error) {
	members, err := s.client.ZRangeByScore(ctx, idleIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(before.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("idle streams: %w", err)
	}
	keys := make([]domain.StreamKey, 0, len(members))
	for _, member := range members {
		var key domain.StreamKey
		if err := json.Unmarshal([]byte(member), &key); err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}
