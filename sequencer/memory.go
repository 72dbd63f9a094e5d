package sequencer

import (
	"chat-hub/domain"
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const lockStripes = 64

// MemoryStore keeps stream states in process memory.
// Locks are striped by key so unrelated streams rarely contend.
type MemoryStore struct {
	locks     [lockStripes]sync.Mutex
	mu        sync.Mutex
	states    map[domain.StreamKey]domain.StreamState
	closed    map[domain.StreamKey]time.Time // key -> marker expiry
	retention time.Duration
	now       func() time.Time
}

func NewMemoryStore(retention time.Duration) *MemoryStore {
	return &MemoryStore{
		states:    make(map[domain.StreamKey]domain.StreamState),
		closed:    make(map[domain.StreamKey]time.Time),
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Lock(_ context.Context, key domain.StreamKey) (func(), error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.String()))
	l := &s.locks[h.Sum32()%lockStripes]
	l.Lock()
	return l.Unlock, nil
}

func (s *MemoryStore) Load(_ context.Context, key domain.StreamKey) (*domain.StreamState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expiry, ok := s.closed[key]; ok {
		if s.now().Before(expiry) {
			return &domain.StreamState{Key: key, Closed: true}, nil
		}
		delete(s.closed, key)
	}
	state, ok := s.states[key]
	if !ok {
		return nil, nil
	}
	state.Buffer = append([]domain.StreamChunk(nil), state.Buffer...)
	return &state, nil
}

func (s *MemoryStore) Save(_ context.Context, state domain.StreamState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.Buffer = append([]domain.StreamChunk(nil), state.Buffer...)
	s.states[state.Key] = state
	return nil
}

func (s *MemoryStore) Close(_ context.Context, key domain.StreamKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	s.closed[key] = s.now().Add(s.retention)
	return nil
}

// Idle returns the open streams last seen before the given instant.
// Expired closed markers are pruned on the way.
func (s *MemoryStore) Idle(_ context.Context, before time.Time) ([]domain.StreamKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, expiry := range s.closed {
		if !now.Before(expiry) {
			delete(s.closed, key)
		}
	}
	var keys []domain.StreamKey
	for key, state := range s.states {
		if state.LastSeenAt.Before(before) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
