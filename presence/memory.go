package presence

import (
	"chat-hub/domain"
	"context"
	"sort"
	"sync"
	"time"
)

type Set map[string]struct{}

type roomEntry struct {
	count      int
	lastSeenAt time.Time
}

// MemoryStore keeps presence in process memory.
// It is only correct when a single instance serves all connections.
type MemoryStore struct {
	mu          sync.Mutex
	rooms       map[string]map[string]*roomEntry // room -> user -> refcount
	connections map[string]Set                   // user -> connection ids
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:       make(map[string]map[string]*roomEntry),
		connections: make(map[string]Set),
	}
}

func (s *MemoryStore) AddConnection(_ context.Context, userID, connID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.connections[userID]; !ok {
		s.connections[userID] = make(Set)
	}
	s.connections[userID][connID] = struct{}{}
	return len(s.connections[userID]), nil
}

func (s *MemoryStore) RemoveConnection(_ context.Context, userID, connID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conns, ok := s.connections[userID]
	if !ok {
		return 0, nil
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(s.connections, userID)
		return 0, nil
	}
	return len(conns), nil
}

func (s *MemoryStore) Connections(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections[userID]), nil
}

func (s *MemoryStore) Enter(_ context.Context, roomID, userID string, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, ok := s.rooms[roomID]
	if !ok {
		users = make(map[string]*roomEntry)
		s.rooms[roomID] = users
	}
	entry, ok := users[userID]
	if !ok {
		entry = &roomEntry{}
		users[userID] = entry
	}
	entry.count++
	entry.lastSeenAt = at
	return entry.count, nil
}

func (s *MemoryStore) Exit(_ context.Context, roomID, userID string, at time.Time) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, ok := s.rooms[roomID]
	if !ok {
		return 0, false, nil
	}
	entry, ok := users[userID]
	if !ok || entry.count <= 0 {
		return 0, false, nil
	}
	entry.count--
	entry.lastSeenAt = at
	if entry.count == 0 {
		delete(users, userID)
		// No empty room left behind
		if len(users) == 0 {
			delete(s.rooms, roomID)
		}
	}
	return entry.count, true, nil
}

func (s *MemoryStore) Count(_ context.Context, roomID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.rooms[roomID][userID]; ok {
		return entry.count, nil
	}
	return 0, nil
}

func (s *MemoryStore) Online(_ context.Context, roomID string) ([]domain.OnlineUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.rooms[roomID]
	online := make([]domain.OnlineUser, 0, len(users))
	for userID, entry := range users {
		online = append(online, domain.OnlineUser{
			UserID:      userID,
			Connections: entry.count,
			LastSeenAt:  entry.lastSeenAt,
		})
	}
	sort.Slice(online, func(i, j int) bool { return online[i].UserID < online[j].UserID })
	return online, nil
}
