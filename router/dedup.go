package router

import (
	"context"
	"sync"
	"time"
)

// MemoryDedup remembers handled event ids for ttl, on a single instance.
type MemoryDedup struct {
	mu   sync.Mutex
	seen map[string]time.Time // id -> expiry
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryDedup(ttl time.Duration) *MemoryDedup {
	return &MemoryDedup{seen: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

func (d *MemoryDedup) Seen(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	expiry, ok := d.seen[id]
	if ok && d.now().After(expiry) {
		delete(d.seen, id)
		return false, nil
	}
	return ok, nil
}

func (d *MemoryDedup) Mark(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for k, expiry := range d.seen {
		if now.After(expiry) {
			delete(d.seen, k)
		}
	}
	d.seen[id] = now.Add(d.ttl)
	return nil
}
