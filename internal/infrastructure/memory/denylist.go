package memory

import (
	"context"
	"sync"
	"time"
)

// Denylist holds revoked token ids in process memory. Entries vanish on restart
// and are not shared between replicas; use the Redis denylist for that.
type Denylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewDenylist() *Denylist {
	return &Denylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// WithClock is for tests.
func (d *Denylist) WithClock(now func() time.Time) *Denylist {
	d.now = now
	return d
}

func (d *Denylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, until := range d.entries {
		if !until.After(now) {
			delete(d.entries, id)
		}
	}
	d.entries[tokenID] = now.Add(ttl)
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	until, ok := d.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !until.After(d.now()) {
		delete(d.entries, tokenID)
		return false, nil
	}
	return true, nil
}
