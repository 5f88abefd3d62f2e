package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	secret    string
	expiresAt time.Time
}

// MemoryPending is the single-process fallback used when no redis URL is
// configured. Expired entries are dropped lazily on read and by Sweep.
type MemoryPending struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryPending() *MemoryPending {
	return &MemoryPending{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryPending) Put(_ context.Context, accountID, secret string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = PendingTwoFactorTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[accountID] = memoryEntry{secret: secret, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryPending) Get(_ context.Context, accountID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[accountID]
	if !ok {
		return "", ErrMiss
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, accountID)
		return "", ErrMiss
	}
	return e.secret, nil
}

func (m *MemoryPending) Delete(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, accountID)
	return nil
}

func (m *MemoryPending) Ping(context.Context) error { return nil }

// Sweep removes expired entries and returns how many were dropped.
func (m *MemoryPending) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}
