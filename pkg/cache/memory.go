package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/borderdrill/borderdrill/pkg/models"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process Store. Expired entries are dropped lazily on Get.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	hits    atomic.Int64
	misses  atomic.Int64
}

var (
	_ Store         = (*Memory)(nil)
	_ StatsReporter = (*Memory)(nil)
)

// NewMemory creates a Memory store. A nil now uses time.Now; a non-positive
// ttl uses DefaultTTL.
func NewMemory(ttl time.Duration, now func() time.Time) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Memory{entries: make(map[string]entry), ttl: ttl, now: now}
}

// Get returns the cached value for key if present and not expired.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		m.misses.Add(1)
		return "", false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		m.misses.Add(1)
		return "", false
	}
	m.hits.Add(1)
	return e.value, true
}

// Put stores value under key with a fresh TTL.
func (m *Memory) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Stats returns cache performance metrics. Entries counts stored keys,
// including expired ones not yet collected.
func (m *Memory) Stats() (models.CacheStats, error) {
	m.mu.Lock()
	n := len(m.entries)
	m.mu.Unlock()
	return models.CacheStats{
		Entries: int64(n),
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
	}, nil
}
