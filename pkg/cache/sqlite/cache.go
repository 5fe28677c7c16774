package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/borderdrill/borderdrill/pkg/cache"
	"github.com/borderdrill/borderdrill/pkg/models"
)

// Cache is an exact-match reply cache backed by SQLite.
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
	hits   atomic.Int64
	misses atomic.Int64
}

var (
	_ cache.Store         = (*Cache)(nil)
	_ cache.StatsReporter = (*Cache)(nil)
)

const createCacheTable = `
CREATE TABLE IF NOT EXISTS reply_cache (
	key_hash TEXT PRIMARY KEY,
	reply TEXT NOT NULL,
	created_at_ms INTEGER NOT NULL,
	ttl_ms INTEGER NOT NULL
);
`

// New creates a Cache with the given database path and TTL. A nil now uses time.Now.
func New(dbPath string, ttl time.Duration, now func() time.Time) (*Cache, error) {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if now == nil {
		now = time.Now
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// Keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: now}, nil
}

// HashKey computes the SHA-256 of a serialized message sequence.
func HashKey(key string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// Get retrieves a cached reply. Returns false if not found or expired.
func (c *Cache) Get(key string) (string, bool) {
	var reply string
	var createdAt, ttl int64

	err := c.db.QueryRow(
		`SELECT reply, created_at_ms, ttl_ms FROM reply_cache WHERE key_hash = ?`,
		HashKey(key),
	).Scan(&reply, &createdAt, &ttl)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("cache get error: %v", err)
		}
		c.misses.Add(1)
		return "", false
	}

	if c.now().UnixMilli() >= createdAt+ttl {
		c.misses.Add(1)
		return "", false
	}

	c.hits.Add(1)
	return reply, true
}

// Put stores a reply, replacing any previous entry and its TTL.
func (c *Cache) Put(key, value string) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO reply_cache (key_hash, reply, created_at_ms, ttl_ms) VALUES (?, ?, ?, ?)`,
		HashKey(key), value, c.now().UnixMilli(), c.ttl.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Stats returns cache performance metrics.
func (c *Cache) Stats() (models.CacheStats, error) {
	var count int64
	err := c.db.QueryRow(`SELECT COUNT(*) FROM reply_cache`).Scan(&count)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return models.CacheStats{
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Clear removes cache entries. If expiredOnly is true, only expired entries are removed.
func (c *Cache) Clear(expiredOnly bool) error {
	var err error
	if expiredOnly {
		_, err = c.db.Exec(`DELETE FROM reply_cache WHERE created_at_ms + ttl_ms <= ?`, c.now().UnixMilli())
	} else {
		_, err = c.db.Exec(`DELETE FROM reply_cache`)
	}
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
