// Package cache holds traveler replies keyed by the exact outbound message
// sequence.
package cache

import (
	"encoding/json"
	"time"

	"github.com/borderdrill/borderdrill/pkg/models"
)

// DefaultTTL is how long a reply stays cached after insertion.
const DefaultTTL = 300 * time.Second

// Store is a TTL key/value store for provider replies.
// An entry is never returned after its TTL has elapsed, and Put on an
// existing key restarts the TTL.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string) error
}

// StatsReporter is implemented by stores that track hit and miss counts.
type StatsReporter interface {
	Stats() (models.CacheStats, error)
}

// Key serializes messages in order, roles and contents included. Two message
// sequences share a key only if every role/content pair matches in order.
func Key(messages []models.Message) string {
	data, err := json.Marshal(messages)
	if err != nil {
		// Message holds only strings, Marshal cannot fail.
		panic(err)
	}
	return string(data)
}
