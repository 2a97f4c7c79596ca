// Package cache stores analysis responses so repeated scans of the same
// contract text do not pay for another API call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key from the identifying parts of an analysis request
// (provider name, model, analyzed text). Parts are hashed so contract text
// never appears in cache file names.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "contractscan:v1:" + hex.EncodeToString(hash[:])
}
