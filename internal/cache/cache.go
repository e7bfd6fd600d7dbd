// Package cache stores fetched judgment bodies keyed by source URL so
// repeated runs do not refetch. A layered memory+disk cache is the
// default; Nop disables caching entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for the fetch cache.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a source URL.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "breachminer:v1:" + hex.EncodeToString(hash[:])
}

// Nop is a cache that stores nothing. Used when caching is disabled.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
