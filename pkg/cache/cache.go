// Package cache stores probed file headers so repeated catalog scans skip
// re-reading unchanged files.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: stores nothing
//
// Keys come from a [Keyer]. The default keyer hashes the file path together
// with its size and modification time, so an edited file misses the cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Cache is a byte-oriented key value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache never stores anything; every Get misses.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }

// Keyer derives cache keys.
type Keyer interface {
	// HeaderKey identifies the probed header of one file version.
	HeaderKey(path string, size int64, modTime time.Time, format string) string

	// StatsKey identifies the edge statistics of one file version.
	StatsKey(path string, size int64, modTime time.Time) string
}

// DefaultKeyer builds hashed keys with a type prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HeaderKey returns "header:<sha256>".
func (DefaultKeyer) HeaderKey(path string, size int64, modTime time.Time, format string) string {
	return digestKey("header", path, size, modTime.UnixNano(), format)
}

// StatsKey returns "stats:<sha256>".
func (DefaultKeyer) StatsKey(path string, size int64, modTime time.Time) string {
	return digestKey("stats", path, size, modTime.UnixNano())
}

// digestKey joins kind and the hex SHA-256 of the JSON encoded parts.
func digestKey(kind string, parts ...any) string {
	raw, _ := json.Marshal(parts)
	sum := sha256.Sum256(raw)
	return kind + ":" + hex.EncodeToString(sum[:])
}

// KeyType returns the type prefix of a key built by a Keyer ("header",
// "stats"), ignoring any scope prefix. Other keys report "unknown".
func KeyType(key string) string {
	n := len(key) - 65
	if n < 0 || key[n] != ':' {
		return "unknown"
	}
	head := key[:n]
	if i := strings.LastIndexByte(head, ':'); i >= 0 {
		head = head[i+1:]
	}
	return head
}
