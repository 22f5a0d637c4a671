package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store is a TTL'd JSON blob cache over flat files, addressable by a string
// key. A read failure of any kind (missing file, expired entry, corrupt
// JSON) reports a miss rather than an error so callers always degrade to a
// live fetch.
type Store struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// New creates a Store rooted at dir. Entries older than ttl are treated as
// misses and removed on access. A disabled store misses on every Get and
// discards every Set.
func New(dir string, ttl time.Duration, enabled bool) *Store {
	return &Store{dir: dir, ttl: ttl, enabled: enabled}
}

// Get unmarshals the cached value for key into result and reports whether a
// fresh entry was found.
func (s *Store) Get(key string, result interface{}) bool {
	if !s.enabled {
		return false
	}

	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	if time.Since(info.ModTime()) > s.ttl {
		os.Remove(path)
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	return json.Unmarshal(data, result) == nil
}

// Set stores value under key, creating the cache directory on demand.
func (s *Store) Set(key string, value interface{}) error {
	if !s.enabled {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path(key), data, 0o644)
}

// Delete removes the entry for key if present.
func (s *Store) Delete(key string) {
	os.Remove(s.path(key))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

// sanitizeKey maps a cache key to a safe file name.
func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
