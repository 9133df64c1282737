package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store is a TTL cache of JSON documents, one file per entry.
// Entries older than ttl (by file mtime) are treated as absent and removed.
type Store struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

func New(dir string, ttl time.Duration, enabled bool) *Store {
	return &Store{dir: dir, ttl: ttl, enabled: enabled && dir != "" && ttl > 0}
}

// Enabled reports whether Get can ever hit.
func (s *Store) Enabled() bool { return s != nil && s.enabled }

func (s *Store) path(namespace, key string) string {
	sum := md5.Sum([]byte(namespace + "\x00" + strings.ToUpper(key)))
	return filepath.Join(s.dir, fmt.Sprintf("%s_%x.json", namespace, sum))
}

// Get decodes the entry into out and reports whether a fresh entry existed.
func (s *Store) Get(namespace, key string, out any) bool {
	if !s.Enabled() {
		return false
	}
	p := s.path(namespace, key)
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > s.ttl {
		_ = os.Remove(p)
		return false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// Set writes v under key, replacing the previous entry atomically.
func (s *Store) Set(namespace, key string, v any) error {
	if !s.Enabled() {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close cache entry: %w", err)
	}
	return os.Rename(tmp.Name(), s.path(namespace, key))
}

// Purge removes expired entries and returns how many were deleted.
func (s *Store) Purge() (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > s.ttl {
			if os.Remove(filepath.Join(s.dir, e.Name())) == nil {
				removed++
			}
		}
	}
	return removed, nil
}
