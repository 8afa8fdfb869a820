package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	cacheFileExtension = ".json"
	bytesPerMB         = 1024 * 1024
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// Options configures a FileStore.
type Options struct {
	Directory  string
	Enabled    bool
	TTLSeconds int
	MaxSizeMB  int
}

// FileStore is a directory of JSON cache entries. It is safe for concurrent
// use within one process.
type FileStore struct {
	directory string
	enabled   bool
	ttl       time.Duration
	maxBytes  int64
	now       func() time.Time

	mu sync.RWMutex
}

// Stats describes the contents of a FileStore.
type Stats struct {
	Entries   int   `json:"entries"    yaml:"entries"`
	Expired   int   `json:"expired"    yaml:"expired"`
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes"`
}

// NewFileStore opens (creating if needed) a store in opts.Directory. A
// disabled store is returned as-is and reports ErrCacheDisabled from every
// operation.
func NewFileStore(opts Options) (*FileStore, error) {
	if !opts.Enabled {
		return &FileStore{now: time.Now}, nil
	}
	if opts.Directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if opts.TTLSeconds < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTTL, opts.TTLSeconds)
	}
	if err := os.MkdirAll(opts.Directory, 0750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{
		directory: opts.Directory,
		enabled:   true,
		ttl:       time.Duration(opts.TTLSeconds) * time.Second,
		maxBytes:  int64(opts.MaxSizeMB) * bytesPerMB,
		now:       time.Now,
	}, nil
}

// Get returns the entry for key. Expired entries are reported as
// ErrCacheExpired together with the entry, so callers may still show stale
// data; use Prune to remove them.
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := readEntry(s.keyToFilePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCacheNotFound
		}
		return nil, err
	}
	if entry.ExpiredAt(s.now()) {
		return entry, ErrCacheExpired
	}
	return entry, nil
}

// Set stores data under key, replacing any earlier entry, then evicts the
// oldest entries if the store is over its size limit.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.Marshal(newEntry(key, data, s.ttl, s.now()))
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	filePath := s.keyToFilePath(key)
	tempPath := filePath + ".tmp"
	if err = os.WriteFile(tempPath, encoded, 0600); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err = os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming cache file: %w", err)
	}

	return s.evictLocked()
}

// Delete removes the entry for key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.keyToFilePath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// DeletePrefix removes every entry whose key starts with prefix and returns
// how many were removed.
func (s *FileStore) DeletePrefix(prefix string) (int, error) {
	return s.removeWhere(func(e *Entry) bool { return strings.HasPrefix(e.Key, prefix) })
}

// Prune removes expired entries and returns how many were removed.
func (s *FileStore) Prune() (int, error) {
	now := s.now()
	return s.removeWhere(func(e *Entry) bool { return e.ExpiredAt(now) })
}

// Clear removes every entry and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	return s.removeWhere(func(*Entry) bool { return true })
}

// Stats counts entries and their total size on disk.
func (s *FileStore) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.listFiles()
	if err != nil {
		return Stats{}, err
	}
	now := s.now()
	var st Stats
	for _, f := range files {
		st.Entries++
		st.SizeBytes += f.size
		if entry, readErr := readEntry(f.path); readErr == nil && entry.ExpiredAt(now) {
			st.Expired++
		}
	}
	return st, nil
}

// Enabled reports whether the store is active.
func (s *FileStore) Enabled() bool { return s.enabled }

// Directory returns the cache directory.
func (s *FileStore) Directory() string { return s.directory }

// TTL returns the entry lifetime, zero meaning no expiry.
func (s *FileStore) TTL() time.Duration { return s.ttl }

func (s *FileStore) removeWhere(match func(*Entry) bool) (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		entry, readErr := readEntry(f.path)
		if readErr != nil {
			// Unreadable files are garbage; drop them with everything else.
			if rmErr := os.Remove(f.path); rmErr == nil {
				removed++
			}
			continue
		}
		if !match(entry) {
			continue
		}
		if rmErr := os.Remove(f.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return removed, fmt.Errorf("removing cache file %s: %w", filepath.Base(f.path), rmErr)
		}
		removed++
	}
	return removed, nil
}

// evictLocked removes the least recently written entries until the store is
// within maxBytes. The caller holds mu.
func (s *FileStore) evictLocked() error {
	if s.maxBytes <= 0 {
		return nil
	}
	files, err := s.listFiles()
	if err != nil {
		return err
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })
	for _, f := range files {
		if total <= s.maxBytes {
			break
		}
		if rmErr := os.Remove(f.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return fmt.Errorf("evicting cache file: %w", rmErr)
		}
		total -= f.size
	}
	return nil
}

type cacheFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (s *FileStore) listFiles() ([]cacheFile, error) {
	dirEntries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	files := make([]cacheFile, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != cacheFileExtension {
			continue
		}
		info, infoErr := de.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, cacheFile{
			path:    filepath.Join(s.directory, de.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

// keyToFilePath hashes key so arbitrary URLs and filter values map to safe
// file names.
func (s *FileStore) keyToFilePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.directory, hex.EncodeToString(sum[:])+cacheFileExtension)
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}
	return &entry, nil
}
