package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/studyabroad-search-api/pkg/errors"
)

type memoryEntry struct {
	payload    []byte
	insertedAt time.Time
	ttl        time.Duration
}

func (e memoryEntry) expired(now time.Time) bool {
	return e.ttl > 0 && !now.Before(e.insertedAt.Add(e.ttl))
}

// MemoryCacheRepository is a process-local TTL cache. Values are stored as
// JSON so callers never share mutable state with the cache.
type MemoryCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	logger  *zap.Logger
}

// MemoryCacheOption customises a MemoryCacheRepository.
type MemoryCacheOption func(*MemoryCacheRepository)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) MemoryCacheOption {
	return func(r *MemoryCacheRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithCacheLogger sets the logger used by the sweeper.
func WithCacheLogger(logger *zap.Logger) MemoryCacheOption {
	return func(r *MemoryCacheRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewMemoryCacheRepository constructs an empty in-memory cache.
func NewMemoryCacheRepository(opts ...MemoryCacheOption) *MemoryCacheRepository {
	r := &MemoryCacheRepository{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get decodes a fresh entry into dest. Expired entries are evicted and reported as a miss.
func (r *MemoryCacheRepository) Get(_ context.Context, key string, dest interface{}) error {
	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if entry.expired(r.now()) {
		r.mu.Lock()
		if current, still := r.entries[key]; still && current.expired(r.now()) {
			delete(r.entries, key)
		}
		r.mu.Unlock()
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set stores value under key for ttl. A non-positive ttl never expires.
func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	r.mu.Lock()
	r.entries[key] = memoryEntry{payload: payload, insertedAt: r.now(), ttl: ttl}
	r.mu.Unlock()
	return nil
}

// Delete removes key if present. An expired entry is evicted but not counted.
func (r *MemoryCacheRepository) Delete(_ context.Context, key string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok {
		return 0, nil
	}
	delete(r.entries, key)
	if entry.expired(r.now()) {
		return 0, nil
	}
	return 1, nil
}

// DeleteByPrefix removes every key starting with prefix.
func (r *MemoryCacheRepository) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key := range r.entries {
		if strings.HasPrefix(key, prefix) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored entries, expired ones included.
func (r *MemoryCacheRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep evicts every expired entry and returns how many were removed.
func (r *MemoryCacheRepository) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, entry := range r.entries {
		if entry.expired(now) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper evicts expired entries every interval until ctx is done.
func (r *MemoryCacheRepository) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := r.Sweep(); removed > 0 {
					r.logger.Debug("cache sweep", zap.Int("removed", removed))
				}
			}
		}
	}()
}
