// Package cache stores ranked search results between identical searches.
// A Tiered cache keeps hot entries in process memory (L1) in front of an
// optional Redis instance (L2) that survives restarts.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Callers treat errors as misses; a broken cache never fails a search.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key builds a deterministic cache key from parts.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("cs:%x", hash[:12])
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte) error         { return nil }

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-local cache bounded by entry count.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemory creates a Memory cache. When full, expired entries are purged
// first and then an arbitrary entry is evicted.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Memory{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.data, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictLocked()
	}
	m.entries[key] = memoryEntry{data: value, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Len returns the number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) evictLocked() {
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	for k := range m.entries {
		if len(m.entries) < m.maxEntries {
			return
		}
		delete(m.entries, k)
	}
}

// Tiered reads L1 before L2 and fills L1 on an L2 hit. Writes go to both.
type Tiered struct {
	l1 Cache
	l2 Cache
}

// NewTiered combines two caches. l2 may be nil.
func NewTiered(l1, l2 Cache) *Tiered {
	if l2 == nil {
		l2 = Noop{}
	}
	return &Tiered{l1: l1, l2: l2}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if data, ok, err := t.l1.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}
	data, ok, err := t.l2.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = t.l1.Set(ctx, key, data)
	return data, true, nil
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte) error {
	_ = t.l1.Set(ctx, key, value)
	return t.l2.Set(ctx, key, value)
}
