package cache

import (
	"container/list"
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

type memoryEntry struct {
	key     string
	value   []byte
	expires time.Time
}

// Stats is a snapshot of Memory counters.
type Stats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Memory is an LRU cache with lazy expiry. Expired entries are dropped when
// read or when they reach the back of the list.
type Memory struct {
	items      map[string]*list.Element
	lru        *list.List
	now        func() time.Time
	defaultTTL time.Duration
	maxEntries int
	closed     bool
	mu         sync.Mutex

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithMaxEntries bounds the number of entries. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory) { m.maxEntries = max(n, 0) }
}

// WithDefaultTTL sets the TTL used when Set receives zero.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(m *Memory) { m.defaultTTL = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates an in-process cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		now:        time.Now,
		defaultTTL: DefaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a copy of the stored value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	elem, ok := m.items[key]
	if !ok {
		m.misses.Add(1)
		return nil, ErrNotFound
	}
	e := elem.Value.(*memoryEntry)
	if m.expired(e) {
		m.remove(elem)
		m.misses.Add(1)
		return nil, ErrNotFound
	}

	m.lru.MoveToFront(elem)
	m.hits.Add(1)
	return slices.Clone(e.value), nil
}

// Set stores a copy of value.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	e := &memoryEntry{key: key, value: slices.Clone(value)}
	if ttl = resolveTTL(ttl, m.defaultTTL); ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		elem.Value = e
		m.lru.MoveToFront(elem)
		return nil
	}

	m.items[key] = m.lru.PushFront(e)
	for m.maxEntries > 0 && m.lru.Len() > m.maxEntries {
		m.remove(m.lru.Back())
		m.evictions.Add(1)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	for _, key := range keys {
		if elem, ok := m.items[key]; ok {
			m.remove(elem)
		}
	}
	return nil
}

// Len returns the number of entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

// Stats returns the current counters.
func (m *Memory) Stats() Stats {
	return Stats{
		Entries:   m.Len(),
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Evictions: m.evictions.Load(),
	}
}

// Close drops all entries. Further calls return ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	clear(m.items)
	m.lru.Init()
	return nil
}

func (m *Memory) expired(e *memoryEntry) bool {
	return !e.expires.IsZero() && !m.now().Before(e.expires)
}

func (m *Memory) remove(elem *list.Element) {
	m.lru.Remove(elem)
	delete(m.items, elem.Value.(*memoryEntry).key)
}

var _ Cache = (*Memory)(nil)
