package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/serroba/shortly-go/internal/shortener"
)

// DefaultMaxAttempts bounds id generation retries on collision.
const DefaultMaxAttempts = 10

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock replaces the time source used for creation and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryStore) {
		m.now = now
	}
}

// WithMaxAttempts sets how many ids are tried before Create gives up.
func WithMaxAttempts(n int) Option {
	return func(m *MemoryStore) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithReservedIDs excludes ids that would shadow other routes.
func WithReservedIDs(ids ...string) Option {
	return func(m *MemoryStore) {
		for _, id := range ids {
			m.reserved[id] = struct{}{}
		}
	}
}

// MemoryStore is an in-memory short link table with lazy TTL expiration.
// A single mutex guards every operation, so each call observes and mutates
// a link as one unit.
type MemoryStore struct {
	mu          sync.Mutex
	links       map[string]*shortener.ShortLink // id -> link
	targets     map[string]string               // target -> id
	reserved    map[string]struct{}
	generate    shortener.IDGenerator
	now         func() time.Time
	maxAttempts int
}

// NewMemoryStore creates an empty store that draws new ids from generate.
func NewMemoryStore(generate shortener.IDGenerator, opts ...Option) *MemoryStore {
	m := &MemoryStore{
		links:       make(map[string]*shortener.ShortLink),
		targets:     make(map[string]string),
		reserved:    make(map[string]struct{}),
		generate:    generate,
		now:         time.Now,
		maxAttempts: DefaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Create returns the live link already pointing at target, or stores a new
// one that expires after ttl. A non-positive ttl means shortener.DefaultTTL.
func (m *MemoryStore) Create(target string, ttl time.Duration) (shortener.ShortLink, error) {
	if ttl <= 0 {
		ttl = shortener.DefaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	if existing, ok := m.liveByTarget(target, now); ok {
		return *existing, nil
	}

	id, err := m.freeID(now)
	if err != nil {
		return shortener.ShortLink{}, err
	}

	if stale, ok := m.links[id]; ok {
		m.remove(stale)
	}

	link := &shortener.ShortLink{
		ID:        id,
		Target:    target,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	m.links[id] = link
	m.targets[target] = id

	return *link, nil
}

// Resolve returns the target of a live link and counts the access.
// An expired link is purged and reported as shortener.ErrNotFound.
func (m *MemoryStore) Resolve(id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return "", shortener.ErrNotFound
	}

	if link.ExpiredAt(m.now()) {
		m.remove(link)

		return "", shortener.ErrNotFound
	}

	link.Clicks++

	return link.Target, nil
}

// ClickCount returns the access count for id, or 0 if it is unknown.
// It does not check expiry.
func (m *MemoryStore) ClickCount(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if link, ok := m.links[id]; ok {
		return link.Clicks
	}

	return 0
}

// Exists reports whether id is stored, without checking expiry.
func (m *MemoryStore) Exists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.links[id]

	return ok
}

// Len returns the number of stored links, including expired ones not yet purged.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.links)
}

func (m *MemoryStore) liveByTarget(target string, now time.Time) (*shortener.ShortLink, bool) {
	id, ok := m.targets[target]
	if !ok {
		return nil, false
	}

	link, ok := m.links[id]
	if !ok || link.ExpiredAt(now) {
		return nil, false
	}

	return link, true
}

func (m *MemoryStore) freeID(now time.Time) (string, error) {
	for i := 0; i < m.maxAttempts; i++ {
		id := m.generate()

		if _, reserved := m.reserved[id]; reserved {
			continue
		}

		if link, taken := m.links[id]; taken && !link.ExpiredAt(now) {
			continue
		}

		return id, nil
	}

	return "", fmt.Errorf("%w after %d attempts", shortener.ErrGenerationExhausted, m.maxAttempts)
}

// remove deletes link and its target index entry. Callers hold mu.
func (m *MemoryStore) remove(link *shortener.ShortLink) {
	delete(m.links, link.ID)

	if m.targets[link.Target] == link.ID {
		delete(m.targets, link.Target)
	}
}
