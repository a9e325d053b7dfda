package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MrEthical07/goGuard/identity"
)

type memoryEntry struct {
	user      *identity.User
	expiresAt time.Time
}

// Memory is a process-lifetime [Adapter] backed by a map. It also implements
// [SessionBinder]. Records are cloned on every read and write so callers can
// never alias stored state.
type Memory struct {
	mu       sync.RWMutex
	users    map[identity.UserID]memoryEntry
	bindings map[identity.UserID]string
	ttl      time.Duration
	now      func() time.Time
}

// MemoryOption configures a [Memory] adapter.
type MemoryOption func(*Memory)

// WithTTL makes records expire ttl after their last Set or ResetExpiration.
// A ttl <= 0 keeps records for the process lifetime.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) {
		m.ttl = ttl
	}
}

// WithClock overrides the time source; intended for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an empty in-memory adapter.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		users:    make(map[identity.UserID]memoryEntry),
		bindings: make(map[identity.UserID]string),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) expired(e memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (m *Memory) deadline(now time.Time) time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(m.ttl)
}

// Get returns a copy of the stored user.
func (m *Memory) Get(_ context.Context, id identity.UserID) (*identity.User, error) {
	if id == "" {
		return nil, ErrEmptyUserID
	}

	m.mu.RLock()
	e, ok := m.users[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if m.expired(e, m.now()) {
		m.mu.Lock()
		if cur, still := m.users[id]; still && m.expired(cur, m.now()) {
			delete(m.users, id)
			delete(m.bindings, id)
		}
		m.mu.Unlock()
		return nil, nil
	}

	return e.user.Clone(), nil
}

// GetAll returns copies of every live user ordered by id.
func (m *Memory) GetAll(_ context.Context) ([]*identity.User, error) {
	now := m.now()

	m.mu.RLock()
	out := make([]*identity.User, 0, len(m.users))
	for _, e := range m.users {
		if m.expired(e, now) {
			continue
		}
		out = append(out, e.user.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Has reports whether a live record exists.
func (m *Memory) Has(ctx context.Context, id identity.UserID) (bool, error) {
	u, err := m.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Set replaces the record for id.
func (m *Memory) Set(_ context.Context, id identity.UserID, user *identity.User) (*identity.User, error) {
	stored, err := PrepareUser(id, user)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.users[id] = memoryEntry{user: stored, expiresAt: m.deadline(m.now())}
	m.mu.Unlock()

	return stored.Clone(), nil
}

// Remove deletes the record and any session binding for id.
func (m *Memory) Remove(_ context.Context, id identity.UserID) error {
	if id == "" {
		return ErrEmptyUserID
	}
	m.mu.Lock()
	delete(m.users, id)
	delete(m.bindings, id)
	m.mu.Unlock()
	return nil
}

// ResetExpiration extends a live record by the configured TTL. Without a TTL
// it is a no-op that reports true.
func (m *Memory) ResetExpiration(_ context.Context, id identity.UserID) (bool, error) {
	if m.ttl <= 0 {
		return true, nil
	}

	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.users[id]
	if !ok || m.expired(e, now) {
		return false, nil
	}
	e.expiresAt = m.deadline(now)
	m.users[id] = e
	return true, nil
}

// BindSession records sessionID as the current session for id.
func (m *Memory) BindSession(_ context.Context, id identity.UserID, sessionID string) error {
	if id == "" {
		return ErrEmptyUserID
	}
	m.mu.Lock()
	m.bindings[id] = sessionID
	m.mu.Unlock()
	return nil
}

// SessionBinding returns the session bound to id.
func (m *Memory) SessionBinding(_ context.Context, id identity.UserID) (string, bool, error) {
	m.mu.RLock()
	sid, ok := m.bindings[id]
	m.mu.RUnlock()
	return sid, ok, nil
}

// Len returns the number of stored records, including expired ones not yet
// evicted.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
