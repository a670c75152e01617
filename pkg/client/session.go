package client

import "sync"

// Session is what the client remembers about a logged-in user.
type Session struct {
	UserID int64
	CardNo string
	Token  string
}

// SessionStore persists the session between requests. The browser frontend
// kept this in localStorage; Go callers plug in whatever they need.
type SessionStore interface {
	Save(s Session) error
	Load() (Session, bool, error)
	Clear() error
}

// MemoryStore is an in-process SessionStore.
type MemoryStore struct {
	mu      sync.Mutex
	session Session
	set     bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores the session.
func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.set = true
	return nil
}

// Load returns the stored session, if any.
func (m *MemoryStore) Load() (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.set, nil
}

// Clear forgets the stored session.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	m.set = false
	return nil
}
