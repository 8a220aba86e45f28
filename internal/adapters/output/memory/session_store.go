package memory

import (
	"sync"

	"cinemabot/internal/domain"
	"cinemabot/internal/ports/output"
)

// Compile-time check to ensure SessionStore implements the output port
var _ output.SessionStore = (*SessionStore)(nil)

// SessionStore struct - Output adapter for in-memory session storage.
// Uses sync.Map for thread-safe concurrent access; each user holds at most
// one session and a new Start replaces the previous one atomically.
// Sessions are ephemeral: nothing survives a process restart.
type SessionStore struct {
	sessions sync.Map
}

// NewSessionStore creates a new in-memory session store
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Start stores the session, replacing any existing session for the same user
func (m *SessionStore) Start(session *domain.SearchSession) error {
	m.sessions.Store(session.UserID, session)
	return nil
}

// Get retrieves the active session for a user, or nil when none exists
func (m *SessionStore) Get(userID int64) (*domain.SearchSession, error) {
	value, exists := m.sessions.Load(userID)
	if !exists {
		return nil, nil
	}

	session, ok := value.(*domain.SearchSession)
	if !ok {
		// If data is malformed, delete and return nil
		m.sessions.Delete(userID)
		return nil, nil
	}

	return session, nil
}

// Clear removes the user's session and returns any view handles it held.
// Idempotent: clearing an absent session returns no refs and no error.
func (m *SessionStore) Clear(userID int64) ([]domain.ViewRef, error) {
	value, exists := m.sessions.LoadAndDelete(userID)
	if !exists {
		return nil, nil
	}

	session, ok := value.(*domain.SearchSession)
	if !ok {
		return nil, nil
	}

	return session.HeldViews(), nil
}
