package output

import "cinemabot/internal/domain"

// SessionStore interface - Output port
// Holds at most one active search session per user. Implementations must be
// safe for concurrent access; serialization of one user's session mutations
// is the application layer's responsibility.
type SessionStore interface {
	// Start stores the session, atomically replacing any existing session
	// for the same user.
	Start(session *domain.SearchSession) error

	// Get retrieves the active session for a user, or nil when none exists
	Get(userID int64) (*domain.SearchSession, error)

	// Clear removes the user's session and returns any view handles it held
	// so the caller can tear them down. Idempotent.
	Clear(userID int64) ([]domain.ViewRef, error)
}
