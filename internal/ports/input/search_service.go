package input

import (
	"context"

	"cinemabot/internal/domain"
)

// SearchService interface - Input port (use case)
// Defines what the application can do with user search and navigation input
type SearchService interface {
	// HandleSearch runs a fresh catalog search, replacing any active session
	HandleSearch(ctx context.Context, userID, chatID int64, query string) error

	// HandleAction applies a navigation action to the user's active session.
	// Returns domain.ErrStaleSession when the user has no active session.
	HandleAction(ctx context.Context, userID int64, action domain.NavAction) error

	// HandleSelection processes free-text input while a numeric selection is expected
	HandleSelection(ctx context.Context, userID, chatID int64, text string) error

	// HandleText routes free text: a numeric selection while the session
	// awaits one, otherwise a fresh search. The routing decision and the
	// handling run under the same user lock.
	HandleText(ctx context.Context, userID, chatID int64, text string) error

	// HandleStart greets the user and dismisses any open variant list
	HandleStart(ctx context.Context, userID, chatID int64, firstName string) error

	// HandleHelp shows usage instructions
	HandleHelp(ctx context.Context, userID, chatID int64) error

	// HandleHistory shows the user's most recent search queries
	HandleHistory(ctx context.Context, userID, chatID int64) error

	// HandleStats shows the user's most viewed films
	HandleStats(ctx context.Context, userID, chatID int64) error

	// HandleClearData wipes the user's stored history and view counters
	HandleClearData(ctx context.Context, userID, chatID int64) error
}
