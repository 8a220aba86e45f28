package output

import (
	"time"

	"cinemabot/internal/domain"
)

// StatsRepository interface - Output port
// Defines what the application needs from the durable search/view counters
type StatsRepository interface {
	// RecordSearch appends a search query to the user's history
	RecordSearch(userID int64, query string, timestamp time.Time) error

	// RecordView increments the user's view counter for a film title,
	// inserting it with count 1 on first view.
	RecordView(userID int64, fullTitle string) error

	// History returns the user's most recent searches, newest first
	History(userID int64, limit int) ([]domain.SearchEntry, error)

	// TopViews returns the user's most viewed films, highest count first
	TopViews(userID int64, limit int) ([]domain.ViewStat, error)

	// Clear removes all history and view counters for the user
	Clear(userID int64) error
}
