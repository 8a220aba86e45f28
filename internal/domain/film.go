package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// TitlePlaceholder is substituted when a catalog entry carries no title
const TitlePlaceholder = "Без названия"

// RatingPlaceholder is substituted when a rating could not be extracted
const RatingPlaceholder = "—"

// Ratings holds the two externally sourced rating values of a film
type Ratings struct {
	Kinopoisk string
	IMDb      string
}

// PlaceholderRatings is returned when the detail page fetch fails or lacks the rating block
var PlaceholderRatings = Ratings{Kinopoisk: RatingPlaceholder, IMDb: RatingPlaceholder}

// FilmRecord struct - one catalog search result.
// All fields are fixed at extraction time except the external ratings,
// which are filled lazily at most once and then cached for the record's lifetime.
type FilmRecord struct {
	Title         string
	Year          string
	CatalogRating string
	PosterURL     string // empty when the catalog shows no cover
	WatchLink     string

	ratings *Ratings
}

// FullTitle returns "Title (Year)", or just the title when the year is unknown
func (f *FilmRecord) FullTitle() string {
	if f.Year == "" {
		return f.Title
	}
	return fmt.Sprintf("%s (%s)", f.Title, f.Year)
}

// CachedRatings returns the external ratings and whether they have been filled yet
func (f *FilmRecord) CachedRatings() (Ratings, bool) {
	if f.ratings == nil {
		return Ratings{}, false
	}
	return *f.ratings, true
}

// FillRatings stores the external ratings. The fill happens at most once:
// subsequent calls are ignored so a completed lookup (including a placeholder
// result) is never re-fetched for the same record.
func (f *FilmRecord) FillRatings(r Ratings) {
	if f.ratings != nil {
		return
	}
	f.ratings = &r
}

// ViewRef is an opaque handle to a rendered message held by the transport
type ViewRef struct {
	ChatID    int64
	MessageID int
}

// SearchSession struct - per-user ephemeral state for one search query.
// Records and their order are fixed at creation; CurrentIndex always stays
// within [0, len(Records)).
type SearchSession struct {
	ID     uuid.UUID
	UserID int64
	ChatID int64
	Query  string

	Records      []*FilmRecord
	CurrentIndex int

	PrimaryView *ViewRef
	ListView    *ViewRef
	ConfirmView *ViewRef

	NavState NavState

	// PendingChoice is the tentative record index while a selection awaits confirmation
	PendingChoice int
}

// NewSearchSession creates a session positioned at the first record.
// The caller must guarantee records is non-empty: an empty extraction result
// produces a "nothing found" notice instead of a session.
func NewSearchSession(userID, chatID int64, query string, records []*FilmRecord) *SearchSession {
	return &SearchSession{
		ID:       uuid.New(),
		UserID:   userID,
		ChatID:   chatID,
		Query:    query,
		Records:  records,
		NavState: StateBrowsing,
	}
}

// Current returns the record at the current position
func (s *SearchSession) Current() *FilmRecord {
	return s.Records[s.CurrentIndex]
}

// Len returns the number of records in the session
func (s *SearchSession) Len() int {
	return len(s.Records)
}

// HeldViews returns every view handle the session currently owns
func (s *SearchSession) HeldViews() []ViewRef {
	var refs []ViewRef
	for _, ref := range []*ViewRef{s.PrimaryView, s.ListView, s.ConfirmView} {
		if ref != nil {
			refs = append(refs, *ref)
		}
	}
	return refs
}
