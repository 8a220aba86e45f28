package output

import (
	"context"

	"cinemabot/internal/domain"
)

// CatalogClient interface - Output port
// Defines what the application needs from the external movie catalog.
type CatalogClient interface {
	// Search fetches the catalog's results page for a free-text query and
	// extracts the matching records in catalog order. An unreachable catalog,
	// a non-success status, or a page without the results marker all yield an
	// empty slice and no error; the caller does not distinguish "nothing
	// found" from a transport failure.
	Search(ctx context.Context, query string) ([]*domain.FilmRecord, error)

	// Ratings fetches a record's detail page and extracts the two external
	// rating values. Any failure yields the placeholder pair, never an error.
	Ratings(ctx context.Context, watchLink string) (domain.Ratings, error)
}
