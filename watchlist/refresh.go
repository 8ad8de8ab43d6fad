package watchlist

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/reelist/reelist/omdb"
)

// refreshConcurrency limits parallel catalog calls during a refresh.
const refreshConcurrency = 5

// Catalog is the slice of the catalog client a refresh needs.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*omdb.Detail, error)
}

// Refresh re-fetches the full record for every entry and fills in title,
// year and poster. Entries whose lookup fails are kept unchanged; only
// context cancellation aborts the whole refresh. The input is not modified.
func (s *Store) Refresh(ctx context.Context, catalog Catalog, list []Entry) ([]Entry, error) {
	result := make([]Entry, len(list))
	copy(result, list)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)

	for i := range result {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			detail, err := catalog.GetByID(ctx, result[i].ID)
			if err != nil {
				s.logger.Warn().Err(err).Str("id", result[i].ID).Msg("Failed to refresh watchlist entry")
				return nil
			}

			// Each goroutine owns exactly one index.
			result[i] = Entry{
				ID:     result[i].ID,
				Title:  detail.Title,
				Year:   detail.Year,
				Poster: detail.Poster,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}
