// Package explorer holds the client-side state core: the search/pagination
// controller and the selection/detail controller. Both enforce the same
// ordering rule: only the most recently issued catalog request may commit to
// visible state. A response for a superseded query or selection is dropped
// on arrival; there is no true network cancellation.
package explorer

import (
	"context"

	"github.com/reelist/reelist/omdb"
)

// NetworkErrorMessage is shown for transport-level failures. Upstream
// catalog messages are shown verbatim instead.
const NetworkErrorMessage = "network error, please try again"

// CatalogSearcher is the slice of the catalog client the search controller
// uses.
type CatalogSearcher interface {
	Search(ctx context.Context, term string, page int) (omdb.SearchResult, error)
}

// CatalogFetcher is the slice of the catalog client the detail controller
// uses.
type CatalogFetcher interface {
	GetByID(ctx context.Context, id string) (*omdb.Detail, error)
}

// SearchPhase is the tagged state of the search controller. Loading never
// coexists with an error message; Failed never carries items.
type SearchPhase int

const (
	SearchIdle SearchPhase = iota
	SearchLoading
	SearchLoaded
	SearchFailed
)

// String returns a human-readable phase name.
func (p SearchPhase) String() string {
	switch p {
	case SearchIdle:
		return "idle"
	case SearchLoading:
		return "loading"
	case SearchLoaded:
		return "loaded"
	case SearchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchSnapshot is the read model the rendering layer consumes.
type SearchSnapshot struct {
	Phase      SearchPhase
	Term       string
	Page       int
	Items      []omdb.SearchItem
	TotalCount int
	ErrMessage string
}

// PageCount returns the number of pages for the snapshot's total.
func (s SearchSnapshot) PageCount() int {
	return PageCount(s.TotalCount)
}

// HasPager reports whether a pager is worth rendering (more than one page).
func (s SearchSnapshot) HasPager() bool {
	return s.PageCount() > 1
}

// DetailPhase is the tagged state of the detail controller.
type DetailPhase int

const (
	DetailNone DetailPhase = iota
	DetailLoading
	DetailReady
	DetailFailed
)

// String returns a human-readable phase name.
func (p DetailPhase) String() string {
	switch p {
	case DetailNone:
		return "none"
	case DetailLoading:
		return "loading"
	case DetailReady:
		return "ready"
	case DetailFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DetailSnapshot is the read model for the detail view.
type DetailSnapshot struct {
	Phase      DetailPhase
	ID         string
	Record     *omdb.Detail
	ErrMessage string
}

// PageCount returns ceil(total / omdb.PageSize), never negative.
func PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + omdb.PageSize - 1) / omdb.PageSize
}

// ClampPage normalizes a requested page into [1, max(1, pageCount)].
func ClampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if pageCount >= 1 && page > pageCount {
		return pageCount
	}
	return page
}
