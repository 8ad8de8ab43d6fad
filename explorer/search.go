package explorer

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/reelist/reelist/omdb"
)

// SearchController owns the current query (term, page) and the last fetched
// result page. Each issued fetch captures the controller's generation at
// issue time; a result commits only while that generation is still current,
// so the last issued (term, page) always wins regardless of arrival order.
type SearchController struct {
	catalog CatalogSearcher
	logger  zerolog.Logger

	mu       sync.Mutex
	gen      uint64
	phase    SearchPhase
	term     string
	page     int
	items    []omdb.SearchItem
	total    int
	errMsg   string
	onChange func(SearchSnapshot)
}

// NewSearchController creates a search controller in the Idle state.
func NewSearchController(catalog CatalogSearcher, logger zerolog.Logger) *SearchController {
	return &SearchController{
		catalog: catalog,
		logger:  logger.With().Str("controller", "search").Logger(),
		phase:   SearchIdle,
		page:    1,
	}
}

// OnChange registers a callback invoked with a fresh snapshot after every
// state transition. The callback runs outside the controller's lock.
func (c *SearchController) OnChange(fn func(SearchSnapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns the current read model.
func (c *SearchController) Snapshot() SearchSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Submit sets a new search term. The page resets to 1. An empty term clears
// the results and suppresses fetching entirely.
func (c *SearchController) Submit(ctx context.Context, term string) {
	term = strings.TrimSpace(term)

	c.mu.Lock()
	c.gen++
	c.term = term
	c.page = 1

	if term == "" {
		c.phase = SearchIdle
		c.items = nil
		c.total = 0
		c.errMsg = ""
		snap := c.snapshotLocked()
		notify := c.onChange
		c.mu.Unlock()
		emit(notify, snap)
		return
	}

	c.total = 0
	c.beginFetchLocked(ctx)
}

// SetPage navigates to the given page for the current term. The request is
// clamped to [1, max(1, pageCount)] using the last known total. Without an
// active term this is a no-op.
func (c *SearchController) SetPage(ctx context.Context, page int) {
	c.mu.Lock()
	if c.term == "" {
		c.mu.Unlock()
		return
	}

	page = ClampPage(page, PageCount(c.total))
	if page == c.page && c.phase != SearchFailed {
		c.mu.Unlock()
		return
	}

	c.gen++
	c.page = page
	c.beginFetchLocked(ctx)
}

// NextPage advances one page, clamped to the last page.
func (c *SearchController) NextPage(ctx context.Context) {
	c.mu.Lock()
	page := c.page + 1
	c.mu.Unlock()
	c.SetPage(ctx, page)
}

// PrevPage goes back one page, clamped to page 1.
func (c *SearchController) PrevPage(ctx context.Context) {
	c.mu.Lock()
	page := c.page - 1
	c.mu.Unlock()
	c.SetPage(ctx, page)
}

// beginFetchLocked moves to Loading and launches the catalog call for the
// current (term, page). Called with the lock held; releases it.
func (c *SearchController) beginFetchLocked(ctx context.Context) {
	gen := c.gen
	term := c.term
	page := c.page

	c.phase = SearchLoading
	c.errMsg = ""

	snap := c.snapshotLocked()
	notify := c.onChange
	c.mu.Unlock()
	emit(notify, snap)

	go func() {
		result, err := c.catalog.Search(ctx, term, page)
		c.commit(gen, result, err)
	}()
}

// commit applies a fetch result if its generation is still current. Stale
// results are dropped silently per the last-writer-wins rule.
func (c *SearchController) commit(gen uint64, result omdb.SearchResult, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug().Uint64("gen", gen).Msg("Dropping stale search result")
		return
	}

	if err != nil {
		c.phase = SearchFailed
		c.items = nil
		c.total = 0
		if msg, ok := omdb.IsUpstream(err); ok {
			c.errMsg = msg
		} else {
			c.logger.Warn().Err(err).Str("term", c.term).Int("page", c.page).Msg("Search request failed")
			c.errMsg = NetworkErrorMessage
		}
	} else {
		c.phase = SearchLoaded
		c.items = result.Items
		c.total = result.TotalCount
		c.errMsg = ""
	}

	snap := c.snapshotLocked()
	notify := c.onChange
	c.mu.Unlock()
	emit(notify, snap)
}

func (c *SearchController) snapshotLocked() SearchSnapshot {
	items := make([]omdb.SearchItem, len(c.items))
	copy(items, c.items)

	return SearchSnapshot{
		Phase:      c.phase,
		Term:       c.term,
		Page:       c.page,
		Items:      items,
		TotalCount: c.total,
		ErrMessage: c.errMsg,
	}
}

func emit(notify func(SearchSnapshot), snap SearchSnapshot) {
	if notify != nil {
		notify(snap)
	}
}
