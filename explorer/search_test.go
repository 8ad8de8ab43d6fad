package explorer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelist/reelist/omdb"
)

// gatedSearcher blocks every Search call until the test releases it, so
// tests control arrival order of in-flight responses.
type gatedSearcher struct {
	mu      sync.Mutex
	started chan *searchCall
}

type searchCall struct {
	term    string
	page    int
	result  omdb.SearchResult
	err     error
	release chan struct{}
}

func newGatedSearcher() *gatedSearcher {
	return &gatedSearcher{started: make(chan *searchCall, 8)}
}

func (g *gatedSearcher) Search(ctx context.Context, term string, page int) (omdb.SearchResult, error) {
	call := &searchCall{term: term, page: page, release: make(chan struct{})}
	g.started <- call
	<-call.release
	return call.result, call.err
}

func (g *gatedSearcher) next(t *testing.T) *searchCall {
	t.Helper()
	select {
	case call := <-g.started:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a catalog call")
		return nil
	}
}

// stubSearcher answers immediately with a fixed total; items are labeled
// with the requested page so tests can tell result pages apart.
type stubSearcher struct {
	total int
	calls int
	mu    sync.Mutex
}

func (s *stubSearcher) Search(ctx context.Context, term string, page int) (omdb.SearchResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return omdb.SearchResult{
		Items:      []omdb.SearchItem{{ID: fmt.Sprintf("tt-page-%d", page), Title: term}},
		TotalCount: s.total,
	}, nil
}

func pageResult(page, total int) omdb.SearchResult {
	return omdb.SearchResult{
		Items:      []omdb.SearchItem{{ID: fmt.Sprintf("tt-page-%d", page)}},
		TotalCount: total,
	}
}

func waitLoadedPage(t *testing.T, ctrl *SearchController, page int) SearchSnapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		snap := ctrl.Snapshot()
		return snap.Phase == SearchLoaded && snap.Page == page
	}, 2*time.Second, 5*time.Millisecond)
	return ctrl.Snapshot()
}

func TestSubmitEmptyTermStaysIdle(t *testing.T) {
	catalog := &stubSearcher{total: 100}
	ctrl := NewSearchController(catalog, zerolog.Nop())

	ctrl.Submit(context.Background(), "   ")

	snap := ctrl.Snapshot()
	assert.Equal(t, SearchIdle, snap.Phase)
	assert.Empty(t, snap.Items)
	assert.Equal(t, 1, snap.Page)
	assert.Zero(t, catalog.calls)
}

func TestSubmitResetsPage(t *testing.T) {
	catalog := &stubSearcher{total: 230}
	ctrl := NewSearchController(catalog, zerolog.Nop())
	ctx := context.Background()

	ctrl.Submit(ctx, "batman")
	waitLoadedPage(t, ctrl, 1)

	ctrl.SetPage(ctx, 5)
	waitLoadedPage(t, ctrl, 5)

	ctrl.Submit(ctx, "superman")
	snap := waitLoadedPage(t, ctrl, 1)
	assert.Equal(t, "superman", snap.Term)
}

func TestLastWriterWins(t *testing.T) {
	tests := []struct {
		name       string
		staleFirst bool
	}{
		{name: "stale response arrives first", staleFirst: true},
		{name: "stale response arrives last", staleFirst: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newGatedSearcher()
			ctrl := NewSearchController(catalog, zerolog.Nop())
			ctx := context.Background()

			ctrl.Submit(ctx, "batman")
			call1 := catalog.next(t)
			assert.Equal(t, 1, call1.page)

			// Advance before page 1 resolves.
			ctrl.SetPage(ctx, 2)
			call2 := catalog.next(t)
			assert.Equal(t, 2, call2.page)

			call1.result = pageResult(1, 230)
			call2.result = pageResult(2, 230)

			if tt.staleFirst {
				close(call1.release)
				close(call2.release)
			} else {
				close(call2.release)
				// Let the fresh result land before releasing the stale one.
				waitLoadedPage(t, ctrl, 2)
				close(call1.release)
			}

			snap := waitLoadedPage(t, ctrl, 2)
			require.Len(t, snap.Items, 1)
			assert.Equal(t, "tt-page-2", snap.Items[0].ID)

			// The superseded page 1 response must never overwrite page 2.
			assert.Never(t, func() bool {
				snap := ctrl.Snapshot()
				return len(snap.Items) != 1 || snap.Items[0].ID != "tt-page-2"
			}, 200*time.Millisecond, 10*time.Millisecond)
		})
	}
}

func TestNewTermSupersedesInFlightPage(t *testing.T) {
	catalog := newGatedSearcher()
	ctrl := NewSearchController(catalog, zerolog.Nop())
	ctx := context.Background()

	ctrl.Submit(ctx, "batman")
	call1 := catalog.next(t)

	ctrl.Submit(ctx, "clueless")
	call2 := catalog.next(t)
	assert.Equal(t, "clueless", call2.term)

	call2.result = omdb.SearchResult{
		Items:      []omdb.SearchItem{{ID: "tt0112697", Title: "Clueless"}},
		TotalCount: 1,
	}
	close(call2.release)
	waitLoadedPage(t, ctrl, 1)

	call1.result = pageResult(1, 230)
	close(call1.release)

	assert.Never(t, func() bool {
		return ctrl.Snapshot().Term != "clueless"
	}, 200*time.Millisecond, 10*time.Millisecond)

	snap := ctrl.Snapshot()
	assert.Equal(t, 1, snap.TotalCount)
	assert.Equal(t, "tt0112697", snap.Items[0].ID)
}

func TestUpstreamErrorSurfacesVerbatim(t *testing.T) {
	catalog := newGatedSearcher()
	ctrl := NewSearchController(catalog, zerolog.Nop())

	ctrl.Submit(context.Background(), "zzzzzzzz")
	call := catalog.next(t)
	call.err = &omdb.UpstreamError{Message: "Movie not found!"}
	close(call.release)

	require.Eventually(t, func() bool {
		return ctrl.Snapshot().Phase == SearchFailed
	}, 2*time.Second, 5*time.Millisecond)

	snap := ctrl.Snapshot()
	assert.Equal(t, "Movie not found!", snap.ErrMessage)
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.TotalCount)
}

func TestTransportErrorIsGeneric(t *testing.T) {
	catalog := newGatedSearcher()
	ctrl := NewSearchController(catalog, zerolog.Nop())

	ctrl.Submit(context.Background(), "batman")
	call := catalog.next(t)
	call.err = fmt.Errorf("request failed: connection refused")
	close(call.release)

	require.Eventually(t, func() bool {
		return ctrl.Snapshot().Phase == SearchFailed
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, NetworkErrorMessage, ctrl.Snapshot().ErrMessage)
}

func TestPageClamping(t *testing.T) {
	catalog := &stubSearcher{total: 230} // 23 pages
	ctrl := NewSearchController(catalog, zerolog.Nop())
	ctx := context.Background()

	ctrl.Submit(ctx, "batman")
	snap := waitLoadedPage(t, ctrl, 1)
	assert.Equal(t, 23, snap.PageCount())
	assert.True(t, snap.HasPager())

	ctrl.SetPage(ctx, 23)
	waitLoadedPage(t, ctrl, 23)

	// Beyond the last page clamps back to it.
	ctrl.SetPage(ctx, 24)
	assert.Never(t, func() bool {
		return ctrl.Snapshot().Page != 23
	}, 200*time.Millisecond, 10*time.Millisecond)

	ctrl.SetPage(ctx, 0)
	waitLoadedPage(t, ctrl, 1)

	ctrl.SetPage(ctx, -5)
	snap = waitLoadedPage(t, ctrl, 1)
	assert.Equal(t, 1, snap.Page)
}

func TestNextPrevPage(t *testing.T) {
	catalog := &stubSearcher{total: 25} // 3 pages
	ctrl := NewSearchController(catalog, zerolog.Nop())
	ctx := context.Background()

	ctrl.Submit(ctx, "batman")
	waitLoadedPage(t, ctrl, 1)

	ctrl.PrevPage(ctx)
	assert.Equal(t, 1, ctrl.Snapshot().Page)

	ctrl.NextPage(ctx)
	waitLoadedPage(t, ctrl, 2)

	ctrl.NextPage(ctx)
	waitLoadedPage(t, ctrl, 3)

	ctrl.NextPage(ctx)
	assert.Never(t, func() bool {
		return ctrl.Snapshot().Page != 3
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestSinglePageHidesPager(t *testing.T) {
	catalog := &stubSearcher{total: 1}
	ctrl := NewSearchController(catalog, zerolog.Nop())

	ctrl.Submit(context.Background(), "clueless")
	snap := waitLoadedPage(t, ctrl, 1)

	assert.Equal(t, 1, snap.PageCount())
	assert.False(t, snap.HasPager())
}

func TestOnChangeNotifications(t *testing.T) {
	catalog := &stubSearcher{total: 10}
	ctrl := NewSearchController(catalog, zerolog.Nop())

	phases := make(chan SearchPhase, 8)
	ctrl.OnChange(func(snap SearchSnapshot) {
		phases <- snap.Phase
	})

	ctrl.Submit(context.Background(), "batman")

	assert.Equal(t, SearchLoading, <-phases)
	assert.Equal(t, SearchLoaded, <-phases)
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{total: 0, want: 0},
		{total: 1, want: 1},
		{total: 10, want: 1},
		{total: 11, want: 2},
		{total: 230, want: 23},
		{total: -3, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCount(tt.total), "total=%d", tt.total)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page      int
		pageCount int
		want      int
	}{
		{page: 0, pageCount: 5, want: 1},
		{page: -1, pageCount: 5, want: 1},
		{page: 3, pageCount: 5, want: 3},
		{page: 6, pageCount: 5, want: 5},
		{page: 2, pageCount: 0, want: 2}, // total unknown, only the floor applies
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPage(tt.page, tt.pageCount), "page=%d count=%d", tt.page, tt.pageCount)
	}
}
