package explorer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelist/reelist/omdb"
)

// gatedFetcher blocks every GetByID call until the test releases it.
type gatedFetcher struct {
	started chan *fetchCall
}

type fetchCall struct {
	id      string
	record  *omdb.Detail
	err     error
	release chan struct{}
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{started: make(chan *fetchCall, 8)}
}

func (g *gatedFetcher) GetByID(ctx context.Context, id string) (*omdb.Detail, error) {
	call := &fetchCall{id: id, release: make(chan struct{})}
	g.started <- call
	<-call.release
	return call.record, call.err
}

func (g *gatedFetcher) next(t *testing.T) *fetchCall {
	t.Helper()
	select {
	case call := <-g.started:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a catalog call")
		return nil
	}
}

func waitDetailPhase(t *testing.T, ctrl *DetailController, phase DetailPhase) DetailSnapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return ctrl.Snapshot().Phase == phase
	}, 2*time.Second, 5*time.Millisecond)
	return ctrl.Snapshot()
}

func TestSelectFetchesRecord(t *testing.T) {
	catalog := newGatedFetcher()
	ctrl := NewDetailController(catalog, zerolog.Nop())

	ctrl.Select(context.Background(), "tt0133093")

	snap := ctrl.Snapshot()
	assert.Equal(t, DetailLoading, snap.Phase)
	assert.Equal(t, "tt0133093", snap.ID)
	assert.Nil(t, snap.Record)

	call := catalog.next(t)
	assert.Equal(t, "tt0133093", call.id)
	call.record = &omdb.Detail{ID: "tt0133093", Title: "The Matrix"}
	close(call.release)

	snap = waitDetailPhase(t, ctrl, DetailReady)
	require.NotNil(t, snap.Record)
	assert.Equal(t, "The Matrix", snap.Record.Title)
}

func TestNewSelectionSupersedesInFlightFetch(t *testing.T) {
	tests := []struct {
		name       string
		staleFirst bool
	}{
		{name: "stale record arrives first", staleFirst: true},
		{name: "stale record arrives last", staleFirst: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newGatedFetcher()
			ctrl := NewDetailController(catalog, zerolog.Nop())
			ctx := context.Background()

			ctrl.Select(ctx, "tt0133093")
			call1 := catalog.next(t)

			ctrl.Select(ctx, "tt0468569")
			call2 := catalog.next(t)

			call1.record = &omdb.Detail{ID: "tt0133093", Title: "The Matrix"}
			call2.record = &omdb.Detail{ID: "tt0468569", Title: "The Dark Knight"}

			if tt.staleFirst {
				close(call1.release)
				close(call2.release)
			} else {
				close(call2.release)
				waitDetailPhase(t, ctrl, DetailReady)
				close(call1.release)
			}

			snap := waitDetailPhase(t, ctrl, DetailReady)
			assert.Equal(t, "tt0468569", snap.ID)
			require.NotNil(t, snap.Record)
			assert.Equal(t, "tt0468569", snap.Record.ID)

			assert.Never(t, func() bool {
				snap := ctrl.Snapshot()
				return snap.Record == nil || snap.Record.ID != "tt0468569"
			}, 200*time.Millisecond, 10*time.Millisecond)
		})
	}
}

func TestDismissDropsPendingRecord(t *testing.T) {
	catalog := newGatedFetcher()
	ctrl := NewDetailController(catalog, zerolog.Nop())

	ctrl.Select(context.Background(), "tt0133093")
	call := catalog.next(t)

	ctrl.Dismiss()

	snap := ctrl.Snapshot()
	assert.Equal(t, DetailNone, snap.Phase)
	assert.Empty(t, snap.ID)
	assert.Nil(t, snap.Record)

	// The in-flight response lands after dismissal and must stay dropped.
	call.record = &omdb.Detail{ID: "tt0133093", Title: "The Matrix"}
	close(call.release)

	assert.Never(t, func() bool {
		return ctrl.Snapshot().Phase != DetailNone
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestDismissDropsReadyRecord(t *testing.T) {
	catalog := newGatedFetcher()
	ctrl := NewDetailController(catalog, zerolog.Nop())

	ctrl.Select(context.Background(), "tt0133093")
	call := catalog.next(t)
	call.record = &omdb.Detail{ID: "tt0133093"}
	close(call.release)
	waitDetailPhase(t, ctrl, DetailReady)

	ctrl.Dismiss()

	snap := ctrl.Snapshot()
	assert.Equal(t, DetailNone, snap.Phase)
	assert.Nil(t, snap.Record)
}

func TestDetailUpstreamError(t *testing.T) {
	catalog := newGatedFetcher()
	ctrl := NewDetailController(catalog, zerolog.Nop())

	ctrl.Select(context.Background(), "tt9999999")
	call := catalog.next(t)
	call.err = &omdb.UpstreamError{Message: "Incorrect IMDb ID."}
	close(call.release)

	snap := waitDetailPhase(t, ctrl, DetailFailed)
	assert.Equal(t, "Incorrect IMDb ID.", snap.ErrMessage)
	assert.Nil(t, snap.Record)
}

func TestDetailTransportError(t *testing.T) {
	catalog := newGatedFetcher()
	ctrl := NewDetailController(catalog, zerolog.Nop())

	ctrl.Select(context.Background(), "tt0133093")
	call := catalog.next(t)
	call.err = fmt.Errorf("request failed: connection reset")
	close(call.release)

	snap := waitDetailPhase(t, ctrl, DetailFailed)
	assert.Equal(t, NetworkErrorMessage, snap.ErrMessage)
}
