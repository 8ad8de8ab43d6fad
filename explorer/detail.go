package explorer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/reelist/reelist/omdb"
)

// DetailController owns the current selection and its detail record. It uses
// the same generation discipline as the search controller: selecting a new
// identifier or dismissing supersedes any fetch still in flight, and the
// superseded response is dropped on arrival.
type DetailController struct {
	catalog CatalogFetcher
	logger  zerolog.Logger

	mu       sync.Mutex
	gen      uint64
	phase    DetailPhase
	id       string
	record   *omdb.Detail
	errMsg   string
	onChange func(DetailSnapshot)
}

// NewDetailController creates a detail controller with no selection.
func NewDetailController(catalog CatalogFetcher, logger zerolog.Logger) *DetailController {
	return &DetailController{
		catalog: catalog,
		logger:  logger.With().Str("controller", "detail").Logger(),
		phase:   DetailNone,
	}
}

// OnChange registers a callback invoked with a fresh snapshot after every
// state transition. The callback runs outside the controller's lock.
func (c *DetailController) OnChange(fn func(DetailSnapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns the current read model.
func (c *DetailController) Snapshot() DetailSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Select makes id the active selection and fetches its full record. Each new
// selection re-fetches; records are not cached across identifiers.
func (c *DetailController) Select(ctx context.Context, id string) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.id = id
	c.phase = DetailLoading
	c.record = nil
	c.errMsg = ""

	snap := c.snapshotLocked()
	notify := c.onChange
	c.mu.Unlock()
	emitDetail(notify, snap)

	go func() {
		record, err := c.catalog.GetByID(ctx, id)
		c.commit(gen, record, err)
	}()
}

// Dismiss clears the selection immediately and discards any pending or ready
// record, so a reopened view never shows stale content.
func (c *DetailController) Dismiss() {
	c.mu.Lock()
	c.gen++
	c.phase = DetailNone
	c.id = ""
	c.record = nil
	c.errMsg = ""

	snap := c.snapshotLocked()
	notify := c.onChange
	c.mu.Unlock()
	emitDetail(notify, snap)
}

// commit applies a fetch result if its generation is still current.
func (c *DetailController) commit(gen uint64, record *omdb.Detail, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug().Uint64("gen", gen).Msg("Dropping stale detail record")
		return
	}

	if err != nil {
		c.phase = DetailFailed
		c.record = nil
		if msg, ok := omdb.IsUpstream(err); ok {
			c.errMsg = msg
		} else {
			c.logger.Warn().Err(err).Str("id", c.id).Msg("Detail request failed")
			c.errMsg = NetworkErrorMessage
		}
	} else {
		c.phase = DetailReady
		c.record = record
		c.errMsg = ""
	}

	snap := c.snapshotLocked()
	notify := c.onChange
	c.mu.Unlock()
	emitDetail(notify, snap)
}

func (c *DetailController) snapshotLocked() DetailSnapshot {
	return DetailSnapshot{
		Phase:      c.phase,
		ID:         c.id,
		Record:     c.record,
		ErrMessage: c.errMsg,
	}
}

func emitDetail(notify func(DetailSnapshot), snap DetailSnapshot) {
	if notify != nil {
		notify(snap)
	}
}
