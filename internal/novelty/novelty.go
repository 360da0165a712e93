// Package novelty tracks which detection IDs have already been seen so
// that each poll can report only newly-appeared detections. The known set
// is replaced wholesale on commit, never merged: IDs age out naturally as
// the day's detection set moves on.
package novelty

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/patiwat/firewatch-go/internal/errors"
	"github.com/patiwat/firewatch-go/internal/hotspot"
	"github.com/patiwat/firewatch-go/internal/logging"
)

var trackerLogger *slog.Logger

func init() {
	trackerLogger = logging.ForService("novelty")
	if trackerLogger == nil {
		trackerLogger = slog.New(slog.NewJSONHandler(io.Discard, nil)).With("service", "novelty")
	}
}

// Store persists the known-ID set across restarts. Implementations must
// treat Save as a full replacement of the stored set.
type Store interface {
	// Load returns the persisted ID set. A store with no prior state
	// returns an empty slice and primed=false.
	Load(ctx context.Context) (ids []string, primed bool, err error)
	// Save replaces the persisted ID set.
	Save(ctx context.Context, ids []string) error
}

// Tracker computes the novel subset of each poll's detections against the
// previously committed set. Diff and Commit are deliberately separate
// operations: the caller decides when an observation becomes the new
// baseline. Individual operations are safe for concurrent use; a caller
// whose polls can overlap must serialize the diff+commit pair itself.
type Tracker struct {
	mu     sync.Mutex
	known  map[string]struct{}
	primed bool
	store  Store
}

// NewTracker creates a tracker backed by store. A nil store keeps the
// known set in memory only.
func NewTracker(store Store) *Tracker {
	return &Tracker{known: make(map[string]struct{}), store: store}
}

// Restore loads persisted state into the tracker. Called once at startup;
// a store with no prior state leaves the tracker unprimed.
func (t *Tracker) Restore(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	ids, primed, err := t.store.Load(ctx)
	if err != nil {
		return errors.New(err).
			Component("novelty").
			Category(errors.CategoryState).
			Build()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.known = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		t.known[id] = struct{}{}
	}
	t.primed = primed

	trackerLogger.Info("tracker state restored", "known", len(ids), "primed", primed)
	return nil
}

// Primed reports whether the tracker holds a committed baseline. On a
// fresh start every detection is technically novel; callers use Primed to
// decide whether that first observation should be delivered.
func (t *Tracker) Primed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.primed
}

// KnownCount returns the size of the committed baseline.
func (t *Tracker) KnownCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.known)
}

// Diff returns the detections whose IDs are not in the committed baseline,
// preserving input order. It never mutates tracker state.
func (t *Tracker) Diff(detections []hotspot.Detection) []hotspot.Detection {
	t.mu.Lock()
	defer t.mu.Unlock()

	var novel []hotspot.Detection
	for i := range detections {
		if _, ok := t.known[detections[i].ID]; !ok {
			novel = append(novel, detections[i])
		}
	}
	return novel
}

// Commit replaces the baseline with the given detection set and marks the
// tracker primed. The replacement is persisted before the in-memory set
// changes, so a failed save leaves the tracker on the old baseline.
func (t *Tracker) Commit(ctx context.Context, detections []hotspot.Detection) error {
	ids := hotspot.IDs(detections)

	if t.store != nil {
		if err := t.store.Save(ctx, ids); err != nil {
			return errors.New(err).
				Component("novelty").
				Category(errors.CategoryState).
				Context("ids", len(ids)).
				Build()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.known = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		t.known[id] = struct{}{}
	}
	t.primed = true

	trackerLogger.Debug("baseline committed", "known", len(ids))
	return nil
}
