// Package loader owns asynchronous data fetching: it plans requests
// through a pagination strategy, deduplicates in-flight ranges and merges
// responses into the item store.
package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	listerrors "github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/geometry"
	"github.com/go-drift/listkit/pkg/paginate"
	"github.com/go-drift/listkit/pkg/source"
	"github.com/go-drift/listkit/pkg/store"
)

var errStale = errors.New("response for abandoned generation")

// entry is one pending range with its in-flight future.
type entry struct {
	id         uuid.UUID
	r          geometry.Range
	generation uint64
	started    time.Time
	done       chan struct{}
	err        error
}

// StuckRange describes a pending range that has not resolved for a while.
// A source that never resolves leaves its range pending indefinitely; the
// engine surfaces these for diagnostics instead of timing them out itself.
type StuckRange struct {
	ID    uuid.UUID
	Range geometry.Range
	Age   time.Duration
}

// Loader coordinates fetches for missing index ranges.
//
// Invariants: no two pending ranges overlap, and no pending range overlaps
// a loaded range. Two EnsureLoaded calls for overlapping ranges issue
// exactly one request for the overlap; the second call awaits the
// in-flight entry. Pending markers are cleared on success and on failure,
// so a failed range reverts to unloaded and is retried on the next
// visibility pass.
type Loader struct {
	mu         sync.Mutex
	store      *store.Store
	strategy   paginate.Strategy
	src        source.DataSource
	pending    *store.RangeSet
	entries    map[uuid.UUID]*entry
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	now        func() time.Time

	// seqMu serializes sequential (cursor) chains so concurrent entries
	// never issue the same chain position twice.
	seqMu sync.Mutex

	// OnLoaded fires after each response merge, with the range that
	// became loaded. Called from fetch goroutines.
	OnLoaded func(r geometry.Range)
	// OnFailed fires when a range's fetch fails.
	OnFailed func(r geometry.Range, err error)
	// OnTotal fires when the source reports a new total count.
	OnTotal func(total int)
}

// New returns a loader merging into st through the given strategy.
func New(st *store.Store, strategy paginate.Strategy, src source.DataSource) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		store:    st,
		strategy: strategy,
		src:      src,
		pending:  store.NewRangeSet(),
		entries:  make(map[uuid.UUID]*entry),
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (l *Loader) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// EnsureLoaded makes every index of r loaded, fetching the missing parts.
//
// Already loaded and already pending sub-ranges are subtracted first;
// pending overlaps are awaited, not re-issued. The call returns when all
// of r is settled (loaded or failed) or ctx is done. Fetches themselves
// run on the loader's own context so an impatient caller does not cancel
// work other callers await.
func (l *Loader) EnsureLoaded(ctx context.Context, r geometry.Range) error {
	r = r.Clamp(l.store.Total())
	if r.Empty() {
		return nil
	}

	l.mu.Lock()
	fetchCtx := l.ctx
	var await []*entry
	for _, e := range l.entries {
		if e.r.Overlaps(r) {
			await = append(await, e)
		}
	}
	var started []*entry
	for _, gap := range l.store.Missing(r) {
		for _, need := range l.pending.Missing(gap) {
			e := &entry{
				id:         uuid.New(),
				r:          need,
				generation: l.generation,
				started:    l.now(),
				done:       make(chan struct{}),
			}
			l.pending.Add(need)
			l.entries[e.id] = e
			started = append(started, e)
		}
	}
	l.mu.Unlock()

	for _, e := range started {
		go l.fetch(fetchCtx, e)
	}

	var firstErr error
	for _, e := range append(await, started...) {
		select {
		case <-e.done:
			if e.err != nil && firstErr == nil {
				firstErr = e.err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return firstErr
}

// fetch resolves one pending entry and always clears its pending marker.
func (l *Loader) fetch(ctx context.Context, e *entry) {
	var err error
	if l.strategy.Sequential() {
		err = l.fetchSequential(ctx, e)
	} else {
		err = l.fetchParallel(ctx, e)
	}

	l.mu.Lock()
	delete(l.entries, e.id)
	if e.generation == l.generation {
		// Abandoned generations already dropped their markers; clearing
		// here would erase markers of newer entries.
		l.pending.Subtract(e.r)
	}
	e.err = err
	l.mu.Unlock()
	close(e.done)

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, errStale) {
		listerrors.Report(listerrors.ERange("loader.fetch", listerrors.KindAdapter, err, e.r))
		if l.OnFailed != nil {
			l.OnFailed(e.r, err)
		}
	}
}

// fetchParallel issues all planned requests for the entry at once.
func (l *Loader) fetchParallel(ctx context.Context, e *entry) error {
	l.mu.Lock()
	requests, err := l.strategy.RequestsFor(e.r)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, req := range requests {
		req := req
		g.Go(func() error {
			resp, err := l.src.Read(gctx, req.Params)
			if err != nil {
				return err
			}
			l.apply(e, req, resp)
			return nil
		})
	}
	return g.Wait()
}

// fetchSequential walks a cursor chain one request at a time until the
// entry's range is covered or the chain ends.
func (l *Loader) fetchSequential(ctx context.Context, e *entry) error {
	l.seqMu.Lock()
	defer l.seqMu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.mu.Lock()
		if e.generation != l.generation {
			l.mu.Unlock()
			return errStale
		}
		missing := l.store.Missing(e.r)
		if len(missing) == 0 {
			l.mu.Unlock()
			return nil
		}
		requests, err := l.strategy.RequestsFor(e.r)
		l.mu.Unlock()
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			// Chain exhausted before reaching the range.
			return nil
		}
		req := requests[0]
		resp, err := l.src.Read(ctx, req.Params)
		if err != nil {
			return err
		}
		if !l.apply(e, req, resp) {
			return errStale
		}
		if len(resp.Items) == 0 {
			return nil
		}
	}
}

// apply merges one response into the store. It reports false when the
// response belongs to an abandoned generation and was discarded.
func (l *Loader) apply(e *entry, req paginate.Request, resp paginate.Response) bool {
	l.mu.Lock()
	if e.generation != l.generation {
		l.mu.Unlock()
		listerrors.Report(listerrors.ERange("loader.apply", listerrors.KindStale, errStale, req.Range))
		return false
	}
	placement := l.strategy.Merge(req, resp)
	l.mu.Unlock()

	totalChanged := placement.Total >= 0 && l.store.SetTotal(placement.Total)
	loaded := l.store.Put(placement.At, placement.Items)

	if totalChanged && l.OnTotal != nil {
		l.OnTotal(placement.Total)
	}
	if !loaded.Empty() && l.OnLoaded != nil {
		l.OnLoaded(loaded)
	}
	return true
}

// Abandon marks all pending ranges as abandoned: in-flight requests are
// cancelled, late completions are detected by generation and discarded.
func (l *Loader) Abandon() {
	l.mu.Lock()
	l.generation++
	l.pending.Clear()
	cancel := l.cancel
	l.ctx, l.cancel = context.WithCancel(context.Background())
	if cs, ok := l.strategy.(*paginate.CursorStrategy); ok {
		cs.Reset()
	}
	l.mu.Unlock()
	cancel()
}

// Close cancels all in-flight work for good.
func (l *Loader) Close() {
	l.mu.Lock()
	l.generation++
	l.pending.Clear()
	cancel := l.cancel
	l.mu.Unlock()
	cancel()
}

// InFlight reports whether any range is currently pending.
func (l *Loader) InFlight() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) > 0
}

// Pending returns the currently pending ranges.
func (l *Loader) Pending() []geometry.Range {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending.Ranges()
}

// Stuck returns pending ranges older than the given age.
func (l *Loader) Stuck(olderThan time.Duration) []StuckRange {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	var out []StuckRange
	for _, e := range l.entries {
		if e.generation != l.generation {
			continue
		}
		if age := now.Sub(e.started); age >= olderThan {
			out = append(out, StuckRange{ID: e.id, Range: e.r, Age: age})
		}
	}
	return out
}
