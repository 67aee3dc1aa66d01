// Package engine wires the list components into a running instance and
// exposes the public surface: page navigation, scrolling, refresh, typed
// events and teardown.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/geometry"
	"github.com/go-drift/listkit/pkg/loader"
	"github.com/go-drift/listkit/pkg/paginate"
	"github.com/go-drift/listkit/pkg/render"
	"github.com/go-drift/listkit/pkg/scroll"
	"github.com/go-drift/listkit/pkg/source"
	"github.com/go-drift/listkit/pkg/store"
)

// State is the engine lifecycle state.
type State int

const (
	// StateUninitialized means New succeeded but Start has not run.
	StateUninitialized State = iota
	// StateRunning means the engine is live.
	StateRunning
	// StateDestroyed is terminal; no operation is valid afterwards.
	StateDestroyed
)

// Align positions a scrolled-to item within the viewport.
type Align int

const (
	// AlignStart puts the item at the top of the viewport.
	AlignStart Align = iota
	// AlignCenter centers the item.
	AlignCenter
	// AlignEnd puts the item at the bottom.
	AlignEnd
)

// Engine is a virtualized list over an arbitrarily large paginated
// dataset. All state mutation funnels through the item store's lock and
// the engine's own; fetch completions re-enter that owner context, so
// out-of-order responses never corrupt state.
type Engine struct {
	cfg Config

	mu          sync.Mutex
	state       State
	currentPage int
	lastStuck   int

	st           *store.Store
	heights      *geometry.HeightModel
	placeholders *store.Placeholders
	strategy     paginate.Strategy
	ld           *loader.Loader
	controller   *scroll.Controller
	tracker      *scroll.Tracker
	limiter      *rate.Limiter
	pool         *render.Pool
	recycler     *render.Recycler

	subsMu      sync.Mutex
	subs        map[int]func(Event)
	nextSub     int
	pageSubs    map[int]func(int)
	nextPageSub int

	now          func() time.Time
	removeScroll func()
	stopTick     chan struct{}
	tickOnce     sync.Once
}

// Option customizes engine construction.
type Option func(*Engine)

// WithRenderer attaches the caller's render contract. Without it the
// engine runs headless and only the item surface (VisibleItems) applies.
func WithRenderer(fn render.RenderFunc, itemType render.ItemTypeFunc, content render.ContentFunc) Option {
	return func(e *Engine) {
		e.recycler = render.NewRecycler(e.pool, fn, itemType, content, e.heights)
	}
}

// WithController shares an externally owned scroll controller.
func WithController(c *scroll.Controller) Option {
	return func(e *Engine) {
		e.controller = c
	}
}

// WithClock overrides the engine's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
		e.ld.SetClock(now)
	}
}

// New validates the configuration and builds an engine over the data
// source. Configuration errors are fatal here, before any state exists.
func New(cfg Config, src source.DataSource, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, errors.E("engine.New", errors.KindConfig, fmt.Errorf("data source is required"))
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	st := store.NewStore()
	heights := geometry.NewHeightModel(cfg.ItemHeight)
	strategy := cfg.strategy()

	e := &Engine{
		cfg:          cfg,
		currentPage:  1,
		st:           st,
		heights:      heights,
		placeholders: store.NewPlaceholders(cfg.Placeholder, st),
		strategy:     strategy,
		ld:           loader.New(st, strategy, src),
		controller:   scroll.NewController(),
		tracker:      scroll.NewTracker(cfg.FastVelocity, cfg.QuietPeriod),
		limiter:      rate.NewLimiter(rate.Every(cfg.ScrollThrottle), 1),
		pool:         render.NewPool(cfg.PoolCapacity),
		subs:         make(map[int]func(Event)),
		pageSubs:     make(map[int]func(int)),
		now:          time.Now,
		stopTick:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if cfg.ViewportHeight > 0 {
		e.controller.SetViewportExtent(cfg.ViewportHeight)
	}
	return e, nil
}

// Start wires the components, performs the initial viewport-driven load
// and attaches the scroll observer.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateUninitialized {
		e.mu.Unlock()
		return e.lifecycleError("engine.Start")
	}
	e.state = StateRunning
	e.mu.Unlock()

	e.ld.OnLoaded = func(r geometry.Range) {
		e.emit(Event{Kind: EventRangeLoaded, Range: r})
		e.renderPass()
	}
	e.ld.OnFailed = func(r geometry.Range, err error) {
		e.emit(Event{Kind: EventLoadFailed, Range: r, Err: err})
	}
	e.ld.OnTotal = func(total int) {
		e.controller.SetContentExtent(e.heights.ContentHeight(total))
		e.emit(Event{Kind: EventTotalChanged, Total: total})
	}
	e.tracker.OnSettle(func() {
		go e.loadVisible(context.Background())
	})
	e.removeScroll = e.controller.AddListener(e.onScroll)

	go e.tickLoop()
	go e.loadVisible(ctx)
	return nil
}

// tickLoop drives the quiet-period timeout and stuck-range diagnostics.
// Timestamps come from the engine clock so tests with a fake clock stay
// deterministic.
func (e *Engine) tickLoop() {
	interval := e.cfg.QuietPeriod / 4
	if interval < 5*time.Millisecond {
		interval = 5 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.Tick(e.now())
		case <-e.stopTick:
			return
		}
	}
}

// Tick advances time-driven behavior: the scroll quiet period and the
// stuck-loading monitor. It is exported so tests can drive it directly.
func (e *Engine) Tick(at time.Time) {
	if e.State() != StateRunning {
		return
	}
	e.tracker.Tick(at)

	stuck := e.ld.Stuck(e.cfg.StuckAfter)
	e.mu.Lock()
	report := len(stuck) > 0 && len(stuck) != e.lastStuck
	e.lastStuck = len(stuck)
	e.mu.Unlock()
	if report {
		for _, s := range stuck {
			e.emit(Event{Kind: EventStuckLoading, Range: s.Range})
		}
	}
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Controller returns the scroll controller driving this engine.
func (e *Engine) Controller() *scroll.Controller {
	return e.controller
}

// SetViewportHeight records the container's viewport height in pixels.
func (e *Engine) SetViewportHeight(px float64) {
	e.controller.SetViewportExtent(px)
}

// onScroll runs on every controller notification: it classifies velocity,
// tracks the current page and, in slow mode, triggers throttled loads.
func (e *Engine) onScroll() {
	if e.State() != StateRunning {
		return
	}
	offset := e.controller.Offset()
	e.tracker.Observe(offset, e.now())

	w := e.window()
	if !w.Visible.Empty() {
		page := paginate.PageOf(w.Visible.Start, e.cfg.PageSize)
		e.mu.Lock()
		changed := page != e.currentPage
		if changed {
			e.currentPage = page
		}
		e.mu.Unlock()
		if changed {
			e.emitPage(page)
		}
	}

	e.renderPass()

	if e.tracker.Mode() == scroll.ModeFast {
		return
	}
	if !e.limiter.Allow() {
		return
	}
	go e.loadVisible(context.Background())
}

// loadVisible loads the render range plus the boundary preloads.
func (e *Engine) loadVisible(ctx context.Context) {
	defer errors.Recover("engine.loadVisible")
	if e.State() != StateRunning {
		return
	}
	w := e.window()
	target := w.Render
	if target.Empty() {
		// Viewport not known yet: fall back to the first page.
		target = paginate.PageRange(1, e.cfg.PageSize).Clamp(e.st.Total())
	}
	// Errors are already reported and surface as EventLoadFailed; the
	// range reverts to unloaded and is retried on the next pass.
	_ = e.ld.EnsureLoaded(ctx, target)

	for _, r := range paginate.PreloadRanges(w.Visible, e.cfg.PageSize, e.cfg.PreloadBefore, e.cfg.PreloadAfter, e.st.Total()) {
		go func(r geometry.Range) {
			defer errors.Recover("engine.preload")
			_ = e.ld.EnsureLoaded(context.Background(), r)
		}(r)
	}
	e.renderPass()
}

// window projects the current scroll state onto item indices.
func (e *Engine) window() geometry.Window {
	return geometry.VisibleWindow(
		e.controller.Offset(),
		e.controller.ViewportExtent(),
		e.heights,
		e.st.Total(),
		e.cfg.Buffer,
		e.cfg.Overscan,
	)
}

// recordAt returns the loaded record at i, or a synthesized placeholder.
func (e *Engine) recordAt(i int) store.Record {
	if rec, ok := e.st.Get(i); ok {
		return rec
	}
	return e.placeholders.Synthesize(i)
}

// renderPass lays out the current window through the recycler.
func (e *Engine) renderPass() {
	if e.recycler == nil || e.State() != StateRunning {
		return
	}
	defer errors.Recover("engine.renderPass")
	w := e.window()
	if w.Render.Empty() {
		return
	}
	e.recycler.Render(w.Render, w.Keep, e.recordAt)
}

// LoadPage jumps to a 1-based page. The whole viewport starting at the
// page's first item is requested as one parallel batch; the scroll
// position moves only after the first real data for the page arrives,
// with placeholders filling the gap in the meantime.
func (e *Engine) LoadPage(ctx context.Context, n int) error {
	if err := e.guard("engine.LoadPage"); err != nil {
		return err
	}
	if n < 1 {
		return e.indexError("engine.LoadPage", fmt.Errorf("page %d out of range", n))
	}
	target := (n - 1) * e.cfg.PageSize
	total := e.st.Total()
	if total >= 0 && target >= total {
		return e.indexError("engine.LoadPage", fmt.Errorf("page %d beyond total %d", n, total))
	}

	full := e.viewportRangeAt(target)
	pageRange := paginate.PageRange(n, e.cfg.PageSize).Clamp(total)

	if !e.st.IsLoaded(pageRange) {
		first := make(chan struct{})
		var once sync.Once
		unsub := e.Subscribe(func(ev Event) {
			if ev.Kind == EventRangeLoaded && ev.Range.Overlaps(pageRange) {
				once.Do(func() { close(first) })
			}
		})
		defer unsub()

		errCh := make(chan error, 1)
		go func() {
			errCh <- e.ld.EnsureLoaded(ctx, full)
		}()

		select {
		case <-first:
		case err := <-errCh:
			if err != nil {
				return errors.ERange("engine.LoadPage", errors.KindAdapter, err, full)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	e.controller.JumpTo(e.heights.OffsetOf(target))
	e.mu.Lock()
	changed := e.currentPage != n
	e.currentPage = n
	e.mu.Unlock()
	if changed {
		e.emitPage(n)
	}
	return nil
}

// LoadNext loads the page after the current one.
func (e *Engine) LoadNext(ctx context.Context) error {
	if err := e.guard("engine.LoadNext"); err != nil {
		return err
	}
	return e.LoadPage(ctx, e.CurrentPage()+1)
}

// LoadPrevious loads the page before the current one.
func (e *Engine) LoadPrevious(ctx context.Context) error {
	if err := e.guard("engine.LoadPrevious"); err != nil {
		return err
	}
	return e.LoadPage(ctx, e.CurrentPage()-1)
}

// CurrentPage returns the 1-based page containing the first visible item.
func (e *Engine) CurrentPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentPage
}

// ScrollToIndex scrolls so that item i is positioned per align. The
// animate flag is accepted for interface parity; positioning is
// immediate.
func (e *Engine) ScrollToIndex(ctx context.Context, i int, align Align, animate bool) error {
	if err := e.guard("engine.ScrollToIndex"); err != nil {
		return err
	}
	total := e.st.Total()
	if i < 0 || (total >= 0 && i >= total) {
		return e.indexError("engine.ScrollToIndex", fmt.Errorf("index %d out of range", i))
	}
	_ = animate

	offset := e.heights.OffsetOf(i)
	viewport := e.controller.ViewportExtent()
	switch align {
	case AlignCenter:
		offset -= (viewport - e.heights.HeightOf(i)) / 2
	case AlignEnd:
		offset -= viewport - e.heights.HeightOf(i)
	}
	e.controller.JumpTo(offset)
	go e.loadVisible(ctx)
	return nil
}

// ScrollToItemID scrolls to a loaded item by id. Unloaded ids are
// rejected: the engine cannot know the index of data it has never seen.
func (e *Engine) ScrollToItemID(ctx context.Context, id string, align Align, animate bool) error {
	if err := e.guard("engine.ScrollToItemID"); err != nil {
		return err
	}
	i, ok := e.st.IndexOfID(id)
	if !ok {
		return e.indexError("engine.ScrollToItemID", fmt.Errorf("item id %q is not loaded", id))
	}
	return e.ScrollToIndex(ctx, i, align, animate)
}

// Refresh abandons all pending loads, clears the store and reloads the
// current viewport.
func (e *Engine) Refresh(ctx context.Context) error {
	if err := e.guard("engine.Refresh"); err != nil {
		return err
	}
	e.ld.Abandon()
	e.st.Clear()
	e.emit(Event{Kind: EventRefreshed})
	go e.loadVisible(ctx)
	return nil
}

// VisibleItems returns the records currently within the viewport, with
// synthesized placeholders for unloaded indices.
func (e *Engine) VisibleItems() []store.Record {
	w := e.window()
	out := make([]store.Record, 0, w.Visible.Len())
	for i := w.Visible.Start; i < w.Visible.End; i++ {
		out = append(out, e.recordAt(i))
	}
	return out
}

// LoadedItems returns every loaded record in index order.
func (e *Engine) LoadedItems() []store.Record {
	return e.st.All()
}

// IsLoading reports whether any range is in flight.
func (e *Engine) IsLoading() bool {
	return e.ld.InFlight()
}

// HasNext reports whether items exist beyond the current page.
func (e *Engine) HasNext() bool {
	if cs, ok := e.strategy.(*paginate.CursorStrategy); ok {
		return cs.HasNext()
	}
	total := e.st.Total()
	if total < 0 {
		return true
	}
	return e.CurrentPage()*e.cfg.PageSize < total
}

// Total returns the known total item count, or store.TotalUnknown.
func (e *Engine) Total() int {
	return e.st.Total()
}

// Stuck returns pending ranges older than the configured stuck age.
func (e *Engine) Stuck() []loader.StuckRange {
	return e.ld.Stuck(e.cfg.StuckAfter)
}

// SetItemHeights overrides per-index item heights and relays out.
func (e *Engine) SetItemHeights(heights map[int]float64) {
	if err := e.guard("engine.SetItemHeights"); err != nil {
		return
	}
	e.heights.SetHeights(heights)
	if total := e.st.Total(); total >= 0 {
		e.controller.SetContentExtent(e.heights.ContentHeight(total))
	}
	e.renderPass()
}

// Destroy tears the engine down: the scroll observer detaches, pending
// ranges are abandoned (cancelling in-flight requests), and all elements
// are destroyed. Destroy is terminal; any later call on the engine is a
// programmer error, reported through the error handler.
func (e *Engine) Destroy() error {
	e.mu.Lock()
	if e.state == StateDestroyed {
		e.mu.Unlock()
		return e.lifecycleError("engine.Destroy")
	}
	e.state = StateDestroyed
	e.mu.Unlock()

	if e.removeScroll != nil {
		e.removeScroll()
	}
	e.tickOnce.Do(func() { close(e.stopTick) })
	e.ld.Close()
	if e.recycler != nil {
		e.recycler.Destroy()
	} else {
		e.pool.Drain()
	}

	e.subsMu.Lock()
	e.subs = make(map[int]func(Event))
	e.pageSubs = make(map[int]func(int))
	e.subsMu.Unlock()
	return nil
}

// viewportRangeAt returns the index range filling the viewport starting
// at index start.
func (e *Engine) viewportRangeAt(start int) geometry.Range {
	total := e.st.Total()
	viewport := e.controller.ViewportExtent()
	if viewport <= 0 {
		return paginate.PageRange(paginate.PageOf(start, e.cfg.PageSize), e.cfg.PageSize).Clamp(total)
	}
	end := e.heights.IndexAt(e.heights.OffsetOf(start)+viewport) + 1
	return geometry.Range{Start: start, End: end}.Expand(e.cfg.Buffer).Clamp(total)
}

// guard rejects calls on a non-running engine, reporting the violation.
func (e *Engine) guard(op string) error {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()
	if state == StateRunning {
		return nil
	}
	return e.lifecycleErrorState(op, state)
}

func (e *Engine) lifecycleError(op string) error {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()
	return e.lifecycleErrorState(op, state)
}

func (e *Engine) lifecycleErrorState(op string, state State) error {
	var err *errors.ListError
	switch state {
	case StateDestroyed:
		err = errors.E(op, errors.KindLifecycle, fmt.Errorf("engine is destroyed"))
	case StateUninitialized:
		err = errors.E(op, errors.KindLifecycle, fmt.Errorf("engine is not started"))
	default:
		err = errors.E(op, errors.KindLifecycle, fmt.Errorf("engine is already running"))
	}
	errors.Report(err)
	return err
}

func (e *Engine) indexError(op string, cause error) error {
	err := errors.E(op, errors.KindIndex, cause)
	errors.Report(err)
	return err
}
