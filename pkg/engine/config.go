package engine

import (
	"fmt"
	"time"

	"github.com/go-drift/listkit/pkg/errors"
	"github.com/go-drift/listkit/pkg/paginate"
	"github.com/go-drift/listkit/pkg/render"
	"github.com/go-drift/listkit/pkg/scroll"
	"github.com/go-drift/listkit/pkg/store"
)

// Config tunes the engine. The zero value is usable: every field has a
// stated default applied by withDefaults.
type Config struct {
	// ItemHeight is the uniform item height in pixels. Default 40.
	// Per-index overrides come in through SetItemHeights.
	ItemHeight float64
	// PageSize is the number of items per data source request. Default 20.
	PageSize int
	// Buffer is the number of items loaded and laid out beyond the
	// visible range on each side. Default 5.
	Buffer int
	// Overscan is the number of additional items kept bound but hidden
	// beyond the buffer. Default 3.
	Overscan int
	// ViewportHeight is the initial viewport height in pixels. It may be
	// left 0 and supplied later through SetViewportHeight.
	ViewportHeight float64
	// ScrollThrottle is the minimum interval between scroll-driven load
	// triggers. Default 100ms.
	ScrollThrottle time.Duration
	// Strategy selects pagination: "page" (default), "offset" or "cursor".
	Strategy string
	// ParamNames renames the pagination parameters sent to the source.
	ParamNames paginate.ParamNames
	// CursorJump sets the cursor strategy's page-jump policy.
	CursorJump paginate.CursorJumpPolicy
	// PreloadBefore and PreloadAfter are the number of adjacent pages
	// loaded in the background on each side of the visible range.
	// Default 1 each.
	PreloadBefore int
	PreloadAfter  int
	// Placeholder selects the synthesized filler style. Default skeleton.
	Placeholder store.PlaceholderMode
	// FastVelocity is the scroll velocity, in distance units per
	// millisecond, above which loading is suppressed. Default 5.
	FastVelocity float64
	// QuietPeriod is how long after the last scroll event a suppressed
	// load fires anyway. Default 100ms.
	QuietPeriod time.Duration
	// PoolCapacity bounds each recycle pool bucket. Default 32.
	PoolCapacity int
	// StuckAfter is the pending age after which a range is reported as
	// stuck loading. Default 10s.
	StuckAfter time.Duration
}

func (c Config) withDefaults() Config {
	if c.ItemHeight == 0 {
		c.ItemHeight = 40
	}
	if c.PageSize == 0 {
		c.PageSize = 20
	}
	if c.Buffer == 0 {
		c.Buffer = 5
	}
	if c.Overscan == 0 {
		c.Overscan = 3
	}
	if c.ScrollThrottle == 0 {
		c.ScrollThrottle = 100 * time.Millisecond
	}
	if c.Strategy == "" {
		c.Strategy = "page"
	}
	c.ParamNames = c.ParamNames.WithDefaults()
	if c.PreloadBefore == 0 {
		c.PreloadBefore = 1
	}
	if c.PreloadAfter == 0 {
		c.PreloadAfter = 1
	}
	if c.FastVelocity == 0 {
		c.FastVelocity = scroll.DefaultFastVelocity
	}
	if c.QuietPeriod == 0 {
		c.QuietPeriod = scroll.DefaultQuietPeriod
	}
	if c.PoolCapacity == 0 {
		c.PoolCapacity = render.DefaultPoolCapacity
	}
	if c.StuckAfter == 0 {
		c.StuckAfter = 10 * time.Second
	}
	return c
}

func (c Config) validate() error {
	if c.ItemHeight < 0 {
		return errors.E("engine.New", errors.KindConfig, fmt.Errorf("item height must be positive, got %v", c.ItemHeight))
	}
	if c.PageSize < 0 {
		return errors.E("engine.New", errors.KindConfig, fmt.Errorf("page size must be positive, got %d", c.PageSize))
	}
	if c.Buffer < 0 || c.Overscan < 0 {
		return errors.E("engine.New", errors.KindConfig, fmt.Errorf("buffer and overscan must not be negative"))
	}
	if c.PreloadBefore < 0 || c.PreloadAfter < 0 {
		return errors.E("engine.New", errors.KindConfig, fmt.Errorf("preload counts must not be negative"))
	}
	switch c.Strategy {
	case "page", "offset", "cursor":
	default:
		return errors.E("engine.New", errors.KindConfig, fmt.Errorf("unknown pagination strategy %q", c.Strategy))
	}
	if err := c.ParamNames.Validate(); err != nil {
		return errors.E("engine.New", errors.KindConfig, err)
	}
	return nil
}

// strategy builds the configured pagination strategy.
func (c Config) strategy() paginate.Strategy {
	switch c.Strategy {
	case "offset":
		return paginate.NewOffsetStrategy(c.PageSize, c.ParamNames)
	case "cursor":
		return paginate.NewCursorStrategy(c.PageSize, c.ParamNames, c.CursorJump)
	default:
		return paginate.NewPageStrategy(c.PageSize, c.ParamNames)
	}
}
