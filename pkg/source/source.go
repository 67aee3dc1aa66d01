// Package source defines the data source contract the engine consumes and
// ships two implementations: an in-memory slice and an HTTP JSON client.
package source

import (
	"context"

	"github.com/go-drift/listkit/pkg/paginate"
)

// DataSource produces items for the engine.
//
// Read must be idempotent for identical params and must not assume any
// request ordering: the loader issues requests in parallel and applies
// responses in completion order. Timeouts are the source's contract; the
// engine itself never times a request out, it only reports ranges that
// stay pending as stuck.
type DataSource interface {
	Read(ctx context.Context, params paginate.Params) (paginate.Response, error)
}

// Func adapts a plain function to a DataSource.
type Func func(ctx context.Context, params paginate.Params) (paginate.Response, error)

func (f Func) Read(ctx context.Context, params paginate.Params) (paginate.Response, error) {
	return f(ctx, params)
}
