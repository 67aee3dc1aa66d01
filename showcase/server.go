package showcase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fulldump/box"
)

const maxLimit = 500

// ItemsPage is the wire response of GET /items, shaped for the engine's
// HTTP source.
type ItemsPage struct {
	Items []Item    `json:"items"`
	Meta  ItemsMeta `json:"meta"`
}

// ItemsMeta carries pagination metadata.
type ItemsMeta struct {
	Total      int    `json:"total"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
	NextCursor string `json:"nextCursor,omitempty"`
	PrevCursor string `json:"prevCursor,omitempty"`
}

// Server serves the demo dataset over HTTP.
type Server struct {
	Dataset *Dataset
	// Latency delays every request, simulating a distant backend.
	Latency time.Duration
}

// NewServer returns a demo server over the given dataset.
func NewServer(dataset *Dataset, latency time.Duration) *Server {
	return &Server{Dataset: dataset, Latency: latency}
}

// Build mounts the API. Endpoints accept page, offset or cursor
// addressing so every pagination strategy of the engine can be pointed at
// the same server.
func (s *Server) Build() *box.B {
	b := box.NewBox()

	b.Resource("/items").
		WithActions(
			box.Get(s.listItems).WithName("listItems"),
		)
	b.Resource("/status").
		WithActions(
			box.Get(s.status).WithName("status"),
		)

	return b
}

// Handler returns the API as a plain http.Handler.
func (s *Server) Handler() http.Handler {
	return box.Box2Http(s.Build())
}

func (s *Server) status(ctx context.Context) (any, error) {
	return map[string]any{
		"rows":    s.Dataset.Size,
		"latency": s.Latency.String(),
	}, nil
}

func (s *Server) listItems(ctx context.Context, r *http.Request) (*ItemsPage, error) {
	if s.Latency > 0 {
		select {
		case <-time.After(s.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	query := r.URL.Query()

	limit := 20
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid limit %q", raw)
		}
		limit = min(n, maxLimit)
	}

	start, err := s.startIndex(query.Get("cursor"), query.Get("offset"), query.Get("page"), limit)
	if err != nil {
		return nil, err
	}

	total := s.Dataset.Size
	if start > total {
		start = total
	}
	end := min(start+limit, total)

	page := &ItemsPage{
		Items: s.Dataset.Slice(start, end),
		Meta: ItemsMeta{
			Total:   total,
			HasNext: end < total,
			HasPrev: start > 0,
		},
	}
	if page.Meta.HasNext {
		page.Meta.NextCursor = encodeCursor(end)
	}
	if page.Meta.HasPrev {
		page.Meta.PrevCursor = encodeCursor(max(0, start-limit))
	}
	return page, nil
}

// startIndex resolves the starting row. Cursor wins over offset, offset
// over page, matching the precedence of the engine's sources.
func (s *Server) startIndex(cursor, offset, page string, limit int) (int, error) {
	if cursor != "" {
		return decodeCursor(cursor)
	}
	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid offset %q", offset)
		}
		return n, nil
	}
	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid page %q", page)
		}
		return (n - 1) * limit, nil
	}
	return 0, nil
}

func encodeCursor(index int) string {
	return "at:" + strconv.Itoa(index)
}

func decodeCursor(token string) (int, error) {
	raw, ok := strings.CutPrefix(token, "at:")
	if !ok {
		return 0, fmt.Errorf("invalid cursor %q", token)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid cursor %q", token)
	}
	return n, nil
}
