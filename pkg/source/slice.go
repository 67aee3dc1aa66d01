package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-drift/listkit/pkg/paginate"
	"github.com/go-drift/listkit/pkg/store"
)

// Slice serves items from memory. It understands all three pagination
// parameter styles, which makes it the reference source for tests and
// demos.
type Slice struct {
	Items []store.Record
	Names paginate.ParamNames
	// Latency delays every read, simulating a slow backend.
	Latency time.Duration
	// DefaultLimit applies when no limit parameter is sent.
	DefaultLimit int
}

// NewSlice builds a slice source over the given records.
func NewSlice(items []store.Record, names paginate.ParamNames) *Slice {
	return &Slice{Items: items, Names: names.WithDefaults(), DefaultLimit: 20}
}

func (s *Slice) Read(ctx context.Context, params paginate.Params) (paginate.Response, error) {
	if s.Latency > 0 {
		select {
		case <-time.After(s.Latency):
		case <-ctx.Done():
			return paginate.Response{}, ctx.Err()
		}
	}

	limit := s.DefaultLimit
	if raw, ok := params[s.Names.Limit]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return paginate.Response{}, fmt.Errorf("invalid %s %q", s.Names.Limit, raw)
		}
		limit = n
	}

	start, err := s.startIndex(params, limit)
	if err != nil {
		return paginate.Response{}, err
	}

	total := len(s.Items)
	if start > total {
		start = total
	}
	end := min(start+limit, total)

	items := make([]store.Record, end-start)
	copy(items, s.Items[start:end])

	resp := paginate.Response{
		Items:   items,
		Total:   total,
		HasNext: end < total,
		HasPrev: start > 0,
	}
	if resp.HasNext {
		resp.NextCursor = cursorToken(end)
	}
	if resp.HasPrev {
		resp.PrevCursor = cursorToken(max(0, start-limit))
	}
	return resp, nil
}

func (s *Slice) startIndex(params paginate.Params, limit int) (int, error) {
	if raw, ok := params[s.Names.Cursor]; ok {
		return parseCursorToken(raw)
	}
	if raw, ok := params[s.Names.Offset]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid %s %q", s.Names.Offset, raw)
		}
		return n, nil
	}
	if raw, ok := params[s.Names.Page]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid %s %q", s.Names.Page, raw)
		}
		return (n - 1) * limit, nil
	}
	return 0, nil
}

// cursorToken encodes a continuation position. The token is opaque to the
// engine; only this source interprets it.
func cursorToken(index int) string {
	return "c" + strconv.Itoa(index)
}

func parseCursorToken(token string) (int, error) {
	raw, ok := strings.CutPrefix(token, "c")
	if !ok {
		return 0, fmt.Errorf("invalid cursor %q", token)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid cursor %q", token)
	}
	return n, nil
}
