package paginate

import (
	"errors"
	"strconv"

	"github.com/go-drift/listkit/pkg/geometry"
	"github.com/go-drift/listkit/pkg/store"
)

// ErrCursorJump is returned when a cursor strategy configured with
// CursorJumpReject is asked to reach an index beyond its frontier.
var ErrCursorJump = errors.New("cursor pagination cannot jump to an arbitrary index")

// CursorJumpPolicy decides what a direct page jump means under cursor
// pagination, which only supports sequential traversal.
type CursorJumpPolicy int

const (
	// CursorJumpRestart restarts the cursor chain from index 0 and walks
	// forward to the target. This is the default: a documented
	// degradation, not a silent error.
	CursorJumpRestart CursorJumpPolicy = iota
	// CursorJumpReject refuses the jump with ErrCursorJump.
	CursorJumpReject
)

// CursorStrategy traverses the dataset through opaque continuation tokens
// carried from one response to the next.
//
// The chain is strictly sequential: RequestsFor returns at most one
// request, and the loader re-plans after each merge until the target range
// is covered. CursorStrategy keeps chain state and is not safe for
// concurrent use; the loader serializes all calls.
type CursorStrategy struct {
	PageSize int
	Names    ParamNames
	Jump     CursorJumpPolicy

	frontier  int    // next unfetched index in the chain
	cursor    string // token for the next request, empty at chain start
	exhausted bool
}

// NewCursorStrategy returns a cursor strategy with default parameter names.
func NewCursorStrategy(pageSize int, names ParamNames, jump CursorJumpPolicy) *CursorStrategy {
	return &CursorStrategy{PageSize: pageSize, Names: names.WithDefaults(), Jump: jump}
}

func (s *CursorStrategy) Name() string { return "cursor" }

func (s *CursorStrategy) Sequential() bool { return true }

// HasNext reports whether the chain has more items to fetch.
func (s *CursorStrategy) HasNext() bool { return !s.exhausted }

// Frontier returns the next unfetched index in the chain.
func (s *CursorStrategy) Frontier() int { return s.frontier }

// Reset forgets the chain state; the next request starts from index 0.
func (s *CursorStrategy) Reset() {
	s.frontier = 0
	s.cursor = ""
	s.exhausted = false
}

func (s *CursorStrategy) RequestsFor(r geometry.Range) ([]Request, error) {
	if r.Empty() || r.End <= s.frontier {
		return nil, nil
	}
	if r.Start > s.frontier {
		// The chain has not reached the requested range.
		switch s.Jump {
		case CursorJumpReject:
			return nil, ErrCursorJump
		default:
			s.Reset()
		}
	}
	if s.exhausted {
		return nil, nil
	}
	params := Params{s.Names.Limit: strconv.Itoa(s.PageSize)}
	if s.cursor != "" {
		params[s.Names.Cursor] = s.cursor
	}
	return []Request{{
		Params: params,
		Range:  geometry.Range{Start: s.frontier, End: s.frontier + s.PageSize},
	}}, nil
}

func (s *CursorStrategy) Merge(req Request, resp Response) Placement {
	at := req.Range.Start
	if at == s.frontier {
		s.frontier += len(resp.Items)
		s.cursor = resp.NextCursor
		s.exhausted = !resp.HasNext || len(resp.Items) == 0
	}
	total := store.TotalUnknown
	if resp.Total >= 0 {
		total = resp.Total
	} else if s.exhausted {
		// A finished chain fixes the total even when the source never
		// reported one.
		total = s.frontier
	}
	return Placement{At: at, Items: resp.Items, Total: total}
}
