package paginate

import (
	"strconv"

	"github.com/go-drift/listkit/pkg/geometry"
	"github.com/go-drift/listkit/pkg/store"
)

// PageStrategy addresses the dataset in fixed pages: page = index/size + 1.
//
// It supports true random access. A range spanning several pages fans out
// into one request per page; the loader issues them in parallel so a page
// jump fills the whole viewport at once instead of page by page.
type PageStrategy struct {
	PageSize int
	Names    ParamNames
}

// NewPageStrategy returns a page strategy with default parameter names.
func NewPageStrategy(pageSize int, names ParamNames) *PageStrategy {
	return &PageStrategy{PageSize: pageSize, Names: names.WithDefaults()}
}

func (s *PageStrategy) Name() string { return "page" }

func (s *PageStrategy) Sequential() bool { return false }

func (s *PageStrategy) RequestsFor(r geometry.Range) ([]Request, error) {
	if r.Empty() {
		return nil, nil
	}
	first := PageOf(r.Start, s.PageSize)
	last := PageOf(r.End-1, s.PageSize)
	requests := make([]Request, 0, last-first+1)
	for page := first; page <= last; page++ {
		requests = append(requests, Request{
			Params: Params{
				s.Names.Page:  strconv.Itoa(page),
				s.Names.Limit: strconv.Itoa(s.PageSize),
			},
			Range: PageRange(page, s.PageSize),
		})
	}
	return requests, nil
}

func (s *PageStrategy) Merge(req Request, resp Response) Placement {
	total := store.TotalUnknown
	if resp.Total >= 0 {
		total = resp.Total
	}
	return Placement{At: req.Range.Start, Items: resp.Items, Total: total}
}
