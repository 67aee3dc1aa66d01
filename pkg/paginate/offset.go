package paginate

import (
	"strconv"

	"github.com/go-drift/listkit/pkg/geometry"
	"github.com/go-drift/listkit/pkg/store"
)

// OffsetStrategy addresses the dataset by absolute offset and limit,
// which allows precise sub-page addressing: offset = range start.
// Ranges larger than PageSize are split into PageSize-wide chunks.
type OffsetStrategy struct {
	PageSize int
	Names    ParamNames
}

// NewOffsetStrategy returns an offset strategy with default parameter names.
func NewOffsetStrategy(pageSize int, names ParamNames) *OffsetStrategy {
	return &OffsetStrategy{PageSize: pageSize, Names: names.WithDefaults()}
}

func (s *OffsetStrategy) Name() string { return "offset" }

func (s *OffsetStrategy) Sequential() bool { return false }

func (s *OffsetStrategy) RequestsFor(r geometry.Range) ([]Request, error) {
	if r.Empty() {
		return nil, nil
	}
	var requests []Request
	for start := r.Start; start < r.End; start += s.PageSize {
		end := min(start+s.PageSize, r.End)
		requests = append(requests, Request{
			Params: Params{
				s.Names.Offset: strconv.Itoa(start),
				s.Names.Limit:  strconv.Itoa(end - start),
			},
			Range: geometry.Range{Start: start, End: end},
		})
	}
	return requests, nil
}

func (s *OffsetStrategy) Merge(req Request, resp Response) Placement {
	total := store.TotalUnknown
	if resp.Total >= 0 {
		total = resp.Total
	}
	return Placement{At: req.Range.Start, Items: resp.Items, Total: total}
}
