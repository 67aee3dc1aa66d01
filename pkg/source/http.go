package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-drift/listkit/pkg/paginate"
	"github.com/go-drift/listkit/pkg/store"
)

// HTTP reads items from a JSON endpoint.
//
// Pagination params are sent as query parameters. The expected body is
//
//	{"items": [{"id": "...", ...}, ...],
//	 "meta": {"total": 123, "hasNext": true, "hasPrev": false,
//	          "nextCursor": "...", "prevCursor": "..."}}
//
// Each item becomes a record whose payload is the decoded object and whose
// id is taken from IDField ("id" by default).
type HTTP struct {
	// URL is the endpoint serving items.
	URL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// IDField names the item property carrying the record id.
	IDField string
}

// NewHTTP returns an HTTP source for the given endpoint.
func NewHTTP(endpoint string) *HTTP {
	return &HTTP{URL: endpoint, IDField: "id"}
}

type wireItem map[string]any

type wireMeta struct {
	Total      *int   `json:"total"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
	NextCursor string `json:"nextCursor"`
	PrevCursor string `json:"prevCursor"`
}

type wireResponse struct {
	Items []wireItem `json:"items"`
	Meta  wireMeta   `json:"meta"`
}

func (h *HTTP) Read(ctx context.Context, params paginate.Params) (paginate.Response, error) {
	endpoint, err := url.Parse(h.URL)
	if err != nil {
		return paginate.Response{}, fmt.Errorf("parse url: %w", err)
	}
	query := endpoint.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return paginate.Response{}, err
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return paginate.Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return paginate.Response{}, fmt.Errorf("read %s: unexpected status %s", endpoint.Path, resp.Status)
	}

	var body wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return paginate.Response{}, fmt.Errorf("decode response: %w", err)
	}

	idField := h.IDField
	if idField == "" {
		idField = "id"
	}
	items := make([]store.Record, 0, len(body.Items))
	for _, item := range body.Items {
		id := ""
		if raw, ok := item[idField]; ok {
			id = fmt.Sprint(raw)
		}
		items = append(items, store.Record{ID: id, Payload: map[string]any(item)})
	}

	total := store.TotalUnknown
	if body.Meta.Total != nil && *body.Meta.Total >= 0 {
		total = *body.Meta.Total
	}
	return paginate.Response{
		Items:      items,
		Total:      total,
		HasNext:    body.Meta.HasNext,
		HasPrev:    body.Meta.HasPrev,
		NextCursor: body.Meta.NextCursor,
		PrevCursor: body.Meta.PrevCursor,
	}, nil
}
