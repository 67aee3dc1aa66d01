package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/listkit/pkg/paginate"
	"github.com/go-drift/listkit/pkg/store"
)

func sliceSource(n int) *Slice {
	items := make([]store.Record, n)
	for i := range items {
		items[i] = store.Record{
			ID:      fmt.Sprintf("row-%d", i),
			Payload: map[string]string{"title": fmt.Sprintf("Row %d", i)},
		}
	}
	return NewSlice(items, paginate.ParamNames{})
}

// TestSlice_PageParams verifies 1-based page addressing.
func TestSlice_PageParams(t *testing.T) {
	s := sliceSource(100)
	resp, err := s.Read(context.Background(), paginate.Params{"page": "3", "limit": "20"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 20)
	assert.Equal(t, "row-40", resp.Items[0].ID)
	assert.Equal(t, 100, resp.Total)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)
}

// TestSlice_OffsetParams verifies absolute offset addressing.
func TestSlice_OffsetParams(t *testing.T) {
	s := sliceSource(100)
	resp, err := s.Read(context.Background(), paginate.Params{"offset": "95", "limit": "20"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 5)
	assert.Equal(t, "row-95", resp.Items[0].ID)
	assert.False(t, resp.HasNext)
	assert.Empty(t, resp.NextCursor)
}

// TestSlice_CursorChain verifies cursor tokens walk the dataset.
func TestSlice_CursorChain(t *testing.T) {
	s := sliceSource(25)

	resp, err := s.Read(context.Background(), paginate.Params{"limit": "10"})
	require.NoError(t, err)
	assert.Equal(t, "row-0", resp.Items[0].ID)
	require.NotEmpty(t, resp.NextCursor)

	resp, err = s.Read(context.Background(), paginate.Params{"limit": "10", "cursor": resp.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, "row-10", resp.Items[0].ID)

	resp, err = s.Read(context.Background(), paginate.Params{"limit": "10", "cursor": resp.NextCursor})
	require.NoError(t, err)
	require.Len(t, resp.Items, 5)
	assert.False(t, resp.HasNext)
}

// TestSlice_InvalidParams verifies malformed parameters error out.
func TestSlice_InvalidParams(t *testing.T) {
	s := sliceSource(10)
	for _, params := range []paginate.Params{
		{"limit": "zero"},
		{"limit": "-1"},
		{"offset": "x"},
		{"page": "0"},
		{"cursor": "bogus"},
	} {
		_, err := s.Read(context.Background(), params)
		assert.Error(t, err, "%v", params)
	}
}

// TestHTTP_Read verifies query encoding and body decoding end to end.
func TestHTTP_Read(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "4", req.URL.Query().Get("page"))
		assert.Equal(t, "20", req.URL.Query().Get("limit"))
		fmt.Fprint(w, `{
			"items": [{"id": "row-60", "title": "Row 60"}, {"id": "row-61", "title": "Row 61"}],
			"meta": {"total": 1000, "hasNext": true, "hasPrev": true, "nextCursor": "c80"}
		}`)
	}))
	defer server.Close()

	src := NewHTTP(server.URL + "/items")
	resp, err := src.Read(context.Background(), paginate.Params{"page": "4", "limit": "20"})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "row-60", resp.Items[0].ID)
	assert.Equal(t, 1000, resp.Total)
	assert.True(t, resp.HasNext)
	assert.Equal(t, "c80", resp.NextCursor)

	payload, ok := resp.Items[1].Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Row 61", payload["title"])
}

// TestHTTP_MissingTotal verifies an absent total stays unknown.
func TestHTTP_MissingTotal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": "a"}], "meta": {"hasNext": true}}`)
	}))
	defer server.Close()

	resp, err := NewHTTP(server.URL).Read(context.Background(), paginate.Params{})
	require.NoError(t, err)
	assert.Equal(t, store.TotalUnknown, resp.Total)
}

// TestHTTP_ErrorStatus verifies non-200 responses surface as errors.
func TestHTTP_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTP(server.URL).Read(context.Background(), paginate.Params{})
	assert.Error(t, err)
}

// TestHTTP_CustomIDField verifies ids can come from any item property.
func TestHTTP_CustomIDField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items": [{"uuid": 42}], "meta": {"total": 1}}`)
	}))
	defer server.Close()

	src := NewHTTP(server.URL)
	src.IDField = "uuid"
	resp, err := src.Read(context.Background(), paginate.Params{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, strconv.Itoa(42), resp.Items[0].ID)
}
