package agency

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coraldb/maintd/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientPlan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/_api/agency/plan", r.URL.Path)
		w.Write([]byte(`{
			"Version": 7,
			"Databases": {"d": {"id": "1", "name": "d"}},
			"Collections": {"d": {"100": {"id": "100", "shards": {"s1": ["A"]}}}}
		}`))
	}))
	defer srv.Close()

	plan, err := NewClient([]string{srv.URL}).Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), plan.Version)
	assert.Equal(t, []string{"A"}, plan.Collections["d"]["100"].Shards["s1"])
}

func TestClientCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_api/agency/current", r.URL.Path)
		w.Write([]byte(`{"Version": 3, "Databases": {}, "Collections": {}}`))
	}))
	defer srv.Close()

	current, err := NewClient([]string{srv.URL}).Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), current.Version)
}

func TestClientWrite(t *testing.T) {
	var got types.ReportOps
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/_api/agency/write", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ops := types.ReportOps{
		"Current/Databases/d/A": {Op: types.OpSet, Payload: map[string]any{"id": "1"}},
	}
	require.NoError(t, NewClient([]string{srv.URL}).Write(context.Background(), ops))
	require.Contains(t, got, "Current/Databases/d/A")
	assert.Equal(t, types.OpSet, got["Current/Databases/d/A"].Op)
}

func TestClientWriteEmptyIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL})
	assert.NoError(t, c.Write(context.Background(), nil))
	assert.NoError(t, c.Transact(context.Background(), nil))
}

func TestClientTransact(t *testing.T) {
	var got []types.Transaction
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_api/agency/transact", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	txns := []types.Transaction{{
		Operation:    types.Document{"Current/Collections/d": types.Document{}},
		Precondition: types.Document{"Current/Collections/d": types.Document{"oldEmpty": true}},
	}}
	require.NoError(t, NewClient([]string{srv.URL}).Transact(context.Background(), txns))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Precondition, "Current/Collections/d")
}

func TestClientEndpointFailover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Version": 3, "Databases": {}, "Collections": {}}`))
	}))
	defer srv.Close()

	// The first endpoint is unreachable; the second serves the snapshot.
	c := NewClient([]string{"http://127.0.0.1:1", srv.URL})
	current, err := c.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), current.Version)
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "leadership lost", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient([]string{srv.URL}).Plan(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leadership lost")
}

func TestClientNoEndpoints(t *testing.T) {
	_, err := NewClient(nil).Plan(context.Background())
	require.Error(t, err)
}
