package engine

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

func TestClientSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_admin/state", r.URL.Path)
		w.Write([]byte(`{
			"d": {
				"s1": {"planId": "100", "leader": "", "indexes": []}
			}
		}`))
	}))
	defer srv.Close()

	local, err := NewClient(srv.URL).Snapshot(context.Background())
	require.NoError(t, err)
	require.Contains(t, local, "d")
	assert.Equal(t, "100", local["d"]["s1"].PlanID)
	assert.Equal(t, "", local["d"]["s1"].Leader)
}

func TestClientDatabase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_admin/database/d", r.URL.Path)
		w.Write([]byte(`{"id": "1", "name": "d"}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL).Database("d")
	require.NoError(t, err)
	assert.Equal(t, "1", info.GetString("id"))
	assert.Equal(t, "d", info.GetString("name"))
}

func TestClientFollowers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_admin/followers", r.URL.Path)
		assert.Equal(t, "d", r.URL.Query().Get("database"))
		assert.Equal(t, "s1", r.URL.Query().Get("shard"))
		w.Write([]byte(`["B", "C"]`))
	}))
	defer srv.Close()

	followers, err := NewClient(srv.URL).Followers("d", "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, followers)
}

func TestClientExecute(t *testing.T) {
	var got types.Action
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/_admin/actions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	action := types.Action{
		ID:     "trace-1",
		Name:   types.ActionSynchronizeShard,
		Params: map[string]string{types.ParamShard: "s1", types.ParamLeader: "A"},
	}
	require.NoError(t, NewClient(srv.URL).Execute(context.Background(), action))
	assert.Equal(t, types.ActionSynchronizeShard, got.Name)
	assert.Equal(t, "s1", got.Params[types.ParamShard])
}

func TestClientExecuteRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown action", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Execute(context.Background(), types.Action{Name: "Nonsense"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestClientEngineDown(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1").Snapshot(context.Background())
	require.Error(t, err)
}
