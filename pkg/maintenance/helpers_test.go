package maintenance

import (
	"encoding/json"
	"testing"

	"github.com/coraldb/maintd/pkg/types"
	"github.com/stretchr/testify/require"
)

func planFromJSON(t *testing.T, src string) *types.Plan {
	t.Helper()
	var plan types.Plan
	require.NoError(t, json.Unmarshal([]byte(src), &plan))
	return &plan
}

func localFromJSON(t *testing.T, src string) types.Local {
	t.Helper()
	var local types.Local
	require.NoError(t, json.Unmarshal([]byte(src), &local))
	return local
}

func currentFromJSON(t *testing.T, src string) *types.Current {
	t.Helper()
	var current types.Current
	require.NoError(t, json.Unmarshal([]byte(src), &current))
	return &current
}

// fakeEngine is a StorageEngine backed by fixed maps.
type fakeEngine struct {
	databases map[string]types.Document
	followers map[string][]string
	dbErr     error
	followErr error
}

func (e *fakeEngine) Database(name string) (types.Document, error) {
	if e.dbErr != nil {
		return nil, e.dbErr
	}
	if info, ok := e.databases[name]; ok {
		return info, nil
	}
	return types.Document{"id": "0", "name": name}, nil
}

func (e *fakeEngine) Followers(database, shard string) ([]string, error) {
	if e.followErr != nil {
		return nil, e.followErr
	}
	return e.followers[database+"/"+shard], nil
}

// collectQueue gathers actions in generation order.
type collectQueue struct {
	actions []types.Action
}

func (q *collectQueue) Add(action types.Action) {
	q.actions = append(q.actions, action)
}

// actionNames projects the queued action names in order.
func actionNames(actions []types.Action) []string {
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.Name)
	}
	return names
}
