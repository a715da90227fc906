package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/coraldb/maintd/pkg/storage"
	"github.com/coraldb/maintd/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves fixed snapshots and captures what the agent writes back.
type fakeStore struct {
	plan    *types.Plan
	current *types.Current
	planErr error

	written    []types.ReportOps
	transacted [][]types.Transaction
}

func (s *fakeStore) Plan(context.Context) (*types.Plan, error) {
	return s.plan, s.planErr
}

func (s *fakeStore) Current(context.Context) (*types.Current, error) {
	return s.current, nil
}

func (s *fakeStore) Write(_ context.Context, ops types.ReportOps) error {
	if len(ops) > 0 {
		s.written = append(s.written, ops)
	}
	return nil
}

func (s *fakeStore) Transact(_ context.Context, txns []types.Transaction) error {
	if len(txns) > 0 {
		s.transacted = append(s.transacted, txns)
	}
	return nil
}

// fakeNodeEngine serves a fixed local snapshot.
type fakeNodeEngine struct {
	local types.Local
}

func (e *fakeNodeEngine) Snapshot(context.Context) (types.Local, error) {
	return e.local, nil
}

func (e *fakeNodeEngine) Database(name string) (types.Document, error) {
	return types.Document{"id": "1", "name": name}, nil
}

func (e *fakeNodeEngine) Followers(string, string) ([]string, error) {
	return nil, nil
}

// fakeJournal records passes in memory.
type fakeJournal struct {
	records []*storage.PassRecord
}

func (j *fakeJournal) RecordPass(rec *storage.PassRecord) error {
	j.records = append(j.records, rec)
	return nil
}

func (j *fakeJournal) LastPass() (*storage.PassRecord, error) {
	if len(j.records) == 0 {
		return nil, nil
	}
	return j.records[len(j.records)-1], nil
}

func (j *fakeJournal) Versions() (int64, int64, error) {
	rec, _ := j.LastPass()
	if rec == nil {
		return 0, 0, nil
	}
	return rec.PlanVersion, rec.CurrentVersion, nil
}

func (j *fakeJournal) Close() error { return nil }

func testPlan(t *testing.T) *types.Plan {
	t.Helper()
	var plan types.Plan
	require.NoError(t, json.Unmarshal([]byte(`{
		"Version": 7,
		"Databases": {"d": {"id": "1", "name": "d"}},
		"Collections": {
			"d": {"100": {"id": "100", "name": "c", "shards": {"s1": ["A"]}}}
		}
	}`), &plan))
	return &plan
}

func TestRunOnce(t *testing.T) {
	store := &fakeStore{
		plan:    testPlan(t),
		current: &types.Current{Version: 3},
	}
	engine := &fakeNodeEngine{local: types.Local{"d": {}}}
	queue := NewQueue(16)
	journal := &fakeJournal{}

	a := New(Config{ServerID: "A"}, store, engine, queue, journal)
	require.NoError(t, a.RunOnce(context.Background()))
	queue.Close()

	// Phase one queued the create for the missing shard.
	var names []string
	for action := range queue.Actions() {
		names = append(names, action.Name)
	}
	assert.Equal(t, []string{types.ActionCreateCollection}, names)

	// Phase two wrote the database report and the bookkeeping transaction.
	require.Len(t, store.written, 1)
	assert.Contains(t, store.written[0], "Current/Databases/d/A")
	require.Len(t, store.transacted, 1)

	// The pass was journaled with the versions it consulted.
	require.Len(t, journal.records, 1)
	rec := journal.records[0]
	assert.Equal(t, int64(7), rec.PlanVersion)
	assert.Equal(t, int64(3), rec.CurrentVersion)
	assert.Equal(t, 1, rec.Actions)
	assert.Equal(t, 1, rec.ReportOps)
}

func TestRunOnceSnapshotFailure(t *testing.T) {
	store := &fakeStore{planErr: errors.New("store unavailable")}
	queue := NewQueue(16)

	a := New(Config{ServerID: "A"}, store, &fakeNodeEngine{}, queue, nil)
	err := a.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to snapshot plan")
	assert.Empty(t, store.written)
}

func TestRunOnceWithoutJournal(t *testing.T) {
	store := &fakeStore{
		plan:    &types.Plan{Version: 1},
		current: &types.Current{Version: 1},
	}
	queue := NewQueue(16)

	a := New(Config{ServerID: "A"}, store, &fakeNodeEngine{local: types.Local{}}, queue, nil)
	assert.NoError(t, a.RunOnce(context.Background()))
}
