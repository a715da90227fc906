package maintenance

import (
	"maps"
	"slices"

	"github.com/coraldb/maintd/pkg/log"
	"github.com/coraldb/maintd/pkg/types"
	"github.com/rs/zerolog"
)

// markerPrefix is the reserved leading character. Names starting with it are
// system entities excluded from reconciliation; prepended to a server id it
// marks a leader as resigning (in Plan) or resigned (in Current).
const markerPrefix = "_"

// Document keys with fixed meaning across Plan, Local and Current.
const (
	keyError               = "error"
	keyErrorNum            = "errorNum"
	keyErrorMessage        = "errorMessage"
	keyServers             = "servers"
	keySelectivityEstimate = "selectivityEstimate"
)

// Index types maintained by the storage engine itself. They are never diffed
// in either direction.
const (
	indexTypePrimary = "primary"
	indexTypeEdge    = "edge"
)

func logger() *zerolog.Logger {
	l := log.WithComponent("maintenance")
	return &l
}

// passContext carries the working state of one plan/local reconciliation
// pass: the node's identity, the two membership sets built while walking the
// plan and consumed while walking local state, and the actions generated so
// far. A context lives for a single DiffPlanLocal call and is never shared.
type passContext struct {
	serverID string

	// shards planned for this node, keyed by shard name. Filled by the
	// plan pass, drained by the local pass; leftovers in local state are
	// extraneous.
	shards map[string]struct{}

	// indexes planned for this node, keyed by "<shard>/<index id>". Same
	// fill/drain protocol as shards.
	indexes map[string]struct{}

	actions []types.Action
}

func newPassContext(serverID string) *passContext {
	return &passContext{
		serverID: serverID,
		shards:   make(map[string]struct{}),
		indexes:  make(map[string]struct{}),
	}
}

func (c *passContext) emit(a types.Action) {
	c.actions = append(c.actions, a)
}

// sortedKeys returns the map's keys in sorted order so that action and
// report generation is deterministic across passes.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}
