package maintenance

import (
	"slices"

	"github.com/coraldb/maintd/pkg/types"
)

// SyncReplicatedShardsWithLeaders cross-checks Plan, Current and Local to
// find shards where this node is a planned follower but Current does not yet
// list it as in sync, and emits one SynchronizeShard action per such shard
// naming the planned leader. The leader-side Current entry is created by the
// leader; until it exists there is nothing to synchronize against.
func SyncReplicatedShardsWithLeaders(plan *types.Plan, current *types.Current, local types.Local, serverID string) []types.Action {
	var actions []types.Action

	for _, dbName := range sortedKeys(plan.Collections) {
		if _, ok := local[dbName]; !ok {
			continue
		}
		currentDB, ok := current.Collections[dbName]
		if !ok {
			continue
		}
		for _, colName := range sortedKeys(plan.Collections[dbName]) {
			currentCol, ok := currentDB[colName]
			if !ok {
				continue
			}
			col := plan.Collections[dbName][colName]
			for _, shardName := range sortedKeys(col.Shards) {
				// The shard must exist locally before it can catch up.
				if _, held := local[dbName][shardName]; !held {
					continue
				}
				entry, ok := currentCol[shardName]
				if !ok {
					continue
				}

				pservers := col.Shards[shardName]
				if len(pservers) == 0 {
					logger().Error().
						Str("shard", shardName).
						Msg("shard has no servers substructure in Plan")
					continue
				}
				if _, has := entry[keyServers]; !has {
					logger().Error().
						Str("shard", shardName).
						Msg("shard has no servers substructure in Current")
					continue
				}
				cservers := entry.Strings(keyServers)

				// Only planned followers act here; position 0 is the leader.
				if slices.Index(pservers, serverID) <= 0 {
					continue
				}
				// Already reported in sync, nothing to do.
				if slices.Index(cservers, serverID) > 0 {
					continue
				}

				actions = append(actions, types.Action{
					Name: types.ActionSynchronizeShard,
					Params: map[string]string{
						types.ParamDatabase:   dbName,
						types.ParamCollection: colName,
						types.ParamShard:      shardName,
						types.ParamLeader:     pservers[0],
					},
				})
			}
		}
	}

	return actions
}
