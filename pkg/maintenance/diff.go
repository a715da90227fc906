package maintenance

import (
	"slices"
	"strings"

	"github.com/coraldb/maintd/pkg/types"
)

// DiffPlanLocal computes the corrective actions that converge this node's
// local state toward the plan: database creates and drops, then for every
// database present in both a plan pass (create/update/ensure-index for
// shards assigned to this node) followed by a local pass (resignation,
// extraneous shard and index drops).
//
// The function is a pure function of its snapshots. Actions are returned in
// generation order; only the create/update-before-drop ordering for one and
// the same shard is guaranteed, cross-shard ordering is not.
func DiffPlanLocal(plan *types.Plan, local types.Local, serverID string) []types.Action {
	ctx := newPassContext(serverID)
	shardServers := planShardMap(plan)

	// Database-level creates and drops.
	for _, dbName := range sortedKeys(plan.Databases) {
		if _, ok := local[dbName]; !ok {
			ctx.emit(types.Action{
				Name:   types.ActionCreateDatabase,
				Params: map[string]string{types.ParamDatabase: dbName},
			})
		}
	}
	for _, dbName := range sortedKeys(local) {
		if _, ok := plan.Databases[dbName]; !ok {
			ctx.emit(types.Action{
				Name:   types.ActionDropDatabase,
				Params: map[string]string{types.ParamDatabase: dbName},
			})
		}
	}

	// Plan pass: walk planned shards of databases present in both trees.
	for _, dbName := range sortedKeys(plan.Collections) {
		localDB, ok := local[dbName]
		if !ok {
			continue
		}
		for _, colName := range sortedKeys(plan.Collections[dbName]) {
			col := plan.Collections[dbName][colName]
			for _, shardName := range sortedKeys(col.Shards) {
				servers := col.Shards[shardName]
				if len(servers) == 0 {
					logger().Error().
						Str("database", dbName).
						Str("shard", shardName).
						Msg("planned shard has an empty server list, skipping")
					continue
				}
				if !slices.Contains(servers, serverID) {
					continue
				}
				ctx.handlePlanShard(dbName, colName, shardName, col, localDB, servers[0])
			}
		}
	}

	// Local pass: drain the membership sets against what is actually held.
	for _, dbName := range sortedKeys(local) {
		if _, ok := plan.Collections[dbName]; !ok {
			continue
		}
		for _, shardName := range sortedKeys(local[dbName]) {
			if strings.HasPrefix(shardName, markerPrefix) {
				continue
			}
			plannedLeader := ""
			if servers, ok := shardServers[shardName]; ok && len(servers) > 0 {
				plannedLeader = servers[0]
			}
			ctx.handleLocalShard(dbName, shardName, local[dbName][shardName], plannedLeader)
		}
	}

	return ctx.actions
}
