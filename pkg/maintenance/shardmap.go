package maintenance

import "github.com/coraldb/maintd/pkg/types"

// planShardMap flattens the planned collection tree into a map from shard
// name to its ordered server list (leader first). Shard names are unique
// cluster-wide, so the tree is walked exactly once and later lookups avoid
// repeated descent. Absent substructures simply yield an empty map.
func planShardMap(plan *types.Plan) map[string][]string {
	shards := make(map[string][]string)
	for _, collections := range plan.Collections {
		for _, col := range collections {
			for name, servers := range col.Shards {
				shards[name] = servers
			}
		}
	}
	return shards
}
