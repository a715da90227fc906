package maintenance

import "github.com/coraldb/maintd/pkg/types"

// handleLocalShard decides what to do about one locally held, non-system
// shard: resign leadership the plan has moved away, drop the shard when the
// plan no longer assigns it here, or drop extraneous indexes. plannedLeader
// is the first entry of the shard's planned server list ("" when the shard
// is not planned at all).
func (c *passContext) handleLocalShard(dbName, shardName string, shard *types.LocalShard, plannedLeader string) {
	// Pending resignation: the plan marked leadership for this shard as
	// moving away from us while we still claim to lead. Resign first;
	// drop and index decisions wait for a later pass.
	if plannedLeader == markerPrefix+c.serverID && shard.Leader == "" {
		c.emit(types.Action{
			Name: types.ActionResignLeadership,
			Params: map[string]string{
				types.ParamDatabase:   dbName,
				types.ParamCollection: shardName,
			},
		})
		return
	}

	if _, planned := c.shards[shardName]; !planned {
		c.emit(types.Action{
			Name: types.ActionDropCollection,
			Params: map[string]string{
				types.ParamDatabase:   dbName,
				types.ParamCollection: shardName,
			},
		})
		return
	}
	delete(c.shards, shardName)

	// Index drops only happen when the collection itself survives.
	for _, ix := range shard.Indexes {
		typ := ix.GetString("type")
		if typ == indexTypePrimary || typ == indexTypeEdge {
			continue
		}
		id := ix.GetString("id")
		key := shardName + "/" + id
		if _, planned := c.indexes[key]; planned {
			delete(c.indexes, key)
			continue
		}
		c.emit(types.Action{
			Name: types.ActionDropIndex,
			Params: map[string]string{
				types.ParamDatabase:   dbName,
				types.ParamCollection: shardName,
				types.ParamID:         id,
			},
		})
	}
}
