package maintenance

import (
	"encoding/json"

	"github.com/coraldb/maintd/pkg/types"
)

// handlePlanShard decides what to do about one planned shard this node is
// responsible for: create it locally, align its properties or leadership
// with the plan, or ensure missing indexes. leader is the first entry of the
// shard's planned server list.
func (c *passContext) handlePlanShard(dbName, colName, shardName string, col *types.Collection, localDB map[string]*types.LocalShard, leader string) {
	if _, seen := c.shards[shardName]; seen {
		// The same shard can match several server entries when replicas
		// are colocated under a misconfigured id; count it once.
		return
	}
	c.shards[shardName] = struct{}{}

	shouldLead := c.serverID == leader
	plannedLeader := leader
	if shouldLead {
		plannedLeader = ""
	}

	local, ok := localDB[shardName]
	if !ok {
		c.emit(types.Action{
			Name: types.ActionCreateCollection,
			Params: map[string]string{
				types.ParamDatabase:   dbName,
				types.ParamCollection: colName,
				types.ParamShard:      shardName,
				types.ParamLeader:     plannedLeader,
			},
			Payload: col.Props.Without("id", "name"),
		})
		return
	}

	props := compareRelevantProps(col.Props, local.Props)
	locallyLeading := local.Leader == ""
	if len(props) > 0 || locallyLeading != shouldLead {
		c.emit(types.Action{
			Name: types.ActionUpdateCollection,
			Params: map[string]string{
				types.ParamDatabase:   dbName,
				types.ParamCollection: shardName,
				types.ParamLeader:     plannedLeader,
				// The executor re-checks the local leader to detect
				// races with concurrent leadership changes.
				types.ParamLocalLeader: local.Leader,
			},
			Payload: props,
		})
	}

	for _, ix := range compareIndexes(shardName, col.Indexes, local.Indexes, c.indexes) {
		c.emit(types.Action{
			Name: types.ActionEnsureIndex,
			Params: map[string]string{
				types.ParamDatabase:   dbName,
				types.ParamCollection: shardName,
				types.ParamType:       ix.GetString("type"),
				types.ParamFields:     fieldsJSON(ix),
			},
			Payload: ix,
		})
	}
}

func fieldsJSON(index types.Document) string {
	b, err := json.Marshal(index["fields"])
	if err != nil {
		return "[]"
	}
	return string(b)
}
