package maintenance

import (
	"slices"
	"strings"

	"github.com/coraldb/maintd/pkg/types"
)

// Coordination-store path prefixes for report writes.
const (
	currentCollectionsPrefix = "Current/Collections/"
	currentDatabasesPrefix   = "Current/Databases/"
)

// StorageEngine is the node-local storage accessor the reporter uses to
// resolve database metadata and enumerate a shard's current replication
// followers. Lookup failures are soft: the affected entity is skipped and
// picked up again on the next pass.
type StorageEngine interface {
	// Database returns the info document (id, name) of a local database.
	Database(name string) (types.Document, error)

	// Followers returns the server ids currently replicating from this
	// node for the given shard, in ranking order.
	Followers(database, shard string) ([]string, error)
}

// ReportInCurrent computes the report writes that converge the cluster-wide
// Current document toward this node's local state: per-server database info,
// leader shard snapshots, resignation hand-over of stale leader entries, and
// retraction of entries for shards and databases this node no longer holds.
func ReportInCurrent(plan *types.Plan, current *types.Current, local types.Local, serverID string, engine StorageEngine) types.ReportOps {
	ops := types.ReportOps{}
	shardServers := planShardMap(plan)

	for _, dbName := range sortedKeys(local) {
		if _, ok := current.Databases[dbName][serverID]; !ok {
			if info := assembleLocalDatabaseInfo(dbName, engine); info != nil {
				ops[currentDatabasesPrefix+dbName+"/"+serverID] = types.ReportOp{
					Op:      types.OpSet,
					Payload: info,
				}
			}
		}

		for _, shardName := range sortedKeys(local[dbName]) {
			if strings.HasPrefix(shardName, markerPrefix) {
				continue
			}
			shard := local[dbName][shardName]
			colName := shard.PlanID

			if shard.Leader == "" {
				// We lead this shard, so the Current entry is ours to write.
				info := assembleLocalShardInfo(shard, dbName, shardName, serverID, engine)
				if info == nil {
					continue
				}
				entry, ok := current.Collections[dbName][colName][shardName]
				if !ok || !info.EquivalentTo(entry) {
					ops[currentCollectionsPrefix+dbName+"/"+colName+"/"+shardName] = types.ReportOp{
						Op:      types.OpSet,
						Payload: info,
					}
				}
				continue
			}

			// We follow, but Current still lists us first: a completed
			// resignation that is stale upstream. Rewrite the old leader
			// entry with the marker so supervision takes over.
			entry, ok := current.Collections[dbName][colName][shardName]
			if !ok {
				continue
			}
			servers := entry.Strings(keyServers)
			if len(servers) == 0 || servers[0] != serverID {
				continue
			}
			resigned := slices.Clone(servers)
			resigned[0] = markerPrefix + resigned[0]
			ops[currentCollectionsPrefix+dbName+"/"+colName+"/"+shardName+"/"+keyServers] = types.ReportOp{
				Op:      types.OpSet,
				Payload: resigned,
			}
		}
	}

	// Backward pass: retract shard entries we reported as leader for
	// shards that are gone locally and no longer planned.
	for _, dbName := range sortedKeys(current.Collections) {
		for _, colName := range sortedKeys(current.Collections[dbName]) {
			for _, shardName := range sortedKeys(current.Collections[dbName][colName]) {
				entry := current.Collections[dbName][colName][shardName]
				servers := entry.Strings(keyServers)
				if len(servers) == 0 || servers[0] != serverID {
					continue
				}
				if _, held := local[dbName][shardName]; held {
					continue
				}
				if _, planned := shardServers[shardName]; planned {
					continue
				}
				ops[currentCollectionsPrefix+dbName+"/"+colName+"/"+shardName] = types.ReportOp{
					Op: types.OpDelete,
				}
			}
		}
	}

	// Retract per-server database entries for databases gone from both
	// local state and the plan.
	for _, dbName := range sortedKeys(current.Databases) {
		if _, reported := current.Databases[dbName][serverID]; !reported {
			continue
		}
		if _, held := local[dbName]; held {
			continue
		}
		if _, planned := plan.Databases[dbName]; planned {
			continue
		}
		ops[currentDatabasesPrefix+dbName+"/"+serverID] = types.ReportOp{
			Op: types.OpDelete,
		}
	}

	return ops
}

// assembleLocalShardInfo builds the normalized snapshot a shard leader
// reports upward: clean error fields, the index set without the volatile
// selectivity estimate, and the server list starting with this node followed
// by its currently known followers.
func assembleLocalShardInfo(shard *types.LocalShard, dbName, shardName, serverID string, engine StorageEngine) types.Document {
	followers, err := engine.Followers(dbName, shardName)
	if err != nil {
		logger().Error().Err(err).
			Str("database", dbName).
			Str("shard", shardName).
			Msg("failed to enumerate followers, skipping shard report")
		return nil
	}

	indexes := make([]any, 0, len(shard.Indexes))
	for _, ix := range shard.Indexes {
		indexes = append(indexes, ix.Without(keySelectivityEstimate))
	}

	servers := make([]string, 0, len(followers)+1)
	servers = append(servers, serverID)
	servers = append(servers, followers...)

	return types.Document{
		keyError:        false,
		keyErrorNum:     0,
		keyErrorMessage: "",
		"indexes":       indexes,
		keyServers:      servers,
	}
}

// assembleLocalDatabaseInfo builds the minimal per-server database report
// entry. A database the engine cannot resolve is skipped silently apart from
// the log line; the next pass retries.
func assembleLocalDatabaseInfo(name string, engine StorageEngine) types.Document {
	info, err := engine.Database(name)
	if err != nil {
		logger().Error().Err(err).
			Str("database", name).
			Msg("failed to look up database, skipping database report")
		return nil
	}
	return types.Document{
		keyError:        false,
		keyErrorNum:     0,
		keyErrorMessage: "",
		"id":            info.GetString("id"),
		"name":          info.GetString("name"),
	}
}

// DiffLocalCurrent prepares the database-creation bookkeeping transactions
// for local databases Current does not know about yet. Each transaction
// creates the database's collection subtree guarded by an oldEmpty
// precondition so concurrent reporters cannot clobber each other.
func DiffLocalCurrent(local types.Local, current *types.Current) []types.Transaction {
	var txns []types.Transaction
	for _, dbName := range sortedKeys(local) {
		if _, ok := current.Collections[dbName]; ok {
			continue
		}
		path := currentCollectionsPrefix + dbName
		txns = append(txns, types.Transaction{
			Operation:    types.Document{path: types.Document{}},
			Precondition: types.Document{path: types.Document{"oldEmpty": true}},
		})
	}
	return txns
}
