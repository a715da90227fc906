/*
Package maintenance implements the node-local reconciliation core of a Coral
cluster: each database server periodically compares the cluster-wide desired
state (Plan) against its own observed state (Local) and the cluster-wide
reported state (Current), producing corrective action descriptions and
upward report writes.

# Architecture

One reconciliation pass runs two phases:

	┌──────────────────────────────────────────────────────────┐
	│                      HandleChange                        │
	└────────────┬─────────────────────────────┬───────────────┘
	             │                             │
	             ▼                             ▼
	     ┌───────────────┐            ┌──────────────────┐
	     │   phase one   │            │    phase two     │
	     │  Plan ↔ Local │            │ Local ↔ Current  │
	     └───────┬───────┘            └────────┬─────────┘
	             │                             │
	             ▼                             ▼
	     corrective actions            report writes (set/delete)
	     → action executor             → coordination store
	                                   + SynchronizeShard actions

Phase one (DiffPlanLocal) walks the plan once, building two membership sets
(shards and indexes planned for this node) and emitting CreateDatabase /
CreateCollection / UpdateCollection / EnsureIndex actions. A second walk over
local state drains the sets: anything left unmatched locally is extraneous
and is dropped, and a leadership the plan has moved away is resigned.

Phase two (ReportInCurrent, SyncReplicatedShardsWithLeaders) assembles
normalized snapshots for every shard this node leads and compares them with
what Current already says, emitting set operations only for real differences
and delete operations for entries that became stale. It also detects shards
where this node is a planned follower but not yet in sync and schedules
catch-up from the planned leader.

# Properties

The pass is a pure function of its three snapshots: it performs no I/O apart
from the storage-engine lookups injected through StorageEngine, holds no
state across invocations, and is idempotent - with Plan equal to Local it
produces no actions, and with Current equivalent to Local it produces no
report writes. Failures never escape: per-entity problems are logged and the
entity is skipped, and each phase is wrapped in a recover boundary so one
failing phase cannot abort the other. Callers must serialize passes for one
node; passes on different nodes are independent because each node only
reasons about its own server id and writes its own slice of Current.

# Conventions

Names with the reserved "_" prefix are system entities and are excluded from
reconciliation in both directions. The same character, prepended to a server
id, marks leadership hand-over: in a Plan server list it means "leader is
resigning", and rewritten into a Current server list it signals "formerly
led, now resigned" to the supervisor.
*/
package maintenance
