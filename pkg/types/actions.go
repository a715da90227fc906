package types

// Action names understood by the action executor.
const (
	ActionCreateDatabase   = "CreateDatabase"
	ActionDropDatabase     = "DropDatabase"
	ActionCreateCollection = "CreateCollection"
	ActionUpdateCollection = "UpdateCollection"
	ActionDropCollection   = "DropCollection"
	ActionEnsureIndex      = "EnsureIndex"
	ActionDropIndex        = "DropIndex"
	ActionResignLeadership = "ResignShardLeadership"
	ActionSynchronizeShard = "SynchronizeShard"
)

// Action parameter keys.
const (
	ParamDatabase    = "database"
	ParamCollection  = "collection"
	ParamShard       = "shard"
	ParamLeader      = "leader"
	ParamLocalLeader = "localLeader"
	ParamType        = "type"
	ParamFields      = "fields"
	ParamID          = "id"
)

// Action describes one corrective step for the external action executor. The
// core only computes action descriptions; execution, locking and
// de-duplication are owned downstream.
type Action struct {
	// ID is a tracing id assigned when the action is accepted by the
	// queue. It carries no identity semantics for de-duplication.
	ID string `json:"id,omitempty"`

	// Name is one of the Action* constants.
	Name string `json:"name"`

	// Params carries the string parameters keyed by the Param* constants.
	Params map[string]string `json:"params"`

	// Payload optionally carries a snapshot of the differing properties
	// or the full index document.
	Payload Document `json:"payload,omitempty"`
}

// Report operation kinds.
const (
	OpSet    = "set"
	OpDelete = "delete"
)

// ReportOp is one state-report write destined for the coordination store.
type ReportOp struct {
	Op      string `json:"op"`
	Payload any    `json:"payload,omitempty"`
}

// ReportOps maps coordination-store paths (Current/Databases/... and
// Current/Collections/...) to pending writes.
type ReportOps map[string]ReportOp

// Transaction pairs a coordination-store operation document with its
// precondition document, giving compare-and-set semantics for idempotent
// Current writes.
type Transaction struct {
	Operation    Document `json:"operation"`
	Precondition Document `json:"precondition"`
}
