package types

// Current is the cluster-wide reported state: what every node has written
// about its own slice of the cluster. This node only ever writes entries
// keyed by its own server id or by shards it leads.
type Current struct {
	// Version increases monotonically with every Current change and is
	// echoed in reports for traceability.
	Version int64 `json:"Version"`

	// Databases maps database name to reporting server id to the info
	// document that server reported.
	Databases map[string]map[string]Document `json:"Databases"`

	// Collections maps database name to collection name to shard name to
	// the entry the shard leader reported (error fields, indexes and the
	// in-sync server list, leader first).
	Collections map[string]map[string]map[string]Document `json:"Collections"`
}
