package types

import "encoding/json"

// Plan is the cluster-wide desired state, produced by the supervisor and read
// from the coordination store. It is a point-in-time snapshot: a fresh Plan
// is supplied on every reconciliation pass and never mutated by this node.
type Plan struct {
	// Version increases monotonically with every Plan change and is echoed
	// in reports for traceability.
	Version int64 `json:"Version"`

	// Databases maps database name to its planned description.
	Databases map[string]Document `json:"Databases"`

	// Collections maps database name to collection name to the planned
	// collection.
	Collections map[string]map[string]*Collection `json:"Collections"`
}

// Collection is one planned logical collection: its property document plus
// the shard placement and the planned index set.
type Collection struct {
	// Props holds the full property document, including the identity
	// fields id and name.
	Props Document

	// Shards maps shard name to its ordered server list. The first entry
	// is the leader, the remainder are followers in ranking order.
	Shards map[string][]string

	// Indexes is the planned index set. Each index document carries at
	// least id, type and fields.
	Indexes []Document
}

// UnmarshalJSON splits the wire representation of a planned collection into
// properties, shards and indexes. Shards and indexes live inline in the
// collection document on the wire.
func (c *Collection) UnmarshalJSON(b []byte) error {
	var raw Document
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	c.Shards = make(map[string][]string)
	if shards, ok := raw["shards"].(map[string]any); ok {
		for name, servers := range shards {
			c.Shards[name] = toStrings(servers)
		}
	}

	c.Indexes = nil
	if indexes, ok := raw["indexes"].([]any); ok {
		for _, ix := range indexes {
			if doc, ok := ix.(map[string]any); ok {
				c.Indexes = append(c.Indexes, Document(doc))
			}
		}
	}

	delete(raw, "shards")
	delete(raw, "indexes")
	c.Props = raw
	return nil
}

// MarshalJSON reassembles the wire representation.
func (c *Collection) MarshalJSON() ([]byte, error) {
	doc := c.Props.Without()
	doc["shards"] = c.Shards
	doc["indexes"] = c.Indexes
	return json.Marshal(map[string]any(doc))
}
