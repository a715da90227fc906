package types

import "encoding/json"

// Local describes what this node's storage engine actually holds: database
// name to shard (or system collection) name to the local description. Like
// Plan and Current it is a point-in-time snapshot supplied fresh on every
// reconciliation pass.
type Local map[string]map[string]*LocalShard

// LocalShard is one locally held shard or collection.
type LocalShard struct {
	// Props holds the shard's property document, same shape as the
	// planned collection properties.
	Props Document

	// Leader is empty iff this node currently acts as leader for the
	// shard. Otherwise it names the server this node follows; a leading
	// "_" marks a freshly resigned leader.
	Leader string

	// PlanID is the id of the logical collection this shard belongs to.
	PlanID string

	// Indexes is the locally present index set.
	Indexes []Document
}

// UnmarshalJSON splits the wire representation of a local shard into
// properties, leadership, plan id and indexes.
func (s *LocalShard) UnmarshalJSON(b []byte) error {
	var raw Document
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	s.Leader = raw.GetString("leader")
	s.PlanID = raw.GetString("planId")

	s.Indexes = nil
	if indexes, ok := raw["indexes"].([]any); ok {
		for _, ix := range indexes {
			if doc, ok := ix.(map[string]any); ok {
				s.Indexes = append(s.Indexes, Document(doc))
			}
		}
	}

	delete(raw, "leader")
	delete(raw, "planId")
	delete(raw, "indexes")
	s.Props = raw
	return nil
}

// MarshalJSON reassembles the wire representation.
func (s *LocalShard) MarshalJSON() ([]byte, error) {
	doc := s.Props.Without()
	doc["leader"] = s.Leader
	doc["planId"] = s.PlanID
	doc["indexes"] = s.Indexes
	return json.Marshal(map[string]any(doc))
}
