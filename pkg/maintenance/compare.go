package maintenance

import (
	"slices"

	"github.com/coraldb/maintd/pkg/types"
)

// mutableProps is the fixed whitelist of collection properties that may be
// changed on a live collection. Everything else in the property document is
// either immutable or maintained internally and must not be diffed.
var mutableProps = []string{"journalSize", "waitForSync", "doCompact", "indexBuckets"}

// compareRelevantProps returns the planned value of every whitelisted
// property that differs between the planned and the local description. An
// empty result means no update is needed.
func compareRelevantProps(planned, local types.Document) types.Document {
	diff := types.Document{}
	for _, prop := range mutableProps {
		if !types.NormalizedEqual(planned[prop], local[prop]) {
			diff[prop] = planned[prop]
		}
	}
	return diff
}

// compareIndexes records every planned index of the shard in the pass's
// index membership set and returns the planned indexes that have no local
// counterpart of the same type with a set-equal field list. Engine-managed
// primary and edge indexes are skipped in both directions.
func compareIndexes(shard string, planned, local []types.Document, indexes map[string]struct{}) []types.Document {
	var missing []types.Document
	for _, pix := range planned {
		ptype := pix.GetString("type")
		if ptype == indexTypePrimary || ptype == indexTypeEdge {
			continue
		}
		indexes[shard+"/"+pix.GetString("id")] = struct{}{}

		pfields := pix.Strings("fields")
		found := false
		for _, lix := range local {
			ltype := lix.GetString("type")
			if ltype == indexTypePrimary || ltype == indexTypeEdge {
				continue
			}
			if ltype == ptype && sameFieldSet(pfields, lix.Strings("fields")) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, pix)
		}
	}
	return missing
}

// sameFieldSet compares two index field lists order-independently.
func sameFieldSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}
