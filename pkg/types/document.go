package types

import (
	"bytes"
	"encoding/json"
)

// Document is a generic JSON-shaped object. Plan, Local and Current all carry
// semi-structured subtrees (collection properties, index descriptions, report
// payloads) whose exact field set is owned by other parts of the cluster, so
// those subtrees are kept as documents rather than fixed structs.
type Document map[string]any

// GetString returns the string value under key, or "" when the key is absent
// or holds a non-string value.
func (d Document) GetString(key string) string {
	s, _ := d[key].(string)
	return s
}

// Strings returns the value under key as a string slice. Non-string elements
// are skipped; absent or non-array values yield nil.
func (d Document) Strings(key string) []string {
	return toStrings(d[key])
}

func toStrings(v any) []string {
	switch v := v.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Without returns a shallow copy of the document with the given keys removed.
func (d Document) Without(keys ...string) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// EquivalentTo reports whether every field of d matches the corresponding
// field of other under normalized comparison. Fields present only in other
// are ignored; callers compare the fields they own and leave the rest alone.
func (d Document) EquivalentTo(other Document) bool {
	for k, v := range d {
		if !NormalizedEqual(v, other[k]) {
			return false
		}
	}
	return true
}

// NormalizedEqual reports whether two JSON-shaped values are equal after
// canonicalization: map key order is irrelevant and numeric representations
// are unified. Values that cannot be marshalled compare unequal.
func NormalizedEqual(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
