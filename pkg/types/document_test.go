package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentGetString(t *testing.T) {
	doc := Document{"name": "orders", "count": 3}

	assert.Equal(t, "orders", doc.GetString("name"))
	assert.Equal(t, "", doc.GetString("count"), "non-string values read as empty")
	assert.Equal(t, "", doc.GetString("missing"))
}

func TestDocumentStrings(t *testing.T) {
	doc := Document{
		"typed":   []string{"A", "B"},
		"generic": []any{"A", "B", 3},
		"scalar":  "A",
	}

	assert.Equal(t, []string{"A", "B"}, doc.Strings("typed"))
	assert.Equal(t, []string{"A", "B"}, doc.Strings("generic"),
		"non-string elements are skipped")
	assert.Nil(t, doc.Strings("scalar"))
	assert.Nil(t, doc.Strings("missing"))
}

func TestDocumentWithout(t *testing.T) {
	doc := Document{"id": "1", "name": "c", "waitForSync": true}

	stripped := doc.Without("id", "name")
	assert.Equal(t, Document{"waitForSync": true}, stripped)

	// The receiver is untouched.
	assert.Contains(t, doc, "id")
	assert.Contains(t, doc, "name")
}

func TestDocumentEquivalentTo(t *testing.T) {
	mine := Document{"error": false, "servers": []string{"A", "B"}}

	assert.True(t, mine.EquivalentTo(Document{
		"error":   false,
		"servers": []any{"A", "B"},
		"extra":   "ignored",
	}), "extra fields on the other side do not matter")

	assert.False(t, mine.EquivalentTo(Document{
		"error":   false,
		"servers": []any{"A"},
	}))

	assert.False(t, mine.EquivalentTo(Document{"error": false}),
		"a field missing on the other side is a difference")
}

func TestNormalizedEqual(t *testing.T) {
	assert.True(t, NormalizedEqual(8, float64(8)),
		"numeric representations are unified")
	assert.True(t, NormalizedEqual(
		map[string]any{"a": 1, "b": 2},
		map[string]any{"b": 2, "a": 1},
	), "key order is irrelevant")
	assert.True(t, NormalizedEqual(nil, nil))

	assert.False(t, NormalizedEqual([]any{"a", "b"}, []any{"b", "a"}),
		"array order matters")
	assert.False(t, NormalizedEqual(1, "1"))
}
