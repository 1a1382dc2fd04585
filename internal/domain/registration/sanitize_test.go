package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripAbsent(t *testing.T) {
	t.Run("removes top-level absent fields", func(t *testing.T) {
		doc := map[string]any{
			"country": map[string]any{"name": "Estonia"},
			"package": nil,
		}

		out := StripAbsent(doc)

		assert.NotContains(t, out, "package")
		assert.Contains(t, out, "country")
	})

	t.Run("strips depth-first through nested maps", func(t *testing.T) {
		doc := map[string]any{
			"company": map[string]any{
				"name":     "Acme OÜ",
				"industry": nil,
				"meta": map[string]any{
					"note": nil,
				},
			},
		}

		out := StripAbsent(doc)

		company := out["company"].(map[string]any)
		assert.NotContains(t, company, "industry")
		assert.Empty(t, company["meta"].(map[string]any))
	})

	t.Run("strips through sequences", func(t *testing.T) {
		doc := map[string]any{
			"owner": []any{
				map[string]any{"id": "o1", "birthDate": nil},
				nil,
			},
		}

		out := StripAbsent(doc)

		owners := out["owner"].([]any)
		assert.Len(t, owners, 1)
		assert.NotContains(t, owners[0].(map[string]any), "birthDate")
	})

	t.Run("keeps falsy but present values", func(t *testing.T) {
		doc := map[string]any{
			"ownership": 0.0,
			"isCEO":     false,
			"name":      "",
		}

		out := StripAbsent(doc)

		assert.Len(t, out, 3)
	})

	t.Run("nil document stays nil", func(t *testing.T) {
		assert.Nil(t, StripAbsent(nil))
	})
}
