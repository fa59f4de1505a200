package syncer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

func lead(id string, updatedAt int64, notes string) model.Lead {
	return model.Lead{ID: id, UpdatedAt: updatedAt, Notes: notes}
}

func byID(items []model.Lead) map[string]model.Lead {
	out := make(map[string]model.Lead, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out
}

func TestMergeByID(t *testing.T) {
	t.Parallel()

	t.Run("union of disjoint sets", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.Lead{lead("a", 10, "local")},
			[]model.Lead{lead("b", 20, "remote")},
		)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "b", got[1].ID)
	})

	t.Run("newer remote wins", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.Lead{lead("a", 10, "stale")},
			[]model.Lead{lead("a", 20, "fresh")},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "fresh", got[0].Notes)
	})

	t.Run("newer local wins", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.Lead{lead("a", 30, "fresh")},
			[]model.Lead{lead("a", 20, "stale")},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "fresh", got[0].Notes)
	})

	t.Run("tie keeps local", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.Lead{lead("a", 20, "local")},
			[]model.Lead{lead("a", 20, "remote")},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "local", got[0].Notes)
	})

	t.Run("unstamped remote never overwrites stamped local", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.Lead{lead("a", 20, "stamped")},
			[]model.Lead{lead("a", 0, "unstamped")},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "stamped", got[0].Notes)
	})

	t.Run("stamped remote never overwrites unstamped local", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.Lead{lead("a", 0, "local edits")},
			[]model.Lead{lead("a", 20, "remote")},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "local edits", got[0].Notes,
			"a record without a timestamp cannot be ordered, so it is retained")
	})

	t.Run("both unstamped keeps local", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.Lead{lead("a", 0, "local")},
			[]model.Lead{lead("a", 0, "remote")},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "local", got[0].Notes)
	})

	t.Run("merged set is the same regardless of side", func(t *testing.T) {
		t.Parallel()
		left := []model.Lead{lead("a", 10, "a1"), lead("b", 50, "b-new"), lead("c", 5, "c1")}
		right := []model.Lead{lead("b", 40, "b-old"), lead("c", 9, "c2"), lead("d", 1, "d1")}

		ab := byID(MergeByID(left, right))
		ba := byID(MergeByID(right, left))
		assert.Equal(t, ab, ba)
		assert.Equal(t, "b-new", ab["b"].Notes)
		assert.Equal(t, "c2", ab["c"].Notes)
	})

	t.Run("duplicate ids inside one side collapse to newest", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.Lead{lead("a", 10, "old"), lead("a", 30, "new")},
			nil,
		)
		require.Len(t, got, 1)
		assert.Equal(t, "new", got[0].Notes)
	})

	t.Run("empty ids pass through", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.Lead{lead("", 10, "one")},
			[]model.Lead{lead("", 20, "two")},
		)
		assert.Len(t, got, 2)
	})

	t.Run("works for search titles", func(t *testing.T) {
		t.Parallel()
		got := MergeByID(
			[]model.SearchTitle{{ID: "t1", Label: "Head of Data", UpdatedAt: 10}},
			[]model.SearchTitle{{ID: "t1", Label: "VP Data", UpdatedAt: 20}},
		)
		require.Len(t, got, 1)
		assert.Equal(t, "VP Data", got[0].Label)
	})
}
