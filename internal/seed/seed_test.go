package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadtrack-cli/internal/model"
	"github.com/sells-group/leadtrack-cli/internal/title"
)

var seedNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func TestDefaultSets(t *testing.T) {
	t.Parallel()

	sets, err := DefaultSets()
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Equal(t, "v1", sets[0].Name)
	assert.Contains(t, sets[0].Titles, "Head of Data")
	assert.Contains(t, sets[1].Titles, "VP Product")
	assert.Contains(t, sets[2].Titles, "CTPO")
}

func TestSeedIntoEmptyCollection(t *testing.T) {
	t.Parallel()

	out, added, err := Seed(nil, seedNow)
	require.NoError(t, err)
	assert.True(t, added)

	sets, err := DefaultSets()
	require.NoError(t, err)
	want := make(map[string]bool)
	for _, s := range sets {
		for _, label := range s.Titles {
			want[title.Normalize(label)] = true
		}
	}
	assert.Len(t, out, len(want))

	for _, st := range out {
		assert.NotEmpty(t, st.ID)
		assert.Equal(t, seedNow.UnixMilli(), st.CreatedAt)
	}
}

func TestSeedKeepsNormalizedLabelsUnique(t *testing.T) {
	t.Parallel()

	out, _, err := Seed(nil, seedNow)
	require.NoError(t, err)

	seen := make(map[string]string, len(out))
	for _, st := range out {
		norm := title.Normalize(st.Label)
		require.NotEmpty(t, norm)
		prev, dup := seen[norm]
		assert.False(t, dup, "%q and %q normalize to the same form %q", prev, st.Label, norm)
		seen[norm] = st.Label
	}

	// The shipped sets carry spelling variants of the same role; only
	// the first spelling survives.
	labels := make([]string, 0, len(out))
	for _, st := range out {
		labels = append(labels, st.Label)
	}
	assert.Contains(t, labels, "Business Intelligence Manager")
	assert.NotContains(t, labels, "BI Manager")
	assert.Contains(t, labels, "HR Data Manager")
	assert.NotContains(t, labels, "HR Big Data Manager")
}

func TestSeedSkipsNormalizedVariantOfExistingTitle(t *testing.T) {
	t.Parallel()

	existing := []model.SearchTitle{
		{ID: "user-1", Label: "VP Data", CreatedAt: 1, UpdatedAt: 1},
	}
	out, added, err := Seed(existing, seedNow)
	require.NoError(t, err)
	assert.True(t, added)

	for _, st := range out {
		assert.NotEqual(t, "Vice President Data", st.Label,
			"default colliding with an existing title after normalization must be skipped")
	}
}

func TestSeedSkipsExistingLabels(t *testing.T) {
	t.Parallel()

	existing := []model.SearchTitle{
		{ID: "user-1", Label: "head of data", CreatedAt: 1, UpdatedAt: 1},
	}
	out, added, err := Seed(existing, seedNow)
	require.NoError(t, err)
	assert.True(t, added)

	count := 0
	for _, st := range out {
		if st.Label == "Head of Data" || st.Label == "head of data" {
			count++
		}
	}
	assert.Equal(t, 1, count, "case-insensitive label match must not duplicate")
	assert.Equal(t, existing[0], out[0], "existing titles stay first and untouched")
}

func TestSeedIdempotent(t *testing.T) {
	t.Parallel()

	out, added, err := Seed(nil, seedNow)
	require.NoError(t, err)
	require.True(t, added)

	again, added, err := Seed(out, seedNow)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, out, again)
}

func TestSeedStableIDs(t *testing.T) {
	t.Parallel()

	a, _, err := Seed(nil, seedNow)
	require.NoError(t, err)
	b, _, err := Seed(nil, seedNow.Add(time.Hour))
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID, "ids derive from labels, not time")
	}
}

func TestHarmonize(t *testing.T) {
	t.Parallel()

	titles := []model.SearchTitle{
		{ID: "t1", Label: "Head of Data"},
		{ID: "t2", Label: "VP Data"},
	}

	t.Run("variant spelling rewritten to canonical", func(t *testing.T) {
		t.Parallel()
		leads := []model.Lead{
			{ID: "a", SearchTitle: "head   of data", UpdatedAt: 1},
			{ID: "b", SearchTitle: "Vice President Data", UpdatedAt: 1},
		}
		out, changed := Harmonize(leads, titles, seedNow)
		assert.True(t, changed)
		assert.Equal(t, "Head of Data", out[0].SearchTitle)
		assert.Equal(t, "VP Data", out[1].SearchTitle)
		assert.Equal(t, seedNow.UnixMilli(), out[0].UpdatedAt)
	})

	t.Run("already canonical untouched", func(t *testing.T) {
		t.Parallel()
		leads := []model.Lead{{ID: "a", SearchTitle: "Head of Data", UpdatedAt: 7}}
		out, changed := Harmonize(leads, titles, seedNow)
		assert.False(t, changed)
		assert.Equal(t, int64(7), out[0].UpdatedAt, "updatedAt preserved when nothing changes")
	})

	t.Run("unknown title left alone", func(t *testing.T) {
		t.Parallel()
		leads := []model.Lead{{ID: "a", SearchTitle: "Gardener", UpdatedAt: 7}}
		out, changed := Harmonize(leads, titles, seedNow)
		assert.False(t, changed)
		assert.Equal(t, "Gardener", out[0].SearchTitle)
	})

	t.Run("empty inputs", func(t *testing.T) {
		t.Parallel()
		_, changed := Harmonize(nil, titles, seedNow)
		assert.False(t, changed)
		_, changed = Harmonize([]model.Lead{{ID: "a"}}, nil, seedNow)
		assert.False(t, changed)
	})
}
