package title

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"simple upper", "data engineer", "DATA ENGINEER"},
		{"head of data and analytics", "Head of Data & Analytics", "HEAD DATA"},
		{"ampersand and slash", "Product / Platform & Cloud", "PRODUCT PLATFORM CLOUD"},
		{"plus connector", "Data + Analytics Lead", "DATA LEAD"},
		{"business intelligence", "Head of Business Intelligence", "HEAD BI"},
		{"machine learning", "Machine Learning Engineer", "ML ENGINEER"},
		{"artificial intelligence", "Responsable Artificial Intelligence", "MANAGER AI"},
		{"big data collapses to data", "Big Data Architect", "DATA ARCHITECT"},
		{"vice president", "Vice President Data", "VP DATA"},
		{"managing director kept whole", "Managing Director of Analytics", "MD ANALYTICS"},
		{"french director", "Directeur de la Data", "DIRECTOR DATA"},
		{"french directrice", "Directrice des Ventes", "DIRECTOR VENTES"},
		{"senior", "Senior Data Scientist", "SR DATA SCIENTIST"},
		{"diacritics folded", "Responsable équipe Data", "MANAGER EQUIPE DATA"},
		{"stopwords french", "Chef de projet et Data en entreprise", "CHEF PROJET DATA ENTREPRISE"},
		{"token dedup keeps first order", "Data Lead Data", "DATA LEAD"},
		{"dedup after collapse", "Head of Data & Analytics Data", "HEAD DATA"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Head of Data & Analytics chez Acme",
		"Vice President Business Intelligence",
		"Directeur Machine Learning / Big Data",
		"Senior Responsable équipe Data",
		"CTPO",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestMatchesText(t *testing.T) {
	t.Parallel()

	t.Run("word boundary match", func(t *testing.T) {
		t.Parallel()
		assert.True(t, MatchesText("HEAD DATA", "Head of Data & Analytics chez Acme"))
	})

	t.Run("no partial word match", func(t *testing.T) {
		t.Parallel()
		// "CDO" must not match inside an unrelated token.
		assert.False(t, MatchesText("CDO", "Anecdote Publishing"))
	})

	t.Run("short titles rejected", func(t *testing.T) {
		t.Parallel()
		assert.False(t, MatchesText("BI", "BI Manager"))
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		assert.False(t, MatchesText("HEAD DATA", ""))
	})
}

func TestMatcher(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]model.SearchTitle{
		{ID: "t1", Label: "Head of Data"},
		{ID: "t2", Label: "VP Data"},
		{ID: "t3", Label: "Data Architect"},
	})

	t.Run("first match in list order wins", func(t *testing.T) {
		t.Parallel()
		got, ok := m.Match("Head of Data and VP Data at Acme")
		assert.True(t, ok)
		assert.Equal(t, "t1", got.ID)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		_, ok := m.Match("Gardener at Acme")
		assert.False(t, ok)
	})

	t.Run("canonical maps variant spelling to stored label", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Head of Data", m.Canonical("head   of data"))
		assert.Equal(t, "SOMETHING ELSE", m.Canonical("Something Else"))
		assert.Empty(t, m.Canonical("  "))
	})

	t.Run("known", func(t *testing.T) {
		t.Parallel()
		assert.True(t, m.Known("HEAD OF DATA"))
		assert.False(t, m.Known("CFO"))
	})
}
