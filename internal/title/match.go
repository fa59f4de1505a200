package title

import (
	"regexp"
	"strings"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

// minMatchLen rejects normalized titles shorter than 3 characters as
// match candidates: two-letter acronyms match spuriously inside
// unrelated words and names.
const minMatchLen = 3

// MatchesText reports whether the already-normalized title occurs in
// the free text, word-boundary anchored, after the text itself has been
// normalized into the same token space.
func MatchesText(normalized, text string) bool {
	if len(normalized) < minMatchLen {
		return false
	}
	haystack := Normalize(text)
	if haystack == "" {
		return false
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(normalized) + `\b`)
	return re.MatchString(haystack)
}

// Matcher resolves free-text headlines against a curated title list.
// Matching is first-match-in-list-order: when a headline matches more
// than one canonical title, the earliest entry wins. That tie-break is
// deliberate and kept stable for compatibility with existing data.
type Matcher struct {
	titles []model.SearchTitle
	byNorm map[string]string
}

// NewMatcher builds a Matcher over the given titles, preserving their
// order. Titles whose label normalizes to the empty string are skipped.
func NewMatcher(titles []model.SearchTitle) *Matcher {
	m := &Matcher{byNorm: make(map[string]string, len(titles))}
	for _, t := range titles {
		n := Normalize(t.Label)
		if n == "" {
			continue
		}
		m.titles = append(m.titles, t)
		if _, ok := m.byNorm[n]; !ok {
			m.byNorm[n] = t.Label
		}
	}
	return m
}

// Match returns the first title whose normalized label occurs in the
// free text, or false when none matches.
func (m *Matcher) Match(text string) (model.SearchTitle, bool) {
	for _, t := range m.titles {
		if MatchesText(Normalize(t.Label), text) {
			return t, true
		}
	}
	return model.SearchTitle{}, false
}

// Canonical maps an arbitrary spelling of a title to the stored label
// with the same normalized form. Unknown titles come back formatted
// (trimmed, upper-cased) so callers always get a displayable value.
func (m *Matcher) Canonical(label string) string {
	n := Normalize(label)
	if n == "" {
		return ""
	}
	if stored, ok := m.byNorm[n]; ok {
		return stored
	}
	return strings.ToUpper(strings.TrimSpace(label))
}

// Known reports whether a label normalizes to one of the curated titles.
func (m *Matcher) Known(label string) bool {
	_, ok := m.byNorm[Normalize(label)]
	return ok
}
