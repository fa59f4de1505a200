// Package title canonicalizes free-text role labels so that noisy,
// mixed-language headlines can be matched against curated search titles.
package title

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// replacement is one ordered rewrite rule. Patterns are word-boundary
// anchored so a collapse never corrupts the inside of another token.
type replacement struct {
	pattern *regexp.Regexp
	with    string
}

func rule(phrase, with string) replacement {
	return replacement{
		pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`),
		with:    with,
	}
}

// phraseCollapses fold domain phrases into their canonical short form.
// Longer, more specific phrases come first: "BIG DATA" must collapse
// before a later rule could see the bare "DATA" token.
var phraseCollapses = []replacement{
	rule("DATA AND ANALYTICS", "DATA"),
	rule("BUSINESS INTELLIGENCE", "BI"),
	rule("ARTIFICIAL INTELLIGENCE", "AI"),
	rule("MACHINE LEARNING", "ML"),
	rule("BIG DATA", "DATA"),
}

// roleSynonyms fold wording variants of the same role. "MANAGING
// DIRECTOR" precedes the French DIRECTEUR/DIRECTRICE rules so it is
// consumed whole.
var roleSynonyms = []replacement{
	rule("MANAGING DIRECTOR", "MD"),
	rule("VICE PRESIDENT", "VP"),
	rule("HEAD OF", "HEAD"),
	rule("RESPONSABLE", "MANAGER"),
	rule("DIRECTEUR", "DIRECTOR"),
	rule("DIRECTRICE", "DIRECTOR"),
	rule("SENIOR", "SR"),
}

// stopwords are dropped as whole tokens, French and English alike.
var stopwords = map[string]bool{
	"OF": true, "DE": true, "DU": true, "DES": true,
	"LA": true, "LE": true, "LES": true, "THE": true,
	"AND": true, "ET": true, "WITH": true, "IN": true, "EN": true,
}

var (
	connectors = strings.NewReplacer("+", " AND ", "&", " AND ", "/", " ")
	whitespace = regexp.MustCompile(`\s+`)

	// foldDiacritics strips combining marks so accented French titles
	// ("Responsable équipe Data") normalize like their ASCII spelling.
	foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize canonicalizes a free-text role label into an upper-cased,
// order-preserving, de-duplicated token string. Empty or whitespace
// input yields the empty string; Normalize never fails and is
// idempotent.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}
	s = strings.ToUpper(s)
	s = connectors.Replace(s)
	s = whitespace.ReplaceAllString(s, " ")
	for _, r := range phraseCollapses {
		s = r.pattern.ReplaceAllString(s, r.with)
	}
	for _, r := range roleSynonyms {
		s = r.pattern.ReplaceAllString(s, r.with)
	}

	tokens := whitespace.Split(strings.TrimSpace(s), -1)
	out := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if tok == "" || stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}
