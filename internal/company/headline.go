package company

import (
	"regexp"
	"strings"
)

// Separator characters that end a company-name fragment inside a
// headline: pipe, en/em dash, bullets, comma, semicolon.
const headlineSep = `\|\x{2013}\x{2014}\x{2022}\x{00b7},;`

// Patterns tried in order: "@ Acme", "chez Acme", "at Acme". The first
// capture that yields a non-empty fragment wins.
var headlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`@\s*([^` + headlineSep + `]+)`),
	regexp.MustCompile(`(?i)\bchez\s+([^` + headlineSep + `]+)`),
	regexp.MustCompile(`(?i)\bat\s+([^` + headlineSep + `]+)`),
}

// DeriveFromHeadline extracts a company name from a free-text headline
// when no explicit company field is available. It returns the empty
// string when no pattern matches.
func DeriveFromHeadline(headline string) string {
	text := strings.TrimSpace(headline)
	if text == "" {
		return ""
	}
	for _, re := range headlinePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if got := strings.TrimSpace(m[1]); got != "" {
				return got
			}
		}
	}
	return ""
}
