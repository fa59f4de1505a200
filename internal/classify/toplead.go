// Package classify flags leads a salesperson should act on now. The
// classifier is an ordered list of independent, named rules combined
// with OR: transparent and individually testable, deliberately not a
// scored model.
package classify

import (
	"regexp"
	"strings"
	"time"

	"github.com/sells-group/leadtrack-cli/internal/company"
	"github.com/sells-group/leadtrack-cli/internal/model"
)

// seniorDataPhrases is the senior data leadership phrase set shared by
// the title rules.
var seniorDataPhrases = []string{
	"HEAD OF DATA", "VP DATA", "DATA DIRECTOR", "CHIEF DATA", "CDO",
}

// facts is the lead snapshot a rule evaluates against, derived once per
// classification. Rules stay pure functions of this struct.
type facts struct {
	headline    string
	searchTitle string
	industry    string
	tags        model.StringList
	contacted   bool

	rng     *company.EmployeeRange
	segment string

	daysSinceAcceptance int
	hasAcceptance       bool
}

func gatherFacts(lead model.Lead, now time.Time) *facts {
	f := &facts{
		headline:    strings.ToUpper(lead.Headline),
		searchTitle: strings.ToUpper(lead.SearchTitle),
		industry:    strings.ToUpper(lead.CompanyIndustry),
		tags:        lead.Tags,
		contacted:   lead.Contacted,
		rng:         company.ParseEmployeeRange(lead.EmployeeRange),
	}
	f.segment = lead.CompanySegment
	if f.segment == "" {
		f.segment = company.Segment(f.rng)
	}
	f.daysSinceAcceptance, f.hasAcceptance = model.DaysSince(lead.AcceptanceDate, now)
	return f
}

// maxSizeIn reports whether the range's upper bound (falling back to
// the lower one) lies in [lo, hi].
func (f *facts) maxSizeIn(lo, hi int) bool {
	n := f.rng.MaxOrMin()
	return n != nil && *n >= lo && *n <= hi
}

func (f *facts) maxSizeBelow(limit int) bool {
	n := f.rng.MaxOrMin()
	return n != nil && *n < limit
}

var wordBoundaryCache = map[string]*regexp.Regexp{}

func init() {
	for _, w := range []string{"CEO", "CTO", "LEAD", "CDO"} {
		wordBoundaryCache[w] = regexp.MustCompile(`\b` + w + `\b`)
	}
}

func containsWord(text, word string) bool {
	re, ok := wordBoundaryCache[word]
	if !ok {
		re = regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return re.MatchString(text)
}

func matchesSeniorData(f *facts) bool {
	for _, p := range seniorDataPhrases {
		if p == "CDO" {
			if containsWord(f.headline, p) || containsWord(f.searchTitle, p) {
				return true
			}
			continue
		}
		if strings.Contains(f.headline, p) || strings.Contains(f.searchTitle, p) {
			return true
		}
	}
	return false
}

// Rule is one named top-lead heuristic.
type Rule struct {
	Name  string
	Match func(f *facts) bool
}

// Rules is the ordered rule set. Evaluation short-circuits on the first
// match; order does not change the outcome, only which rule reports.
var Rules = []Rule{
	{
		Name: "exec_small_company",
		Match: func(f *facts) bool {
			return (containsWord(f.headline, "CEO") || containsWord(f.headline, "CTO")) &&
				f.maxSizeBelow(500)
		},
	},
	{
		Name: "senior_data_midmarket",
		Match: func(f *facts) bool {
			if !matchesSeniorData(f) {
				return false
			}
			return f.segment == company.SegmentScaleup ||
				f.segment == company.SegmentPME ||
				f.maxSizeIn(50, 500)
		},
	},
	{
		Name: "fresh_acceptance_senior",
		Match: func(f *facts) bool {
			return !f.contacted && f.hasAcceptance && f.daysSinceAcceptance <= 3 &&
				(matchesSeniorData(f) || containsWord(f.headline, "LEAD"))
		},
	},
	{
		Name: "fresh_acceptance",
		Match: func(f *facts) bool {
			return !f.contacted && f.hasAcceptance && f.daysSinceAcceptance <= 7
		},
	},
	{
		Name: "dormant_acceptance",
		Match: func(f *facts) bool {
			return !f.contacted && f.hasAcceptance && f.daysSinceAcceptance > 30
		},
	},
	{
		Name: "target_industry_midmarket",
		Match: func(f *facts) bool {
			if !f.maxSizeIn(50, 500) {
				return false
			}
			for _, kw := range []string{"SAAS", "FINTECH", "DATA"} {
				if strings.Contains(f.industry, kw) {
					return true
				}
			}
			return false
		},
	},
	{
		Name: "priority_tag",
		Match: func(f *facts) bool {
			return f.tags.Contains("PRIORITAIRE")
		},
	},
}

// IsTopLead reports whether any rule matches the lead as of now. It is
// pure: recompute it on every load, the day-based rules drift with the
// calendar even when nothing is edited.
func IsTopLead(lead model.Lead, now time.Time) bool {
	f := gatherFacts(lead, now)
	for _, r := range Rules {
		if r.Match(f) {
			return true
		}
	}
	return false
}

// Explain returns the names of every rule the lead matches, in rule
// order. Empty means not a top lead.
func Explain(lead model.Lead, now time.Time) []string {
	f := gatherFacts(lead, now)
	var names []string
	for _, r := range Rules {
		if r.Match(f) {
			names = append(names, r.Name)
		}
	}
	return names
}
