// Package reconcile merges captured profile candidates into the lead
// collection without creating duplicates or clobbering user edits.
package reconcile

import (
	"net/url"
	"strings"
	"time"

	"github.com/sells-group/leadtrack-cli/internal/company"
	"github.com/sells-group/leadtrack-cli/internal/model"
	"github.com/sells-group/leadtrack-cli/internal/title"
)

// Outcome of reconciling one candidate.
type Outcome string

const (
	// OutcomeCreated means no existing lead matched and a new one was added.
	OutcomeCreated Outcome = "created"
	// OutcomeUpdated means an existing lead matched and at least one field changed.
	OutcomeUpdated Outcome = "updated"
	// OutcomeDuplicateSkipped means an existing lead matched and nothing changed.
	OutcomeDuplicateSkipped Outcome = "duplicate_skipped"
	// OutcomeUnmatched means the candidate's title matched no known search
	// title; the candidate is left for manual handling, not an error.
	OutcomeUnmatched Outcome = "unmatched"
	// OutcomeRejected means the candidate carried no usable dedup key.
	OutcomeRejected Outcome = "rejected"
)

// Candidate is a partial lead produced by a capture surface. Value
// fields freshen the profile facts; pointer fields are user-driven
// edits to workflow state and are only applied when non-nil.
type Candidate struct {
	ProfileURL      string `json:"profileUrl"`
	Name            string `json:"name"`
	Headline        string `json:"headline"`
	Company         string `json:"company"`
	EmployeeRange   string `json:"employeeRange"`
	CompanySegment  string `json:"companySegment"`
	CompanyIndustry string `json:"companyIndustry"`
	Geo             string `json:"geo"`
	SearchTitle     string `json:"searchTitle"`

	Direction      model.Direction `json:"direction,omitempty"`
	RequestDate    string          `json:"requestDate,omitempty"`
	AcceptanceDate string          `json:"acceptanceDate,omitempty"`

	Contacted      *bool             `json:"contacted,omitempty"`
	ContactedDate  *string           `json:"contactedDate,omitempty"`
	Converted      *bool             `json:"converted,omitempty"`
	ConversionDate *string           `json:"conversionDate,omitempty"`
	Status         *string           `json:"status,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	Tags           *model.StringList `json:"tags,omitempty"`
	TopLead        *bool             `json:"topLead,omitempty"`
}

// isEdit reports whether the candidate targets workflow state, i.e. it
// came from a user action rather than a passive re-scrape.
func (c *Candidate) isEdit() bool {
	return c.Contacted != nil || c.ContactedDate != nil ||
		c.Converted != nil || c.ConversionDate != nil ||
		c.Status != nil || c.Notes != nil || c.Tags != nil || c.TopLead != nil
}

// Result reports what a reconciliation pass did with one candidate.
type Result struct {
	Outcome Outcome    `json:"outcome"`
	Lead    model.Lead `json:"lead,omitempty"`
}

// Summary aggregates a batch pass.
type Summary struct {
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Unmatched int      `json:"unmatched"`
	Rejected  int      `json:"rejected"`
	Results   []Result `json:"results"`
}

// CanonicalProfileURL reduces a profile URL to its dedup key: lowered
// scheme and host plus the path, query and fragment stripped, trailing
// slash removed. Unparseable input falls back to the trimmed string so
// equality still behaves.
func CanonicalProfileURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	path := strings.TrimRight(u.Path, "/")
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + path
}

// Reconciler applies candidates to a lead collection. It is stateless
// between calls apart from the title matcher it resolves against.
type Reconciler struct {
	matcher *title.Matcher
	now     func() time.Time
	newID   func() string
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithIDGenerator overrides lead id generation.
func WithIDGenerator(gen func() string) Option {
	return func(r *Reconciler) { r.newID = gen }
}

// New builds a Reconciler resolving candidate titles against the given
// search-title list.
func New(titles []model.SearchTitle, opts ...Option) *Reconciler {
	r := &Reconciler{
		matcher: title.NewMatcher(titles),
		now:     time.Now,
		newID:   model.NewID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile applies one candidate to the collection and returns the
// resulting collection plus the outcome. The input slice is never
// mutated; on any change a copy is returned.
func (r *Reconciler) Reconcile(cand Candidate, collection []model.Lead) ([]model.Lead, Result) {
	key := CanonicalProfileURL(cand.ProfileURL)
	if key == "" && strings.TrimSpace(cand.Name) == "" {
		return collection, Result{Outcome: OutcomeRejected}
	}

	r.derive(&cand)

	at := -1
	if key != "" {
		for i := range collection {
			if CanonicalProfileURL(collection[i].ProfileURL) == key {
				at = i
				break
			}
		}
	}

	if at < 0 {
		if cand.SearchTitle == "" && !cand.isEdit() {
			return collection, Result{Outcome: OutcomeUnmatched}
		}
		lead := r.create(cand)
		out := make([]model.Lead, 0, len(collection)+1)
		out = append(out, collection...)
		out = append(out, lead)
		return out, Result{Outcome: OutcomeCreated, Lead: lead}
	}

	merged, changed := r.merge(collection[at], cand)
	if !changed {
		return collection, Result{Outcome: OutcomeDuplicateSkipped, Lead: collection[at]}
	}
	out := make([]model.Lead, len(collection))
	copy(out, collection)
	out[at] = merged
	return out, Result{Outcome: OutcomeUpdated, Lead: merged}
}

// ReconcileBatch applies candidates in input order against a single
// working copy of the collection, so one combined write suffices.
func (r *Reconciler) ReconcileBatch(cands []Candidate, collection []model.Lead) ([]model.Lead, Summary) {
	sum := Summary{Results: make([]Result, 0, len(cands))}
	for _, cand := range cands {
		var res Result
		collection, res = r.Reconcile(cand, collection)
		sum.Results = append(sum.Results, res)
		switch res.Outcome {
		case OutcomeCreated:
			sum.Created++
		case OutcomeUpdated:
			sum.Updated++
		case OutcomeDuplicateSkipped:
			sum.Skipped++
		case OutcomeUnmatched:
			sum.Unmatched++
		case OutcomeRejected:
			sum.Rejected++
		}
	}
	return collection, sum
}

// derive fills missing candidate fields from what is present: title
// from the headline, company from the headline, segment from the size
// range.
func (r *Reconciler) derive(cand *Candidate) {
	if cand.SearchTitle != "" {
		cand.SearchTitle = r.matcher.Canonical(cand.SearchTitle)
	} else if cand.Headline != "" {
		if st, ok := r.matcher.Match(cand.Headline); ok {
			cand.SearchTitle = st.Label
		}
	}
	if cand.Company == "" && cand.Headline != "" {
		cand.Company = company.DeriveFromHeadline(cand.Headline)
	}
	if cand.CompanySegment == "" && cand.EmployeeRange != "" {
		cand.CompanySegment = company.Segment(company.ParseEmployeeRange(cand.EmployeeRange))
	}
}

func (r *Reconciler) create(cand Candidate) model.Lead {
	now := r.now().UnixMilli()
	lead := model.Lead{
		ID:              r.newID(),
		ProfileURL:      CanonicalProfileURL(cand.ProfileURL),
		Name:            strings.TrimSpace(cand.Name),
		Headline:        strings.TrimSpace(cand.Headline),
		Company:         cand.Company,
		EmployeeRange:   cand.EmployeeRange,
		CompanySegment:  cand.CompanySegment,
		CompanyIndustry: cand.CompanyIndustry,
		Geo:             cand.Geo,
		SearchTitle:     cand.SearchTitle,
		Direction:       cand.Direction,
		RequestDate:     cand.RequestDate,
		AcceptanceDate:  cand.AcceptanceDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if lead.RequestDate == "" {
		lead.RequestDate = model.FormatDate(r.now())
	}
	applyEdits(&lead, cand)
	lead.Normalize()
	return lead
}

// freshenable field overwrite: present and non-empty on the candidate
// wins, absence keeps the existing value.
func freshen(dst *string, src string) bool {
	if src == "" || *dst == src {
		return false
	}
	*dst = src
	return true
}

func (r *Reconciler) merge(existing model.Lead, cand Candidate) (model.Lead, bool) {
	lead := existing
	changed := false

	changed = freshen(&lead.Name, strings.TrimSpace(cand.Name)) || changed
	changed = freshen(&lead.Headline, strings.TrimSpace(cand.Headline)) || changed
	changed = freshen(&lead.Company, cand.Company) || changed
	changed = freshen(&lead.EmployeeRange, cand.EmployeeRange) || changed
	changed = freshen(&lead.CompanySegment, cand.CompanySegment) || changed
	changed = freshen(&lead.CompanyIndustry, cand.CompanyIndustry) || changed
	changed = freshen(&lead.SearchTitle, cand.SearchTitle) || changed

	changed = applyEdits(&lead, cand) || changed

	if changed {
		lead.UpdatedAt = r.now().UnixMilli()
		lead.Normalize()
	}
	return lead, changed
}

// applyEdits applies the user-driven workflow fields the candidate
// explicitly targets. Passive re-scrapes leave them all nil.
func applyEdits(lead *model.Lead, cand Candidate) bool {
	changed := false
	if cand.Contacted != nil && lead.Contacted != *cand.Contacted {
		lead.Contacted = *cand.Contacted
		changed = true
	}
	if cand.ContactedDate != nil && lead.ContactedDate != *cand.ContactedDate {
		lead.ContactedDate = *cand.ContactedDate
		changed = true
	}
	if cand.Converted != nil && lead.Converted != *cand.Converted {
		lead.Converted = *cand.Converted
		changed = true
	}
	if cand.ConversionDate != nil && lead.ConversionDate != *cand.ConversionDate {
		lead.ConversionDate = *cand.ConversionDate
		changed = true
	}
	if cand.Status != nil && lead.Status != *cand.Status {
		lead.Status = *cand.Status
		changed = true
	}
	if cand.Notes != nil && lead.Notes != *cand.Notes {
		lead.Notes = *cand.Notes
		changed = true
	}
	if cand.Tags != nil {
		if !equalTags(lead.Tags, *cand.Tags) {
			lead.Tags = *cand.Tags
			changed = true
		}
	}
	if cand.TopLead != nil && lead.TopLead != *cand.TopLead {
		lead.TopLead = *cand.TopLead
		changed = true
	}
	return changed
}

func equalTags(a, b model.StringList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
