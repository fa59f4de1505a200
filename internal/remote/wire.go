package remote

import "github.com/sells-group/leadtrack-cli/internal/model"

// The backend speaks snake_case; the local model speaks camelCase.
// These records are the wire shape, converted at the client boundary.

type leadRecord struct {
	ID              string           `json:"id"`
	ProfileURL      string           `json:"profile_url"`
	Name            string           `json:"name"`
	Headline        string           `json:"headline,omitempty"`
	Company         string           `json:"company,omitempty"`
	EmployeeRange   string           `json:"employee_range,omitempty"`
	CompanySegment  string           `json:"company_segment,omitempty"`
	CompanyIndustry string           `json:"company_industry,omitempty"`
	Geo             string           `json:"geo,omitempty"`
	SearchTitle     string           `json:"search_title,omitempty"`
	Direction       model.Direction  `json:"direction,omitempty"`
	RequestDate     string           `json:"request_date,omitempty"`
	AcceptanceDate  string           `json:"acceptance_date,omitempty"`
	Contacted       bool             `json:"contacted"`
	ContactedDate   string           `json:"contacted_date,omitempty"`
	Converted       bool             `json:"converted"`
	ConversionDate  string           `json:"conversion_date,omitempty"`
	TopLead         bool             `json:"top_lead"`
	Tags            model.StringList `json:"tags,omitempty"`
	Status          string           `json:"status,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       int64            `json:"created_at"`
	UpdatedAt       int64            `json:"updated_at"`
}

type titleRecord struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func toLeadRecord(l model.Lead) leadRecord {
	return leadRecord{
		ID:              l.ID,
		ProfileURL:      l.ProfileURL,
		Name:            l.Name,
		Headline:        l.Headline,
		Company:         l.Company,
		EmployeeRange:   l.EmployeeRange,
		CompanySegment:  l.CompanySegment,
		CompanyIndustry: l.CompanyIndustry,
		Geo:             l.Geo,
		SearchTitle:     l.SearchTitle,
		Direction:       l.Direction,
		RequestDate:     l.RequestDate,
		AcceptanceDate:  l.AcceptanceDate,
		Contacted:       l.Contacted,
		ContactedDate:   l.ContactedDate,
		Converted:       l.Converted,
		ConversionDate:  l.ConversionDate,
		TopLead:         l.TopLead,
		Tags:            l.Tags,
		Status:          l.Status,
		Notes:           l.Notes,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func (r leadRecord) toModel() model.Lead {
	return model.Lead{
		ID:              r.ID,
		ProfileURL:      r.ProfileURL,
		Name:            r.Name,
		Headline:        r.Headline,
		Company:         r.Company,
		EmployeeRange:   r.EmployeeRange,
		CompanySegment:  r.CompanySegment,
		CompanyIndustry: r.CompanyIndustry,
		Geo:             r.Geo,
		SearchTitle:     r.SearchTitle,
		Direction:       r.Direction,
		RequestDate:     r.RequestDate,
		AcceptanceDate:  r.AcceptanceDate,
		Contacted:       r.Contacted,
		ContactedDate:   r.ContactedDate,
		Converted:       r.Converted,
		ConversionDate:  r.ConversionDate,
		TopLead:         r.TopLead,
		Tags:            r.Tags,
		Status:          r.Status,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toTitleRecord(t model.SearchTitle) titleRecord {
	return titleRecord{ID: t.ID, Label: t.Label, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func (r titleRecord) toModel() model.SearchTitle {
	return model.SearchTitle{ID: r.ID, Label: r.Label, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}
