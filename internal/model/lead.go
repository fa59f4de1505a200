// Package model defines the core lead-tracking record types.
package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Direction describes how a connection with a lead was initiated and
// whether it has been accepted.
type Direction string

const (
	DirectionOutboundPending  Direction = "outbound_pending"
	DirectionOutboundAccepted Direction = "outbound_accepted"
	DirectionInboundAccepted  Direction = "inbound_accepted"
)

// StringList is a slice of strings that also accepts a single JSON string
// on decode. Older records stored tags as one comma-free string; newer
// records store an array.
type StringList []string

// UnmarshalJSON decodes either a JSON array of strings or a bare string.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = arr
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one == "" {
		*s = nil
		return nil
	}
	*s = StringList{one}
	return nil
}

// Contains reports whether the list contains value, case-insensitively.
func (s StringList) Contains(value string) bool {
	for _, v := range s {
		if strings.EqualFold(strings.TrimSpace(v), value) {
			return true
		}
	}
	return false
}

// Lead is a tracked outreach contact. Dates that carry day granularity
// (request, acceptance, contact, conversion) are YYYY-MM-DD strings;
// lifecycle timestamps are Unix milliseconds, matching the persisted
// collection format.
type Lead struct {
	ID              string     `json:"id"`
	ProfileURL      string     `json:"profileUrl"`
	Name            string     `json:"name"`
	Headline        string     `json:"headline,omitempty"`
	Company         string     `json:"company,omitempty"`
	EmployeeRange   string     `json:"employeeRange,omitempty"`
	CompanySegment  string     `json:"companySegment,omitempty"`
	CompanyIndustry string     `json:"companyIndustry,omitempty"`
	Geo             string     `json:"geo,omitempty"`
	SearchTitle     string     `json:"searchTitle,omitempty"`
	Direction       Direction  `json:"direction"`
	RequestDate     string     `json:"requestDate,omitempty"`
	AcceptanceDate  string     `json:"acceptanceDate,omitempty"`
	Contacted       bool       `json:"contacted"`
	ContactedDate   string     `json:"contactedDate,omitempty"`
	Converted       bool       `json:"converted,omitempty"`
	ConversionDate  string     `json:"conversionDate,omitempty"`
	TopLead         bool       `json:"topLead"`
	Tags            StringList `json:"tags,omitempty"`
	Status          string     `json:"status,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       int64      `json:"createdAt"`
	UpdatedAt       int64      `json:"updatedAt"`
}

// SearchTitle is a user-curated canonical role label used as a matching
// target for captured profiles.
type SearchTitle struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// NewID returns a fresh opaque record identifier.
func NewID() string {
	return uuid.New().String()
}

// Normalize fills defaults on a record read from storage. Collections
// written by older versions may miss optional fields entirely; the core
// tolerates that by defaulting on read rather than versioning the schema.
func (l *Lead) Normalize() {
	l.ProfileURL = strings.TrimSpace(l.ProfileURL)
	l.Name = strings.TrimSpace(l.Name)
	if l.Direction == "" {
		l.Direction = DirectionOutboundPending
	}
	// outbound_pending implies no acceptance yet.
	if l.Direction == DirectionOutboundPending {
		l.AcceptanceDate = ""
	}
	if !l.Contacted {
		l.ContactedDate = ""
	}
	if l.CreatedAt == 0 {
		l.CreatedAt = l.UpdatedAt
	}
	if l.UpdatedAt == 0 {
		l.UpdatedAt = l.CreatedAt
	}
}

// EntityID implements syncer.Entity.
func (l Lead) EntityID() string { return l.ID }

// LastUpdated implements syncer.Entity.
func (l Lead) LastUpdated() int64 { return l.UpdatedAt }

// EntityID implements syncer.Entity.
func (t SearchTitle) EntityID() string { return t.ID }

// LastUpdated implements syncer.Entity. Titles rarely mutate; records
// written before updatedAt existed fall back to createdAt.
func (t SearchTitle) LastUpdated() int64 {
	if t.UpdatedAt != 0 {
		return t.UpdatedAt
	}
	return t.CreatedAt
}

// DateLayout is the day-granularity date format used across the model.
const DateLayout = "2006-01-02"

// FormatDate renders t as a model date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysSince returns the number of whole calendar days between date (a
// YYYY-MM-DD string) and now, truncating both to midnight first. A
// same-day difference is 0; partial days never round up. The second
// return is false when date is empty or unparseable.
func DaysSince(date string, now time.Time) (int, bool) {
	if date == "" {
		return 0, false
	}
	d, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return 0, false
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(midnight.Sub(d).Hours() / 24), true
}
