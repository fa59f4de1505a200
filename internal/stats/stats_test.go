package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

var statsNow = time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)

func TestAggregate(t *testing.T) {
	t.Parallel()

	leads := []model.Lead{
		{Direction: model.DirectionOutboundPending},
		{Direction: model.DirectionOutboundAccepted, AcceptanceDate: "2026-08-25"},
		{Direction: model.DirectionOutboundAccepted, AcceptanceDate: "2026-08-10", Contacted: true, ContactedDate: "2026-08-12", Converted: true},
		{Direction: model.DirectionInboundAccepted, AcceptanceDate: "2026-08-29", TopLead: true},
	}

	s := Aggregate(leads, statsNow)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Contacted)
	assert.Equal(t, 2, s.ToContact, "accepted and uncontacted")
	assert.Equal(t, 1, s.FollowUpDue, "only the 6-day-old acceptance is in the window")
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Inbound)
	assert.Equal(t, 3, s.Outbound, "pending counts as outbound")
	assert.Equal(t, 1, s.TopLeads)
	assert.Equal(t, 1, s.Converted)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Summary{}, Aggregate(nil, statsNow))
}

func TestTimeline(t *testing.T) {
	t.Parallel()

	day := func(daysAgo int) int64 {
		return statsNow.AddDate(0, 0, -daysAgo).UnixMilli()
	}
	leads := []model.Lead{
		{CreatedAt: day(0)},
		{CreatedAt: day(0)},
		{CreatedAt: day(5)},
		{CreatedAt: day(29)},
		{CreatedAt: day(45)}, // outside the window
		{CreatedAt: 0},       // never stamped
	}

	points := Timeline(leads, statsNow)
	require.Len(t, points, TimelineDays)

	assert.Equal(t, "2026-08-02", points[0].Date)
	assert.Equal(t, 1, points[0].Count, "oldest in-window day")
	assert.Equal(t, "2026-08-31", points[29].Date)
	assert.Equal(t, 2, points[29].Count)

	total := 0
	for _, p := range points {
		total += p.Count
	}
	assert.Equal(t, 4, total, "out-of-window and unstamped leads excluded")
}

func TestUniqueCompanies(t *testing.T) {
	t.Parallel()

	leads := []model.Lead{
		{Company: "Acme", SearchTitle: "Head of Data"},
		{Company: "Acme", SearchTitle: "VP Data"},
		{Headline: "CTO chez Initech", SearchTitle: "VP Data"},
		{Company: "Globex"},
	}

	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, UniqueCompanies(leads, All))
	assert.Equal(t, []string{"Acme", "Initech"}, UniqueCompanies(leads, "VP Data"))
	assert.Empty(t, UniqueCompanies(leads, "CDO"))
}

func TestUniqueTitles(t *testing.T) {
	t.Parallel()

	leads := []model.Lead{
		{Company: "Acme", SearchTitle: "Head of Data"},
		{Company: "Acme", SearchTitle: "VP Data"},
		{Headline: "VP Data chez Initech", SearchTitle: "VP Data"},
		{Company: "Globex"},
	}

	assert.Equal(t, []string{"Head of Data", "VP Data"}, UniqueTitles(leads, All))
	assert.Equal(t, []string{"Head of Data", "VP Data"}, UniqueTitles(leads, "Acme"))
	assert.Equal(t, []string{"VP Data"}, UniqueTitles(leads, "Initech"))
	assert.Empty(t, UniqueTitles(leads, "Umbrella"))
}
