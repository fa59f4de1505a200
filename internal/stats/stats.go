// Package stats aggregates reporting figures over the lead collection.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/sells-group/leadtrack-cli/internal/company"
	"github.com/sells-group/leadtrack-cli/internal/model"
	"github.com/sells-group/leadtrack-cli/internal/reconcile"
)

// All selects every value of a cross filter.
const All = "all"

// TimelineDays is the reporting window for daily capture counts.
const TimelineDays = 30

// Summary holds the headline counters.
type Summary struct {
	Total       int `json:"total"`
	Contacted   int `json:"contacted"`
	ToContact   int `json:"toContact"`
	FollowUpDue int `json:"followUpDue"`
	Pending     int `json:"pending"`
	Inbound     int `json:"inbound"`
	Outbound    int `json:"outbound"`
	TopLeads    int `json:"topLeads"`
	Converted   int `json:"converted"`
}

// Aggregate computes the summary counters. ToContact counts accepted
// leads not yet contacted; FollowUpDue narrows that to the reminder
// window.
func Aggregate(leads []model.Lead, now time.Time) Summary {
	s := Summary{Total: len(leads)}
	for _, l := range leads {
		if l.Contacted {
			s.Contacted++
		}
		if !l.Contacted && l.AcceptanceDate != "" {
			s.ToContact++
		}
		if reconcile.FollowUpDue(l, now) {
			s.FollowUpDue++
		}
		switch l.Direction {
		case model.DirectionOutboundPending:
			s.Pending++
			s.Outbound++
		case model.DirectionOutboundAccepted:
			s.Outbound++
		case model.DirectionInboundAccepted:
			s.Inbound++
		}
		if l.TopLead {
			s.TopLeads++
		}
		if l.Converted {
			s.Converted++
		}
	}
	return s
}

// TimelinePoint is one day of capture activity.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Timeline counts leads created per day over the last TimelineDays
// days, oldest first. Every day appears, zero counts included.
func Timeline(leads []model.Lead, now time.Time) []TimelinePoint {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := today.AddDate(0, 0, -(TimelineDays - 1))

	counts := make(map[string]int)
	for _, l := range leads {
		if l.CreatedAt == 0 {
			continue
		}
		d := time.UnixMilli(l.CreatedAt).In(now.Location())
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
		if day.Before(cutoff) {
			continue
		}
		counts[model.FormatDate(day)]++
	}

	points := make([]TimelinePoint, 0, TimelineDays)
	for i := 0; i < TimelineDays; i++ {
		date := model.FormatDate(cutoff.AddDate(0, 0, i))
		points = append(points, TimelinePoint{Date: date, Count: counts[date]})
	}
	return points
}

// leadCompany resolves the company shown in cross filters, falling back
// to the headline when the explicit field is empty.
func leadCompany(l model.Lead) string {
	c := strings.TrimSpace(l.Company)
	if c == "" {
		c = strings.TrimSpace(company.DeriveFromHeadline(l.Headline))
	}
	return c
}

// UniqueCompanies lists distinct companies, sorted, optionally narrowed
// to leads holding the selected search title.
func UniqueCompanies(leads []model.Lead, selectedTitle string) []string {
	set := make(map[string]bool)
	for _, l := range leads {
		if selectedTitle != All && strings.TrimSpace(l.SearchTitle) != selectedTitle {
			continue
		}
		if c := leadCompany(l); c != "" {
			set[c] = true
		}
	}
	return sortedKeys(set)
}

// UniqueTitles lists distinct search titles, sorted, optionally
// narrowed to leads at the selected company.
func UniqueTitles(leads []model.Lead, selectedCompany string) []string {
	set := make(map[string]bool)
	for _, l := range leads {
		if selectedCompany != All && leadCompany(l) != selectedCompany {
			continue
		}
		if t := strings.TrimSpace(l.SearchTitle); t != "" {
			set[t] = true
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
