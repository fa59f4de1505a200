// Package seed ships the default search-title sets and keeps lead
// titles aligned with the curated list.
package seed

import (
	_ "embed"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadtrack-cli/internal/model"
	"github.com/sells-group/leadtrack-cli/internal/title"
)

//go:embed titles.yaml
var titlesYAML []byte

// VersionSet is one shipped batch of default titles. Batches are
// applied in file order so later additions land after the originals.
type VersionSet struct {
	Name   string   `yaml:"name"`
	Titles []string `yaml:"titles"`
}

type seedFile struct {
	Versions []VersionSet `yaml:"versions"`
}

// DefaultSets returns the shipped title sets.
func DefaultSets() ([]VersionSet, error) {
	var f seedFile
	if err := yaml.Unmarshal(titlesYAML, &f); err != nil {
		return nil, eris.Wrap(err, "seed: parse embedded titles")
	}
	return f.Versions, nil
}

var idCleaner = regexp.MustCompile(`[^A-Z0-9]+`)

// defaultID derives a stable id from the label so re-seeding the same
// title on two machines produces the same record.
func defaultID(label string) string {
	norm := strings.ToUpper(strings.TrimSpace(label))
	return "default_" + strings.Trim(idCleaner.ReplaceAllString(norm, "_"), "_")
}

// Seed merges the shipped default titles into the collection, skipping
// any label whose normalized form is already present. Comparing
// normalized forms keeps the collection free of titles that would
// collide during matching ("BI Manager" next to "Business Intelligence
// Manager"), same check the add command applies.
func Seed(existing []model.SearchTitle, now time.Time) ([]model.SearchTitle, bool, error) {
	sets, err := DefaultSets()
	if err != nil {
		return nil, false, err
	}

	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		if norm := title.Normalize(t.Label); norm != "" {
			seen[norm] = true
		}
	}

	out := make([]model.SearchTitle, len(existing))
	copy(out, existing)
	added := false
	stamp := now.UnixMilli()

	for _, set := range sets {
		for _, label := range set.Titles {
			norm := title.Normalize(label)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			out = append(out, model.SearchTitle{
				ID:        defaultID(label),
				Label:     label,
				CreatedAt: stamp,
				UpdatedAt: stamp,
			})
			added = true
		}
	}
	return out, added, nil
}

// Harmonize rewrites each lead's searchTitle to the canonical stored
// label whose normalized form matches it. Leads already carrying the
// canonical spelling are untouched; changed leads get a fresh
// updatedAt. It reports whether anything changed.
func Harmonize(leads []model.Lead, titles []model.SearchTitle, now time.Time) ([]model.Lead, bool) {
	if len(leads) == 0 || len(titles) == 0 {
		return leads, false
	}

	canonicalByNorm := make(map[string]string, len(titles))
	for _, t := range titles {
		norm := title.Normalize(t.Label)
		if norm == "" {
			continue
		}
		if _, ok := canonicalByNorm[norm]; !ok {
			canonicalByNorm[norm] = t.Label
		}
	}

	out := make([]model.Lead, len(leads))
	copy(out, leads)
	changed := false
	stamp := now.UnixMilli()

	for i := range out {
		if out[i].SearchTitle == "" {
			continue
		}
		canonical, ok := canonicalByNorm[title.Normalize(out[i].SearchTitle)]
		if ok && out[i].SearchTitle != canonical {
			out[i].SearchTitle = canonical
			out[i].UpdatedAt = stamp
			changed = true
		}
	}
	return out, changed
}
