// Package store persists the lead and search-title collections. The
// engine treats each collection as a unit: load the whole thing, work
// on it in memory, write the whole thing back. Writes carry the version
// stamp observed at load time; a mismatched stamp fails the write so a
// concurrent writer is never silently overwritten.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

// ErrVersionConflict is returned by Save calls whose expected version
// no longer matches the stored stamp.
var ErrVersionConflict = eris.New("store: version conflict")

// Collection names used for version stamping.
const (
	collectionLeads  = "leads"
	collectionTitles = "search_titles"
)

// Store is the persistence interface for the lead tracker.
type Store interface {
	// Leads returns the full lead collection and its version stamp.
	Leads(ctx context.Context) ([]model.Lead, int64, error)
	// SaveLeads replaces the lead collection. The write succeeds only
	// when expectedVersion matches the stored stamp.
	SaveLeads(ctx context.Context, leads []model.Lead, expectedVersion int64) error

	SearchTitles(ctx context.Context) ([]model.SearchTitle, int64, error)
	SaveSearchTitles(ctx context.Context, titles []model.SearchTitle, expectedVersion int64) error

	Migrate(ctx context.Context) error
	Close() error
}
