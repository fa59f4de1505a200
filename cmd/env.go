package main

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadtrack-cli/internal/reconcile"
	"github.com/sells-group/leadtrack-cli/internal/remote"
	"github.com/sells-group/leadtrack-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.Path)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// initSession builds a reconciliation session resolving against the
// stored search titles.
func initSession(ctx context.Context, st store.Store) (*reconcile.Session, error) {
	titles, _, err := st.SearchTitles(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load search titles")
	}
	rec := reconcile.New(titles)
	return reconcile.NewSession(rec, st,
		reconcile.WithRateLimit(rate.Limit(cfg.Capture.RatePerSec), cfg.Capture.Burst)), nil
}

func initRemote() (remote.Client, error) {
	if cfg.Remote.URL == "" {
		return nil, eris.New("remote sync is not configured (LEADTRACK_REMOTE_URL)")
	}
	return remote.NewClient(cfg.Remote.URL, cfg.Remote.APIKey), nil
}
