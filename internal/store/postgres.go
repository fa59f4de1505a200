package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock
// implements it for tests.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool, mock pools included.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id          TEXT PRIMARY KEY,
	profile_url TEXT NOT NULL,
	data        JSONB NOT NULL,
	updated_at  BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS search_titles (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	data       JSONB NOT NULL,
	updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS collection_versions (
	name    TEXT PRIMARY KEY,
	version BIGINT NOT NULL DEFAULT 0
);

INSERT INTO collection_versions (name, version) VALUES ('leads', 0)
	ON CONFLICT (name) DO NOTHING;
INSERT INTO collection_versions (name, version) VALUES ('search_titles', 0)
	ON CONFLICT (name) DO NOTHING;

CREATE INDEX IF NOT EXISTS idx_leads_profile_url ON leads(profile_url);
CREATE INDEX IF NOT EXISTS idx_leads_updated_at ON leads(updated_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Leads(ctx context.Context) ([]model.Lead, int64, error) {
	version, err := s.version(ctx, collectionLeads)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `SELECT data FROM leads ORDER BY id`)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, 0, eris.Wrap(err, "postgres: scan lead")
		}
		var lead model.Lead
		if err := json.Unmarshal(data, &lead); err != nil {
			return nil, 0, eris.Wrap(err, "postgres: unmarshal lead")
		}
		lead.Normalize()
		leads = append(leads, lead)
	}
	return leads, version, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func (s *PostgresStore) SaveLeads(ctx context.Context, leads []model.Lead, expectedVersion int64) error {
	return s.replace(ctx, collectionLeads, expectedVersion, "leads", len(leads), func(tx pgx.Tx, i int) error {
		data, err := json.Marshal(leads[i])
		if err != nil {
			return eris.Wrap(err, "postgres: marshal lead")
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO leads (id, profile_url, data, updated_at) VALUES ($1, $2, $3, $4)`,
			leads[i].ID, leads[i].ProfileURL, data, leads[i].UpdatedAt,
		)
		return eris.Wrap(err, "postgres: insert lead")
	})
}

func (s *PostgresStore) SearchTitles(ctx context.Context) ([]model.SearchTitle, int64, error) {
	version, err := s.version(ctx, collectionTitles)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `SELECT data FROM search_titles ORDER BY id`)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: list search titles")
	}
	defer rows.Close()

	var titles []model.SearchTitle
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, 0, eris.Wrap(err, "postgres: scan search title")
		}
		var st model.SearchTitle
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, 0, eris.Wrap(err, "postgres: unmarshal search title")
		}
		titles = append(titles, st)
	}
	return titles, version, eris.Wrap(rows.Err(), "postgres: list search titles iterate")
}

func (s *PostgresStore) SaveSearchTitles(ctx context.Context, titles []model.SearchTitle, expectedVersion int64) error {
	return s.replace(ctx, collectionTitles, expectedVersion, "search_titles", len(titles), func(tx pgx.Tx, i int) error {
		data, err := json.Marshal(titles[i])
		if err != nil {
			return eris.Wrap(err, "postgres: marshal search title")
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO search_titles (id, label, data, updated_at) VALUES ($1, $2, $3, $4)`,
			titles[i].ID, titles[i].Label, data, titles[i].UpdatedAt,
		)
		return eris.Wrap(err, "postgres: insert search title")
	})
}

func (s *PostgresStore) version(ctx context.Context, name string) (int64, error) {
	var version int64
	err := s.pool.QueryRow(ctx,
		`SELECT version FROM collection_versions WHERE name = $1`, name,
	).Scan(&version)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: version of %s", name)
	}
	return version, nil
}

func (s *PostgresStore) replace(ctx context.Context, name string, expectedVersion int64, table string, n int, insert func(tx pgx.Tx, i int) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE collection_versions SET version = version + 1 WHERE name = $1 AND version = $2`,
		name, expectedVersion,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: bump version of %s", name)
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}

	if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
		return eris.Wrapf(err, "postgres: clear %s", table)
	}
	for i := 0; i < n; i++ {
		if err := insert(tx, i); err != nil {
			return err
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}
