package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id          TEXT PRIMARY KEY,
	profile_url TEXT NOT NULL,
	data        TEXT NOT NULL,
	updated_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS search_titles (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS collection_versions (
	name    TEXT PRIMARY KEY,
	version INTEGER NOT NULL DEFAULT 0
);

INSERT OR IGNORE INTO collection_versions (name, version) VALUES ('leads', 0);
INSERT OR IGNORE INTO collection_versions (name, version) VALUES ('search_titles', 0);

CREATE INDEX IF NOT EXISTS idx_leads_profile_url ON leads(profile_url);
CREATE INDEX IF NOT EXISTS idx_leads_updated_at ON leads(updated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Leads(ctx context.Context) ([]model.Lead, int64, error) {
	version, err := s.version(ctx, collectionLeads)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM leads ORDER BY rowid`)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: scan lead")
		}
		var lead model.Lead
		if err := json.Unmarshal([]byte(data), &lead); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: unmarshal lead")
		}
		lead.Normalize()
		leads = append(leads, lead)
	}
	return leads, version, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) SaveLeads(ctx context.Context, leads []model.Lead, expectedVersion int64) error {
	return s.replace(ctx, collectionLeads, expectedVersion, "leads", len(leads), func(tx *sql.Tx, i int) error {
		data, err := json.Marshal(leads[i])
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal lead")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO leads (id, profile_url, data, updated_at) VALUES (?, ?, ?, ?)`,
			leads[i].ID, leads[i].ProfileURL, string(data), leads[i].UpdatedAt,
		)
		return eris.Wrap(err, "sqlite: insert lead")
	})
}

func (s *SQLiteStore) SearchTitles(ctx context.Context) ([]model.SearchTitle, int64, error) {
	version, err := s.version(ctx, collectionTitles)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM search_titles ORDER BY rowid`)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: list search titles")
	}
	defer rows.Close()

	var titles []model.SearchTitle
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: scan search title")
		}
		var st model.SearchTitle
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: unmarshal search title")
		}
		titles = append(titles, st)
	}
	return titles, version, eris.Wrap(rows.Err(), "sqlite: list search titles iterate")
}

func (s *SQLiteStore) SaveSearchTitles(ctx context.Context, titles []model.SearchTitle, expectedVersion int64) error {
	return s.replace(ctx, collectionTitles, expectedVersion, "search_titles", len(titles), func(tx *sql.Tx, i int) error {
		data, err := json.Marshal(titles[i])
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal search title")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO search_titles (id, label, data, updated_at) VALUES (?, ?, ?, ?)`,
			titles[i].ID, titles[i].Label, string(data), titles[i].UpdatedAt,
		)
		return eris.Wrap(err, "sqlite: insert search title")
	})
}

func (s *SQLiteStore) version(ctx context.Context, name string) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM collection_versions WHERE name = ?`, name,
	).Scan(&version)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: version of %s", name)
	}
	return version, nil
}

// replace swaps out a whole collection inside one transaction. The
// version stamp is bumped with a compare-and-set; zero rows affected
// means another writer got there first.
func (s *SQLiteStore) replace(ctx context.Context, name string, expectedVersion int64, table string, n int, insert func(tx *sql.Tx, i int) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE collection_versions SET version = version + 1 WHERE name = ? AND version = ?`,
		name, expectedVersion,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: bump version of %s", name)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if affected == 0 {
		return ErrVersionConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return eris.Wrapf(err, "sqlite: clear %s", table)
	}
	for i := 0; i < n; i++ {
		if err := insert(tx, i); err != nil {
			return err
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}
