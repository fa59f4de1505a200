package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_Leads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT version FROM collection_versions WHERE name = \$1`).
		WithArgs("leads").
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT data FROM leads ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"data"}).
			AddRow([]byte(`{"id":"lead-1","profileUrl":"https://x.com/in/jdoe","name":"Jane Doe","updatedAt":200}`)))

	leads, version, err := s.Leads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
	require.Len(t, leads, 1)
	assert.Equal(t, "lead-1", leads[0].ID)
	assert.Equal(t, "Jane Doe", leads[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveLeads(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE collection_versions SET version = version \+ 1`).
		WithArgs("leads", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM leads`).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO leads`).
		WithArgs("lead-1", "https://x.com/in/jdoe", pgxmock.AnyArg(), int64(200)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.SaveLeads(context.Background(), []model.Lead{{
		ID:         "lead-1",
		ProfileURL: "https://x.com/in/jdoe",
		UpdatedAt:  200,
	}}, 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveLeads_VersionConflict(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE collection_versions SET version = version \+ 1`).
		WithArgs("leads", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := s.SaveLeads(context.Background(), nil, 3)
	require.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveSearchTitles(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE collection_versions SET version = version \+ 1`).
		WithArgs("search_titles", int64(0)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`DELETE FROM search_titles`).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO search_titles`).
		WithArgs("t1", "Head of Data", pgxmock.AnyArg(), int64(5)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.SaveSearchTitles(context.Background(), []model.SearchTitle{{
		ID: "t1", Label: "Head of Data", UpdatedAt: 5,
	}}, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
