package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhydro/hydromap/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE EXTENSION IF NOT EXISTS postgis`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run := sampleRun()
	run.ID = "run-1"

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs("run-1", 2, pgxmock.AnyArg(), pgxmock.AnyArg(), run.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"run_schemes"}, runSchemeColumns).WillReturnResult(2)
	mock.ExpectCommit()

	saved, err := s.SaveRun(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, "run-1", saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun_CopyFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO runs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"run_schemes"}, runSchemeColumns).WillReturnError(errors.New("geometry mismatch"))
	mock.ExpectRollback()

	_, err := s.SaveRun(context.Background(), sampleRun())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO run_schemes")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	run := sampleRun()

	proxJSON, err := json.Marshal(run.Proximity)
	require.NoError(t, err)
	pairsJSON, err := json.Marshal(run.StatusPairs)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, scheme_count, proximity, status_pairs, created_at FROM runs WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "scheme_count", "proximity", "status_pairs", "created_at"}).
			AddRow("run-1", 2, proxJSON, pairsJSON, run.CreatedAt))

	schemeRows := pgxmock.NewRows([]string{"name", "status", "geom"})
	for _, sc := range run.Schemes {
		raw, err := encodePoint(sc.Longitude, sc.Latitude)
		require.NoError(t, err)
		schemeRows.AddRow(sc.Name, sc.Status, raw)
	}
	mock.ExpectQuery(`SELECT name, status, ST_AsEWKB\(geom\) FROM run_schemes`).
		WithArgs("run-1").
		WillReturnRows(schemeRows)

	got, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Schemes, got.Schemes)
	assert.Equal(t, run.Proximity, got.Proximity)
	assert.Equal(t, run.StatusPairs, got.StatusPairs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM runs WHERE id = \$1`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	created := sampleRun().CreatedAt

	mock.ExpectQuery(`SELECT id, scheme_count, created_at FROM runs ORDER BY created_at DESC`).
		WithArgs(DefaultListLimit, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "scheme_count", "created_at"}).
			AddRow("run-2", 8, created).
			AddRow("run-1", 3, created))

	runs, err := s.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, model.Run{ID: "run-2", SchemeCount: 8, CreatedAt: created}, runs[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM runs WHERE id = \$1`).
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteRun(context.Background(), "gone")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEncodeDecodePoint(t *testing.T) {
	raw, err := encodePoint(34.76, -15.52)
	require.NoError(t, err)

	lon, lat, err := decodePoint(raw)
	require.NoError(t, err)
	assert.Equal(t, 34.76, lon)
	assert.Equal(t, -15.52, lat)

	_, _, err = decodePoint([]byte{0x01})
	assert.Error(t, err)
}
