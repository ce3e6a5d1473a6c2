package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/mwhydro/hydromap/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	if strings.Contains(dsn, ":memory:") {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	scheme_count INTEGER NOT NULL,
	proximity    TEXT NOT NULL,
	status_pairs TEXT NOT NULL,
	created_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS run_schemes (
	run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	name      TEXT NOT NULL,
	status    TEXT NOT NULL,
	longitude REAL NOT NULL,
	latitude  REAL NOT NULL,
	PRIMARY KEY (run_id, name)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_run_schemes_status ON run_schemes(run_id, status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run model.Run) (*model.Run, error) {
	prepareRun(&run)

	proxJSON, err := json.Marshal(run.Proximity)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal proximity")
	}
	pairsJSON, err := json.Marshal(run.StatusPairs)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal status pairs")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, scheme_count, proximity, status_pairs, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.SchemeCount, string(proxJSON), string(pairsJSON), run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert run %s", run.ID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_schemes (run_id, position, name, status, longitude, latitude) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: prepare scheme insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, sc := range run.Schemes {
		if _, err := stmt.ExecContext(ctx, run.ID, i, sc.Name, string(sc.Status), sc.Longitude, sc.Latitude); err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert scheme %q", sc.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit run")
	}
	return &run, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	var (
		r         model.Run
		proxJSON  string
		pairsJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, scheme_count, proximity, status_pairs, created_at FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.SchemeCount, &proxJSON, &pairsJSON, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrRunNotFound, "sqlite: get run %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}
	if err := decodeTables(&r, []byte(proxJSON), []byte(pairsJSON)); err != nil {
		return nil, eris.Wrap(err, "sqlite: decode run")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, status, longitude, latitude FROM run_schemes WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list schemes of run %s", id)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var sc model.Scheme
		if err := rows.Scan(&sc.Name, &sc.Status, &sc.Longitude, &sc.Latitude); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan scheme")
		}
		r.Schemes = append(r.Schemes, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate schemes")
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, scheme_count, created_at FROM runs ORDER BY created_at DESC, id LIMIT ?`
	args := []any{filter.limit()}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.SchemeCount, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.CreatedAt = r.CreatedAt.UTC()
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete run %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrRunNotFound, "sqlite: delete run %s", id)
	}
	return nil
}

// helpers

func prepareRun(run *model.Run) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.SchemeCount == 0 {
		run.SchemeCount = len(run.Schemes)
	}
}

func decodeTables(r *model.Run, proxJSON, pairsJSON []byte) error {
	if err := json.Unmarshal(proxJSON, &r.Proximity); err != nil {
		return eris.Wrap(err, "unmarshal proximity")
	}
	if err := json.Unmarshal(pairsJSON, &r.StatusPairs); err != nil {
		return eris.Wrap(err, "unmarshal status pairs")
	}
	return nil
}
