package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/db"
	"github.com/mwhydro/hydromap/internal/model"
)

// PostgresStore implements Store on PostgreSQL with PostGIS. Scheme
// locations are stored as geometry(Point, 4326).
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres connects to PostgreSQL and returns a store.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, 4)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

// Pool returns the underlying database pool.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	scheme_count INTEGER NOT NULL,
	proximity    JSONB NOT NULL,
	status_pairs JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS run_schemes (
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name     TEXT NOT NULL,
	status   TEXT NOT NULL,
	geom     geometry(Point, 4326) NOT NULL,
	PRIMARY KEY (run_id, name)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_run_schemes_geom ON run_schemes USING GIST (geom);
`

var runSchemeColumns = []string{"run_id", "position", "name", "status", "geom"}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run model.Run) (*model.Run, error) {
	prepareRun(&run)

	proxJSON, err := json.Marshal(run.Proximity)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal proximity")
	}
	pairsJSON, err := json.Marshal(run.StatusPairs)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal status pairs")
	}

	rows := make([][]any, 0, len(run.Schemes))
	for i, sc := range run.Schemes {
		point, err := encodePoint(sc.Longitude, sc.Latitude)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: encode scheme %q", sc.Name)
		}
		rows = append(rows, []any{run.ID, i, sc.Name, string(sc.Status), point})
	}

	err = db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO runs (id, scheme_count, proximity, status_pairs, created_at) VALUES ($1, $2, $3, $4, $5)`,
			run.ID, run.SchemeCount, proxJSON, pairsJSON, run.CreatedAt,
		); err != nil {
			return eris.Wrapf(err, "postgres: insert run %s", run.ID)
		}
		_, err := db.CopyRows(ctx, tx, "run_schemes", runSchemeColumns, rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Debug("run saved",
		zap.String("component", "store"),
		zap.String("run_id", run.ID),
		zap.Int("schemes", len(rows)),
	)
	return &run, nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	var (
		r         model.Run
		proxJSON  []byte
		pairsJSON []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, scheme_count, proximity, status_pairs, created_at FROM runs WHERE id = $1`, id,
	).Scan(&r.ID, &r.SchemeCount, &proxJSON, &pairsJSON, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrRunNotFound, "postgres: get run %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", id)
	}
	if err := decodeTables(&r, proxJSON, pairsJSON); err != nil {
		return nil, eris.Wrap(err, "postgres: decode run")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT name, status, ST_AsEWKB(geom) FROM run_schemes WHERE run_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list schemes of run %s", id)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sc  model.Scheme
			raw []byte
		)
		if err := rows.Scan(&sc.Name, &sc.Status, &raw); err != nil {
			return nil, eris.Wrap(err, "postgres: scan scheme")
		}
		sc.Longitude, sc.Latitude, err = decodePoint(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: decode scheme %q", sc.Name)
		}
		r.Schemes = append(r.Schemes, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate schemes")
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, scheme_count, created_at FROM runs ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		filter.limit(), max(filter.Offset, 0),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.SchemeCount, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) DeleteRun(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM runs WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete run %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrRunNotFound, "postgres: delete run %s", id)
	}
	return nil
}

// encodePoint returns the EWKB encoding of a lon/lat point with SRID 4326.
func encodePoint(lon, lat float64) ([]byte, error) {
	p := geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(4326)
	return ewkb.Marshal(p, ewkb.NDR)
}

// decodePoint parses an EWKB point.
func decodePoint(raw []byte) (float64, float64, error) {
	g, err := ewkb.Unmarshal(raw)
	if err != nil {
		return 0, 0, err
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return 0, 0, eris.Errorf("expected point, got %T", g)
	}
	return p.X(), p.Y(), nil
}
