package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/db"
	"github.com/sells-group/directory-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
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
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	started_at        TIMESTAMPTZ NOT NULL,
	finished_at       TIMESTAMPTZ NOT NULL,
	records_extracted INTEGER NOT NULL DEFAULT 0,
	row_count         INTEGER NOT NULL DEFAULT 0,
	empty_count       INTEGER NOT NULL DEFAULT 0,
	error_count       INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS advisor_rows (
	run_id           TEXT NOT NULL REFERENCES runs(id),
	identity_key     TEXT NOT NULL,
	team_name        TEXT NOT NULL DEFAULT '',
	team_slug        TEXT NOT NULL DEFAULT '',
	team_root_url    TEXT NOT NULL DEFAULT '',
	team_page_url    TEXT NOT NULL DEFAULT '',
	contact_page_url TEXT NOT NULL DEFAULT '',
	advisor_name     TEXT NOT NULL,
	advisor_role     TEXT NOT NULL DEFAULT '',
	advisor_email    TEXT NOT NULL DEFAULT '',
	advisor_phone    TEXT NOT NULL DEFAULT '',
	address          TEXT NOT NULL DEFAULT '',
	profile_url      TEXT NOT NULL DEFAULT '',
	branch_seed_url  TEXT NOT NULL DEFAULT '',
	source_pages     TEXT[] NOT NULL DEFAULT '{}',
	source           TEXT NOT NULL DEFAULT '',
	merged_records   INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (run_id, identity_key)
);

CREATE TABLE IF NOT EXISTS run_errors (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	stage         TEXT NOT NULL,
	target_url    TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS advisors (
	identity_key  TEXT PRIMARY KEY,
	team_name     TEXT NOT NULL DEFAULT '',
	advisor_name  TEXT NOT NULL,
	advisor_role  TEXT NOT NULL DEFAULT '',
	advisor_email TEXT NOT NULL DEFAULT '',
	advisor_phone TEXT NOT NULL DEFAULT '',
	profile_url   TEXT NOT NULL DEFAULT '',
	last_run_id   TEXT NOT NULL,
	last_seen_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_errors_run_id ON run_errors(run_id);
CREATE INDEX IF NOT EXISTS idx_advisors_last_run_id ON advisors(last_run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveRun writes the run header, COPYs its rows and errors and merges the
// rows into the advisors table, all in one transaction.
func (s *PostgresStore) SaveRun(ctx context.Context, result *model.RunResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, started_at, finished_at, records_extracted, row_count, empty_count, error_count) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.RunID, result.StartedAt.UTC(), result.FinishedAt.UTC(), result.Records,
		len(result.Rows), len(result.Empty), len(result.Errors),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert run %s", result.RunID)
	}

	rows := make([][]any, 0, len(result.Rows))
	for _, r := range result.Rows {
		pages := r.SourcePages
		if pages == nil {
			pages = []string{}
		}
		rows = append(rows, rowValues(result.RunID, r, pages))
	}
	if _, err := db.CopyFrom(ctx, tx, "advisor_rows", rowColumns, rows); err != nil {
		return eris.Wrap(err, "postgres: copy advisor rows")
	}

	errs := make([][]any, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, errorValues(result.RunID, e))
	}
	if _, err := db.CopyFrom(ctx, tx, "run_errors", errorColumns, errs); err != nil {
		return eris.Wrap(err, "postgres: copy run errors")
	}

	latest := make([][]any, 0, len(result.Rows))
	for _, r := range result.Rows {
		latest = append(latest, latestValues(result, r))
	}
	n, err := db.Merge(ctx, tx, latestSpec(), latest)
	if err != nil {
		return eris.Wrap(err, "postgres: merge advisors")
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit")
	}

	zap.L().Debug("postgres: saved run",
		zap.String("run_id", result.RunID),
		zap.Int("rows", len(result.Rows)),
		zap.Int("errors", len(result.Errors)),
		zap.Int64("advisors_merged", n),
	)
	return nil
}
