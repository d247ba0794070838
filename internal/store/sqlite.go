package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/directory-cli/internal/db"
	"github.com/sells-group/directory-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: conn}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	started_at        DATETIME NOT NULL,
	finished_at       DATETIME NOT NULL,
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
	source_pages     TEXT NOT NULL DEFAULT '',
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
	last_seen_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_errors_run_id ON run_errors(run_id);
CREATE INDEX IF NOT EXISTS idx_advisors_last_run_id ON advisors(last_run_id);
`

// sqliteUpsertLatest applies latestRules with SQLite's ON CONFLICT.
var sqliteUpsertLatest = sqliteUpsertSQL(latestSpec())

func sqliteUpsertSQL(spec db.MergeSpec) string {
	var sets []string
	for _, c := range spec.Columns {
		if c == spec.Key {
			continue
		}
		in, cur := "excluded."+c, spec.Table+"."+c
		switch spec.Rules[c] {
		case db.KeepNonEmpty:
			sets = append(sets, fmt.Sprintf("%s = COALESCE(NULLIF(%s, ''), %s)", c, in, cur))
		case db.AppendDistinct:
			sep := "'" + strings.ReplaceAll(spec.Separator, "'", "''") + "'"
			sets = append(sets, fmt.Sprintf(
				"%[1]s = CASE WHEN %[2]s = '' OR instr(%[4]s || %[3]s || %[4]s, %[4]s || %[2]s || %[4]s) > 0 THEN %[3]s"+
					" WHEN %[3]s = '' THEN %[2]s ELSE %[3]s || %[4]s || %[2]s END",
				c, in, cur, sep,
			))
		default:
			sets = append(sets, fmt.Sprintf("%s = %s", c, in))
		}
	}
	return insertSQL(spec.Table, spec.Columns) +
		" ON CONFLICT (" + spec.Key + ") DO UPDATE SET " + strings.Join(sets, ", ")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, result *model.RunResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, records_extracted, row_count, empty_count, error_count) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.StartedAt.UTC(), result.FinishedAt.UTC(), result.Records,
		len(result.Rows), len(result.Empty), len(result.Errors),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert run %s", result.RunID)
	}

	if err := execEach(ctx, tx, insertSQL("advisor_rows", rowColumns), len(result.Rows), func(i int) []any {
		r := result.Rows[i]
		return rowValues(result.RunID, r, joinPages(r.SourcePages))
	}); err != nil {
		return eris.Wrap(err, "sqlite: insert advisor rows")
	}

	if err := execEach(ctx, tx, insertSQL("run_errors", errorColumns), len(result.Errors), func(i int) []any {
		return errorValues(result.RunID, result.Errors[i])
	}); err != nil {
		return eris.Wrap(err, "sqlite: insert run errors")
	}

	if err := execEach(ctx, tx, sqliteUpsertLatest, len(result.Rows), func(i int) []any {
		return latestValues(result, result.Rows[i])
	}); err != nil {
		return eris.Wrap(err, "sqlite: upsert advisors")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// execEach prepares query once and executes it n times with args(i).
func execEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close() //nolint:errcheck

	for i := range n {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

func insertSQL(table string, columns []string) string {
	marks := make([]string, len(columns))
	for i := range marks {
		marks[i] = "?"
	}
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
}
