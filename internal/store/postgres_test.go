package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS runs`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	result := sampleResult("run-1")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs("run-1", pgxmock.AnyArg(), pgxmock.AnyArg(), 4, 2, 1, 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"advisor_rows"}, rowColumns).WillReturnResult(2)
	mock.ExpectCopyFrom(pgx.Identifier{"run_errors"}, errorColumns).WillReturnResult(1)
	mock.ExpectExec(`CREATE TEMP TABLE "_stage_advisors"`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_advisors"}, latestColumns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "advisors" AS t .* "team_name" = CASE WHEN .* "advisor_email" = COALESCE\(NULLIF`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	require.NoError(t, s.SaveRun(context.Background(), result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun_NoRows(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	result := sampleResult("run-2")
	result.Rows = nil
	result.Errors = nil

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO runs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveRun(context.Background(), result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun_InsertRunFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO runs`).WillReturnError(fmt.Errorf("duplicate key"))
	mock.ExpectRollback()

	err := s.SaveRun(context.Background(), sampleResult("run-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert run run-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun_CopyFails(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO runs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"advisor_rows"}, rowColumns).WillReturnError(fmt.Errorf("connection reset"))
	mock.ExpectRollback()

	err := s.SaveRun(context.Background(), sampleResult("run-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy advisor rows")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRun_MergeFailsRollsBack(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO runs`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"advisor_rows"}, rowColumns).WillReturnResult(2)
	mock.ExpectCopyFrom(pgx.Identifier{"run_errors"}, errorColumns).WillReturnResult(1)
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_advisors"}, latestColumns).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "advisors"`).WillReturnError(fmt.Errorf("deadlock detected"))
	mock.ExpectRollback()

	err := s.SaveRun(context.Background(), sampleResult("run-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge advisors")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Close(t *testing.T) {
	called := false
	s := &PostgresStore{closeFn: func() { called = true }}
	require.NoError(t, s.Close())
	assert.True(t, called)
}
