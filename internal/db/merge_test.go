package db

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advisorsSpec() MergeSpec {
	return MergeSpec{
		Table:   "advisors",
		Key:     "identity_key",
		Columns: []string{"identity_key", "team_name", "advisor_email", "last_run_id"},
		Rules: map[string]Rule{
			"team_name":     AppendDistinct,
			"advisor_email": KeepNonEmpty,
		},
		Separator: "; ",
	}
}

func TestMerge_EmptyRows(t *testing.T) {
	n, err := Merge(context.TODO(), nil, advisorsSpec(), nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestMergeSpec_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MergeSpec)
		want   string
	}{
		{"no columns", func(s *MergeSpec) { s.Columns = nil }, "no columns specified"},
		{"no key", func(s *MergeSpec) { s.Key = "" }, "no key specified"},
		{"key not a column", func(s *MergeSpec) { s.Key = "id" }, `key "id" is not among the columns`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := advisorsSpec()
			tt.mutate(&spec)
			_, err := Merge(context.TODO(), nil, spec, [][]any{{"email:a@x.com", "A", "", "r1"}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMergeSpec_SQL(t *testing.T) {
	got := advisorsSpec().mergeSQL("_stage_advisors")

	assert.Contains(t, got, `INSERT INTO "advisors" AS t ("identity_key", "team_name", "advisor_email", "last_run_id") SELECT`)
	assert.Contains(t, got, `FROM "_stage_advisors" ON CONFLICT ("identity_key") DO UPDATE SET`)
	assert.Contains(t, got, `"advisor_email" = COALESCE(NULLIF(EXCLUDED."advisor_email", ''), t."advisor_email")`)
	assert.Contains(t, got, `"last_run_id" = EXCLUDED."last_run_id"`)
	assert.Contains(t, got, `position('; ' || EXCLUDED."team_name" || '; ' IN '; ' || t."team_name" || '; ') > 0 THEN t."team_name"`)
	assert.Contains(t, got, `ELSE t."team_name" || '; ' || EXCLUDED."team_name" END`)
	assert.NotContains(t, got, `"identity_key" = EXCLUDED`)
}

func TestMergeSpec_KeyOnlyDoesNothing(t *testing.T) {
	spec := MergeSpec{Table: "directory.seen", Key: "identity_key", Columns: []string{"identity_key"}}
	got := spec.mergeSQL(spec.stageTable())
	assert.Equal(t, `INSERT INTO "directory"."seen" AS t ("identity_key") SELECT "identity_key" FROM "_stage_directory_seen" ON CONFLICT ("identity_key") DO NOTHING`, got)
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `'; '`, quoteLiteral("; "))
	assert.Equal(t, `'it''s'`, quoteLiteral("it's"))
}

func TestMerge_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	spec := advisorsSpec()
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_stage_advisors" \(LIKE "advisors" INCLUDING DEFAULTS\) ON COMMIT DROP`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_advisors"}, spec.Columns).WillReturnResult(2)
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT ("identity_key") DO UPDATE SET "team_name" = CASE`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := mock.Begin(ctx)
	require.NoError(t, err)
	n, err := Merge(ctx, tx, spec, [][]any{
		{"email:jane@x.com", "Smith Group", "jane@x.com", "r1"},
		{"email:john@x.com", "Lee Team", "", "r1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, tx.Commit(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerge_CopyError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	spec := advisorsSpec()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_stage_advisors"}, spec.Columns).WillReturnError(fmt.Errorf("disk full"))

	_, err = Merge(context.Background(), mock, spec, [][]any{{"email:jane@x.com", "Smith Group", "", "r1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into stage for advisors")
	assert.NoError(t, mock.ExpectationsWereMet())
}
