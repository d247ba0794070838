package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
)

// Rule says how an incoming value meets the stored one when keys collide.
type Rule int

const (
	// Replace takes the incoming value.
	Replace Rule = iota
	// KeepNonEmpty takes the incoming value unless it is the empty string.
	KeepNonEmpty
	// AppendDistinct treats the stored value as a Separator-joined list and
	// appends the incoming value unless the list already holds it.
	AppendDistinct
)

// MergeSpec describes a keyed merge of staged rows into Table.
type MergeSpec struct {
	Table     string // optionally schema-qualified
	Key       string // unique column rows are matched on
	Columns   []string
	Rules     map[string]Rule // columns without a rule are replaced
	Separator string          // list separator for AppendDistinct
}

// Tx is the part of a pgx transaction Merge uses.
type Tx interface {
	Copier
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Merge COPYs rows into a staging table that is dropped at commit, then folds
// them into spec.Table with INSERT ... ON CONFLICT. It runs inside the
// caller's transaction. Rows must carry distinct keys.
func Merge(ctx context.Context, tx Tx, spec MergeSpec, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := spec.validate(); err != nil {
		return 0, err
	}

	stage := spec.stageTable()
	createSQL := fmt.Sprintf(
		"CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		pgx.Identifier{stage}.Sanitize(),
		identifier(spec.Table).Sanitize(),
	)
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return 0, eris.Wrapf(err, "db: merge: stage %s", spec.Table)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{stage}, spec.Columns, pgx.CopyFromRows(rows)); err != nil {
		return 0, eris.Wrapf(err, "db: merge: COPY into stage for %s", spec.Table)
	}

	tag, err := tx.Exec(ctx, spec.mergeSQL(stage))
	if err != nil {
		return 0, eris.Wrapf(err, "db: merge: INSERT ON CONFLICT for %s", spec.Table)
	}
	return tag.RowsAffected(), nil
}

func (s MergeSpec) validate() error {
	if len(s.Columns) == 0 {
		return eris.New("db: merge: no columns specified")
	}
	if s.Key == "" {
		return eris.New("db: merge: no key specified")
	}
	for _, c := range s.Columns {
		if c == s.Key {
			return nil
		}
	}
	return eris.Errorf("db: merge: key %q is not among the columns", s.Key)
}

func (s MergeSpec) stageTable() string {
	return "_stage_" + strings.ReplaceAll(s.Table, ".", "_")
}

// mergeSQL renders the statement folding stage into the target, aliased t.
func (s MergeSpec) mergeSQL(stage string) string {
	cols := make([]string, len(s.Columns))
	var sets []string
	for i, c := range s.Columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
		if c != s.Key {
			sets = append(sets, s.setClause(c))
		}
	}
	colList := strings.Join(cols, ", ")
	key := pgx.Identifier{s.Key}.Sanitize()

	action := "DO NOTHING"
	if len(sets) > 0 {
		action = "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return fmt.Sprintf(
		"INSERT INTO %s AS t (%s) SELECT %s FROM %s ON CONFLICT (%s) %s",
		identifier(s.Table).Sanitize(), colList, colList,
		pgx.Identifier{stage}.Sanitize(), key, action,
	)
}

func (s MergeSpec) setClause(col string) string {
	c := pgx.Identifier{col}.Sanitize()
	in, cur := "EXCLUDED."+c, "t."+c
	switch s.Rules[col] {
	case KeepNonEmpty:
		return fmt.Sprintf("%s = COALESCE(NULLIF(%s, ''), %s)", c, in, cur)
	case AppendDistinct:
		sep := quoteLiteral(s.Separator)
		return fmt.Sprintf(
			"%[1]s = CASE WHEN %[2]s = '' OR position(%[4]s || %[2]s || %[4]s IN %[4]s || %[3]s || %[4]s) > 0 THEN %[3]s"+
				" WHEN %[3]s = '' THEN %[2]s ELSE %[3]s || %[4]s || %[2]s END",
			c, in, cur, sep,
		)
	default:
		return fmt.Sprintf("%s = %s", c, in)
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
