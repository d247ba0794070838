// Package store persists finished runs to SQLite or Postgres. It is a sink:
// runs are written once and never read back by the pipeline.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/config"
	"github.com/sells-group/directory-cli/internal/db"
	"github.com/sells-group/directory-cli/internal/model"
)

// Store defines the persistence interface for build runs.
type Store interface {
	// SaveRun writes the run header, its canonical rows and its errors, and
	// refreshes the latest-known row per identity key.
	SaveRun(ctx context.Context, result *model.RunResult) error

	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the store named by cfg.Driver, migrated and ready to use.
// An empty driver yields a nil Store and no error.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "":
		return nil, nil
	case "sqlite":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

// Column lists shared by both backends.
var (
	rowColumns = []string{
		"run_id", "identity_key", "team_name", "team_slug", "team_root_url",
		"team_page_url", "contact_page_url", "advisor_name", "advisor_role",
		"advisor_email", "advisor_phone", "address", "profile_url",
		"branch_seed_url", "source_pages", "source", "merged_records",
	}

	errorColumns = []string{"run_id", "stage", "target_url", "error_message"}

	latestColumns = []string{
		"identity_key", "team_name", "advisor_name", "advisor_role",
		"advisor_email", "advisor_phone", "profile_url", "last_run_id", "last_seen_at",
	}

	// latestRules fold a run into the advisors table. A person seen with a
	// new team keeps the old one too, and blank contact fields never erase
	// known values.
	latestRules = map[string]db.Rule{
		"team_name":     db.AppendDistinct,
		"advisor_role":  db.KeepNonEmpty,
		"advisor_email": db.KeepNonEmpty,
		"advisor_phone": db.KeepNonEmpty,
		"profile_url":   db.KeepNonEmpty,
	}
)

const teamSeparator = "; "

func latestSpec() db.MergeSpec {
	return db.MergeSpec{
		Table:     "advisors",
		Key:       "identity_key",
		Columns:   latestColumns,
		Rules:     latestRules,
		Separator: teamSeparator,
	}
}

const sourcePageSeparator = " | "

func rowValues(runID string, r model.CanonicalRow, pages any) []any {
	return []any{
		runID, r.IdentityKey, r.TeamName, r.TeamSlug, r.TeamRootURL,
		r.TeamPageURL, r.ContactPageURL, r.Name, r.Role,
		r.Email, r.Phone, r.Address, r.ProfileURL,
		r.SeedURL, pages, string(r.Source), r.Merged,
	}
}

func errorValues(runID string, e model.RunError) []any {
	return []any{runID, string(e.Stage), e.TargetURL, e.Message}
}

func latestValues(result *model.RunResult, r model.CanonicalRow) []any {
	return []any{
		r.IdentityKey, r.TeamName, r.Name, r.Role,
		r.Email, r.Phone, r.ProfileURL, result.RunID, result.FinishedAt.UTC(),
	}
}

func joinPages(pages []string) string {
	return strings.Join(pages, sourcePageSeparator)
}

func validateResult(result *model.RunResult) error {
	if result == nil {
		return eris.New("store: nil run result")
	}
	if result.RunID == "" {
		return eris.New("store: run result has no run id")
	}
	return nil
}
