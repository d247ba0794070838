// Package pipeline runs discovery and extraction one seed and one target at a
// time, capturing every failure against the URL that raised it.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/config"
	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/reconcile"
	"github.com/sells-group/directory-cli/internal/scrape"
	"github.com/sells-group/directory-cli/internal/site"
)

// Run is the context of one batch: its ID, its fetcher and page cache, and
// the strategy table. A Run is not safe for concurrent use.
type Run struct {
	ID        string
	StartedAt time.Time

	cfg      *config.Config
	registry *site.Registry
	env      *site.Env
}

// NewRun creates a run. A nil fetcher gets an HTTPFetcher built from
// cfg.Fetch.
func NewRun(cfg *config.Config, f fetcher.Fetcher) (*Run, error) {
	reg, err := site.NewRegistry(SiteConfig(cfg.Sites))
	if err != nil {
		return nil, err
	}
	if f == nil {
		f = fetcher.New(FetchOptions(cfg.Fetch))
	}
	return &Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		cfg:       cfg,
		registry:  reg,
		env: &site.Env{
			Fetcher:        f,
			Exclude:        scrape.NewPathMatcher(cfg.Discover.ExcludePaths),
			FollowSubpages: cfg.Build.FollowSubpages,
		},
	}, nil
}

// FetchOptions maps fetch settings onto fetcher options.
func FetchOptions(c config.FetchConfig) fetcher.Options {
	return fetcher.Options{
		UserAgent:       c.UserAgent,
		Timeout:         time.Duration(c.TimeoutSecs) * time.Second,
		MaxAttempts:     c.MaxAttempts,
		BackoffStep:     time.Duration(c.BackoffStepMs) * time.Millisecond,
		PolitenessDelay: c.PolitenessDelay,
		CacheMaxEntries: c.CacheMaxEntries,
		MaxBodyBytes:    c.MaxBodyBytes,
	}
}

// SiteConfig maps site settings onto the strategy table config.
func SiteConfig(c config.SitesConfig) site.Config {
	return site.Config{
		Hosts: site.HostConfig{
			Directory: c.Directory.Hosts,
			Roster:    c.Roster.Hosts,
			Hub:       c.Hub.Hosts,
		},
		RosterPattern: c.Roster.PathPattern,
		HubPath:       c.Hub.HubPath,
	}
}

// Registry exposes the run's strategy table.
func (r *Run) Registry() *site.Registry {
	return r.registry
}

// Discover turns seeds into targets, one seed at a time. A failing seed is
// recorded and skipped. Targets are deduplicated across seeds by URL and
// kind, first seen wins.
func (r *Run) Discover(ctx context.Context, seeds []string) ([]model.DiscoveryTarget, []model.RunError) {
	var (
		targets []model.DiscoveryTarget
		errs    []model.RunError
	)
	seen := make(map[string]bool)

	for i, seed := range seeds {
		if ctx.Err() != nil {
			errs = append(errs, runError(model.StageDiscover, seed, ctx.Err()))
			continue
		}
		family := r.registry.Classify(seed)
		log := zap.L().With(
			zap.String("run_id", r.ID),
			zap.String("seed", seed),
			zap.String("family", string(family)),
		)
		log.Info("pipeline: discovering seed", zap.Int("seed_index", i+1), zap.Int("seeds", len(seeds)))

		found, err := r.registry.For(family).Discover(ctx, r.env, seed)
		if err != nil {
			log.Error("pipeline: discovery failed", zap.Error(err))
			errs = append(errs, runError(model.StageDiscover, seed, err))
			continue
		}

		added := 0
		for _, t := range found {
			if seen[t.Key()] {
				continue
			}
			seen[t.Key()] = true
			targets = append(targets, t)
			added++
		}
		log.Info("pipeline: seed discovered", zap.Int("targets", added))
	}
	return targets, errs
}

// Build extracts people from the included targets, capped at
// build.max_targets, and reconciles them into canonical rows.
func (r *Run) Build(ctx context.Context, targets []model.DiscoveryTarget) *model.RunResult {
	list := model.TargetList{Targets: targets}
	work := list.Included(r.cfg.Build.MaxTargets)
	if skipped := len(list.Included(0)) - len(work); skipped > 0 {
		zap.L().Warn("pipeline: target cap reached",
			zap.Int("max_targets", r.cfg.Build.MaxTargets),
			zap.Int("skipped", skipped),
		)
	}

	result := &model.RunResult{
		RunID:     r.ID,
		StartedAt: r.StartedAt,
		Errors:    []model.RunError{},
	}
	var records []model.PersonRecord

	for i, t := range work {
		outcome := model.TargetOutcome{Target: t}
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, runError(model.StageExtract, t.TargetURL, ctx.Err()))
			outcome.Failed = true
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		family := t.Family
		if !family.Valid() {
			family = r.registry.Classify(t.TargetURL)
		}
		log := zap.L().With(
			zap.String("run_id", r.ID),
			zap.String("url", t.TargetURL),
			zap.String("family", string(family)),
		)
		log.Info("pipeline: extracting target", zap.Int("target_index", i+1), zap.Int("targets", len(work)))

		ex, err := r.registry.For(family).Extract(ctx, r.env, t)
		if err != nil {
			log.Error("pipeline: extraction failed", zap.Error(err))
			result.Errors = append(result.Errors, runError(model.StageExtract, t.TargetURL, err))
			outcome.Failed = true
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		page := ex.SourcePage
		if len(ex.Pages) > 0 {
			page = ex.Pages[0]
		}
		for _, p := range ex.People {
			p.SeedURL = t.SeedURL
			if p.SourcePage == "" {
				p.SourcePage = page
			}
			records = append(records, p)
		}
		if len(ex.People) == 0 {
			log.Info("pipeline: no people found")
			result.Empty = append(result.Empty, placeholder(t, ex))
		}

		outcome.SourcePage = ex.SourcePage
		outcome.TeamName = ex.TeamName
		outcome.Records = len(ex.People)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.Records = len(records)
	result.Rows = reconcile.Reconcile(records, reconcile.Options{DropNoContact: r.cfg.Build.DropNoContact})
	result.FinishedAt = time.Now().UTC()

	zap.L().Info("pipeline: build complete",
		zap.String("run_id", r.ID),
		zap.Int("targets", len(work)),
		zap.Int("records", result.Records),
		zap.Int("rows", len(result.Rows)),
		zap.Int("no_people_found", len(result.Empty)),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}

// placeholder is the extended-schema row for a target that yielded nobody.
func placeholder(t model.DiscoveryTarget, ex *site.Extraction) model.CanonicalRow {
	return model.CanonicalRow{
		IdentityKey:    "none:" + t.TargetURL,
		TeamName:       ex.TeamName,
		TeamSlug:       ex.TeamSlug,
		TeamRootURL:    ex.TeamRootURL,
		TeamPageURL:    ex.TeamPageURL,
		ContactPageURL: ex.ContactPageURL,
		SeedURL:        t.SeedURL,
		SourcePages:    []string{ex.SourcePage},
		Source:         model.SourceNoPeopleFound,
	}
}

func runError(stage model.Stage, url string, err error) model.RunError {
	return model.RunError{Stage: stage, TargetURL: url, Message: err.Error()}
}
