// Package site dispatches discovery and extraction to one strategy per site
// family. Each strategy turns a seed into targets and a target into people.
package site

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/extract"
	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/scrape"
	"github.com/sells-group/directory-cli/internal/weblink"
)

// Default family settings.
const (
	DefaultDirectoryHost = "ca.rbcwealthmanagement.com"
	DefaultRosterHost    = "nbfwm.ca"
	DefaultHubHost       = "woodgundyadvisors.cibc.com"
	DefaultRosterPattern = `(?i)^/(en/|fr/)?advisor/[a-z0-9-]+/(our-team|notre-equipe)(\.html)?/?$`
	DefaultHubPath       = "our-investment-advisors-and-their-teams"
)

var (
	teamPageRe    = regexp.MustCompile(`(?i)\b(our team|notre équipe|team members|membres de l['’ ]équipe)\b`)
	contactPageRe = regexp.MustCompile(`(?i)\b(contact|contactez-nous|nous joindre|communiqu|communicat)`)
)

// HostConfig lists host suffixes per family.
type HostConfig struct {
	Directory []string `mapstructure:"directory"`
	Roster    []string `mapstructure:"roster"`
	Hub       []string `mapstructure:"hub"`
}

// Config configures the strategy table.
type Config struct {
	Hosts         HostConfig
	RosterPattern string
	HubPath       string
}

// DefaultConfig returns the built-in host table and family settings.
func DefaultConfig() Config {
	return Config{
		Hosts: HostConfig{
			Directory: []string{DefaultDirectoryHost},
			Roster:    []string{DefaultRosterHost},
			Hub:       []string{DefaultHubHost},
		},
		RosterPattern: DefaultRosterPattern,
		HubPath:       DefaultHubPath,
	}
}

// ClassifyHost maps a URL to its site family by host suffix. Unknown hosts
// are FamilyGeneric.
func ClassifyHost(u string, hosts HostConfig) model.SiteFamily {
	host := weblink.Host(u)
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	switch {
	case hostMatches(host, hosts.Directory):
		return model.FamilyDirectory
	case hostMatches(host, hosts.Roster):
		return model.FamilyRoster
	case hostMatches(host, hosts.Hub):
		return model.FamilyHub
	}
	return model.FamilyGeneric
}

func hostMatches(host string, suffixes []string) bool {
	if host == "" {
		return false
	}
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && (host == s || strings.HasSuffix(host, "."+s)) {
			return true
		}
	}
	return false
}

// Env is what a strategy needs from the run: the run's fetcher and the
// discovery exclusion rules.
type Env struct {
	Fetcher fetcher.Fetcher
	Exclude *scrape.PathMatcher
	// FollowSubpages lets the hub family probe team and contact subpages.
	FollowSubpages bool
}

func (e *Env) excluded(u string) bool {
	return e.Exclude != nil && e.Exclude.IsExcluded(u)
}

// Extraction is what one target yielded.
type Extraction struct {
	// SourcePage is the post-redirect URL of the target page.
	SourcePage  string
	TeamName    string
	TeamRootURL string
	TeamSlug    string
	// TeamPageURL and ContactPageURL are the team site's resolved subpages,
	// empty when the family has none.
	TeamPageURL    string
	ContactPageURL string
	// Pages lists every page the people were read from.
	Pages  []string
	People []model.PersonRecord
}

// Strategy is the discover/extract capability pair of one site family.
type Strategy interface {
	Family() model.SiteFamily
	Discover(ctx context.Context, env *Env, seed string) ([]model.DiscoveryTarget, error)
	Extract(ctx context.Context, env *Env, target model.DiscoveryTarget) (*Extraction, error)
}

// Registry is the dispatch table keyed by site family.
type Registry struct {
	cfg        Config
	strategies map[model.SiteFamily]Strategy
}

// NewRegistry builds the strategy table for cfg.
func NewRegistry(cfg Config) (*Registry, error) {
	def := DefaultConfig()
	if cfg.RosterPattern == "" {
		cfg.RosterPattern = def.RosterPattern
	}
	if cfg.HubPath == "" {
		cfg.HubPath = def.HubPath
	}
	pattern, err := regexp.Compile(cfg.RosterPattern)
	if err != nil {
		return nil, eris.Wrapf(err, "site: compile roster pattern %q", cfg.RosterPattern)
	}

	generic := &Generic{}
	return &Registry{
		cfg: cfg,
		strategies: map[model.SiteFamily]Strategy{
			model.FamilyDirectory: &Directory{fallback: generic},
			model.FamilyRoster:    &Roster{pattern: pattern, fallback: generic},
			model.FamilyHub:       &Hub{hubPath: strings.ToLower(cfg.HubPath), fallback: generic},
			model.FamilyGeneric:   generic,
		},
	}, nil
}

// Classify returns the family for u.
func (r *Registry) Classify(u string) model.SiteFamily {
	return ClassifyHost(u, r.cfg.Hosts)
}

// For returns the strategy for family, falling back to the generic one.
func (r *Registry) For(family model.SiteFamily) Strategy {
	if s, ok := r.strategies[family]; ok {
		return s
	}
	return r.strategies[model.FamilyGeneric]
}

// Config returns the table's settings with defaults applied.
func (r *Registry) Config() Config {
	return r.cfg
}

// HostsFor returns the hosts mapped to family. The generic family has none;
// it takes every host the others do not claim.
func (r *Registry) HostsFor(family model.SiteFamily) []string {
	switch family {
	case model.FamilyDirectory:
		return r.cfg.Hosts.Directory
	case model.FamilyRoster:
		return r.cfg.Hosts.Roster
	case model.FamilyHub:
		return r.cfg.Hosts.Hub
	}
	return nil
}

// fetchDoc fetches u and parses it against its final URL.
func fetchDoc(ctx context.Context, env *Env, u string) (*goquery.Document, *fetcher.Page, error) {
	page, err := env.Fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	doc, err := extract.Parse(page.HTML, page.FinalURL)
	if err != nil {
		return nil, nil, err
	}
	return doc, page, nil
}

// dedupeTargets keeps the first target per (url, kind).
func dedupeTargets(in []model.DiscoveryTarget) []model.DiscoveryTarget {
	seen := make(map[string]bool, len(in))
	out := make([]model.DiscoveryTarget, 0, len(in))
	for _, t := range in {
		if seen[t.Key()] {
			continue
		}
		seen[t.Key()] = true
		out = append(out, t)
	}
	return out
}

// withFallback runs the generic extractor when a family extractor found
// nobody.
func withFallback(family model.SiteFamily, doc *goquery.Document, pageURL string, people []model.PersonRecord) []model.PersonRecord {
	if len(people) > 0 {
		return people
	}
	zap.L().Debug("family extractor found nobody, using generic fallback",
		zap.String("family", string(family)),
		zap.String("url", pageURL),
	)
	return extract.Generic(doc)
}

// annotate stamps the extraction's team context on records that lack it.
func annotate(people []model.PersonRecord, ex *Extraction) {
	for i := range people {
		p := &people[i]
		if p.TeamName == "" {
			p.TeamName = ex.TeamName
		}
		if p.TeamRootURL == "" {
			p.TeamRootURL = ex.TeamRootURL
		}
		if p.TeamSlug == "" {
			p.TeamSlug = ex.TeamSlug
		}
		if p.TeamPageURL == "" {
			p.TeamPageURL = ex.TeamPageURL
		}
		if p.ContactPageURL == "" {
			p.ContactPageURL = ex.ContactPageURL
		}
	}
}
