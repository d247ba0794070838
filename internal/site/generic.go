package site

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/directory-cli/internal/extract"
	"github.com/sells-group/directory-cli/internal/fetcher"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/weblink"
)

// Generic handles unmapped hosts: the seed itself plus its best "our team"
// and "contact" links, read with the generic extractor.
type Generic struct{}

func (g *Generic) Family() model.SiteFamily { return model.FamilyGeneric }

func (g *Generic) Discover(ctx context.Context, env *Env, seed string) ([]model.DiscoveryTarget, error) {
	doc, page, err := fetchDoc(ctx, env, seed)
	if err != nil {
		return nil, err
	}
	return g.discoverDoc(doc, page, seed, model.FamilyGeneric, env), nil
}

func (g *Generic) discoverDoc(doc *goquery.Document, page *fetcher.Page, seed string, family model.SiteFamily, env *Env) []model.DiscoveryTarget {
	final := weblink.Normalize(page.FinalURL)
	targets := []model.DiscoveryTarget{{
		SeedURL:   seed,
		TargetURL: final,
		LinkText:  extract.PageTitle(doc),
		Kind:      model.KindUnknown,
		Family:    family,
		Include:   true,
	}}

	links := weblink.ExtractLinks(doc, final)
	for _, u := range []string{
		weblink.BestLink(links, final, teamPageRe),
		weblink.BestLink(links, final, contactPageRe),
	} {
		if u == "" || u == final || env.excluded(u) {
			continue
		}
		targets = append(targets, model.DiscoveryTarget{
			SeedURL:   seed,
			TargetURL: u,
			LinkText:  linkText(links, u),
			Kind:      model.KindUnknown,
			Family:    family,
			Include:   true,
		})
	}
	return dedupeTargets(targets)
}

func (g *Generic) Extract(ctx context.Context, env *Env, target model.DiscoveryTarget) (*Extraction, error) {
	doc, page, err := fetchDoc(ctx, env, target.TargetURL)
	if err != nil {
		return nil, err
	}
	final := page.FinalURL
	ex := &Extraction{
		SourcePage:  final,
		TeamName:    extract.PageTitle(doc),
		TeamRootURL: weblink.Normalize(final),
		TeamSlug:    weblink.TeamSlug(final),
		Pages:       []string{final},
		People:      extract.Generic(doc),
	}
	annotate(ex.People, ex)
	return ex, nil
}

// linkText returns the first non-empty label u was linked with.
func linkText(links []weblink.Link, u string) string {
	for _, l := range links {
		if l.URL == u && l.Text != "" {
			return l.Text
		}
	}
	return ""
}
