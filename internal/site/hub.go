package site

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/extract"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/weblink"
)

// reservedSegments are first path segments that are site navigation, never
// team sites.
var reservedSegments = map[string]bool{
	"home": true, "accueil": true, "contact": true, "contact-us": true,
	"contactez-nous": true, "services": true, "about": true, "about-us": true,
	"a-propos": true, "our-team": true, "notre-equipe": true, "web": true,
	"en": true, "fr": true, "insights": true, "careers": true, "carrieres": true,
	"search": true, "recherche": true,
}

var (
	teamSubpages    = []string{"our-team", "notre-equipe", "team", "equipe"}
	contactSubpages = []string{"contact", "contact-us", "contactez-nous", "nous-joindre"}
)

// Hub handles family C: a hub page lists team sites one path segment deep.
type Hub struct {
	hubPath  string
	fallback *Generic
}

func (h *Hub) Family() model.SiteFamily { return model.FamilyHub }

// Discover moves to the hub listing when the seed is not on it, then collects
// one-segment team roots (and /web/<slug> roots), skipping the hub itself and
// reserved navigation segments.
func (h *Hub) Discover(ctx context.Context, env *Env, seed string) ([]model.DiscoveryTarget, error) {
	doc, page, err := fetchDoc(ctx, env, seed)
	if err != nil {
		return nil, err
	}
	final := weblink.Normalize(page.FinalURL)
	links := weblink.ExtractLinks(doc, final)

	if !strings.Contains(strings.ToLower(final), h.hubPath) {
		for _, l := range links {
			if strings.Contains(strings.ToLower(l.URL), h.hubPath) && weblink.SameDomain(l.URL, final) {
				hubDoc, hubPage, err := fetchDoc(ctx, env, l.URL)
				if err != nil {
					return nil, err
				}
				doc, page = hubDoc, hubPage
				final = weblink.Normalize(page.FinalURL)
				links = weblink.ExtractLinks(doc, final)
				break
			}
		}
	}

	var targets []model.DiscoveryTarget
	for _, l := range links {
		if !h.isTeamRoot(l, final, env) {
			continue
		}
		targets = append(targets, model.DiscoveryTarget{
			SeedURL:   seed,
			TargetURL: l.URL,
			LinkText:  l.Text,
			Kind:      model.KindUnknown,
			Family:    model.FamilyHub,
			Include:   true,
		})
	}
	if len(targets) == 0 {
		zap.L().Debug("hub listed no team sites, using generic discovery", zap.String("url", seed))
		return h.fallback.discoverDoc(doc, page, seed, model.FamilyHub, env), nil
	}
	return dedupeTargets(targets), nil
}

func (h *Hub) isTeamRoot(l weblink.Link, base string, env *Env) bool {
	if !weblink.SameDomain(l.URL, base) || weblink.IsStopLink(l.Text, l.URL) || env.excluded(l.URL) {
		return false
	}
	if strings.Contains(strings.ToLower(l.URL), h.hubPath) {
		return false
	}
	segs := weblink.Segments(l.URL)
	switch {
	case len(segs) == 1:
		return !reservedSegments[strings.ToLower(segs[0])]
	case len(segs) == 2 && strings.EqualFold(segs[0], "web"):
		return !reservedSegments[strings.ToLower(segs[1])]
	}
	return false
}

// Extract resolves the team site's team and contact pages (linked, else
// probed) and reads people from the first of team page, contact page and
// root that yields any.
func (h *Hub) Extract(ctx context.Context, env *Env, target model.DiscoveryTarget) (*Extraction, error) {
	rootDoc, rootPage, err := fetchDoc(ctx, env, target.TargetURL)
	if err != nil {
		return nil, err
	}
	root := rootPage.FinalURL
	slug := weblink.TeamSlug(root)
	links := weblink.ExtractLinks(rootDoc, root)

	teamPage := weblink.BestLink(links, root, teamPageRe)
	contactPage := weblink.BestLink(links, root, contactPageRe)
	if env.FollowSubpages {
		if teamPage == "" {
			teamPage = h.probe(ctx, env, root, slug, teamSubpages, "our-team")
		}
		if contactPage == "" {
			contactPage = h.probe(ctx, env, root, slug, contactSubpages, "contact")
		}
	}

	ex := &Extraction{
		SourcePage:     root,
		TeamName:       extract.PageTitle(rootDoc),
		TeamRootURL:    weblink.Normalize(root),
		TeamSlug:       slug,
		TeamPageURL:    teamPage,
		ContactPageURL: contactPage,
	}

	seen := make(map[string]bool)
	for _, u := range []string{teamPage, contactPage, root} {
		key := weblink.Normalize(u)
		if u == "" || seen[key] {
			continue
		}
		seen[key] = true

		doc := rootDoc
		pageURL := root
		if key != weblink.Normalize(root) {
			d, p, err := fetchDoc(ctx, env, u)
			if err != nil {
				zap.L().Warn("hub subpage fetch failed", zap.String("url", u), zap.Error(err))
				continue
			}
			doc, pageURL = d, p.FinalURL
		}
		people := extract.JSONLD(doc)
		if len(people) == 0 {
			people = extract.Headings(doc, extract.HeadingOptions{})
		}
		if len(people) > 0 {
			ex.People = people
			ex.Pages = append(ex.Pages, pageURL)
			break
		}
	}

	if len(ex.People) == 0 {
		ex.People = withFallback(model.FamilyHub, rootDoc, root, nil)
		ex.Pages = append(ex.Pages, root)
	}
	annotate(ex.People, ex)
	return ex, nil
}

// probe tries subpages below root, then /web/<slug>/<webLeaf> on the site
// root.
func (h *Hub) probe(ctx context.Context, env *Env, root, slug string, subpages []string, webLeaf string) string {
	candidates := make([]string, 0, len(subpages)+1)
	for _, s := range subpages {
		candidates = append(candidates, weblink.Join(root, s))
	}
	if slug != "" {
		candidates = append(candidates, weblink.Join(weblink.SiteRoot(root), "web/"+slug+"/"+webLeaf))
	}
	u, err := Probe(ctx, env.Fetcher, candidates)
	if err != nil {
		zap.L().Debug("no subpage found", zap.String("url", root), zap.String("leaf", webLeaf), zap.Error(err))
		return ""
	}
	return u
}
