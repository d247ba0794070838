package site

import (
	"context"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/sells-group/directory-cli/internal/extract"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/weblink"
)

var (
	advisorsHeadingRe = regexp.MustCompile(`(?i)^(our |nos )?(advisors|advisers|conseillers|conseillères|conseiller\(ère\)s)$`)
	teamsHeadingRe    = regexp.MustCompile(`(?i)^(our |nos )?(teams|équipes|equipes)$`)
)

// Directory handles family A: a combined directory page with an Advisors and
// a Teams section, whose entries are single-segment root sites.
type Directory struct {
	fallback *Generic
}

func (d *Directory) Family() model.SiteFamily { return model.FamilyDirectory }

// Discover reads the Advisors and Teams sections of a directory seed. A seed
// that is not a directory is itself a root site, tagged advisor when it links
// back to a team and team otherwise.
func (d *Directory) Discover(ctx context.Context, env *Env, seed string) ([]model.DiscoveryTarget, error) {
	doc, page, err := fetchDoc(ctx, env, seed)
	if err != nil {
		return nil, err
	}

	if targets, ok := directorySections(doc, page.FinalURL, env); ok {
		for i := range targets {
			targets[i].SeedURL = seed
		}
		return dedupeTargets(targets), nil
	}

	if weblink.Depth(page.FinalURL) == 0 {
		zap.L().Debug("directory seed is a site root without sections, using generic discovery",
			zap.String("url", seed))
		return d.fallback.discoverDoc(doc, page, seed, model.FamilyDirectory, env), nil
	}

	kind := model.KindTeam
	if _, ok := extract.TeamBackReference(doc); ok {
		kind = model.KindAdvisor
	}
	return []model.DiscoveryTarget{{
		SeedURL:   seed,
		TargetURL: weblink.RootURL(page.FinalURL),
		LinkText:  extract.PageTitle(doc),
		Kind:      kind,
		Family:    model.FamilyDirectory,
		Include:   true,
	}}, nil
}

// directorySections walks the document in order, tagging root links that
// follow an Advisors or Teams heading until the next heading. It reports
// false unless both headings are present.
func directorySections(doc *goquery.Document, base string, env *Env) ([]model.DiscoveryTarget, bool) {
	var (
		targets     []model.DiscoveryTarget
		section     model.TargetKind
		hasAdvisors bool
		hasTeams    bool
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				text := weblink.CollapseSpace(goquery.NewDocumentFromNode(n).Text())
				switch {
				case advisorsHeadingRe.MatchString(text):
					section, hasAdvisors = model.KindAdvisor, true
				case teamsHeadingRe.MatchString(text):
					section, hasTeams = model.KindTeam, true
				default:
					section = ""
				}
				return
			case "a":
				if section != "" {
					if t, ok := rootTarget(n, base, section, env); ok {
						targets = append(targets, t)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return targets, hasAdvisors && hasTeams
}

func rootTarget(a *html.Node, base string, kind model.TargetKind, env *Env) (model.DiscoveryTarget, bool) {
	sel := goquery.NewDocumentFromNode(a)
	href, _ := sel.Attr("href")
	abs := weblink.Resolve(base, href)
	text := weblink.CollapseSpace(sel.Text())
	if abs == "" || !weblink.SameDomain(abs, base) || weblink.IsStopLink(text, abs) {
		return model.DiscoveryTarget{}, false
	}
	if weblink.Depth(abs) != 1 || env.excluded(abs) {
		return model.DiscoveryTarget{}, false
	}
	return model.DiscoveryTarget{
		TargetURL: weblink.RootURL(abs),
		LinkText:  text,
		Kind:      kind,
		Family:    model.FamilyDirectory,
		Include:   true,
	}, true
}

// Extract reads a root site. Teams are read by line segmentation, advisors
// by the profile heuristic; JSON-LD wins when present.
func (d *Directory) Extract(ctx context.Context, env *Env, target model.DiscoveryTarget) (*Extraction, error) {
	doc, page, err := fetchDoc(ctx, env, target.TargetURL)
	if err != nil {
		return nil, err
	}
	final := page.FinalURL
	root := weblink.RootURL(final)

	people := extract.JSONLD(doc)
	if len(people) == 0 {
		switch target.Kind {
		case model.KindAdvisor:
			people = extract.Profile(doc)
		case model.KindTeam:
			people = d.roster(doc, final)
		default:
			if people = d.roster(doc, final); len(people) == 0 {
				people = extract.Profile(doc)
			}
		}
	}
	people = withFallback(model.FamilyDirectory, doc, final, people)

	ex := &Extraction{
		SourcePage:  final,
		TeamRootURL: root,
		TeamSlug:    weblink.TeamSlug(root),
		Pages:       []string{final},
		People:      people,
	}
	if target.Kind != model.KindAdvisor {
		ex.TeamName = extract.PageTitle(doc)
		annotate(people, ex)
	}
	return ex, nil
}

func (d *Directory) roster(doc *goquery.Document, final string) []model.PersonRecord {
	host := regexp.QuoteMeta(weblink.Host(final))
	pattern := regexp.MustCompile(fmt.Sprintf(`https?://%s/[A-Za-z0-9._~-]+/?`, host))
	return extract.Roster(doc, extract.RosterOptions{ProfilePattern: pattern})
}
