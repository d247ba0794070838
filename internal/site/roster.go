package site

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/extract"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/weblink"
)

var viewProfileRe = regexp.MustCompile(`(?i)\b(view profile|voir le profil)\b`)

// Roster handles family B: each team has a page at a fixed path template,
// linked from the seed.
type Roster struct {
	pattern  *regexp.Regexp
	fallback *Generic
}

func (r *Roster) Family() model.SiteFamily { return model.FamilyRoster }

// Discover collects the seed (when it is itself a team page) and every
// same-site link whose path fits the team page template, skipping
// "view profile" calls to action.
func (r *Roster) Discover(ctx context.Context, env *Env, seed string) ([]model.DiscoveryTarget, error) {
	doc, page, err := fetchDoc(ctx, env, seed)
	if err != nil {
		return nil, err
	}
	final := weblink.Normalize(page.FinalURL)

	var targets []model.DiscoveryTarget
	if r.matches(final) {
		targets = append(targets, r.target(seed, final, extract.PageTitle(doc)))
	}
	for _, l := range weblink.ExtractLinks(doc, final) {
		if !weblink.SameDomain(l.URL, final) || weblink.IsStopLink(l.Text, l.URL) {
			continue
		}
		if viewProfileRe.MatchString(l.Text) || !r.matches(l.URL) || env.excluded(l.URL) {
			continue
		}
		targets = append(targets, r.target(seed, l.URL, l.Text))
	}

	if len(targets) == 0 {
		zap.L().Debug("no roster pages matched, using generic discovery", zap.String("url", seed))
		return r.fallback.discoverDoc(doc, page, seed, model.FamilyRoster, env), nil
	}
	return dedupeTargets(targets), nil
}

func (r *Roster) matches(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return r.pattern.MatchString(parsed.Path)
}

func (r *Roster) target(seed, u, text string) model.DiscoveryTarget {
	return model.DiscoveryTarget{
		SeedURL:   seed,
		TargetURL: u,
		LinkText:  text,
		Kind:      model.KindUnknown,
		Family:    model.FamilyRoster,
		Include:   true,
	}
}

// Extract reads a team page: JSON-LD, then DOM headings, then line
// segmentation, then the generic fallback.
func (r *Roster) Extract(ctx context.Context, env *Env, target model.DiscoveryTarget) (*Extraction, error) {
	doc, page, err := fetchDoc(ctx, env, target.TargetURL)
	if err != nil {
		return nil, err
	}
	final := page.FinalURL

	people := extract.JSONLD(doc)
	if len(people) == 0 {
		people = extract.Headings(doc, extract.HeadingOptions{})
	}
	if len(people) == 0 {
		people = extract.Roster(doc, extract.RosterOptions{})
	}
	people = withFallback(model.FamilyRoster, doc, final, people)

	ex := &Extraction{
		SourcePage:  final,
		TeamName:    extract.PageTitle(doc),
		TeamRootURL: weblink.Normalize(final),
		TeamSlug:    rosterSlug(final),
		TeamPageURL: final,
		Pages:       []string{final},
		People:      people,
	}
	annotate(people, ex)
	return ex, nil
}

// rosterSlug is the path segment after "advisor", else the generic slug.
func rosterSlug(u string) string {
	segs := weblink.Segments(u)
	for i, s := range segs {
		if strings.EqualFold(s, "advisor") && i+1 < len(segs) {
			return strings.ToLower(segs[i+1])
		}
	}
	return weblink.TeamSlug(u)
}
