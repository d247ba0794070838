// Package reconcile collapses the records extracted across a run into one
// canonical row per distinct person.
package reconcile

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/classify"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/weblink"
)

// Identity key bounds for phone numbers.
const (
	minKeyPhoneDigits = 10
	maxKeyPhoneDigits = 15
)

// teamSeparator joins the team affiliations of a merged person.
const teamSeparator = "; "

// Options tunes reconciliation.
type Options struct {
	// DropNoContact removes rows left with neither email nor phone.
	DropNoContact bool
}

// IdentityKey returns the strongest identity signal of r: profile URL, then
// first email, then phone digits, then canonical name. Keys carry a kind
// prefix so signals of different kinds never collide.
func IdentityKey(r model.PersonRecord) string {
	if u := profileKey(r.ProfileURL); u != "" {
		return "url:" + u
	}
	for _, e := range r.Emails {
		if e = classify.NormalizeEmail(e); e != "" {
			return "email:" + e
		}
	}
	for _, p := range r.Phones {
		d := classify.PhoneDigits(p)
		if len(d) < minKeyPhoneDigits {
			continue
		}
		if len(d) > maxKeyPhoneDigits {
			d = d[:maxKeyPhoneDigits]
		}
		return "phone:" + d
	}
	if n := classify.CanonicalName(r.Name); n != "" {
		return "name:" + n
	}
	return ""
}

func profileKey(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(weblink.Normalize(u)), "/")
}

// Score counts the non-empty email, phone, address and profile URL of r, plus
// one for a role that passes the role classifier.
func Score(r model.PersonRecord) int {
	s := 0
	if len(r.Emails) > 0 {
		s++
	}
	if len(r.Phones) > 0 {
		s++
	}
	if strings.TrimSpace(r.Address) != "" {
		s++
	}
	if strings.TrimSpace(r.ProfileURL) != "" {
		s++
	}
	if r.Role != "" && classify.IsPlausibleRole(r.Role, r.Name) {
		s++
	}
	return s
}

type group struct {
	key     string
	records []model.PersonRecord
}

// Reconcile groups records by identity key and merges each group into one
// row. Rows come out in the order their key was first seen; every key
// appears once.
func Reconcile(records []model.PersonRecord, opts Options) []model.CanonicalRow {
	var groups []*group
	byKey := make(map[string]*group)
	dropped := 0

	for _, r := range records {
		r, ok := revalidate(r)
		if !ok {
			dropped++
			continue
		}
		key := IdentityKey(r)
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.records = append(g.records, r)
	}

	rows := make([]model.CanonicalRow, 0, len(groups))
	noContact := 0
	for _, g := range groups {
		row := merge(g)
		if opts.DropNoContact && row.Email == "" && row.Phone == "" {
			noContact++
			continue
		}
		rows = append(rows, row)
	}

	zap.L().Debug("reconcile: merged records",
		zap.Int("records", len(records)),
		zap.Int("invalid_names", dropped),
		zap.Int("no_contact", noContact),
		zap.Int("rows", len(rows)),
	)
	return rows
}

// revalidate re-cleans the name. Records from the generic fallback are held
// to the loose name rule they were extracted under.
func revalidate(r model.PersonRecord) (model.PersonRecord, bool) {
	r.Name = classify.CleanName(r.Name)
	if r.Name == "" {
		return r, false
	}
	if r.Source == model.SourceGeneric {
		return r, classify.IsLoosePersonName(r.Name)
	}
	return r, classify.IsPlausibleName(r.Name)
}

// merge takes identity fields from the best-scored record and picks every
// other field independently: the first non-empty value by score.
func merge(g *group) model.CanonicalRow {
	ranked := slices.Clone(g.records)
	slices.SortStableFunc(ranked, func(a, b model.PersonRecord) int {
		return Score(b) - Score(a)
	})
	best := ranked[0]

	row := model.CanonicalRow{
		IdentityKey: g.key,
		Name:        best.Name,
		Source:      best.Source,
		Merged:      len(g.records),
	}
	for _, r := range ranked {
		if row.Role == "" {
			row.Role = r.Role
		}
		if row.Email == "" && len(r.Emails) > 0 {
			row.Email = r.Emails[0]
		}
		if row.Phone == "" && len(r.Phones) > 0 {
			row.Phone = r.Phones[0]
		}
		if row.Address == "" {
			row.Address = r.Address
		}
		if row.ProfileURL == "" {
			row.ProfileURL = r.ProfileURL
		}
		if row.SeedURL == "" {
			row.SeedURL = r.SeedURL
		}
	}

	var teams, slugs, roots, teamPages, contactPages, pages []string
	for _, r := range g.records {
		teams = appendUnique(teams, r.TeamName)
		slugs = appendUnique(slugs, r.TeamSlug)
		roots = appendUnique(roots, r.TeamRootURL)
		teamPages = appendUnique(teamPages, r.TeamPageURL)
		contactPages = appendUnique(contactPages, r.ContactPageURL)
		pages = appendUnique(pages, r.SourcePage)
	}
	row.TeamName = strings.Join(teams, teamSeparator)
	row.TeamSlug = strings.Join(slugs, teamSeparator)
	row.TeamRootURL = strings.Join(roots, teamSeparator)
	row.TeamPageURL = strings.Join(teamPages, teamSeparator)
	row.ContactPageURL = strings.Join(contactPages, teamSeparator)
	row.SourcePages = pages
	return row
}

// appendUnique adds v unless it is blank or already present, ignoring case.
func appendUnique(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}
