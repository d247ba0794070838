package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/directory-cli/internal/classify"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/weblink"
)

const (
	headingSelector = "h1, h2, h3, h4, h5, h6"
	defaultMaxClimb = 4
	maxRoleSiblings = 4
)

// HeadingOptions tunes the DOM-heading heuristic.
type HeadingOptions struct {
	// Loose swaps in the relaxed name and role checks of the generic fallback.
	Loose bool
	// MaxClimb bounds how many ancestors are searched for a contact block.
	MaxClimb int
}

type matchers struct {
	name   func(string) bool
	role   func(string, string) bool
	source model.SourceTag
}

func (o HeadingOptions) matchers() matchers {
	if o.Loose {
		return matchers{classify.IsLoosePersonName, classify.IsLooseRole, model.SourceGeneric}
	}
	return matchers{classify.IsPlausibleName, classify.IsPlausibleRole, model.SourceHeading}
}

// Headings treats every heading as a name candidate. For each valid name the
// smallest enclosing block with a mailto:/tel: link supplies contacts, and the
// first role-shaped fragment after the heading supplies the role.
func Headings(doc *goquery.Document, opts HeadingOptions) []model.PersonRecord {
	if opts.MaxClimb <= 0 {
		opts.MaxClimb = defaultMaxClimb
	}
	m := opts.matchers()
	base := baseOf(doc)

	var out []model.PersonRecord
	seen := make(map[string]bool)
	doc.Find(headingSelector).Each(func(_ int, h *goquery.Selection) {
		raw := weblink.CollapseSpace(h.Text())
		if !m.name(raw) {
			return
		}
		name := classify.CleanName(raw)
		key := classify.CanonicalName(name)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true

		block := personBlock(h, opts.MaxClimb, m.name)
		rec := model.PersonRecord{Name: name, Source: m.source}
		rec.Role = roleNearHeading(h, block, name, m.role)

		addAnchorContacts(&rec, block)
		lines := lineTexts(flattenSelection(block))
		if !rec.HasContact() {
			addTextContacts(&rec, lines)
		}
		rec.Address = AddressWindow(lines)
		rec.ProfileURL = headingProfileURL(h, base)
		out = append(out, rec)
	})
	return out
}

// personBlock climbs from h toward the root and returns the first ancestor
// holding a contact link, giving up once an ancestor holds a second name
// heading. Without one, the heading and its siblings up to the next heading
// form the block.
func personBlock(h *goquery.Selection, maxClimb int, isName func(string) bool) *goquery.Selection {
	cur := h.Parent()
	for i := 0; i < maxClimb && cur.Length() > 0; i++ {
		if cur.Is("body, html") || countNameHeadings(cur, isName) > 1 {
			break
		}
		if hasContactAnchor(cur) {
			return cur
		}
		cur = cur.Parent()
	}
	return h.AddSelection(h.NextUntil(headingSelector))
}

func countNameHeadings(sel *goquery.Selection, isName func(string) bool) int {
	return sel.Find(headingSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return isName(weblink.CollapseSpace(s.Text()))
	}).Length()
}

func hasContactAnchor(sel *goquery.Selection) bool {
	return anchorsIn(sel).FilterFunction(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		return isContactHref(href)
	}).Length() > 0
}

// roleNearHeading looks at the next few siblings, then at the person block's
// lines after the heading. Contact data ends the search.
func roleNearHeading(h, block *goquery.Selection, name string, isRole func(string, string) bool) string {
	role := ""
	done := false
	h.NextAll().EachWithBreak(func(i int, sib *goquery.Selection) bool {
		if i >= maxRoleSiblings || sib.Is(headingSelector) {
			return false
		}
		for _, l := range flattenSelection(sib) {
			if lineHasContact(l) {
				done = true
				return false
			}
			if isRole(l.Text, name) {
				role = l.Text
				return false
			}
		}
		return true
	})
	if role != "" || done {
		return role
	}

	heading := weblink.CollapseSpace(h.Text())
	lines := flattenSelection(block)
	for i, l := range lines {
		if l.Text != heading {
			continue
		}
		for _, next := range lines[i+1:] {
			if lineHasContact(next) {
				return ""
			}
			if isRole(next.Text, name) {
				return next.Text
			}
		}
		break
	}
	return ""
}

func headingProfileURL(h *goquery.Selection, base string) string {
	a := h.Find("a[href]").First()
	if a.Length() == 0 {
		a = h.Closest("a[href]")
	}
	href, ok := a.Attr("href")
	if !ok || isContactHref(href) {
		return ""
	}
	return weblink.Resolve(base, href)
}

// sameText compares collapsed, case-folded strings.
func sameText(a, b string) bool {
	return strings.EqualFold(weblink.CollapseSpace(a), weblink.CollapseSpace(b))
}
