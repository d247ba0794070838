package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/directory-cli/internal/classify"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/weblink"
)

const maxProfileRoles = 3

var backRefRe = regexp.MustCompile(`(?i)\b(part of|member of|fait partie de|membre de)\b`)

// Profile extracts the single advisor an individual profile page is about:
// the first name-shaped h1 (then h2, h3), role lines below it, the page's
// contact links and any team back-reference.
func Profile(doc *goquery.Document) []model.PersonRecord {
	h := profileHeading(doc)
	if h == nil {
		return nil
	}
	heading := weblink.CollapseSpace(h.Text())
	name := classify.CleanName(heading)
	base := baseOf(doc)
	rec := model.PersonRecord{
		Name:       name,
		Source:     model.SourceProfile,
		ProfileURL: weblink.RootURL(base),
	}

	lines := FlattenLines(doc)
	after := lines
	for i, l := range lines {
		if sameText(l.Text, heading) {
			after = lines[i+1:]
			break
		}
	}

	var roles []string
	for _, l := range after {
		if lineHasContact(l) || len(roles) == maxProfileRoles {
			break
		}
		if classify.IsPlausibleRole(l.Text, name) && !containsFold(roles, l.Text) {
			roles = append(roles, l.Text)
		}
	}
	rec.Role = strings.Join(roles, " / ")

	scope := doc.Find("main").First()
	if scope.Length() == 0 {
		scope = doc.Find("body")
	}
	addAnchorContacts(&rec, scope)
	addTextContacts(&rec, lineTexts(after))
	rec.Address = AddressWindow(lineTexts(after))

	if ref, ok := TeamBackReference(doc); ok {
		rec.TeamRootURL = ref.URL
		rec.TeamName = ref.Text
		rec.TeamSlug = weblink.TeamSlug(ref.URL)
	}
	return []model.PersonRecord{rec}
}

func profileHeading(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"h1", "h2", "h3"} {
		var found *goquery.Selection
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if classify.IsPlausibleName(weblink.CollapseSpace(s.Text())) {
				found = s
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// TeamBackReference finds a same-site single-segment root linked from text
// such as "part of the X team" or "membre de l'équipe X". The returned link
// carries the team root URL and the anchor label.
func TeamBackReference(doc *goquery.Document) (weblink.Link, bool) {
	base := baseOf(doc)
	own := weblink.RootURL(base)
	var ref weblink.Link
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		abs := weblink.Resolve(base, href)
		if abs == "" || !weblink.SameDomain(abs, base) || weblink.Depth(abs) != 1 {
			return true
		}
		root := weblink.RootURL(abs)
		text := weblink.CollapseSpace(a.Text())
		if root == own || weblink.IsStopLink(text, abs) {
			return true
		}
		around := weblink.CollapseSpace(a.Parent().Text())
		if !backRefRe.MatchString(around) {
			return true
		}
		ref = weblink.Link{Text: text, URL: root}
		return false
	})
	return ref, ref.URL != ""
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
