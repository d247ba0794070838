package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/directory-cli/internal/classify"
	"github.com/sells-group/directory-cli/internal/model"
)

var postalCodeRe = regexp.MustCompile(`(?i)\b[ABCEGHJ-NPRSTVXY]\d[ABCEGHJ-NPRSTV-Z][ -]?\d[ABCEGHJ-NPRSTV-Z]\d\b`)

const (
	addressWindow  = 2
	maxAddressLine = 120
)

// AddressWindow finds the first Canadian postal code in lines and returns up
// to two lines either side of it, joined with ", ". Contact lines and overlong
// lines are left out.
func AddressWindow(lines []string) string {
	at := -1
	for i, l := range lines {
		if postalCodeRe.MatchString(l) {
			at = i
			break
		}
	}
	if at < 0 {
		return ""
	}
	lo := max(0, at-addressWindow)
	hi := min(len(lines), at+addressWindow+1)

	var parts []string
	for i := lo; i < hi; i++ {
		l := strings.TrimSpace(lines[i])
		if l == "" || len(l) > maxAddressLine {
			continue
		}
		if i != at && (classify.LooksLikeContact(l) || classify.IsPlausibleName(l) || isRoleLine(l)) {
			continue
		}
		parts = append(parts, l)
	}
	return strings.Join(parts, ", ")
}

// isRoleLine catches title lines that sit next to an address. Street lines
// carry digits and are never treated as titles.
func isRoleLine(l string) bool {
	return strings.IndexFunc(l, unicode.IsDigit) < 0 && classify.IsPlausibleRole(l, "")
}

// anchorsIn returns the links in sel, including members of sel that are
// links themselves. A heading-and-siblings block often ends in a bare <a>.
func anchorsIn(sel *goquery.Selection) *goquery.Selection {
	return sel.Find("a[href]").AddSelection(sel.Filter("a[href]"))
}

// addAnchorContacts collects mailto: and tel: anchors in sel.
func addAnchorContacts(rec *model.PersonRecord, sel *goquery.Selection) {
	anchorsIn(sel).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		addHrefContact(rec, href)
	})
}

func addHrefContact(rec *model.PersonRecord, href string) {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)
	switch {
	case strings.HasPrefix(lower, "mailto:"):
		email := classify.NormalizeEmail(href)
		if len(classify.FindEmails(email)) > 0 {
			rec.AddEmail(email)
		}
	case strings.HasPrefix(lower, "tel:"):
		phone := href[len("tel:"):]
		if un, err := url.PathUnescape(phone); err == nil {
			phone = un
		}
		addPhone(rec, strings.TrimSpace(phone))
	}
}

// addTextContacts scans text for email and phone fragments.
func addTextContacts(rec *model.PersonRecord, texts []string) {
	for _, t := range texts {
		for _, e := range classify.FindEmails(t) {
			rec.AddEmail(strings.ToLower(e))
		}
		for _, p := range classify.FindPhones(t) {
			addPhone(rec, p)
		}
	}
}

// addPhone dedupes on digits so "514-555-0100" and "(514) 555-0100" collapse.
func addPhone(rec *model.PersonRecord, phone string) {
	d := classify.PhoneDigits(phone)
	if len(d) < 7 {
		return
	}
	for _, p := range rec.Phones {
		if classify.PhoneDigits(p) == d {
			return
		}
	}
	rec.AddPhone(phone)
}

func isContactHref(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:")
}
