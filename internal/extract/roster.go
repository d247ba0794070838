package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/directory-cli/internal/classify"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/weblink"
)

// RosterOptions tunes line-segmentation extraction.
type RosterOptions struct {
	// ProfilePattern recovers a person's profile URL from buffer text and
	// hrefs. Nil disables profile recovery.
	ProfilePattern *regexp.Regexp
	// StopMarkers end the roster. Nil means DefaultStopMarkers.
	StopMarkers []string
}

// Roster extracts people from a page with no reliable DOM structure by
// segmenting its flattened text lines.
func Roster(doc *goquery.Document, opts RosterOptions) []model.PersonRecord {
	return RosterLines(FlattenLines(doc), baseOf(doc), opts)
}

// RosterLines runs line segmentation over already-flattened lines. base
// resolves relative hrefs.
func RosterLines(lines []Line, base string, opts RosterOptions) []model.PersonRecord {
	markers := opts.StopMarkers
	if markers == nil {
		markers = DefaultStopMarkers
	}

	var out []model.PersonRecord
	seen := make(map[string]bool)
	for _, buf := range SegmentLines(lines, markers) {
		rec, ok := recordFromBuffer(buf, base, opts.ProfilePattern)
		if !ok {
			continue
		}
		key := classify.CanonicalName(rec.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

func recordFromBuffer(buf []Line, base string, profile *regexp.Regexp) (model.PersonRecord, bool) {
	nameAt := -1
	for i, l := range buf {
		if classify.IsPlausibleName(l.Text) {
			nameAt = i
			break
		}
	}
	if nameAt < 0 {
		return model.PersonRecord{}, false
	}

	name := classify.CleanName(buf[nameAt].Text)
	rec := model.PersonRecord{Name: name, Source: model.SourceLines}

	var roles []string
	seenRole := make(map[string]bool)
	for _, l := range buf[nameAt+1:] {
		if lineHasContact(l) {
			break
		}
		if !classify.IsPlausibleRole(l.Text, name) {
			continue
		}
		if k := strings.ToLower(l.Text); !seenRole[k] {
			seenRole[k] = true
			roles = append(roles, l.Text)
		}
	}
	rec.Role = strings.Join(roles, " / ")

	person := buf[nameAt:]
	for _, l := range person {
		for _, h := range l.Hrefs {
			addHrefContact(&rec, h)
		}
	}
	addTextContacts(&rec, lineTexts(person))
	rec.Address = AddressWindow(lineTexts(person))
	rec.ProfileURL = profileFromBuffer(person, base, profile)
	return rec, true
}

// profileFromBuffer returns the first profile-pattern match among the
// buffer's hrefs and text, skipping the page's own root.
func profileFromBuffer(buf []Line, base string, profile *regexp.Regexp) string {
	if profile == nil {
		return ""
	}
	own := strings.TrimSuffix(weblink.RootURL(base), "/")
	accept := func(u string) bool {
		return u != "" && strings.TrimSuffix(weblink.Normalize(u), "/") != own
	}
	for _, l := range buf {
		for _, h := range l.Hrefs {
			abs := weblink.Resolve(base, h)
			if m := profile.FindString(abs); m != "" && m == abs && accept(m) {
				return weblink.Normalize(m)
			}
		}
	}
	for _, l := range buf {
		for _, m := range profile.FindAllString(l.Text, -1) {
			if accept(m) {
				return weblink.Normalize(m)
			}
		}
	}
	return ""
}
