package weblink

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is an anchor's visible text and absolute, normalized target.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// ExtractLinks returns every http(s) anchor in doc, resolved against base.
// Anchors are returned in document order; duplicates are kept so callers can
// see every label a URL was linked with.
func ExtractLinks(doc *goquery.Document, base string) []Link {
	var out []Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		abs := Resolve(base, href)
		if abs == "" {
			return
		}
		out = append(out, Link{Text: CollapseSpace(s.Text()), URL: abs})
	})
	return out
}

// BestLink picks the same-domain, non-stop link whose text or URL matches
// topic. Among matches the shortest URL path wins, then the longer label.
func BestLink(links []Link, base string, topic *regexp.Regexp) string {
	var candidates []Link
	for _, l := range links {
		if !SameDomain(l.URL, base) || IsStopLink(l.Text, l.URL) {
			continue
		}
		if topic.MatchString(l.Text) || topic.MatchString(l.URL) {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := pathLen(candidates[i].URL), pathLen(candidates[j].URL)
		if pi != pj {
			return pi < pj
		}
		return len(candidates[i].Text) > len(candidates[j].Text)
	})
	return candidates[0].URL
}

func pathLen(raw string) int {
	u, err := url.Parse(raw)
	if err != nil {
		return len(raw)
	}
	return len(u.Path)
}

var spaceRe = regexp.MustCompile(`\s+`)

// CollapseSpace folds whitespace runs (including nbsp) to single spaces.
func CollapseSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
