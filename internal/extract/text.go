// Package extract turns a fetched page into zero or more PersonRecords using
// layered heuristics: JSON-LD, DOM headings, flattened text lines and advisor
// profile pages. An empty result is normal and never an error.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/directory-cli/internal/weblink"
)

// Parse builds a document for html and records pageURL as its base, so
// relative links resolve against the post-redirect URL.
func Parse(html, pageURL string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse html")
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		doc.Url = u
	}
	return doc, nil
}

// PageTitle returns the first non-empty h1, else the <title> text.
func PageTitle(doc *goquery.Document) string {
	title := ""
	doc.Find("h1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title = weblink.CollapseSpace(s.Text())
		return title == ""
	})
	if title != "" {
		return title
	}
	return weblink.CollapseSpace(doc.Find("title").First().Text())
}

func baseOf(doc *goquery.Document) string {
	if doc == nil || doc.Url == nil {
		return ""
	}
	return doc.Url.String()
}
