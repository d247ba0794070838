package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sells-group/directory-cli/internal/classify"
	"github.com/sells-group/directory-cli/internal/weblink"
)

// Line is one visible text line of a flattened page plus the hrefs of the
// anchors it contains.
type Line struct {
	Text  string
	Hrefs []string
}

// DefaultStopMarkers end the core roster on team pages.
var DefaultStopMarkers = []string{"Additional Specialists", "Spécialistes additionnels"}

var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"template": true, "svg": true, "iframe": true, "select": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "td": true, "th": true, "tr": true, "ul": true, "button": true,
}

// FlattenLines returns the page's non-empty visible text lines in document
// order.
func FlattenLines(doc *goquery.Document) []Line {
	return flattenSelection(doc.Selection)
}

func flattenSelection(sel *goquery.Selection) []Line {
	var f flattener
	for _, n := range sel.Nodes {
		f.walk(n)
	}
	f.flush()
	return f.lines
}

type flattener struct {
	lines       []Line
	buf         strings.Builder
	hrefs       []string
	anchorDepth int
}

func (f *flattener) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		f.buf.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if n.Data == "br" {
			f.flush()
			return
		}
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	anchor := n.Type == html.ElementNode && n.Data == "a"
	if block {
		f.flush()
	}
	if anchor {
		if href := attr(n, "href"); href != "" {
			f.hrefs = append(f.hrefs, href)
		}
		f.anchorDepth++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		f.walk(c)
	}
	if anchor {
		f.anchorDepth--
	}
	if block {
		f.flush()
	}
}

// flush ends the current line. Hrefs of text-less anchors (icon links) stay
// with the previous line unless the anchor is still open.
func (f *flattener) flush() {
	text := weblink.CollapseSpace(f.buf.String())
	f.buf.Reset()
	if text == "" {
		if f.anchorDepth == 0 && len(f.hrefs) > 0 && len(f.lines) > 0 {
			last := &f.lines[len(f.lines)-1]
			last.Hrefs = append(last.Hrefs, f.hrefs...)
			f.hrefs = nil
		}
		return
	}
	f.lines = append(f.lines, Line{Text: text, Hrefs: f.hrefs})
	f.hrefs = nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// TruncateAt drops the first line containing any marker
// (case-insensitive) and everything after it.
func TruncateAt(lines []Line, markers []string) []Line {
	for i, l := range lines {
		text := strings.ToLower(l.Text)
		for _, m := range markers {
			if m != "" && strings.Contains(text, strings.ToLower(m)) {
				return lines[:i]
			}
		}
	}
	return lines
}

// SegmentLines truncates lines at the stop markers and splits the rest into
// per-person buffers. A new buffer starts when the current one already holds
// an email or phone and the next line is a plausible name.
func SegmentLines(lines []Line, markers []string) [][]Line {
	lines = TruncateAt(lines, markers)

	var out [][]Line
	var cur []Line
	hasContact := false
	for _, l := range lines {
		if len(cur) > 0 && hasContact && classify.IsPlausibleName(l.Text) {
			out = append(out, cur)
			cur = nil
			hasContact = false
		}
		cur = append(cur, l)
		if lineHasContact(l) {
			hasContact = true
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func lineHasContact(l Line) bool {
	if classify.LooksLikeContact(l.Text) {
		return true
	}
	for _, h := range l.Hrefs {
		if isContactHref(h) {
			return true
		}
	}
	return false
}

func lineTexts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
