// Package weblink normalizes URLs and selects navigation links from pages.
package weblink

import (
	"net/url"
	"regexp"
	"strings"
)

// Normalize strips the fragment and query string. It is the identity key for
// the page cache and for target dedupe, so it must be idempotent.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			return raw[:i]
		}
		return raw
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""
	u.ForceQuery = false
	u.Host = strings.ToLower(u.Host)
	u.Scheme = strings.ToLower(u.Scheme)
	return u.String()
}

// SameDomain compares the hosts of a and b case-insensitively. URLs without a
// host never match.
func SameDomain(a, b string) bool {
	ha, hb := Host(a), Host(b)
	return ha != "" && ha == hb
}

// Host returns the lowercased host (with port) of raw, or "".
func Host(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// Resolve makes href absolute against base and normalizes it. It returns ""
// for unparsable input and for non-http(s) schemes.
func Resolve(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := b.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return Normalize(abs.String())
}

// Segments returns the non-empty path segments of raw.
func Segments(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	var out []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Depth is the number of path segments in raw.
func Depth(raw string) int {
	return len(Segments(raw))
}

// FirstSegment returns the first path segment of raw, or "".
func FirstSegment(raw string) string {
	segs := Segments(raw)
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

// RootURL returns scheme://host/<first segment>/ for raw, or scheme://host/
// when the path is empty.
func RootURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	first := FirstSegment(raw)
	out := url.URL{Scheme: u.Scheme, Host: strings.ToLower(u.Host), Path: "/"}
	if first != "" {
		out.Path = "/" + first + "/"
	}
	return out.String()
}

// SiteRoot returns scheme://host/ for raw.
func SiteRoot(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: u.Scheme, Host: strings.ToLower(u.Host), Path: "/"}).String()
}

// Join appends a relative path to base as a child path.
func Join(base, rel string) string {
	return Resolve(strings.TrimRight(base, "/")+"/", strings.TrimLeft(rel, "/"))
}

var (
	slugJunk   = regexp.MustCompile(`[^A-Za-z0-9-]+`)
	slugDashes = regexp.MustCompile(`-{2,}`)
)

// TeamSlug derives a team slug from a team root URL: /web/<slug>/... yields
// <slug>, otherwise the first segment is cleaned into a dash slug.
func TeamSlug(root string) string {
	segs := Segments(root)
	if len(segs) == 0 {
		return ""
	}
	if strings.EqualFold(segs[0], "web") {
		if len(segs) >= 2 {
			return strings.ToLower(segs[1])
		}
		return ""
	}
	seg := strings.ReplaceAll(segs[0], "_", "-")
	seg = slugJunk.ReplaceAllString(seg, "-")
	seg = slugDashes.ReplaceAllString(seg, "-")
	return strings.ToLower(strings.Trim(seg, "-"))
}
