package weblink

import (
	"net/url"
	"strings"
)

// stopText lists anchor labels that are navigation, legal or boilerplate.
var stopText = map[string]bool{
	"home": true, "accueil": true, "privacy": true, "confidentialité": true,
	"legal": true, "légal": true, "terms": true, "conditions": true,
	"accessibility": true, "accessibilité": true, "sitemap": true, "plan du site": true,
	"search": true, "recherche": true, "market insights": true, "insights": true,
	"perspectives": true, "blog": true, "news": true, "nouvelles": true,
	"careers": true, "carrières": true, "cookies": true, "cookie": true,
	"security": true, "sécurité": true, "français": true, "english": true,
	"sign in": true, "log in": true, "connexion": true, "skip to main content": true,
}

// stopPathTokens reject links whose path has a segment, or a hyphen or
// underscore separated word of a segment, equal to one of them.
var stopPathTokens = map[string]bool{
	"privacy": true, "confidentialite": true, "legal": true, "legales": true,
	"terms": true, "accessibility": true, "accessibilite": true, "sitemap": true,
	"search": true, "recherche": true, "market": true, "insights": true,
	"news": true, "blog": true, "careers": true, "career": true, "carriere": true,
	"carrieres": true, "carrières": true, "cookies": true, "security": true,
	"perspectives": true, "nouvelles": true, "login": true, "signin": true,
	"sign-in": true, "log-in": true, "share": true, "subscribe": true,
}

// socialHosts are never in-scope navigation targets.
var socialHosts = []string{
	"facebook.com", "linkedin.com", "twitter.com", "x.com", "instagram.com",
	"youtube.com", "tiktok.com",
}

// IsStopLink reports whether an anchor is navigation/legal/social
// boilerplate, judged by its label or its URL.
func IsStopLink(text, rawURL string) bool {
	if stopText[strings.ToLower(CollapseSpace(text))] {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range socialHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return hasStopPathToken(strings.ToLower(u.Path))
}

func hasStopPathToken(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		seg = strings.TrimSuffix(strings.TrimSuffix(seg, ".html"), ".htm")
		if stopPathTokens[seg] {
			return true
		}
		for _, w := range strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' }) {
			if stopPathTokens[w] {
				return true
			}
		}
	}
	return false
}
