package scrape

import (
	"net/url"
	"path"
	"strings"
)

// defaultExcludePatterns keep branch pages, document downloads and media out
// of discovered target lists.
var defaultExcludePatterns = []string{
	"/web/montreal-*",
	"/*.pdf",
	"/*/*.pdf",
	"/documents/*",
	"/media/*",
	"/assets/*",
}

// PathMatcher filters discovered target URLs with glob-style path patterns.
// Uses path.Match from stdlib for proper glob matching, plus a segmented
// match so "/blog/*" matches multi-level paths like "/blog/deep/path".
type PathMatcher struct {
	patterns []string
}

// NewPathMatcher creates a PathMatcher from glob patterns (e.g. "/web/montreal-*", "/*.pdf").
// Falls back to default patterns if none are provided.
func NewPathMatcher(patterns []string) *PathMatcher {
	if len(patterns) == 0 {
		patterns = defaultExcludePatterns
	}
	return &PathMatcher{patterns: patterns}
}

// Patterns returns the configured patterns.
func (m *PathMatcher) Patterns() []string {
	return m.patterns
}

// IsExcluded checks whether a URL matches any exclude pattern.
func (m *PathMatcher) IsExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	return m.isPathExcluded(u.Path)
}

// isPathExcluded checks a URL path against all patterns.
func (m *PathMatcher) isPathExcluded(urlPath string) bool {
	urlPath = strings.ToLower(urlPath)
	for _, pattern := range m.patterns {
		pattern = strings.ToLower(pattern)
		if matchSegmented(pattern, urlPath) {
			return true
		}
	}
	return false
}

// matchSegmented performs glob matching where a pattern like "/media/*"
// matches both "/media/logo.png" and "/media/2024/logo.png".
//
// It first tries an exact path.Match, then the "/*" directory prefix, then
// every ancestor directory of urlPath.
func matchSegmented(pattern, urlPath string) bool {
	// Try exact stdlib glob match first.
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}

	// For patterns ending in "/*", check if the URL path starts with the
	// pattern's directory prefix. This lets "/blog/*" match "/blog/a/b/c".
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/") {
			return true
		}
	}

	// A pattern that names a directory also excludes everything under it, so
	// "/web/montreal-*" covers "/web/montreal-centre/our-team".
	for i := 1; i < len(urlPath); i++ {
		if urlPath[i] != '/' {
			continue
		}
		if ok, _ := path.Match(pattern, urlPath[:i]); ok {
			return true
		}
	}
	return false
}
