package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of block detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// interstitialMax is the body size under which a page is treated as a
// challenge interstitial rather than a real page that embeds a captcha widget
// (contact forms routinely do).
const interstitialMax = 8 << 10

// DetectBlock checks an HTTP response for signs of anti-bot protection.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	// Cloudflare: 403/503 with cf-* headers.
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("cf-mitigated") != "" {
			return true, BlockCloudflare
		}
		if strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))
	small := len(body) < interstitialMax || resp.StatusCode >= 400

	if strings.Contains(lower, "cf-browser-verification") ||
		small && strings.Contains(lower, "checking your browser") {
		return true, BlockCloudflare
	}

	if small && (strings.Contains(lower, "captcha") || strings.Contains(lower, "are you a robot")) {
		return true, BlockCaptcha
	}

	// JS-only shell: tiny body that only asks for JavaScript.
	if len(body) < 2000 && strings.Contains(lower, "<noscript") &&
		strings.Contains(lower, "javascript") && !strings.Contains(lower, "<a ") {
		return true, BlockJSShell
	}

	return false, BlockNone
}
