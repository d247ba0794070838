package classify

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\-\s().]{6,}\d`)
	dateRe  = regexp.MustCompile(`^\d{4}[-/.]\d{1,2}[-/.]\d{1,2}$`)
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// FindEmails returns every email address in text, in order.
func FindEmails(text string) []string {
	return emailRe.FindAllString(text, -1)
}

// FindPhones returns every phone-shaped run in text, trimmed. Runs with too
// few digits and ISO dates are skipped.
func FindPhones(text string) []string {
	var out []string
	for _, m := range phoneRe.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if dateRe.MatchString(m) {
			continue
		}
		if n := len(PhoneDigits(m)); n < minPhoneDigits || n > maxPhoneDigits {
			continue
		}
		out = append(out, m)
	}
	return out
}

// LooksLikeContact reports whether text contains an email or phone number.
func LooksLikeContact(text string) bool {
	return emailRe.MatchString(text) || len(FindPhones(text)) > 0
}

// PhoneDigits keeps only the digits of s.
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeEmail lowercases and trims an address, dropping a mailto: prefix
// and any query.
func NormalizeEmail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 7 && strings.EqualFold(s[:7], "mailto:") {
		s = s[7:]
	}
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}
