// Package classify holds the rule-based filters that decide whether a text
// fragment is a person's name, a role/title, or contact noise.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxNameLen = 120

var (
	parenRe      = regexp.MustCompile(`\([^)]*\)`)
	wsRe         = regexp.MustCompile(`\s+`)
	credentialRe = regexp.MustCompile(`\b(CFA|CFP|CIM|CIMA|MBA|CPA|CA|FCSI|BBA|BA|BSc|MSc|PhD|JD|LLB|LLM|RIA|CLU|CHS|TEP|FMA|PFP|CPCA|CIWM)\b\.?`)
	apostropheR  = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'", "`", "'", "´", "'")
)

// boilerplate are whole-string phrases that look like names but never are.
var boilerplate = map[string]bool{
	"our team": true, "notre équipe": true, "notre equipe": true, "contact us": true,
	"contactez-nous": true, "nous joindre": true, "meet the team": true, "team members": true,
	"view profile": true, "voir le profil": true, "read more": true, "en savoir plus": true,
	"learn more": true, "about us": true, "à propos": true, "our services": true,
	"nos services": true, "book a meeting": true, "get in touch": true, "additional specialists": true,
	"spécialistes additionnels": true, "wealth management": true, "gestion de patrimoine": true,
	"privacy policy": true, "terms of use": true, "site map": true, "plan du site": true,
}

// bannedTokens are marketing, service and title words. A name containing any
// of them is rejected.
var bannedTokens = map[string]bool{
	"team": true, "équipe": true, "equipe": true, "contact": true, "us": true, "our": true,
	"nous": true, "notre": true, "nos": true, "services": true, "service": true,
	"wealth": true, "patrimoine": true, "management": true, "gestion": true,
	"investment": true, "investments": true, "placement": true, "placements": true,
	"financial": true, "financière": true, "financier": true, "planning": true,
	"planification": true, "insurance": true, "assurance": true, "group": true, "groupe": true,
	"advisor": true, "advisors": true, "adviser": true, "conseiller": true, "conseillère": true,
	"conseillers": true, "senior": true, "associate": true, "associé": true, "associée": true,
	"director": true, "directeur": true, "directrice": true, "manager": true, "gestionnaire": true,
	"assistant": true, "assistante": true, "adjoint": true, "adjointe": true, "president": true,
	"président": true, "vice": true, "portfolio": true, "portefeuille": true, "private": true,
	"privée": true, "client": true, "clients": true, "view": true, "profile": true, "profil": true,
	"voir": true, "read": true, "more": true, "learn": true, "home": true, "accueil": true,
	"branch": true, "succursale": true, "office": true, "bureau": true, "inc": true, "ltd": true,
	"llp": true, "partners": true, "partenaires": true, "solutions": true, "approach": true,
	"approche": true, "philosophy": true, "philosophie": true, "mission": true, "values": true,
	"news": true, "insights": true, "careers": true, "book": true, "meeting": true, "email": true,
	"phone": true, "téléphone": true, "telephone": true, "fax": true, "street": true, "avenue": true,
	"suite": true, "floor": true, "canada": true, "québec": true, "quebec": true, "specialists": true,
	"spécialistes": true, "additional": true, "additionnels": true, "welcome": true, "bienvenue": true,
	"dominion": true, "securities": true, "bank": true, "banque": true,
}

// particles may appear lowercase inside a name.
var particles = map[string]bool{
	"de": true, "du": true, "des": true, "la": true, "le": true, "van": true, "von": true,
	"der": true, "den": true, "ter": true, "st": true, "ste": true, "mc": true, "mac": true,
	"da": true, "di": true, "del": true, "della": true, "dos": true, "das": true,
	"saint": true, "sainte": true, "al": true, "el": true, "bin": true, "y": true,
}

// CleanName strips parentheticals, credentials after a comma and decoration
// from raw. It returns "" when nothing usable remains.
func CleanName(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = apostropheR.Replace(s)
	s = parenRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
	if s == "" || len([]rune(s)) > maxNameLen {
		return ""
	}
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	s = credentialRe.ReplaceAllString(s, "")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.Trim(s, " -–—|•·:")
}

// IsPlausibleName reports whether text is shaped like a personal name: two to
// six tokens, no digits, no boilerplate or banned vocabulary, every token
// capitalized or a name particle, and at least two capitalized non-particles.
func IsPlausibleName(text string) bool {
	s := CleanName(text)
	if s == "" || strings.IndexFunc(s, unicode.IsDigit) >= 0 {
		return false
	}
	tokens := strings.Fields(s)
	if len(tokens) < 2 || len(tokens) > 6 {
		return false
	}
	if boilerplate[strings.ToLower(s)] {
		return false
	}
	if strings.Contains(s, "@") {
		return false
	}
	capitalized := 0
	for _, tok := range tokens {
		low := strings.TrimSuffix(strings.ToLower(tok), ".")
		if bannedTokens[low] {
			return false
		}
		if particles[low] {
			continue
		}
		if !startsUpper(tok) {
			return false
		}
		capitalized++
	}
	return capitalized >= 2
}

// IsLoosePersonName is the relaxed check used by the generic fallback: two to
// six tokens, no digits or contact data, not boilerplate, first token
// capitalized.
func IsLoosePersonName(text string) bool {
	s := CleanName(text)
	if s == "" || strings.IndexFunc(s, unicode.IsDigit) >= 0 || strings.Contains(s, "@") {
		return false
	}
	tokens := strings.Fields(s)
	if len(tokens) < 2 || len(tokens) > 6 {
		return false
	}
	if boilerplate[strings.ToLower(s)] {
		return false
	}
	for _, tok := range tokens {
		switch strings.ToLower(tok) {
		case "team", "équipe", "contact", "services", "our", "notre":
			return false
		}
	}
	return startsUpper(tokens[0])
}

// CanonicalName lowercases s and drops every non-letter. It is a lookup key,
// never a display value.
func CanonicalName(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// startsUpper accepts tokens like "D'Amico" and "d'Amours" and
// "O'Neil" by skipping a one-letter elided prefix.
func startsUpper(tok string) bool {
	runes := []rune(tok)
	if len(runes) > 2 && runes[1] == '\'' {
		runes = runes[2:]
	}
	return len(runes) > 0 && unicode.IsUpper(runes[0])
}

func letterTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(norm.NFC.String(s)), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
