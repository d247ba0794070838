package classify

import (
	"strings"
	"unicode/utf8"
)

// roleStems match the start of a lowercase token. English and French titles
// used across the advisory firms we index.
var roleStems = []string{
	"advis", "conseill", "counsel", "director", "directeur", "directrice",
	"manag", "gestionnaire", "gérant", "vice", "presid", "présid", "associ",
	"analyst", "analyste", "assistant", "adjoint", "planner", "planificat",
	"partner", "specialist", "spécialiste", "consultant", "portfolio", "portefeuille",
	"wealth", "patrimoin", "investment", "placement", "insurance", "assurance",
	"administrat", "coordinat", "officer", "head", "chef", "lead", "principal",
	"branch", "succursale", "client", "estate", "successoral", "tax", "fiscal",
	"trust", "fiduciair", "banker", "banquier", "strateg", "stratèg", "executive",
	"exécutif", "senior", "representative", "représentant", "broker",
	"courtier", "agent", "financial", "financi", "retirement", "retraite",
	"administrator", "operations", "opérations", "founder", "fondat", "owner",
	"chief", "trader", "négociat", "marketing", "support", "soutien",
}

// IsPlausibleRole reports whether text reads as a job title for personName.
// Fragments that are contact data, that repeat the name, or whose words all
// come from the name are rejected.
func IsPlausibleRole(text, personName string) bool {
	t := collapse(text)
	if n := utf8.RuneCountInString(t); n < 2 || n > 120 {
		return false
	}
	if LooksLikeContact(t) {
		return false
	}
	if personName != "" {
		if CanonicalName(t) == CanonicalName(personName) {
			return false
		}
		if subsetOf(letterTokens(t), letterTokens(personName)) {
			return false
		}
	}
	for _, tok := range letterTokens(t) {
		if isRoleToken(tok) {
			return true
		}
	}
	return false
}

// IsLooseRole is the relaxed role check used by the generic fallback: any
// short line that is not contact data and not the name itself.
func IsLooseRole(text, personName string) bool {
	t := collapse(text)
	if n := utf8.RuneCountInString(t); n < 3 || n > 80 {
		return false
	}
	if LooksLikeContact(t) || strings.HasPrefix(strings.ToLower(t), "opens in") {
		return false
	}
	if personName != "" && CanonicalName(t) == CanonicalName(personName) {
		return false
	}
	return true
}

func isRoleToken(tok string) bool {
	for _, stem := range roleStems {
		if strings.HasPrefix(tok, stem) {
			return true
		}
	}
	return false
}

func subsetOf(tokens, of []string) bool {
	if len(tokens) == 0 {
		return true
	}
	set := make(map[string]bool, len(of))
	for _, t := range of {
		set[t] = true
	}
	for _, t := range tokens {
		if !set[t] {
			return false
		}
	}
	return true
}

func collapse(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}
