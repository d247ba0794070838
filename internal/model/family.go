// Package model defines the records that flow through discovery, extraction,
// reconciliation and export.
package model

// SiteFamily identifies which discovery/extraction strategy handles a host.
type SiteFamily string

const (
	FamilyDirectory SiteFamily = "directory" // combined advisors + teams directory (family A)
	FamilyRoster    SiteFamily = "roster"    // fixed-path team roster pages (family B)
	FamilyHub       SiteFamily = "hub"       // hub listing page with one-segment spokes (family C)
	FamilyGeneric   SiteFamily = "generic"
)

// AllFamilies returns every site family in dispatch order.
func AllFamilies() []SiteFamily {
	return []SiteFamily{
		FamilyDirectory,
		FamilyRoster,
		FamilyHub,
		FamilyGeneric,
	}
}

// Valid reports whether f is a known family.
func (f SiteFamily) Valid() bool {
	switch f {
	case FamilyDirectory, FamilyRoster, FamilyHub, FamilyGeneric:
		return true
	}
	return false
}
