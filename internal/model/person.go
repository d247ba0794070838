package model

// SourceTag records which extraction strategy produced a PersonRecord. It is
// diagnostic only and never part of identity.
type SourceTag string

const (
	SourceJSONLD        SourceTag = "jsonld"
	SourceHeading       SourceTag = "heading"
	SourceLines         SourceTag = "lines"
	SourceProfile       SourceTag = "profile"
	SourceRoster        SourceTag = "roster"
	SourceGeneric       SourceTag = "generic"
	SourceNoPeopleFound SourceTag = "no_people_found"
)

// Contact field bounds on a single record.
const (
	MaxEmails = 3
	MaxPhones = 3
)

// PersonRecord is one extracted, not yet deduplicated candidate person.
type PersonRecord struct {
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Emails      []string  `json:"emails,omitempty"`
	Phones      []string  `json:"phones,omitempty"`
	Address     string    `json:"address,omitempty"`
	ProfileURL  string    `json:"profile_url,omitempty"`
	TeamRootURL string    `json:"team_root_url,omitempty"`
	TeamSlug    string    `json:"team_slug,omitempty"`
	TeamName    string    `json:"team_name,omitempty"`
	Source      SourceTag `json:"source"`

	// Team subpages resolved by the hub family.
	TeamPageURL    string `json:"team_page_url,omitempty"`
	ContactPageURL string `json:"contact_page_url,omitempty"`

	// Set by the pipeline, not by extractors.
	SeedURL    string `json:"branch_seed_url,omitempty"`
	SourcePage string `json:"source_page,omitempty"`
}

// AddEmail appends an email when it is new and the bound is not reached.
func (p *PersonRecord) AddEmail(email string) {
	p.Emails = appendBounded(p.Emails, email, MaxEmails)
}

// AddPhone appends a phone when it is new and the bound is not reached.
func (p *PersonRecord) AddPhone(phone string) {
	p.Phones = appendBounded(p.Phones, phone, MaxPhones)
}

// HasContact reports whether the record carries an email or a phone.
func (p PersonRecord) HasContact() bool {
	return len(p.Emails) > 0 || len(p.Phones) > 0
}

func appendBounded(list []string, v string, limit int) []string {
	if v == "" || len(list) >= limit {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// CanonicalRow is one deduplicated, merged output row per distinct person.
type CanonicalRow struct {
	IdentityKey string `json:"identity_key"`
	TeamName    string `json:"team_name"`
	TeamSlug    string `json:"team_slug,omitempty"`
	// Team URLs are joined with "; " when a person belongs to several teams.
	TeamRootURL    string    `json:"team_root_url,omitempty"`
	TeamPageURL    string    `json:"team_page_url,omitempty"`
	ContactPageURL string    `json:"contact_page_url,omitempty"`
	Name           string    `json:"advisor_name"`
	Role           string    `json:"advisor_role"`
	Email          string    `json:"advisor_email"`
	Phone          string    `json:"advisor_phone"`
	Address        string    `json:"address,omitempty"`
	ProfileURL     string    `json:"profile_url,omitempty"`
	SeedURL        string    `json:"branch_seed_url,omitempty"`
	SourcePages    []string  `json:"source_pages,omitempty"`
	Source         SourceTag `json:"source"`
	Merged         int       `json:"merged_records"`
}
