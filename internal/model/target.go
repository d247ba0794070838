package model

// TargetKind tags what a discovered target is expected to contain. Only the
// directory family distinguishes advisors from teams.
type TargetKind string

const (
	KindAdvisor TargetKind = "advisor"
	KindTeam    TargetKind = "team"
	KindUnknown TargetKind = "unknown"
)

// ParseTargetKind maps free text to a TargetKind, defaulting to KindUnknown.
func ParseTargetKind(s string) TargetKind {
	switch TargetKind(s) {
	case KindAdvisor:
		return KindAdvisor
	case KindTeam:
		return KindTeam
	default:
		return KindUnknown
	}
}

// DiscoveryTarget is one page discovered from a seed URL that is expected to
// contain person-identifying content.
type DiscoveryTarget struct {
	SeedURL   string     `json:"branch_seed_url" yaml:"branch_seed_url"`
	TargetURL string     `json:"target_url" yaml:"target_url"`
	LinkText  string     `json:"link_text" yaml:"link_text"`
	Kind      TargetKind `json:"target_kind" yaml:"target_kind"`
	Family    SiteFamily `json:"family" yaml:"family"`
	Include   bool       `json:"include" yaml:"include"`
}

// Key returns the uniqueness key of the target: the same URL may appear once
// per kind.
func (t DiscoveryTarget) Key() string {
	return t.TargetURL + "|" + string(t.Kind)
}

// TargetList is the curated list exchanged between the discover and build
// commands.
type TargetList struct {
	RunID   string            `json:"run_id" yaml:"run_id"`
	Seeds   []string          `json:"seeds" yaml:"seeds"`
	Targets []DiscoveryTarget `json:"targets" yaml:"targets"`
	Errors  []RunError        `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Included returns the targets marked for processing, capped at limit when
// limit is positive.
func (l TargetList) Included(limit int) []DiscoveryTarget {
	var out []DiscoveryTarget
	for _, t := range l.Targets {
		if !t.Include {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, t)
	}
	return out
}
