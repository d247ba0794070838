package model

import "time"

// Stage names the run step a RunError was raised in.
type Stage string

const (
	StageDiscover Stage = "discover"
	StageExtract  Stage = "extract"
	StageExport   Stage = "export"
)

// RunError is a caught failure tied to the seed or target that raised it.
type RunError struct {
	Stage     Stage  `json:"stage" yaml:"stage"`
	TargetURL string `json:"target_url" yaml:"target_url"`
	Message   string `json:"error_message" yaml:"error_message"`
}

// TargetOutcome summarizes what one target contributed to a run.
type TargetOutcome struct {
	Target     DiscoveryTarget `json:"target"`
	SourcePage string          `json:"source_page,omitempty"`
	TeamName   string          `json:"team_name,omitempty"`
	Records    int             `json:"records"`
	Failed     bool            `json:"failed"`
}

// RunResult is the output of a build run: canonical rows plus the parallel
// error list.
type RunResult struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Rows       []CanonicalRow  `json:"rows"`
	Empty      []CanonicalRow  `json:"no_people_found,omitempty"`
	Outcomes   []TargetOutcome `json:"outcomes,omitempty"`
	Errors     []RunError      `json:"errors"`
	Records    int             `json:"records_extracted"`
}
