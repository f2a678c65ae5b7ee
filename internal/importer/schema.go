package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// SeedSchema is the top-level JSON structure for seeding tracks and the
// signals the progress roll-up reads.
type SeedSchema struct {
	Tracks []TrackSeed `json:"tracks"`
}

// TrackSeed defines one track and its initial data.
type TrackSeed struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	NameAlt     string       `json:"name_alt,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       string       `json:"color,omitempty"`
	Scope       string       `json:"scope,omitempty"`
	Tasks       []TaskSeed   `json:"tasks,omitempty"`
	Reports     []ReportSeed `json:"reports,omitempty"`
	KPIs        []KPISeed    `json:"kpis,omitempty"`
}

// TaskSeed defines a task. Status defaults to the one derived from progress.
type TaskSeed struct {
	Title    string   `json:"title"`
	Progress *float64 `json:"progress,omitempty"`
	Status   string   `json:"status,omitempty"`
}

// ReportSeed defines a submitted report.
type ReportSeed struct {
	Title       string  `json:"title"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
}

// KPISeed defines one measured KPI value.
type KPISeed struct {
	Name   string  `json:"name"`
	Actual float64 `json:"actual"`
	Target float64 `json:"target"`
}

// LoadSeedSchema reads and parses a seed JSON file.
func LoadSeedSchema(path string) (*SeedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema SeedSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &schema, nil
}
