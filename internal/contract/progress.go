package contract

import "github.com/alexanderramin/trackscope/internal/domain"

// Breakdown holds the four signal family scores of one track. Reports is a
// raw count, not a percentage; it enters the overall mean unscaled.
type Breakdown struct {
	Tasks       float64 `json:"tasks"`
	Reports     float64 `json:"reports"`
	ScopeBlocks float64 `json:"scope_blocks"`
	KPIs        float64 `json:"kpis"`
}

// Mean returns the unweighted mean of the four families.
func (b Breakdown) Mean() float64 {
	return (b.Tasks + b.Reports + b.ScopeBlocks + b.KPIs) / 4
}

// TrackProgress is the roll-up of one track.
type TrackProgress struct {
	TrackID   string              `json:"track_id"`
	TrackKey  string              `json:"track_key"`
	TrackName string              `json:"track_name"`
	Mode      domain.ProgressMode `json:"mode"`
	Overall   float64             `json:"overall"`
	Breakdown Breakdown           `json:"breakdown"`
}

// Totals are system-wide entity counts.
type Totals struct {
	Tracks              int `json:"tracks"`
	Records             int `json:"records"`
	Tasks               int `json:"tasks"`
	KPIs                int `json:"kpis"`
	KPIEntries          int `json:"kpi_entries"`
	Penalties           int `json:"penalties"`
	UnresolvedPenalties int `json:"unresolved_penalties"`
	Reports             int `json:"reports"`
}

// ExecutiveSummary is the cross-track view. Overall is the mean of the track
// overalls rounded to the nearest integer, never weighted by track size.
type ExecutiveSummary struct {
	Mode    domain.ProgressMode `json:"mode"`
	Overall int                 `json:"overall"`
	Tracks  []TrackProgress     `json:"tracks"`
	Totals  Totals              `json:"totals"`
}
