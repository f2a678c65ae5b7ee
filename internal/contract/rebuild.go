package contract

// OwnerResult reports what a bulk rebuild did, or would do, for one track.
type OwnerResult struct {
	Sheet     string `json:"sheet"`
	TrackKey  string `json:"track_key"`
	TrackID   string `json:"track_id"`
	Nodes     int    `json:"nodes"`
	KPIs      int    `json:"kpis"`
	Penalties int    `json:"penalties"`
	Records   int    `json:"records"`
	Error     string `json:"error,omitempty"`
}

// Failed reports whether the track's rebuild was aborted.
func (r OwnerResult) Failed() bool {
	return r.Error != ""
}

// SkippedSection is a source section that was not rebuilt.
type SkippedSection struct {
	Sheet  string `json:"sheet"`
	Reason string `json:"reason"`
}

// RebuildReport is the outcome of one bulk rebuild run. Owners keep the
// mapping's order regardless of how many workers ran.
type RebuildReport struct {
	Applied bool             `json:"applied"`
	Owners  []OwnerResult    `json:"owners"`
	Skipped []SkippedSection `json:"skipped"`
}

// Failures counts owners whose rebuild was aborted.
func (r *RebuildReport) Failures() int {
	n := 0
	for _, o := range r.Owners {
		if o.Failed() {
			n++
		}
	}
	return n
}

// Empty lists owners that produced no scope nodes, the usual sign of a
// mapping or parsing problem upstream.
func (r *RebuildReport) Empty() []string {
	var keys []string
	for _, o := range r.Owners {
		if !o.Failed() && o.Nodes == 0 {
			keys = append(keys, o.TrackKey)
		}
	}
	return keys
}
