package domain

import (
	"strings"
	"time"
)

// Task is a unit of tracked work that feeds the task family of the roll-up.
type Task struct {
	ID        string     `json:"id"`
	TrackID   string     `json:"track_id"`
	Title     string     `json:"title"`
	Status    NodeStatus `json:"status"`
	Progress  float64    `json:"progress"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SetProgress updates progress and derives the status from it.
func (t *Task) SetProgress(progress float64, now time.Time) error {
	if err := ValidateProgress(progress); err != nil {
		return err
	}
	t.Progress = progress
	t.Status = DeriveStatus(progress)
	t.UpdatedAt = now
	return nil
}

// Report is a submitted report; the roll-up only counts them.
type Report struct {
	ID          string    `json:"id"`
	TrackID     string    `json:"track_id"`
	Title       string    `json:"title"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// KPIEntry is a measured KPI value against its target.
type KPIEntry struct {
	ID        string    `json:"id"`
	TrackID   string    `json:"track_id"`
	Name      string    `json:"name"`
	Actual    float64   `json:"actual"`
	Target    float64   `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

// Attainment returns min(actual/target, 1) * 100, or 0 when target is not positive.
func (k *KPIEntry) Attainment() float64 {
	if k.Target <= 0 {
		return 0
	}
	ratio := k.Actual / k.Target
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio * 100
}

// TrackKPI is a KPI definition extracted from a track's source sheet.
type TrackKPI struct {
	ID        string    `json:"id"`
	TrackID   string    `json:"track_id"`
	Name      string    `json:"name"`
	NameAlt   string    `json:"name_alt"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// Penalty is a penalty clause extracted from a track's source sheet.
type Penalty struct {
	ID           string          `json:"id"`
	TrackID      string          `json:"track_id"`
	Violation    string          `json:"violation"`
	ViolationAlt string          `json:"violation_alt"`
	Severity     PenaltySeverity `json:"severity"`
	Resolved     bool            `json:"resolved"`
	SortOrder    int             `json:"sort_order"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ClassifySeverity infers a penalty's severity from the deduction it quotes.
func ClassifySeverity(text string) PenaltySeverity {
	switch {
	case strings.Contains(text, "20%"), strings.Contains(text, "2%"):
		return SeverityHigh
	case strings.Contains(text, "1%"):
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Record is a deliverable tracked against a track.
type Record struct {
	ID        string     `json:"id"`
	TrackID   string     `json:"track_id"`
	Title     string     `json:"title"`
	TitleAlt  string     `json:"title_alt"`
	Status    NodeStatus `json:"status"`
	Progress  float64    `json:"progress"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
