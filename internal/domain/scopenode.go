package domain

import (
	"fmt"
	"time"
)

// ScopeNode is one item of a track's work-breakdown tree.
type ScopeNode struct {
	ID         string     `json:"id"`
	TrackID    string     `json:"track_id"`
	ParentID   *string    `json:"parent_id,omitempty"`
	Code       string     `json:"code"`
	Title      string     `json:"title"`
	TitleAlt   string     `json:"title_alt"`
	Body       string     `json:"body"`
	BodyAlt    string     `json:"body_alt"`
	OrderIndex int        `json:"order_index"`
	Progress   float64    `json:"progress"`
	Status     NodeStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsRoot reports whether the node has no parent.
func (n *ScopeNode) IsRoot() bool {
	return n.ParentID == nil
}

// DeriveStatus maps a progress value to its conventional status.
func DeriveStatus(progress float64) NodeStatus {
	switch {
	case progress >= 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// ValidateProgress rejects values outside [0, 100].
func ValidateProgress(progress float64) error {
	if progress < 0 || progress > 100 {
		return &ValidationError{Message: fmt.Sprintf("progress must be between 0 and 100, got %v", progress)}
	}
	return nil
}

// SetProgress records a new progress value. The status is derived from the
// value unless an explicit override is given.
func (n *ScopeNode) SetProgress(progress float64, override *NodeStatus, now time.Time) error {
	if err := ValidateProgress(progress); err != nil {
		return err
	}
	status := DeriveStatus(progress)
	if override != nil {
		if !ValidStatuses[string(*override)] {
			return &ValidationError{Message: fmt.Sprintf("invalid status %q", *override)}
		}
		status = *override
	}
	n.Progress = progress
	n.Status = status
	n.UpdatedAt = now
	return nil
}
