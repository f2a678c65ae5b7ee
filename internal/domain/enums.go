package domain

// NodeStatus is the completion state shared by scope nodes and tasks.
type NodeStatus string

const (
	StatusPending    NodeStatus = "pending"
	StatusInProgress NodeStatus = "in_progress"
	StatusCompleted  NodeStatus = "completed"
)

// ValidStatuses is the canonical set of accepted status strings.
var ValidStatuses = map[string]bool{
	"pending": true, "in_progress": true, "completed": true,
}

// AllStatuses lists statuses in display order.
var AllStatuses = []NodeStatus{StatusPending, StatusInProgress, StatusCompleted}

type PenaltySeverity string

const (
	SeverityLow    PenaltySeverity = "low"
	SeverityMedium PenaltySeverity = "medium"
	SeverityHigh   PenaltySeverity = "high"
)

// ProgressMode selects how the task and scope families are scored.
type ProgressMode string

const (
	// ModeAverage scores a family as the mean of item progress values.
	ModeAverage ProgressMode = "average"
	// ModeCompletion scores a family as the share of completed items.
	ModeCompletion ProgressMode = "completion"
)

// ValidProgressModes is the canonical set of accepted progress modes.
var ValidProgressModes = map[string]bool{
	"average": true, "completion": true,
}
