package model

import "time"

type BugSeverity string

const (
	BugLow      BugSeverity = "low"
	BugMedium   BugSeverity = "medium"
	BugHigh     BugSeverity = "high"
	BugCritical BugSeverity = "critical"
)

type BugStatus string

const (
	BugOpen       BugStatus = "open"
	BugInProgress BugStatus = "in_progress"
	BugResolved   BugStatus = "resolved"
	BugClosed     BugStatus = "closed"
	BugWontFix    BugStatus = "wont_fix"
)

// IsTerminal reports whether the status counts as dealt with for phase
// gating purposes.
func (s BugStatus) IsTerminal() bool {
	return s == BugResolved || s == BugClosed || s == BugWontFix
}

// BugReport belongs to a project. ResolvedAt is set if and only if the status
// is resolved or closed.
type BugReport struct {
	ID         int64       `json:"id"`
	ProjectID  int64       `json:"project_id"`
	Title      string      `json:"title"`
	Severity   BugSeverity `json:"severity"`
	Status     BugStatus   `json:"status"`
	ResolvedAt *time.Time  `json:"resolved_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
