package model

import "time"

type PhaseType string

const (
	PhaseKickoff           PhaseType = "kickoff"
	PhaseTechnicalPlanning PhaseType = "technical_planning"
	PhaseDevelopment       PhaseType = "development"
	PhaseInternalTesting   PhaseType = "internal_testing"
	PhaseUAT               PhaseType = "uat"
	PhaseGoLive            PhaseType = "go_live"
)

// PhaseSequence is the fixed total order of the six lifecycle phases.
// Positions in the phases table match indexes into this slice.
var PhaseSequence = []PhaseType{
	PhaseKickoff,
	PhaseTechnicalPlanning,
	PhaseDevelopment,
	PhaseInternalTesting,
	PhaseUAT,
	PhaseGoLive,
}

// Position returns the ordinal of the phase type in the fixed order, or -1
// for an unknown type.
func (t PhaseType) Position() int {
	for i, p := range PhaseSequence {
		if p == t {
			return i
		}
	}
	return -1
}

type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseCompleted  PhaseStatus = "completed"
	PhaseBlocked    PhaseStatus = "blocked"
)

// Phase rows are created in bulk (all six) when the project is created and
// destroyed only by cascade. At most one phase per project is InProgress;
// completed phases form a prefix of the fixed order.
type Phase struct {
	ID          int64       `json:"id"`
	ProjectID   int64       `json:"project_id"`
	Type        PhaseType   `json:"phase_type"`
	Position    int         `json:"position"`
	Status      PhaseStatus `json:"status"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}
