package mq

// Routing keys for lifecycle events consumed by the notification collaborators.
const (
	RoutingKeyPhaseAdvanced  = "project.phase.advanced"
	RoutingKeyProjectDeleted = "project.deleted"
)

type PhaseAdvancedPayload struct {
	ProjectID      int64  `json:"project_id"`
	CompletedPhase string `json:"completed_phase"`
	StartedPhase   string `json:"started_phase"`
}

type ProjectDeletedPayload struct {
	ProjectID   int64  `json:"project_id"`
	ProjectKey  string `json:"project_key"`
	DeletedRows int64  `json:"deleted_rows"`
}
