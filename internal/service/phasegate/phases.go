// Package phasegate implements the six-stage lifecycle workflow: requirement
// evaluation, transition validation and atomic transition execution.
package phasegate

import "project-service/internal/model"

// Requirement codes. Each code has exactly one registered evaluator.
const (
	ReqSitemapSRSApproved   = "SITEMAP_SRS_APPROVED"
	ReqTechStackSelected    = "TECH_STACK_SELECTED"
	ReqDBSchemaApproved     = "DB_SCHEMA_APPROVED"
	ReqAPIDocApproved       = "API_DOC_APPROVED"
	ReqDesignApproved       = "DESIGN_APPROVED"
	ReqStagingDeployed      = "STAGING_DEPLOYED"
	ReqAllDevTasksComplete  = "ALL_DEV_TASKS_COMPLETE"
	ReqNoCriticalBugs       = "NO_CRITICAL_BUGS"
	ReqTestChecklistDone    = "TEST_CHECKLIST_COMPLETE"
	ReqUATSignoff           = "UAT_SIGNOFF"
	ReqAllFeedbackAddressed = "ALL_FEEDBACK_ADDRESSED"
)

// gateRequirements maps a phase to the requirement codes that must hold
// before a project may enter it. Kickoff has no gate; it starts in progress
// at project creation.
var gateRequirements = map[model.PhaseType][]string{
	model.PhaseTechnicalPlanning: {ReqSitemapSRSApproved, ReqTechStackSelected},
	model.PhaseDevelopment:       {ReqDBSchemaApproved, ReqAPIDocApproved, ReqDesignApproved},
	model.PhaseInternalTesting:   {ReqStagingDeployed, ReqAllDevTasksComplete},
	model.PhaseUAT:               {ReqNoCriticalBugs, ReqTestChecklistDone},
	model.PhaseGoLive:            {ReqUATSignoff, ReqAllFeedbackAddressed},
}

// RequirementsFor returns the gate requirement codes for entering a phase.
func RequirementsFor(phase model.PhaseType) []string {
	return gateRequirements[phase]
}

// NextPhase returns the strict successor in the fixed order, or false when
// the phase is terminal.
func NextPhase(current model.PhaseType) (model.PhaseType, bool) {
	pos := current.Position()
	if pos < 0 || pos+1 >= len(model.PhaseSequence) {
		return "", false
	}
	return model.PhaseSequence[pos+1], true
}

// IsValidTransition is true only when to is exactly from's successor. No
// skipping, no going backward; rollback is a separate concern.
func IsValidTransition(from, to model.PhaseType) bool {
	fromPos := from.Position()
	toPos := to.Position()
	return fromPos >= 0 && toPos >= 0 && toPos == fromPos+1
}

// DisplayInfo is the presentational metadata for a phase. Pure lookup, no
// logic.
type DisplayInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

var displayInfo = map[model.PhaseType]DisplayInfo{
	model.PhaseKickoff: {
		Name:        "Kickoff",
		Description: "Scope agreed, planning documents gathered",
		Color:       "#6366f1",
	},
	model.PhaseTechnicalPlanning: {
		Name:        "Technical Planning",
		Description: "Architecture, schema and API design",
		Color:       "#8b5cf6",
	},
	model.PhaseDevelopment: {
		Name:        "Development",
		Description: "Feature implementation",
		Color:       "#3b82f6",
	},
	model.PhaseInternalTesting: {
		Name:        "Internal Testing",
		Description: "QA passes on the staging environment",
		Color:       "#f59e0b",
	},
	model.PhaseUAT: {
		Name:        "UAT",
		Description: "User acceptance testing",
		Color:       "#10b981",
	},
	model.PhaseGoLive: {
		Name:        "Go Live",
		Description: "Production deployment and handover",
		Color:       "#22c55e",
	},
}

// PhaseDisplayInfo returns the display metadata for one phase type.
func PhaseDisplayInfo(t model.PhaseType) (DisplayInfo, bool) {
	info, ok := displayInfo[t]
	return info, ok
}

// AllPhaseDisplayInfo returns display metadata for every phase in order.
func AllPhaseDisplayInfo() []DisplayInfo {
	infos := make([]DisplayInfo, 0, len(model.PhaseSequence))
	for _, t := range model.PhaseSequence {
		infos = append(infos, displayInfo[t])
	}
	return infos
}
