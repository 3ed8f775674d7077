package phasegate

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
)

// ReasonFinalPhase is reported when validation is requested for a project
// already at go-live.
const ReasonFinalPhase = "already at final phase"

// PhaseStore is what the validator and executor need from the phases table.
type PhaseStore interface {
	FindInProgress(ctx context.Context, projectID int64) (*model.Phase, error)
	FindByType(ctx context.Context, projectID int64, phaseType model.PhaseType) (*model.Phase, error)
}

// ValidationResult is the full accept/reject decision: all unmet
// requirements, not just the first.
type ValidationResult struct {
	CanTransition       bool            `json:"can_transition"`
	CurrentPhase        model.PhaseType `json:"current_phase"`
	NextPhase           model.PhaseType `json:"next_phase,omitempty"`
	MissingRequirements []string        `json:"missing_requirements"`
}

type Validator struct {
	phases   PhaseStore
	registry *Registry
	logger   *zap.Logger
}

func NewValidator(phases PhaseStore, registry *Registry, logger *zap.Logger) *Validator {
	return &Validator{phases: phases, registry: registry, logger: logger}
}

// ValidateTransition finds the project's in-progress phase, computes its
// successor and evaluates every gate requirement of that successor.
// Evaluators are independent and side-effect-free, so they run concurrently;
// a single store fault aborts the whole validation.
func (v *Validator) ValidateTransition(ctx context.Context, projectID int64) (ValidationResult, error) {
	current, err := v.phases.FindInProgress(ctx, projectID)
	if err != nil {
		var notFound *apperr.NotFound
		if errors.As(err, &notFound) {
			// A project without an active phase is corrupt data, not a
			// user mistake.
			v.logger.Error("No active phase for project",
				zap.Int64("project_id", projectID),
			)
			return ValidationResult{}, &apperr.IntegrityFault{
				ProjectID: projectID,
				Detail:    "no active phase",
			}
		}
		return ValidationResult{}, err
	}

	next, ok := NextPhase(current.Type)
	if !ok {
		return ValidationResult{
			CanTransition:       false,
			CurrentPhase:        current.Type,
			MissingRequirements: []string{ReasonFinalPhase},
		}, nil
	}

	codes := RequirementsFor(next)
	results := make([]Result, len(codes))
	errs := make([]error, len(codes))

	var wg sync.WaitGroup
	for i, code := range codes {
		eval, ok := v.registry.Get(code)
		if !ok {
			return ValidationResult{}, &apperr.IntegrityFault{
				ProjectID: projectID,
				Detail:    "no evaluator registered for requirement " + code,
			}
		}
		wg.Add(1)
		go func(i int, eval Evaluator) {
			defer wg.Done()
			results[i], errs[i] = eval.Evaluate(ctx, projectID)
		}(i, eval)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			// Never guess a requirement's state from a failed read.
			return ValidationResult{}, err
		}
	}

	missing := []string{}
	for _, res := range results {
		if !res.Satisfied {
			missing = append(missing, res.Detail)
		}
	}

	v.logger.Debug("Transition validated",
		zap.Int64("project_id", projectID),
		zap.String("current_phase", string(current.Type)),
		zap.String("next_phase", string(next)),
		zap.Int("missing", len(missing)),
	)

	return ValidationResult{
		CanTransition:       len(missing) == 0,
		CurrentPhase:        current.Type,
		NextPhase:           next,
		MissingRequirements: missing,
	}, nil
}
