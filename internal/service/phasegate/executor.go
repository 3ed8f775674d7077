package phasegate

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"project-service/pkg/apperr"
	"project-service/pkg/clock"
	"project-service/pkg/metrics"
	"project-service/pkg/mq"
)

// DB is the transaction source; satisfied by *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PhaseWriter is the write side of the phases table. Both updates run inside
// one transaction and check the expected prior status, so a partial write is
// detected and rolled back instead of leaving mixed state.
type PhaseWriter interface {
	PhaseStore
	CompleteTx(ctx context.Context, tx pgx.Tx, phaseID int64, at time.Time) error
	StartTx(ctx context.Context, tx pgx.Tx, phaseID int64, at time.Time) error
}

type Locker interface {
	Acquire(ctx context.Context, projectID int64) (func(), error)
}

type Publisher interface {
	Publish(routingKey string, payload any) error
}

// ExecutionResult reports what happened. A rejection is a normal outcome:
// Transitioned is false and Validation carries the missing requirements
// verbatim.
type ExecutionResult struct {
	Transitioned bool             `json:"transitioned"`
	Validation   ValidationResult `json:"validation"`
}

type Executor struct {
	db        DB
	phases    PhaseWriter
	validator *Validator
	locks     Locker
	pub       Publisher
	clock     clock.Clock
	logger    *zap.Logger
}

func NewExecutor(db DB, phases PhaseWriter, validator *Validator, locks Locker, pub Publisher, clk clock.Clock, logger *zap.Logger) *Executor {
	return &Executor{
		db:        db,
		phases:    phases,
		validator: validator,
		locks:     locks,
		pub:       pub,
		clock:     clk,
		logger:    logger,
	}
}

// ExecuteTransition re-validates under the per-project lock (a stale
// validation is never trusted) and, if accepted, completes the current phase
// and starts its successor as a single atomic unit.
func (e *Executor) ExecuteTransition(ctx context.Context, projectID int64) (ExecutionResult, error) {
	release, err := e.locks.Acquire(ctx, projectID)
	if err != nil {
		return ExecutionResult{}, err
	}
	defer release()

	validation, err := e.validator.ValidateTransition(ctx, projectID)
	if err != nil {
		metrics.RecordTransition("fault")
		return ExecutionResult{}, err
	}
	if !validation.CanTransition {
		e.logger.Info("Transition rejected",
			zap.Int64("project_id", projectID),
			zap.String("current_phase", string(validation.CurrentPhase)),
			zap.Strings("missing_requirements", validation.MissingRequirements),
		)
		metrics.RecordTransition("rejected")
		return ExecutionResult{Transitioned: false, Validation: validation}, nil
	}

	current, err := e.phases.FindByType(ctx, projectID, validation.CurrentPhase)
	if err != nil {
		metrics.RecordTransition("fault")
		return ExecutionResult{}, err
	}
	next, err := e.phases.FindByType(ctx, projectID, validation.NextPhase)
	if err != nil {
		metrics.RecordTransition("fault")
		return ExecutionResult{}, err
	}

	tx, err := e.db.Begin(ctx)
	if err != nil {
		metrics.RecordTransition("fault")
		return ExecutionResult{}, &apperr.TransientFault{Op: "begin transition", Err: err}
	}
	defer tx.Rollback(ctx)

	now := e.clock.Now()
	if err := e.phases.CompleteTx(ctx, tx, current.ID, now); err != nil {
		metrics.RecordTransition("fault")
		return ExecutionResult{}, err
	}
	if err := e.phases.StartTx(ctx, tx, next.ID, now); err != nil {
		metrics.RecordTransition("fault")
		return ExecutionResult{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.RecordTransition("fault")
		return ExecutionResult{}, &apperr.TransientFault{Op: "commit transition", Err: err}
	}

	e.logger.Info("Phase advanced",
		zap.Int64("project_id", projectID),
		zap.String("completed_phase", string(validation.CurrentPhase)),
		zap.String("started_phase", string(validation.NextPhase)),
	)
	metrics.RecordTransition("advanced")

	if e.pub != nil {
		payload := mq.PhaseAdvancedPayload{
			ProjectID:      projectID,
			CompletedPhase: string(validation.CurrentPhase),
			StartedPhase:   string(validation.NextPhase),
		}
		if err := e.pub.Publish(mq.RoutingKeyPhaseAdvanced, payload); err != nil {
			e.logger.Warn("Failed to publish phase.advanced event",
				zap.Int64("project_id", projectID),
				zap.Error(err),
			)
		}
	}

	return ExecutionResult{Transitioned: true, Validation: validation}, nil
}
