package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
)

type PhaseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPhaseRepository(db *pgxpool.Pool, logger *zap.Logger) *PhaseRepository {
	return &PhaseRepository{db: db, logger: logger}
}

// BulkInsert creates the full six-phase timeline for a new project inside
// the caller's transaction. The kickoff phase starts in progress, the rest
// pending.
func (r *PhaseRepository) BulkInsert(ctx context.Context, tx pgx.Tx, projectID int64, startedAt time.Time) error {
	r.logger.Debug("Bulk inserting phases", zap.Int64("project_id", projectID))

	query := `
        INSERT INTO phases (project_id, phase_type, position, status, started_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	for i, phaseType := range model.PhaseSequence {
		status := model.PhasePending
		var started *time.Time
		if i == 0 {
			status = model.PhaseInProgress
			started = &startedAt
		}
		if _, err := tx.Exec(ctx, query, projectID, phaseType, i, status, started); err != nil {
			r.logger.Error("Failed to insert phase",
				zap.Int64("project_id", projectID),
				zap.String("phase_type", string(phaseType)),
				zap.Error(err),
			)
			return &apperr.TransientFault{Op: "bulk insert phases", Err: err}
		}
	}

	r.logger.Info("Phase timeline created",
		zap.Int64("project_id", projectID),
		zap.Int("phases", len(model.PhaseSequence)),
	)
	return nil
}

func (r *PhaseRepository) FindByProject(ctx context.Context, projectID int64) ([]model.Phase, error) {
	r.logger.Debug("Listing phases", zap.Int64("project_id", projectID))

	query := `
        SELECT id, project_id, phase_type, position, status, started_at, completed_at
        FROM phases
        WHERE project_id = $1
        ORDER BY position ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query phases", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "list phases", Err: err}
	}
	defer rows.Close()

	phases := []model.Phase{}
	for rows.Next() {
		var p model.Phase
		if err := rows.Scan(
			&p.ID,
			&p.ProjectID,
			&p.Type,
			&p.Position,
			&p.Status,
			&p.StartedAt,
			&p.CompletedAt,
		); err != nil {
			r.logger.Error("Failed to scan phase row", zap.Error(err))
			return nil, &apperr.TransientFault{Op: "list phases", Err: err}
		}
		phases = append(phases, p)
	}
	return phases, nil
}

// FindInProgress returns the project's single in-progress phase. NotFound
// here is a data-integrity fault for the caller to raise, not a user error.
func (r *PhaseRepository) FindInProgress(ctx context.Context, projectID int64) (*model.Phase, error) {
	query := `
        SELECT id, project_id, phase_type, position, status, started_at, completed_at
        FROM phases
        WHERE project_id = $1 AND status = 'in_progress'
    `
	var p model.Phase
	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&p.ID,
		&p.ProjectID,
		&p.Type,
		&p.Position,
		&p.Status,
		&p.StartedAt,
		&p.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFound{Entity: "in-progress phase", ID: projectID}
	}
	if err != nil {
		r.logger.Error("Failed to find in-progress phase",
			zap.Int64("project_id", projectID),
			zap.Error(err),
		)
		return nil, &apperr.TransientFault{Op: "find in-progress phase", Err: err}
	}
	return &p, nil
}

func (r *PhaseRepository) FindByType(ctx context.Context, projectID int64, phaseType model.PhaseType) (*model.Phase, error) {
	query := `
        SELECT id, project_id, phase_type, position, status, started_at, completed_at
        FROM phases
        WHERE project_id = $1 AND phase_type = $2
    `
	var p model.Phase
	err := r.db.QueryRow(ctx, query, projectID, phaseType).Scan(
		&p.ID,
		&p.ProjectID,
		&p.Type,
		&p.Position,
		&p.Status,
		&p.StartedAt,
		&p.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFound{Entity: "phase", ID: projectID}
	}
	if err != nil {
		r.logger.Error("Failed to find phase by type",
			zap.Int64("project_id", projectID),
			zap.String("phase_type", string(phaseType)),
			zap.Error(err),
		)
		return nil, &apperr.TransientFault{Op: "find phase", Err: err}
	}
	return &p, nil
}

// CompleteTx marks an in-progress phase completed. Zero affected rows means
// the phase was not in progress, which the executor treats as mixed state.
func (r *PhaseRepository) CompleteTx(ctx context.Context, tx pgx.Tx, phaseID int64, at time.Time) error {
	tag, err := tx.Exec(ctx, `
        UPDATE phases
        SET status = 'completed', completed_at = $2
        WHERE id = $1 AND status = 'in_progress'
    `, phaseID, at)
	if err != nil {
		r.logger.Error("Failed to complete phase", zap.Int64("phase_id", phaseID), zap.Error(err))
		return &apperr.TransientFault{Op: "complete phase", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.IntegrityFault{Detail: "phase to complete is not in progress"}
	}
	return nil
}

// StartTx promotes a pending phase to in progress.
func (r *PhaseRepository) StartTx(ctx context.Context, tx pgx.Tx, phaseID int64, at time.Time) error {
	tag, err := tx.Exec(ctx, `
        UPDATE phases
        SET status = 'in_progress', started_at = $2
        WHERE id = $1 AND status = 'pending'
    `, phaseID, at)
	if err != nil {
		r.logger.Error("Failed to start phase", zap.Int64("phase_id", phaseID), zap.Error(err))
		return &apperr.TransientFault{Op: "start phase", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.IntegrityFault{Detail: "phase to start is not pending"}
	}
	return nil
}
