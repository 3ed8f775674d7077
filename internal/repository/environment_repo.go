package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
)

type EnvironmentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewEnvironmentRepository(db *pgxpool.Pool, logger *zap.Logger) *EnvironmentRepository {
	return &EnvironmentRepository{db: db, logger: logger}
}

// BulkInsert creates the three fixed environments for a new project inside
// the caller's transaction.
func (r *EnvironmentRepository) BulkInsert(ctx context.Context, tx pgx.Tx, projectID int64) error {
	r.logger.Debug("Bulk inserting environments", zap.Int64("project_id", projectID))

	query := `INSERT INTO environments (project_id, name) VALUES ($1, $2)`
	for _, name := range model.EnvironmentNames {
		if _, err := tx.Exec(ctx, query, projectID, name); err != nil {
			r.logger.Error("Failed to insert environment",
				zap.Int64("project_id", projectID),
				zap.String("name", string(name)),
				zap.Error(err),
			)
			return &apperr.TransientFault{Op: "bulk insert environments", Err: err}
		}
	}
	return nil
}

func (r *EnvironmentRepository) FindByProject(ctx context.Context, projectID int64) ([]model.Environment, error) {
	query := `
        SELECT id, project_id, name, current_version, ssl_enabled, url
        FROM environments
        WHERE project_id = $1
        ORDER BY id ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query environments", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "list environments", Err: err}
	}
	defer rows.Close()

	envs := []model.Environment{}
	for rows.Next() {
		var e model.Environment
		if err := rows.Scan(
			&e.ID,
			&e.ProjectID,
			&e.Name,
			&e.CurrentVersion,
			&e.SSLEnabled,
			&e.URL,
		); err != nil {
			r.logger.Error("Failed to scan environment row", zap.Error(err))
			return nil, &apperr.TransientFault{Op: "list environments", Err: err}
		}
		envs = append(envs, e)
	}
	return envs, nil
}

func (r *EnvironmentRepository) FindByName(ctx context.Context, projectID int64, name model.EnvironmentName) (*model.Environment, error) {
	query := `
        SELECT id, project_id, name, current_version, ssl_enabled, url
        FROM environments
        WHERE project_id = $1 AND name = $2
    `
	var e model.Environment
	err := r.db.QueryRow(ctx, query, projectID, name).Scan(
		&e.ID,
		&e.ProjectID,
		&e.Name,
		&e.CurrentVersion,
		&e.SSLEnabled,
		&e.URL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFound{Entity: "environment", ID: projectID}
	}
	if err != nil {
		r.logger.Error("Failed to find environment",
			zap.Int64("project_id", projectID),
			zap.String("name", string(name)),
			zap.Error(err),
		)
		return nil, &apperr.TransientFault{Op: "find environment", Err: err}
	}
	return &e, nil
}

// RecordDeployment appends a deployment record and, on success, advances the
// environment's current version. Both writes happen in one transaction.
func (r *EnvironmentRepository) RecordDeployment(ctx context.Context, rec *model.DeploymentRecord) (int64, error) {
	r.logger.Debug("Recording deployment",
		zap.Int64("environment_id", rec.EnvironmentID),
		zap.String("version", rec.Version),
		zap.String("status", string(rec.Status)),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, &apperr.TransientFault{Op: "record deployment", Err: err}
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
        INSERT INTO deployment_records (environment_id, version, status, deployed_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, rec.EnvironmentID, rec.Version, rec.Status, rec.DeployedAt).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert deployment record", zap.Error(err))
		return 0, &apperr.TransientFault{Op: "record deployment", Err: err}
	}

	if rec.Status == model.DeploySuccess {
		if _, err := tx.Exec(ctx, `
            UPDATE environments SET current_version = $2 WHERE id = $1
        `, rec.EnvironmentID, rec.Version); err != nil {
			r.logger.Error("Failed to update environment version", zap.Error(err))
			return 0, &apperr.TransientFault{Op: "record deployment", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &apperr.TransientFault{Op: "record deployment", Err: err}
	}

	r.logger.Info("Deployment recorded",
		zap.Int64("id", id),
		zap.Int64("environment_id", rec.EnvironmentID),
		zap.String("status", string(rec.Status)),
	)
	return id, nil
}

// LatestDeployment returns the most recent deployment of an environment, or
// NotFound when the history is empty.
func (r *EnvironmentRepository) LatestDeployment(ctx context.Context, environmentID int64) (*model.DeploymentRecord, error) {
	query := `
        SELECT id, environment_id, version, status, deployed_at
        FROM deployment_records
        WHERE environment_id = $1
        ORDER BY deployed_at DESC, id DESC
        LIMIT 1
    `
	var rec model.DeploymentRecord
	err := r.db.QueryRow(ctx, query, environmentID).Scan(
		&rec.ID,
		&rec.EnvironmentID,
		&rec.Version,
		&rec.Status,
		&rec.DeployedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFound{Entity: "deployment record", ID: environmentID}
	}
	if err != nil {
		r.logger.Error("Failed to find latest deployment",
			zap.Int64("environment_id", environmentID),
			zap.Error(err),
		)
		return nil, &apperr.TransientFault{Op: "find latest deployment", Err: err}
	}
	return &rec, nil
}
