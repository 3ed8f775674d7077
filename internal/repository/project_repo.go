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
	"project-service/pkg/metrics"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

// InsertTx creates the project root row inside the caller's transaction so
// the bulk phase and environment rows land atomically with it.
func (r *ProjectRepository) InsertTx(ctx context.Context, tx pgx.Tx, p *model.Project) (int64, error) {
	r.logger.Debug("Inserting project",
		zap.String("key", p.Key),
		zap.String("name", p.Name),
	)

	start := time.Now()
	query := `
        INSERT INTO projects (key, name, status, manager_id, progress)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id int64
	err := tx.QueryRow(ctx, query,
		p.Key,
		p.Name,
		p.Status,
		p.ManagerID,
		p.Progress,
	).Scan(&id)
	metrics.RecordDBQueryDuration("insert", "projects", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return 0, &apperr.TransientFault{Op: "insert project", Err: err}
	}

	r.logger.Info("Project inserted successfully",
		zap.Int64("id", id),
		zap.String("key", p.Key),
	)
	return id, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	r.logger.Debug("Finding project", zap.Int64("id", id))
	start := time.Now()
	defer func() {
		metrics.RecordDBQueryDuration("select", "projects", time.Since(start))
	}()

	query := `
        SELECT id, key, name, status, manager_id, progress, created_at, updated_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Key,
		&p.Name,
		&p.Status,
		&p.ManagerID,
		&p.Progress,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFound{Entity: "project", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to find project", zap.Int64("id", id), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "find project", Err: err}
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	r.logger.Debug("Listing projects")

	query := `
        SELECT id, key, name, status, manager_id, progress, created_at, updated_at
        FROM projects
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err))
		return nil, &apperr.TransientFault{Op: "list projects", Err: err}
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID,
			&p.Key,
			&p.Name,
			&p.Status,
			&p.ManagerID,
			&p.Progress,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan project row", zap.Error(err))
			return nil, &apperr.TransientFault{Op: "list projects", Err: err}
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// DeleteTx removes the project root row. Called by the cascade coordinator
// after all dependents are gone, inside the same transaction.
func (r *ProjectRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project row", zap.Int64("id", id), zap.Error(err))
		return &apperr.TransientFault{Op: "delete project", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFound{Entity: "project", ID: id}
	}
	return nil
}
