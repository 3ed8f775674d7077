package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
)

type ResourceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewResourceRepository(db *pgxpool.Pool, logger *zap.Logger) *ResourceRepository {
	return &ResourceRepository{db: db, logger: logger}
}

func (r *ResourceRepository) Insert(ctx context.Context, res *model.Resource) (int64, error) {
	r.logger.Debug("Inserting resource",
		zap.Int64("project_id", res.ProjectID),
		zap.String("resource_type", string(res.Type)),
	)

	query := `
        INSERT INTO resources (project_id, resource_type, name, url, status, version)
        VALUES ($1, $2, $3, $4, 'pending', 1)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query,
		res.ProjectID,
		res.Type,
		res.Name,
		res.URL,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert resource", zap.Error(err))
		return 0, &apperr.TransientFault{Op: "insert resource", Err: err}
	}

	r.logger.Info("Resource inserted successfully",
		zap.Int64("id", id),
		zap.Int64("project_id", res.ProjectID),
	)
	return id, nil
}

func (r *ResourceRepository) FindByProject(ctx context.Context, projectID int64) ([]model.Resource, error) {
	query := `
        SELECT id, project_id, resource_type, name, url, status, version,
               approved_by, approved_at, created_at, updated_at
        FROM resources
        WHERE project_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query resources", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "list resources", Err: err}
	}
	defer rows.Close()

	resources := []model.Resource{}
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(
			&res.ID,
			&res.ProjectID,
			&res.Type,
			&res.Name,
			&res.URL,
			&res.Status,
			&res.Version,
			&res.ApprovedBy,
			&res.ApprovedAt,
			&res.CreatedAt,
			&res.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan resource row", zap.Error(err))
			return nil, &apperr.TransientFault{Op: "list resources", Err: err}
		}
		resources = append(resources, res)
	}
	return resources, nil
}

func (r *ResourceRepository) FindByID(ctx context.Context, id int64) (*model.Resource, error) {
	query := `
        SELECT id, project_id, resource_type, name, url, status, version,
               approved_by, approved_at, created_at, updated_at
        FROM resources
        WHERE id = $1
    `
	var res model.Resource
	err := r.db.QueryRow(ctx, query, id).Scan(
		&res.ID,
		&res.ProjectID,
		&res.Type,
		&res.Name,
		&res.URL,
		&res.Status,
		&res.Version,
		&res.ApprovedBy,
		&res.ApprovedAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFound{Entity: "resource", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to find resource", zap.Int64("id", id), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "find resource", Err: err}
	}
	return &res, nil
}

// Reupload bumps the version counter, resets status to pending and clears
// the approval stamp.
func (r *ResourceRepository) Reupload(ctx context.Context, id int64, url string, at time.Time) error {
	r.logger.Debug("Re-uploading resource", zap.Int64("id", id))

	tag, err := r.db.Exec(ctx, `
        UPDATE resources
        SET version = version + 1,
            status = 'pending',
            url = $2,
            approved_by = NULL,
            approved_at = NULL,
            updated_at = $3
        WHERE id = $1
    `, id, url, at)
	if err != nil {
		r.logger.Error("Failed to re-upload resource", zap.Int64("id", id), zap.Error(err))
		return &apperr.TransientFault{Op: "re-upload resource", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFound{Entity: "resource", ID: id}
	}

	r.logger.Info("Resource re-uploaded", zap.Int64("id", id))
	return nil
}

func (r *ResourceRepository) SetStatus(ctx context.Context, id int64, status model.ResourceStatus, approverID *int64, at time.Time) error {
	r.logger.Debug("Updating resource status",
		zap.Int64("id", id),
		zap.String("status", string(status)),
	)

	var tag pgconn.CommandTag
	var err error
	if status == model.ResourceApproved {
		tag, err = r.db.Exec(ctx, `
            UPDATE resources
            SET status = $2, approved_by = $3, approved_at = $4, updated_at = $4
            WHERE id = $1
        `, id, status, approverID, at)
	} else {
		tag, err = r.db.Exec(ctx, `
            UPDATE resources
            SET status = $2, approved_by = NULL, approved_at = NULL, updated_at = $3
            WHERE id = $1
        `, id, status, at)
	}
	if err != nil {
		r.logger.Error("Failed to update resource status", zap.Int64("id", id), zap.Error(err))
		return &apperr.TransientFault{Op: "update resource status", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFound{Entity: "resource", ID: id}
	}
	return nil
}
