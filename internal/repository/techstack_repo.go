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

type TechStackRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTechStackRepository(db *pgxpool.Pool, logger *zap.Logger) *TechStackRepository {
	return &TechStackRepository{db: db, logger: logger}
}

func (r *TechStackRepository) Insert(ctx context.Context, item *model.TechStackItem) (int64, error) {
	r.logger.Debug("Inserting tech stack item",
		zap.Int64("project_id", item.ProjectID),
		zap.String("name", item.Name),
	)

	query := `
        INSERT INTO tech_stack_items (project_id, name, category)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query, item.ProjectID, item.Name, item.Category).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert tech stack item", zap.Error(err))
		return 0, &apperr.TransientFault{Op: "insert tech stack item", Err: err}
	}

	r.logger.Info("Tech stack item inserted",
		zap.Int64("id", id),
		zap.Int64("project_id", item.ProjectID),
		zap.String("name", item.Name),
	)
	return id, nil
}

func (r *TechStackRepository) FindByProject(ctx context.Context, projectID int64) ([]model.TechStackItem, error) {
	query := `
        SELECT id, project_id, name, category, is_locked, locked_by, created_at
        FROM tech_stack_items
        WHERE project_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query tech stack", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "list tech stack", Err: err}
	}
	defer rows.Close()

	items := []model.TechStackItem{}
	for rows.Next() {
		var item model.TechStackItem
		if err := rows.Scan(
			&item.ID,
			&item.ProjectID,
			&item.Name,
			&item.Category,
			&item.IsLocked,
			&item.LockedBy,
			&item.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan tech stack row", zap.Error(err))
			return nil, &apperr.TransientFault{Op: "list tech stack", Err: err}
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *TechStackRepository) CountByProject(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tech_stack_items WHERE project_id = $1`,
		projectID,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count tech stack items", zap.Int64("project_id", projectID), zap.Error(err))
		return 0, &apperr.TransientFault{Op: "count tech stack items", Err: err}
	}
	return count, nil
}

func (r *TechStackRepository) FindByID(ctx context.Context, id int64) (*model.TechStackItem, error) {
	query := `
        SELECT id, project_id, name, category, is_locked, locked_by, created_at
        FROM tech_stack_items
        WHERE id = $1
    `
	var item model.TechStackItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.ProjectID,
		&item.Name,
		&item.Category,
		&item.IsLocked,
		&item.LockedBy,
		&item.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperr.NotFound{Entity: "tech stack item", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to find tech stack item", zap.Int64("id", id), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "find tech stack item", Err: err}
	}
	return &item, nil
}

func (r *TechStackRepository) Update(ctx context.Context, id int64, name string, category model.TechCategory) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE tech_stack_items
        SET name = $2, category = $3
        WHERE id = $1
    `, id, name, category)
	if err != nil {
		r.logger.Error("Failed to update tech stack item", zap.Int64("id", id), zap.Error(err))
		return &apperr.TransientFault{Op: "update tech stack item", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFound{Entity: "tech stack item", ID: id}
	}
	return nil
}

func (r *TechStackRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tech_stack_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete tech stack item", zap.Int64("id", id), zap.Error(err))
		return &apperr.TransientFault{Op: "delete tech stack item", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFound{Entity: "tech stack item", ID: id}
	}
	return nil
}

// SetLockedAll flips the lock flag on every item of a project in a single
// statement, keeping locking all-or-nothing.
func (r *TechStackRepository) SetLockedAll(ctx context.Context, projectID int64, locked bool, lockedBy *int64) error {
	r.logger.Debug("Setting tech stack lock",
		zap.Int64("project_id", projectID),
		zap.Bool("locked", locked),
	)

	_, err := r.db.Exec(ctx, `
        UPDATE tech_stack_items
        SET is_locked = $2, locked_by = $3
        WHERE project_id = $1
    `, projectID, locked, lockedBy)
	if err != nil {
		r.logger.Error("Failed to set tech stack lock",
			zap.Int64("project_id", projectID),
			zap.Error(err),
		)
		return &apperr.TransientFault{Op: "set tech stack lock", Err: err}
	}

	r.logger.Info("Tech stack lock updated",
		zap.Int64("project_id", projectID),
		zap.Bool("locked", locked),
	)
	return nil
}
