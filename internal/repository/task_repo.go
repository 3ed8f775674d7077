package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) FindByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	r.logger.Debug("Listing tasks", zap.Int64("project_id", projectID))

	query := `
        SELECT id, project_id, column_id, title, category, created_at
        FROM tasks
        WHERE project_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "list tasks", Err: err}
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.ProjectID,
			&t.ColumnID,
			&t.Title,
			&t.Category,
			&t.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, &apperr.TransientFault{Op: "list tasks", Err: err}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *TaskRepository) CountByProject(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = $1`,
		projectID,
	).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count tasks", zap.Int64("project_id", projectID), zap.Error(err))
		return 0, &apperr.TransientFault{Op: "count tasks", Err: err}
	}
	return count, nil
}

// CountOutsideTerminalColumn counts tasks not yet in a terminal board column.
func (r *TaskRepository) CountOutsideTerminalColumn(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM tasks t
        JOIN columns c ON c.id = t.column_id
        WHERE t.project_id = $1 AND c.is_terminal = FALSE
    `, projectID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count non-terminal tasks", zap.Int64("project_id", projectID), zap.Error(err))
		return 0, &apperr.TransientFault{Op: "count non-terminal tasks", Err: err}
	}
	return count, nil
}

// CountIncompleteChecklistItems counts unfinished checklist items across all
// of a project's tasks.
func (r *TaskRepository) CountIncompleteChecklistItems(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM checklist_items ci
        JOIN tasks t ON t.id = ci.task_id
        WHERE t.project_id = $1 AND ci.is_completed = FALSE
    `, projectID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count incomplete checklist items",
			zap.Int64("project_id", projectID),
			zap.Error(err),
		)
		return 0, &apperr.TransientFault{Op: "count incomplete checklist items", Err: err}
	}
	return count, nil
}

// ToggleChecklistItem flips the completion flag of one checklist item,
// scoped to the project so an id from another project cannot be toggled.
func (r *TaskRepository) ToggleChecklistItem(ctx context.Context, projectID, itemID int64) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE checklist_items ci
        SET is_completed = NOT ci.is_completed
        FROM tasks t
        WHERE ci.id = $2 AND t.id = ci.task_id AND t.project_id = $1
    `, projectID, itemID)
	if err != nil {
		r.logger.Error("Failed to toggle checklist item", zap.Int64("item_id", itemID), zap.Error(err))
		return &apperr.TransientFault{Op: "toggle checklist item", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFound{Entity: "checklist item", ID: itemID}
	}

	r.logger.Info("Checklist item toggled",
		zap.Int64("project_id", projectID),
		zap.Int64("item_id", itemID),
	)
	return nil
}
