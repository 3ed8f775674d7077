package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
)

type BugRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBugRepository(db *pgxpool.Pool, logger *zap.Logger) *BugRepository {
	return &BugRepository{db: db, logger: logger}
}

func (r *BugRepository) Insert(ctx context.Context, b *model.BugReport) (int64, error) {
	r.logger.Debug("Inserting bug report",
		zap.Int64("project_id", b.ProjectID),
		zap.String("severity", string(b.Severity)),
	)

	query := `
        INSERT INTO bug_reports (project_id, title, severity, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query, b.ProjectID, b.Title, b.Severity, b.Status).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert bug report", zap.Error(err))
		return 0, &apperr.TransientFault{Op: "insert bug report", Err: err}
	}

	r.logger.Info("Bug report inserted",
		zap.Int64("id", id),
		zap.Int64("project_id", b.ProjectID),
		zap.String("severity", string(b.Severity)),
	)
	return id, nil
}

func (r *BugRepository) FindByProject(ctx context.Context, projectID int64) ([]model.BugReport, error) {
	query := `
        SELECT id, project_id, title, severity, status, resolved_at, created_at
        FROM bug_reports
        WHERE project_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query bug reports", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "list bug reports", Err: err}
	}
	defer rows.Close()

	bugs := []model.BugReport{}
	for rows.Next() {
		var b model.BugReport
		if err := rows.Scan(
			&b.ID,
			&b.ProjectID,
			&b.Title,
			&b.Severity,
			&b.Status,
			&b.ResolvedAt,
			&b.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan bug report row", zap.Error(err))
			return nil, &apperr.TransientFault{Op: "list bug reports", Err: err}
		}
		bugs = append(bugs, b)
	}
	return bugs, nil
}

// UpdateStatus sets the bug status; resolved_at is stamped iff the new status
// is resolved or closed, cleared otherwise.
func (r *BugRepository) UpdateStatus(ctx context.Context, id int64, status model.BugStatus, at time.Time) error {
	r.logger.Debug("Updating bug status",
		zap.Int64("id", id),
		zap.String("status", string(status)),
	)

	var resolvedAt *time.Time
	if status == model.BugResolved || status == model.BugClosed {
		resolvedAt = &at
	}

	tag, err := r.db.Exec(ctx, `
        UPDATE bug_reports
        SET status = $2, resolved_at = $3
        WHERE id = $1
    `, id, status, resolvedAt)
	if err != nil {
		r.logger.Error("Failed to update bug status", zap.Int64("id", id), zap.Error(err))
		return &apperr.TransientFault{Op: "update bug status", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFound{Entity: "bug report", ID: id}
	}
	return nil
}

// CountOpenCritical counts critical bugs that are not resolved, closed or
// marked won't-fix.
func (r *BugRepository) CountOpenCritical(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM bug_reports
        WHERE project_id = $1
          AND severity = 'critical'
          AND status NOT IN ('resolved', 'closed', 'wont_fix')
    `, projectID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count critical bugs", zap.Int64("project_id", projectID), zap.Error(err))
		return 0, &apperr.TransientFault{Op: "count critical bugs", Err: err}
	}
	return count, nil
}
