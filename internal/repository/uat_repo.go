package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
)

type UATRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUATRepository(db *pgxpool.Pool, logger *zap.Logger) *UATRepository {
	return &UATRepository{db: db, logger: logger}
}

func (r *UATRepository) InsertFeedback(ctx context.Context, f *model.UATFeedback) (int64, error) {
	r.logger.Debug("Inserting UAT feedback", zap.Int64("project_id", f.ProjectID))

	query := `
        INSERT INTO uat_feedback (project_id, content, status)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query, f.ProjectID, f.Content, f.Status).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert UAT feedback", zap.Error(err))
		return 0, &apperr.TransientFault{Op: "insert UAT feedback", Err: err}
	}

	r.logger.Info("UAT feedback inserted",
		zap.Int64("id", id),
		zap.Int64("project_id", f.ProjectID),
	)
	return id, nil
}

func (r *UATRepository) FindFeedbackByProject(ctx context.Context, projectID int64) ([]model.UATFeedback, error) {
	query := `
        SELECT id, project_id, content, status, created_at
        FROM uat_feedback
        WHERE project_id = $1
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query UAT feedback", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "list UAT feedback", Err: err}
	}
	defer rows.Close()

	feedback := []model.UATFeedback{}
	for rows.Next() {
		var f model.UATFeedback
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Content, &f.Status, &f.CreatedAt); err != nil {
			r.logger.Error("Failed to scan UAT feedback row", zap.Error(err))
			return nil, &apperr.TransientFault{Op: "list UAT feedback", Err: err}
		}
		feedback = append(feedback, f)
	}
	return feedback, nil
}

func (r *UATRepository) UpdateFeedbackStatus(ctx context.Context, id int64, status model.FeedbackStatus) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE uat_feedback SET status = $2 WHERE id = $1
    `, id, status)
	if err != nil {
		r.logger.Error("Failed to update UAT feedback status", zap.Int64("id", id), zap.Error(err))
		return &apperr.TransientFault{Op: "update UAT feedback status", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperr.NotFound{Entity: "UAT feedback", ID: id}
	}
	return nil
}

func (r *UATRepository) CountPendingFeedback(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM uat_feedback WHERE project_id = $1 AND status = 'pending'
    `, projectID).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count pending feedback", zap.Int64("project_id", projectID), zap.Error(err))
		return 0, &apperr.TransientFault{Op: "count pending feedback", Err: err}
	}
	return count, nil
}

func (r *UATRepository) InsertSignoff(ctx context.Context, s *model.Signoff, at time.Time) (int64, error) {
	r.logger.Debug("Inserting signoff",
		zap.Int64("project_id", s.ProjectID),
		zap.String("signoff_type", string(s.Type)),
	)

	query := `
        INSERT INTO signoffs (project_id, signoff_type, signed_by, signed_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id int64
	err := r.db.QueryRow(ctx, query, s.ProjectID, s.Type, s.SignedBy, at).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert signoff", zap.Error(err))
		return 0, &apperr.TransientFault{Op: "insert signoff", Err: err}
	}

	r.logger.Info("Signoff inserted",
		zap.Int64("id", id),
		zap.Int64("project_id", s.ProjectID),
		zap.String("signoff_type", string(s.Type)),
	)
	return id, nil
}

func (r *UATRepository) FindSignoffsByProject(ctx context.Context, projectID int64) ([]model.Signoff, error) {
	query := `
        SELECT id, project_id, signoff_type, signed_by, signed_at
        FROM signoffs
        WHERE project_id = $1
        ORDER BY signed_at ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query signoffs", zap.Int64("project_id", projectID), zap.Error(err))
		return nil, &apperr.TransientFault{Op: "list signoffs", Err: err}
	}
	defer rows.Close()

	signoffs := []model.Signoff{}
	for rows.Next() {
		var s model.Signoff
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Type, &s.SignedBy, &s.SignedAt); err != nil {
			r.logger.Error("Failed to scan signoff row", zap.Error(err))
			return nil, &apperr.TransientFault{Op: "list signoffs", Err: err}
		}
		signoffs = append(signoffs, s)
	}
	return signoffs, nil
}
