// Package qa covers the testing-side entities: bug reports, UAT feedback
// and signoffs.
package qa

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
	"project-service/pkg/clock"
)

type BugStore interface {
	Insert(ctx context.Context, b *model.BugReport) (int64, error)
	FindByProject(ctx context.Context, projectID int64) ([]model.BugReport, error)
	UpdateStatus(ctx context.Context, id int64, status model.BugStatus, at time.Time) error
}

type UATStore interface {
	InsertFeedback(ctx context.Context, f *model.UATFeedback) (int64, error)
	FindFeedbackByProject(ctx context.Context, projectID int64) ([]model.UATFeedback, error)
	UpdateFeedbackStatus(ctx context.Context, id int64, status model.FeedbackStatus) error
	CountPendingFeedback(ctx context.Context, projectID int64) (int64, error)
	InsertSignoff(ctx context.Context, s *model.Signoff, at time.Time) (int64, error)
	FindSignoffsByProject(ctx context.Context, projectID int64) ([]model.Signoff, error)
}

type Service struct {
	bugs   BugStore
	uat    UATStore
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(bugs BugStore, uat UATStore, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{bugs: bugs, uat: uat, clock: clk, logger: logger}
}

func (s *Service) ReportBug(ctx context.Context, b *model.BugReport) (int64, error) {
	if b.Status == "" {
		b.Status = model.BugOpen
	}
	return s.bugs.Insert(ctx, b)
}

func (s *Service) ListBugs(ctx context.Context, projectID int64) ([]model.BugReport, error) {
	return s.bugs.FindByProject(ctx, projectID)
}

// UpdateBugStatus sets the status; the store stamps resolved_at iff the new
// status is resolved or closed.
func (s *Service) UpdateBugStatus(ctx context.Context, id int64, status model.BugStatus) error {
	return s.bugs.UpdateStatus(ctx, id, status, s.clock.Now())
}

func (s *Service) SubmitFeedback(ctx context.Context, f *model.UATFeedback) (int64, error) {
	if f.Status == "" {
		f.Status = model.FeedbackPending
	}
	return s.uat.InsertFeedback(ctx, f)
}

func (s *Service) ListFeedback(ctx context.Context, projectID int64) ([]model.UATFeedback, error) {
	return s.uat.FindFeedbackByProject(ctx, projectID)
}

func (s *Service) UpdateFeedbackStatus(ctx context.Context, id int64, status model.FeedbackStatus) error {
	return s.uat.UpdateFeedbackStatus(ctx, id, status)
}

// CreateSignoff records a formal approval. A UAT signoff is refused while
// any feedback for the project is still pending.
func (s *Service) CreateSignoff(ctx context.Context, signoff *model.Signoff) (int64, error) {
	if signoff.Type == model.SignoffUAT {
		pending, err := s.uat.CountPendingFeedback(ctx, signoff.ProjectID)
		if err != nil {
			return 0, err
		}
		if pending > 0 {
			s.logger.Info("UAT signoff refused, feedback pending",
				zap.Int64("project_id", signoff.ProjectID),
				zap.Int64("pending", pending),
			)
			return 0, &apperr.ValidationRejection{
				Reasons: []string{
					fmt.Sprintf("%d UAT feedback item(s) still pending", pending),
				},
			}
		}
	}
	return s.uat.InsertSignoff(ctx, signoff, s.clock.Now())
}

func (s *Service) ListSignoffs(ctx context.Context, projectID int64) ([]model.Signoff, error) {
	return s.uat.FindSignoffsByProject(ctx, projectID)
}
