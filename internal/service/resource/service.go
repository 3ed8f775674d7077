// Package resource manages project deliverables and their approval status.
package resource

import (
	"context"
	"time"

	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/clock"
)

type Store interface {
	Insert(ctx context.Context, res *model.Resource) (int64, error)
	FindByProject(ctx context.Context, projectID int64) ([]model.Resource, error)
	FindByID(ctx context.Context, id int64) (*model.Resource, error)
	Reupload(ctx context.Context, id int64, url string, at time.Time) error
	SetStatus(ctx context.Context, id int64, status model.ResourceStatus, approverID *int64, at time.Time) error
}

type Service struct {
	store  Store
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(store Store, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{store: store, clock: clk, logger: logger}
}

// Upload creates a new resource in pending status at version 1.
func (s *Service) Upload(ctx context.Context, res *model.Resource) (*model.Resource, error) {
	id, err := s.store.Insert(ctx, res)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Reupload bumps the version and resets the resource to pending; a previous
// approval does not survive a new upload.
func (s *Service) Reupload(ctx context.Context, id int64, url string) (*model.Resource, error) {
	if err := s.store.Reupload(ctx, id, url, s.clock.Now()); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

// Approve stamps the approver and approval time.
func (s *Service) Approve(ctx context.Context, id int64, approverID int64) (*model.Resource, error) {
	if err := s.store.SetStatus(ctx, id, model.ResourceApproved, &approverID, s.clock.Now()); err != nil {
		return nil, err
	}
	s.logger.Info("Resource approved",
		zap.Int64("resource_id", id),
		zap.Int64("approved_by", approverID),
	)
	return s.store.FindByID(ctx, id)
}

func (s *Service) Reject(ctx context.Context, id int64) (*model.Resource, error) {
	if err := s.store.SetStatus(ctx, id, model.ResourceRejected, nil, s.clock.Now()); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, projectID int64) ([]model.Resource, error) {
	return s.store.FindByProject(ctx, projectID)
}
