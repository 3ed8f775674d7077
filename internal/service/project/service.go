// Package project owns the project root entity: creation with its full
// phase timeline and environment set, lookup, and deployment recording.
package project

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
	"project-service/pkg/clock"
)

type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type ProjectStore interface {
	InsertTx(ctx context.Context, tx pgx.Tx, p *model.Project) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
}

type PhaseStore interface {
	BulkInsert(ctx context.Context, tx pgx.Tx, projectID int64, startedAt time.Time) error
	FindByProject(ctx context.Context, projectID int64) ([]model.Phase, error)
}

type EnvironmentStore interface {
	BulkInsert(ctx context.Context, tx pgx.Tx, projectID int64) error
	FindByProject(ctx context.Context, projectID int64) ([]model.Environment, error)
	FindByName(ctx context.Context, projectID int64, name model.EnvironmentName) (*model.Environment, error)
	RecordDeployment(ctx context.Context, rec *model.DeploymentRecord) (int64, error)
}

type TaskStore interface {
	ToggleChecklistItem(ctx context.Context, projectID, itemID int64) error
}

type Service struct {
	db       DB
	projects ProjectStore
	phases   PhaseStore
	envs     EnvironmentStore
	tasks    TaskStore
	clock    clock.Clock
	logger   *zap.Logger
}

func NewService(db DB, projects ProjectStore, phases PhaseStore, envs EnvironmentStore, tasks TaskStore, clk clock.Clock, logger *zap.Logger) *Service {
	return &Service{
		db:       db,
		projects: projects,
		phases:   phases,
		envs:     envs,
		tasks:    tasks,
		clock:    clk,
		logger:   logger,
	}
}

// Detail bundles the project with its owned timeline and environments.
type Detail struct {
	Project      model.Project       `json:"project"`
	Phases       []model.Phase       `json:"phases"`
	Environments []model.Environment `json:"environments"`
}

// Create inserts the project root, its six-phase timeline (kickoff in
// progress) and its three environments as one atomic unit.
func (s *Service) Create(ctx context.Context, p *model.Project) (*Detail, error) {
	if p.Status == "" {
		p.Status = model.ProjectPlanning
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, &apperr.TransientFault{Op: "begin project create", Err: err}
	}
	defer tx.Rollback(ctx)

	now := s.clock.Now()
	id, err := s.projects.InsertTx(ctx, tx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	if err := s.phases.BulkInsert(ctx, tx, id, now); err != nil {
		return nil, err
	}
	if err := s.envs.BulkInsert(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &apperr.TransientFault{Op: "commit project create", Err: err}
	}

	s.logger.Info("Project created",
		zap.Int64("project_id", id),
		zap.String("key", p.Key),
	)
	return s.Get(ctx, id)
}

// Get returns the project with its phases and environments.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	phases, err := s.phases.FindByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	envs, err := s.envs.FindByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Project: *project, Phases: phases, Environments: envs}, nil
}

func (s *Service) List(ctx context.Context) ([]model.Project, error) {
	return s.projects.List(ctx)
}

// ToggleChecklistItem flips one checklist item, scoped to the project so an
// item id from another project cannot be toggled through this route.
func (s *Service) ToggleChecklistItem(ctx context.Context, projectID, itemID int64) error {
	return s.tasks.ToggleChecklistItem(ctx, projectID, itemID)
}

// RecordDeployment appends a deployment to the named environment's history.
func (s *Service) RecordDeployment(ctx context.Context, projectID int64, envName model.EnvironmentName, version string, status model.DeploymentStatus) (*model.DeploymentRecord, error) {
	env, err := s.envs.FindByName(ctx, projectID, envName)
	if err != nil {
		return nil, err
	}

	rec := &model.DeploymentRecord{
		EnvironmentID: env.ID,
		Version:       version,
		Status:        status,
		DeployedAt:    s.clock.Now(),
	}
	id, err := s.envs.RecordDeployment(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	return rec, nil
}
