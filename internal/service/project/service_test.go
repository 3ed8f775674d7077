package project

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
	"project-service/pkg/clock"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(_ context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(_ context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

func (t *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}

func (t *fakeTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }

func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row { return nil }

func (t *fakeTx) Conn() *pgx.Conn { return nil }

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Begin(_ context.Context) (pgx.Tx, error) { return d.tx, nil }

type fakeProjectStore struct {
	inserted  *model.Project
	insertErr error
}

func (s *fakeProjectStore) InsertTx(_ context.Context, _ pgx.Tx, p *model.Project) (int64, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	copied := *p
	copied.ID = 1
	s.inserted = &copied
	return 1, nil
}

func (s *fakeProjectStore) FindByID(_ context.Context, id int64) (*model.Project, error) {
	if s.inserted == nil || s.inserted.ID != id {
		return nil, &apperr.NotFound{Entity: "project", ID: id}
	}
	return s.inserted, nil
}

func (s *fakeProjectStore) List(_ context.Context) ([]model.Project, error) {
	if s.inserted == nil {
		return nil, nil
	}
	return []model.Project{*s.inserted}, nil
}

type fakePhaseStore struct {
	bulkInsertAt *time.Time
	bulkErr      error
}

func (s *fakePhaseStore) BulkInsert(_ context.Context, _ pgx.Tx, _ int64, startedAt time.Time) error {
	if s.bulkErr != nil {
		return s.bulkErr
	}
	s.bulkInsertAt = &startedAt
	return nil
}

func (s *fakePhaseStore) FindByProject(_ context.Context, projectID int64) ([]model.Phase, error) {
	if s.bulkInsertAt == nil {
		return nil, nil
	}
	phases := make([]model.Phase, 0, len(model.PhaseSequence))
	for i, t := range model.PhaseSequence {
		status := model.PhasePending
		if t == model.PhaseKickoff {
			status = model.PhaseInProgress
		}
		phases = append(phases, model.Phase{
			ID: int64(i + 1), ProjectID: projectID, Type: t, Position: i, Status: status,
		})
	}
	return phases, nil
}

type fakeEnvironmentStore struct {
	bulkInserted bool
	records      []model.DeploymentRecord
}

func (s *fakeEnvironmentStore) BulkInsert(_ context.Context, _ pgx.Tx, _ int64) error {
	s.bulkInserted = true
	return nil
}

func (s *fakeEnvironmentStore) FindByProject(_ context.Context, projectID int64) ([]model.Environment, error) {
	if !s.bulkInserted {
		return nil, nil
	}
	envs := make([]model.Environment, 0, len(model.EnvironmentNames))
	for i, name := range model.EnvironmentNames {
		envs = append(envs, model.Environment{ID: int64(i + 1), ProjectID: projectID, Name: name})
	}
	return envs, nil
}

func (s *fakeEnvironmentStore) FindByName(ctx context.Context, projectID int64, name model.EnvironmentName) (*model.Environment, error) {
	envs, err := s.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, env := range envs {
		if env.Name == name {
			return &env, nil
		}
	}
	return nil, &apperr.NotFound{Entity: "environment", ID: projectID}
}

func (s *fakeEnvironmentStore) RecordDeployment(_ context.Context, rec *model.DeploymentRecord) (int64, error) {
	s.records = append(s.records, *rec)
	return int64(len(s.records)), nil
}

type fakeTaskStore struct {
	toggled [][2]int64
}

func (s *fakeTaskStore) ToggleChecklistItem(_ context.Context, projectID, itemID int64) error {
	s.toggled = append(s.toggled, [2]int64{projectID, itemID})
	return nil
}

type serviceFixture struct {
	tx       *fakeTx
	projects *fakeProjectStore
	phases   *fakePhaseStore
	envs     *fakeEnvironmentStore
	tasks    *fakeTaskStore
	svc      *Service
}

func newServiceFixture(now time.Time) *serviceFixture {
	f := &serviceFixture{
		tx:       &fakeTx{},
		projects: &fakeProjectStore{},
		phases:   &fakePhaseStore{},
		envs:     &fakeEnvironmentStore{},
		tasks:    &fakeTaskStore{},
	}
	f.svc = NewService(&fakeDB{tx: f.tx}, f.projects, f.phases, f.envs, f.tasks, clock.Fixed{T: now}, zap.NewNop())
	return f
}

func TestCreateBuildsFullEntityGraph(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	f := newServiceFixture(now)

	detail, err := f.svc.Create(context.Background(), &model.Project{
		Key: "INTRA", Name: "Intranet Portal", ManagerID: 9,
	})
	require.NoError(t, err)

	assert.True(t, f.tx.committed)
	assert.Equal(t, model.ProjectPlanning, detail.Project.Status)

	require.Len(t, detail.Phases, 6)
	assert.Equal(t, model.PhaseInProgress, detail.Phases[0].Status)
	for _, phase := range detail.Phases[1:] {
		assert.Equal(t, model.PhasePending, phase.Status)
	}
	require.NotNil(t, f.phases.bulkInsertAt)
	assert.Equal(t, now, *f.phases.bulkInsertAt)

	assert.Len(t, detail.Environments, 3)
}

func TestCreateRollsBackOnPhaseInsertFailure(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.phases.bulkErr = errors.New("unique violation")

	_, err := f.svc.Create(context.Background(), &model.Project{Key: "INTRA", Name: "Intranet Portal"})

	require.Error(t, err)
	assert.False(t, f.tx.committed)
	assert.True(t, f.tx.rolledBack)
}

func TestRecordDeploymentUsesClock(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	f := newServiceFixture(now)
	f.envs.bulkInserted = true

	rec, err := f.svc.RecordDeployment(context.Background(), 1, model.EnvStaging, "1.4.0", model.DeploySuccess)
	require.NoError(t, err)

	assert.Equal(t, "1.4.0", rec.Version)
	assert.Equal(t, now, rec.DeployedAt)
	require.Len(t, f.envs.records, 1)
}

func TestRecordDeploymentUnknownEnvironment(t *testing.T) {
	f := newServiceFixture(time.Now())
	f.envs.bulkInserted = true

	_, err := f.svc.RecordDeployment(context.Background(), 1, model.EnvironmentName("qa"), "1.0.0", model.DeploySuccess)

	var notFound *apperr.NotFound
	require.ErrorAs(t, err, &notFound)
}

func TestToggleChecklistItemIsProjectScoped(t *testing.T) {
	f := newServiceFixture(time.Now())

	require.NoError(t, f.svc.ToggleChecklistItem(context.Background(), 1, 55))
	assert.Equal(t, [][2]int64{{1, 55}}, f.tasks.toggled)
}
