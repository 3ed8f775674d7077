package phasegate

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"project-service/internal/model"
	"project-service/pkg/apperr"
)

// In-memory store fakes. Each fake exposes an err field so a test can make
// any read fail.

type fakeResourceStore struct {
	resources []model.Resource
	err       error
}

func (f *fakeResourceStore) FindByProject(_ context.Context, _ int64) ([]model.Resource, error) {
	return f.resources, f.err
}

type fakeTechStackStore struct {
	count int64
	err   error
}

func (f *fakeTechStackStore) CountByProject(_ context.Context, _ int64) (int64, error) {
	return f.count, f.err
}

type fakeEnvironmentStore struct {
	env    *model.Environment
	latest *model.DeploymentRecord
	err    error
}

func (f *fakeEnvironmentStore) FindByName(_ context.Context, projectID int64, _ model.EnvironmentName) (*model.Environment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.env == nil {
		return nil, &apperr.NotFound{Entity: "environment", ID: projectID}
	}
	return f.env, nil
}

func (f *fakeEnvironmentStore) LatestDeployment(_ context.Context, environmentID int64) (*model.DeploymentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.latest == nil {
		return nil, &apperr.NotFound{Entity: "deployment record", ID: environmentID}
	}
	return f.latest, nil
}

type fakeTaskStore struct {
	total      int64
	outside    int64
	incomplete int64
	err        error
}

func (f *fakeTaskStore) CountByProject(_ context.Context, _ int64) (int64, error) {
	return f.total, f.err
}

func (f *fakeTaskStore) CountOutsideTerminalColumn(_ context.Context, _ int64) (int64, error) {
	return f.outside, f.err
}

func (f *fakeTaskStore) CountIncompleteChecklistItems(_ context.Context, _ int64) (int64, error) {
	return f.incomplete, f.err
}

type fakeBugStore struct {
	openCritical int64
	err          error
}

func (f *fakeBugStore) CountOpenCritical(_ context.Context, _ int64) (int64, error) {
	return f.openCritical, f.err
}

// fakePhaseStore serves the full six-phase timeline of a single project and
// records the transition writes it receives.

type fakePhaseStore struct {
	current model.PhaseType

	findInProgressErr error
	completeErr       error
	startErr          error

	completed []int64
	started   []int64
}

func (f *fakePhaseStore) phase(t model.PhaseType) *model.Phase {
	status := model.PhasePending
	switch {
	case t == f.current:
		status = model.PhaseInProgress
	case t.Position() < f.current.Position():
		status = model.PhaseCompleted
	}
	return &model.Phase{
		ID:        int64(t.Position() + 1),
		ProjectID: 1,
		Type:      t,
		Position:  t.Position(),
		Status:    status,
	}
}

func (f *fakePhaseStore) FindInProgress(_ context.Context, projectID int64) (*model.Phase, error) {
	if f.findInProgressErr != nil {
		return nil, f.findInProgressErr
	}
	if f.current == "" {
		return nil, &apperr.NotFound{Entity: "in-progress phase", ID: projectID}
	}
	return f.phase(f.current), nil
}

func (f *fakePhaseStore) FindByType(_ context.Context, _ int64, phaseType model.PhaseType) (*model.Phase, error) {
	return f.phase(phaseType), nil
}

func (f *fakePhaseStore) CompleteTx(_ context.Context, _ pgx.Tx, phaseID int64, _ time.Time) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed = append(f.completed, phaseID)
	return nil
}

func (f *fakePhaseStore) StartTx(_ context.Context, _ pgx.Tx, phaseID int64, _ time.Time) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, phaseID)
	return nil
}

// fakeTx implements pgx.Tx; only Commit and Rollback matter to these tests.

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
	tx       *fakeTx
	beginErr error
	begun    int
}

func (d *fakeDB) Begin(_ context.Context) (pgx.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	d.begun++
	return d.tx, nil
}

type fakeLocker struct {
	acquired int
	released int
	err      error
}

func (l *fakeLocker) Acquire(_ context.Context, _ int64) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func() { l.released++ }, nil
}

type fakePublisher struct {
	routingKeys []string
	payloads    []any
	err         error
}

func (p *fakePublisher) Publish(routingKey string, payload any) error {
	if p.err != nil {
		return p.err
	}
	p.routingKeys = append(p.routingKeys, routingKey)
	p.payloads = append(p.payloads, payload)
	return nil
}
