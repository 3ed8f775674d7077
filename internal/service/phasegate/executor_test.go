package phasegate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
	"project-service/pkg/clock"
	"project-service/pkg/mq"
)

type executorFixture struct {
	*validatorFixture
	db       *fakeDB
	locks    *fakeLocker
	pub      *fakePublisher
	executor *Executor
}

func newExecutorFixture(current model.PhaseType) *executorFixture {
	vf := newValidatorFixture(current)
	f := &executorFixture{
		validatorFixture: vf,
		db:               &fakeDB{tx: &fakeTx{}},
		locks:            &fakeLocker{},
		pub:              &fakePublisher{},
	}
	f.executor = NewExecutor(f.db, f.phases, f.validator, f.locks, f.pub, clock.System(), zap.NewNop())
	return f
}

func (f *executorFixture) satisfyKickoffGate() {
	f.resources.resources = []model.Resource{approvedResource(model.ResourceSRS)}
	f.stack.count = 1
}

func TestExecuteTransitionAdvances(t *testing.T) {
	f := newExecutorFixture(model.PhaseKickoff)
	f.satisfyKickoffGate()

	result, err := f.executor.ExecuteTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, result.Transitioned)
	assert.Equal(t, model.PhaseKickoff, result.Validation.CurrentPhase)
	assert.Equal(t, model.PhaseTechnicalPlanning, result.Validation.NextPhase)

	// Both writes landed in the one transaction, complete before start.
	assert.True(t, f.db.tx.committed)
	require.Len(t, f.phases.completed, 1)
	require.Len(t, f.phases.started, 1)
	assert.Equal(t, int64(model.PhaseKickoff.Position()+1), f.phases.completed[0])
	assert.Equal(t, int64(model.PhaseTechnicalPlanning.Position()+1), f.phases.started[0])

	require.Len(t, f.pub.routingKeys, 1)
	assert.Equal(t, mq.RoutingKeyPhaseAdvanced, f.pub.routingKeys[0])
	payload, ok := f.pub.payloads[0].(mq.PhaseAdvancedPayload)
	require.True(t, ok)
	assert.Equal(t, string(model.PhaseKickoff), payload.CompletedPhase)
	assert.Equal(t, string(model.PhaseTechnicalPlanning), payload.StartedPhase)
}

func TestExecuteTransitionRejectionIsNotAnError(t *testing.T) {
	f := newExecutorFixture(model.PhaseKickoff)

	result, err := f.executor.ExecuteTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, result.Transitioned)
	assert.NotEmpty(t, result.Validation.MissingRequirements)

	// No transaction, no writes, no event.
	assert.Zero(t, f.db.begun)
	assert.Empty(t, f.phases.completed)
	assert.Empty(t, f.pub.routingKeys)
}

func TestExecuteTransitionRejectionIsIdempotent(t *testing.T) {
	f := newExecutorFixture(model.PhaseKickoff)

	first, err := f.executor.ExecuteTransition(context.Background(), 1)
	require.NoError(t, err)
	second, err := f.executor.ExecuteTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, f.phases.completed)
}

func TestExecuteTransitionHoldsAndReleasesLock(t *testing.T) {
	f := newExecutorFixture(model.PhaseKickoff)
	f.satisfyKickoffGate()

	_, err := f.executor.ExecuteTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, f.locks.acquired)
	assert.Equal(t, 1, f.locks.released)
}

func TestExecuteTransitionLockFaultStopsEverything(t *testing.T) {
	f := newExecutorFixture(model.PhaseKickoff)
	f.satisfyKickoffGate()
	f.locks.err = &apperr.TransientFault{Op: "acquire project lock", Err: errors.New("redis down")}

	_, err := f.executor.ExecuteTransition(context.Background(), 1)

	var fault *apperr.TransientFault
	require.ErrorAs(t, err, &fault)
	assert.Zero(t, f.db.begun)
}

func TestExecuteTransitionCommitFaultIsTransient(t *testing.T) {
	f := newExecutorFixture(model.PhaseKickoff)
	f.satisfyKickoffGate()
	f.db.tx.commitErr = errors.New("connection lost")

	_, err := f.executor.ExecuteTransition(context.Background(), 1)

	var fault *apperr.TransientFault
	require.ErrorAs(t, err, &fault)
	assert.True(t, f.db.tx.rolledBack)
	assert.Empty(t, f.pub.routingKeys)
}

func TestExecuteTransitionPartialWriteRollsBack(t *testing.T) {
	f := newExecutorFixture(model.PhaseKickoff)
	f.satisfyKickoffGate()
	f.phases.startErr = &apperr.IntegrityFault{ProjectID: 1, Detail: "phase not pending"}

	_, err := f.executor.ExecuteTransition(context.Background(), 1)

	var fault *apperr.IntegrityFault
	require.ErrorAs(t, err, &fault)
	assert.False(t, f.db.tx.committed)
	assert.True(t, f.db.tx.rolledBack)
}

func TestExecuteTransitionPublishFailureDoesNotUndoTheTransition(t *testing.T) {
	f := newExecutorFixture(model.PhaseKickoff)
	f.satisfyKickoffGate()
	f.pub.err = errors.New("broker unavailable")

	result, err := f.executor.ExecuteTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, result.Transitioned)
	assert.True(t, f.db.tx.committed)
}
