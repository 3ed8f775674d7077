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
)

type validatorFixture struct {
	phases    *fakePhaseStore
	resources *fakeResourceStore
	stack     *fakeTechStackStore
	envs      *fakeEnvironmentStore
	tasks     *fakeTaskStore
	bugs      *fakeBugStore
	validator *Validator
}

func newValidatorFixture(current model.PhaseType) *validatorFixture {
	f := &validatorFixture{
		phases:    &fakePhaseStore{current: current},
		resources: &fakeResourceStore{},
		stack:     &fakeTechStackStore{},
		envs:      &fakeEnvironmentStore{},
		tasks:     &fakeTaskStore{},
		bugs:      &fakeBugStore{},
	}
	registry := NewDefaultRegistry(f.resources, f.stack, f.envs, f.tasks, f.bugs)
	f.validator = NewValidator(f.phases, registry, zap.NewNop())
	return f
}

func approvedResource(resType model.ResourceType) model.Resource {
	return model.Resource{Type: resType, Status: model.ResourceApproved, Version: 1}
}

func TestValidateTransitionCollectsAllMissingRequirements(t *testing.T) {
	f := newValidatorFixture(model.PhaseKickoff)

	result, err := f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, result.CanTransition)
	assert.Equal(t, model.PhaseKickoff, result.CurrentPhase)
	assert.Equal(t, model.PhaseTechnicalPlanning, result.NextPhase)
	// Both unmet requirements are reported, not just the first.
	assert.Equal(t, []string{
		"SITEMAP/SRS not approved",
		"tech stack not selected",
	}, result.MissingRequirements)
}

func TestValidateTransitionAcceptsWhenGateSatisfied(t *testing.T) {
	f := newValidatorFixture(model.PhaseKickoff)
	f.resources.resources = []model.Resource{approvedResource(model.ResourceSRS)}
	f.stack.count = 2

	result, err := f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, result.CanTransition)
	assert.Empty(t, result.MissingRequirements)
	assert.Equal(t, model.PhaseTechnicalPlanning, result.NextPhase)
}

func TestValidateTransitionPendingResourceDoesNotCount(t *testing.T) {
	f := newValidatorFixture(model.PhaseKickoff)
	f.resources.resources = []model.Resource{
		{Type: model.ResourceSRS, Status: model.ResourcePending, Version: 2},
	}
	f.stack.count = 1

	result, err := f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, result.CanTransition)
	assert.Equal(t, []string{"SITEMAP/SRS not approved"}, result.MissingRequirements)
}

func TestValidateTransitionFinalPhase(t *testing.T) {
	f := newValidatorFixture(model.PhaseGoLive)

	result, err := f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, result.CanTransition)
	assert.Equal(t, []string{ReasonFinalPhase}, result.MissingRequirements)
}

func TestValidateTransitionNoActivePhaseIsIntegrityFault(t *testing.T) {
	f := newValidatorFixture("")

	_, err := f.validator.ValidateTransition(context.Background(), 1)

	var fault *apperr.IntegrityFault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, int64(1), fault.ProjectID)
}

func TestValidateTransitionStoreFaultAborts(t *testing.T) {
	f := newValidatorFixture(model.PhaseKickoff)
	f.resources.resources = []model.Resource{approvedResource(model.ResourceSRS)}
	f.stack.err = errors.New("connection reset")

	_, err := f.validator.ValidateTransition(context.Background(), 1)

	// A failed read must never be interpreted as "requirement unmet".
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")
}

func TestValidateTransitionStubRequirementsPass(t *testing.T) {
	// The UAT -> go-live gate is backed entirely by stub evaluators, so it
	// passes and the transition is offered.
	f := newValidatorFixture(model.PhaseUAT)

	result, err := f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, result.CanTransition)
	assert.Equal(t, model.PhaseGoLive, result.NextPhase)
}

func TestValidateTransitionStagingGate(t *testing.T) {
	f := newValidatorFixture(model.PhaseDevelopment)
	f.tasks.total = 0 // zero tasks passes the dev-tasks gate

	result, err := f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.CanTransition)
	assert.Equal(t, []string{"staging environment not configured"}, result.MissingRequirements)

	f.envs.env = &model.Environment{ID: 7, Name: model.EnvStaging, URL: "https://staging.example.com", CurrentVersion: "1.2.0"}
	f.envs.latest = &model.DeploymentRecord{EnvironmentID: 7, Status: model.DeployFailed}

	result, err = f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.CanTransition)
	assert.Equal(t, []string{"last staging deployment status is failed"}, result.MissingRequirements)

	f.envs.latest.Status = model.DeploySuccess

	result, err = f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, result.CanTransition)
}

func TestValidateTransitionDevTasksGate(t *testing.T) {
	f := newValidatorFixture(model.PhaseDevelopment)
	f.envs.env = &model.Environment{ID: 7, Name: model.EnvStaging, URL: "https://staging.example.com", CurrentVersion: "1.2.0"}
	f.envs.latest = &model.DeploymentRecord{EnvironmentID: 7, Status: model.DeploySuccess}
	f.tasks.total = 4
	f.tasks.outside = 2
	f.tasks.incomplete = 3

	result, err := f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.CanTransition)
	assert.Equal(t, []string{"2 task(s) not done, 3 checklist item(s) open"}, result.MissingRequirements)

	// Every checklist item completed satisfies the gate even with tasks
	// outside the terminal column.
	f.tasks.incomplete = 0

	result, err = f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, result.CanTransition)
}

func TestValidateTransitionCriticalBugsGate(t *testing.T) {
	f := newValidatorFixture(model.PhaseInternalTesting)
	f.bugs.openCritical = 2

	result, err := f.validator.ValidateTransition(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.CanTransition)
	assert.Equal(t, []string{"2 critical bug(s) unresolved"}, result.MissingRequirements)
}
