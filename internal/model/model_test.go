package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhasePositionMatchesSequence(t *testing.T) {
	for i, phase := range PhaseSequence {
		assert.Equal(t, i, phase.Position())
	}
	assert.Equal(t, -1, PhaseType("maintenance").Position())
}

func TestBugStatusTerminal(t *testing.T) {
	assert.True(t, BugResolved.IsTerminal())
	assert.True(t, BugClosed.IsTerminal())
	assert.True(t, BugWontFix.IsTerminal())

	assert.False(t, BugOpen.IsTerminal())
	assert.False(t, BugInProgress.IsTerminal())
}
