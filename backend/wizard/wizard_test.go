package wizard_test

import (
	"context"
	"testing"

	"project/backend/models"
	"project/backend/protocol"
	"project/backend/store"
	"project/backend/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser uint = 3

func TestLoadDefaults(t *testing.T) {
	ws := wizard.NewStore(store.NewMemoryKV())

	state, err := ws.Load(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StepWelcome, state.Step)
	assert.Nil(t, state.Goal)
	assert.Nil(t, state.Protocol)
	assert.Empty(t, state.Commitments)
}

func TestArtifactsSurviveReload(t *testing.T) {
	kv := store.NewMemoryKV()
	ws := wizard.NewStore(kv)
	ctx := context.Background()

	goal := models.WellbeingGoal{Category: "focus", Struggle: "distractions", TimePerDay: 20, Budget: "low"}
	require.NoError(t, ws.SetGoal(ctx, testUser, goal))

	p := protocol.Generate(goal)
	require.NoError(t, ws.SetProtocol(ctx, testUser, p))

	commitments := []models.Commitment{
		{ActionID: p.Actions[0].ID, Description: "meditate daily", Schedule: "daily", TargetDate: "2024-01-08"},
	}
	require.NoError(t, ws.SetCommitments(ctx, testUser, commitments))

	require.NoError(t, ws.SetStep(ctx, testUser, models.StepGoals))

	// A fresh store over the same KV sees everything
	reloaded, err := wizard.NewStore(kv).Load(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StepGoals, reloaded.Step)
	require.NotNil(t, reloaded.Goal)
	assert.Equal(t, goal, *reloaded.Goal)
	require.NotNil(t, reloaded.Protocol)
	assert.Equal(t, p, *reloaded.Protocol)
	assert.Equal(t, commitments, reloaded.Commitments)
}

func TestStepTransitions(t *testing.T) {
	ws := wizard.NewStore(store.NewMemoryKV())
	ctx := context.Background()

	// The full forward path
	for _, step := range []models.Step{
		models.StepGoals,
		models.StepGenerating,
		models.StepProtocol,
		models.StepCommitment,
		models.StepTracking,
	} {
		require.NoError(t, ws.SetStep(ctx, testUser, step))
	}

	// Back edges target specific earlier steps
	require.NoError(t, ws.SetStep(ctx, testUser, models.StepCommitment))
	require.NoError(t, ws.SetStep(ctx, testUser, models.StepProtocol))
	require.NoError(t, ws.SetStep(ctx, testUser, models.StepGoals)) // regenerate
	require.NoError(t, ws.SetStep(ctx, testUser, models.StepWelcome))

	// Skipping ahead is a caller error
	err := ws.SetStep(ctx, testUser, models.StepTracking)
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)

	// So is an unknown step
	err = ws.SetStep(ctx, testUser, models.Step("review"))
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)

	state, err := ws.Load(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, models.StepWelcome, state.Step)
}

func TestValidTransitionTable(t *testing.T) {
	assert.True(t, wizard.ValidTransition(models.StepWelcome, models.StepGoals))
	assert.True(t, wizard.ValidTransition(models.StepProtocol, models.StepGoals))
	assert.True(t, wizard.ValidTransition(models.StepTracking, models.StepCommitment))
	assert.False(t, wizard.ValidTransition(models.StepWelcome, models.StepTracking))
	assert.False(t, wizard.ValidTransition(models.StepGoals, models.StepProtocol))
	assert.False(t, wizard.ValidTransition(models.StepTracking, models.StepWelcome))
}

func TestSetCommitmentsValidatesActions(t *testing.T) {
	ws := wizard.NewStore(store.NewMemoryKV())
	ctx := context.Background()

	commitments := []models.Commitment{{ActionID: "1", Schedule: "daily"}}

	// Before a protocol exists nothing is accepted
	err := ws.SetCommitments(ctx, testUser, commitments)
	assert.ErrorIs(t, err, wizard.ErrNoProtocol)

	p := protocol.Generate(models.WellbeingGoal{Category: "sleep"})
	require.NoError(t, ws.SetProtocol(ctx, testUser, p))

	// A dangling action ID never reaches storage
	bad := []models.Commitment{{ActionID: "missing", Schedule: "daily"}}
	require.Error(t, ws.SetCommitments(ctx, testUser, bad))
	state, err := ws.Load(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, state.Commitments)

	require.NoError(t, ws.SetCommitments(ctx, testUser, commitments))
	state, err = ws.Load(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, commitments, state.Commitments)
}

func TestUsersAreIsolated(t *testing.T) {
	kv := store.NewMemoryKV()
	ws := wizard.NewStore(kv)
	ctx := context.Background()

	require.NoError(t, ws.SetStep(ctx, 1, models.StepGoals))

	state, err := ws.Load(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StepWelcome, state.Step)
}
