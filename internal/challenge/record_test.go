package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition(t Type) *Definition {
	return &Definition{
		ID:                   "def-1",
		Name:                 "300 Burpee Challenge",
		Type:                 t,
		Status:               StatusStarted,
		StartDate:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		LastRegistrationDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Requirements: CompletionRequirements{
			TotalCompletionsRequired: 3,
			GoalOptions:              []float64{30, 60, 100},
		},
	}
}

func TestNewRecordPreRegistersDuringPreRegistration(t *testing.T) {
	def := testDefinition(TypeIterativeCompletions)
	def.Status = StatusPreRegistration

	rec, err := NewRecord(def, "user-1", 0)
	require.NoError(t, err)
	assert.Equal(t, StatePreRegistered, rec.State)
	assert.Equal(t, 3, rec.TotalToComplete)
	assert.Equal(t, 0, rec.ActiveCompletions)
}

func TestNewRecordStartedCampaignIsNotStarted(t *testing.T) {
	rec, err := NewRecord(testDefinition(TypeIterativeCompletions), "user-1", 0)
	require.NoError(t, err)
	assert.Equal(t, StateNotStarted, rec.State)
}

func TestNewRecordRejectsOffMenuGoal(t *testing.T) {
	_, err := NewRecord(testDefinition(TypeUserSelectedGoal), "user-1", 45)
	assert.Error(t, err)
}

func TestNewRecordAcceptsMenuGoal(t *testing.T) {
	rec, err := NewRecord(testDefinition(TypeUserSelectedGoal), "user-1", 60)
	require.NoError(t, err)
	assert.Equal(t, float64(60), rec.Goal)
	assert.Equal(t, float64(0), rec.CurrentValue)
}

func TestCompletedIsASink(t *testing.T) {
	rec := Record{Type: TypeIterativeCompletions, State: StateCompleted, ActiveCompletions: 3, TotalToComplete: 3}

	assert.Equal(t, StateCompleted, rec.WithState(StateFailed).State)
	assert.Equal(t, StateCompleted, rec.WithState(StateInProgress).State)

	after, err := rec.ApplyProgress(5)
	require.NoError(t, err)
	assert.Equal(t, rec, after, "progress against a completed record must be absorbed unchanged")
}

func TestApplyProgressIterative(t *testing.T) {
	rec := Record{Type: TypeIterativeCompletions, State: StateNotStarted, TotalToComplete: 3}

	rec, err := rec.ApplyProgress(1)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, rec.State)
	assert.Equal(t, 1, rec.ActiveCompletions)
	assert.False(t, rec.GoalMet())

	rec, err = rec.ApplyProgress(2)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.ActiveCompletions)
	assert.True(t, rec.GoalMet())
}

func TestApplyProgressIterativeRejectsNegative(t *testing.T) {
	rec := Record{Type: TypeIterativeCompletions, State: StateInProgress, ActiveCompletions: 2, TotalToComplete: 3}

	after, err := rec.ApplyProgress(-1)
	assert.Error(t, err)
	assert.Equal(t, 2, after.ActiveCompletions, "counter must never decrease")
}

func TestApplyProgressIterativeRejectsFractional(t *testing.T) {
	rec := Record{Type: TypeIterativeCompletions, State: StateInProgress, ActiveCompletions: 1, TotalToComplete: 3}

	after, err := rec.ApplyProgress(0.5)
	assert.Error(t, err)
	assert.Equal(t, 1, after.ActiveCompletions, "a fractional count must not be silently truncated away")
}

func TestApplyProgressGoalAccumulates(t *testing.T) {
	rec := Record{Type: TypeUserSelectedGoal, State: StateNotStarted, Goal: 60}

	rec, err := rec.ApplyProgress(20)
	require.NoError(t, err)
	assert.False(t, rec.GoalMet())

	rec, err = rec.ApplyProgress(25)
	require.NoError(t, err)
	assert.False(t, rec.GoalMet())

	rec, err = rec.ApplyProgress(20)
	require.NoError(t, err)
	assert.True(t, rec.GoalMet())
	assert.Equal(t, float64(65), rec.CurrentValue, "accumulated value is not clamped at the goal")
}

func TestApplyProgressBestAttemptKeepsMax(t *testing.T) {
	rec := Record{Type: TypeBestAttempt, State: StateInProgress, BestAttempt: 12}

	rec, err := rec.ApplyProgress(9)
	require.NoError(t, err)
	assert.Equal(t, float64(12), rec.BestAttempt)

	rec, err = rec.ApplyProgress(15)
	require.NoError(t, err)
	assert.Equal(t, float64(15), rec.BestAttempt)

	assert.False(t, rec.GoalMet(), "best-attempt challenges never auto-complete")
}

func TestApplyProgressPromotesPreRegistered(t *testing.T) {
	rec := Record{Type: TypeUserSelectedGoal, State: StatePreRegistered, Goal: 100}

	rec, err := rec.ApplyProgress(10)
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, rec.State)
}

func TestExpired(t *testing.T) {
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	rec := Record{State: StateInProgress, EndDateTime: endOfDay(end)}

	assert.False(t, rec.Expired(time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)), "still inside the last day")
	assert.True(t, rec.Expired(time.Date(2026, 4, 1, 0, 0, 1, 0, time.UTC)))

	completed := rec.WithState(StateCompleted)
	assert.False(t, completed.Expired(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))

	failed := rec.WithState(StateFailed)
	assert.False(t, failed.Expired(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDueToStart(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := Record{State: StatePreRegistered, StartDate: start}

	assert.False(t, rec.DueToStart(start.Add(-time.Hour)))
	assert.True(t, rec.DueToStart(start))
	assert.True(t, rec.DueToStart(start.Add(time.Hour)))

	inProgress := Record{State: StateInProgress, StartDate: start}
	assert.False(t, inProgress.DueToStart(start.Add(time.Hour)))
}

func TestProgressMetric(t *testing.T) {
	assert.Equal(t, float64(7), Record{Type: TypeIterativeCompletions, ActiveCompletions: 7}.ProgressMetric())
	assert.Equal(t, float64(18.5), Record{Type: TypeBestAttempt, BestAttempt: 18.5}.ProgressMetric())
	assert.Equal(t, float64(42), Record{Type: TypeUserSelectedGoal, CurrentValue: 42}.ProgressMetric())
}
