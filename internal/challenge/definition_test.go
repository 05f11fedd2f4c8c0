package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceStartsPreRegistration(t *testing.T) {
	def := testDefinition(TypeIterativeCompletions)
	def.Status = StatusPreRegistration

	status, changed := def.Advance(def.StartDate.Add(time.Hour))
	assert.True(t, changed)
	assert.Equal(t, StatusStarted, status)
}

func TestAdvanceBeforeStartIsANoop(t *testing.T) {
	def := testDefinition(TypeIterativeCompletions)
	def.Status = StatusPreRegistration

	status, changed := def.Advance(def.StartDate.Add(-time.Hour))
	assert.False(t, changed)
	assert.Equal(t, StatusPreRegistration, status)
}

func TestAdvanceCompletesAfterWindow(t *testing.T) {
	def := testDefinition(TypeIterativeCompletions)

	status, changed := def.Advance(def.EndDate.AddDate(0, 0, 1))
	assert.True(t, changed)
	assert.Equal(t, StatusCompleted, status)
}

func TestAdvanceIsIdempotent(t *testing.T) {
	def := testDefinition(TypeIterativeCompletions)
	now := def.EndDate.AddDate(0, 0, 2)

	status, changed := def.Advance(now)
	assert.True(t, changed)
	def.Status = status

	_, changed = def.Advance(now)
	assert.False(t, changed, "a second sweep over the same clock must change nothing")
}

func TestAdvanceNeverTouchesDrafts(t *testing.T) {
	def := testDefinition(TypeIterativeCompletions)
	def.Status = StatusDraft

	status, changed := def.Advance(def.StartDate.Add(time.Hour))
	assert.False(t, changed)
	assert.Equal(t, StatusDraft, status)
}

func TestRegistrationClosed(t *testing.T) {
	def := testDefinition(TypeIterativeCompletions)
	def.Status = StatusPreRegistration

	// Any time on the cutoff date itself is still open.
	assert.False(t, def.RegistrationClosed(time.Date(2026, 3, 15, 23, 30, 0, 0, time.UTC)))
	assert.True(t, def.RegistrationClosed(time.Date(2026, 3, 16, 0, 0, 1, 0, time.UTC)))

	// A started campaign still admits joiners past the cutoff.
	def.Status = StatusStarted
	assert.False(t, def.RegistrationClosed(time.Date(2026, 3, 16, 0, 0, 1, 0, time.UTC)))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Definition)
		wantErr bool
	}{
		{"valid iterative", func(d *Definition) {}, false},
		{"missing name", func(d *Definition) { d.Name = "" }, true},
		{"end before start", func(d *Definition) { d.EndDate = d.StartDate.AddDate(0, 0, -1) }, true},
		{"cutoff after end", func(d *Definition) { d.LastRegistrationDate = d.EndDate.AddDate(0, 0, 1) }, true},
		{"iterative without total", func(d *Definition) { d.Requirements.TotalCompletionsRequired = 0 }, true},
		{"unknown type", func(d *Definition) { d.Type = Type("bogus") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := testDefinition(TypeIterativeCompletions)
			tt.mutate(def)
			err := def.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateGoalChallengeNeedsOptions(t *testing.T) {
	def := testDefinition(TypeUserSelectedGoal)
	def.Requirements.GoalOptions = nil
	assert.Error(t, def.Validate())
}

func TestGoalAllowed(t *testing.T) {
	def := testDefinition(TypeUserSelectedGoal)
	assert.True(t, def.GoalAllowed(60))
	assert.False(t, def.GoalAllowed(45))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("03/15/2026")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("2026-03-15")
	assert.Error(t, err)
}
