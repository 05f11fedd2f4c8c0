package challenge

import (
	"fmt"
	"time"
)

type State string

const (
	StatePreRegistered State = "pre_registered"
	StateNotStarted    State = "not_started"
	StateInProgress    State = "in_progress"
	StateCompleted     State = "completed"
	StateFailed        State = "failed"
)

// Record is one user's progress against one challenge. It is a tagged
// union over Type: iterative challenges use ActiveCompletions and
// TotalToComplete, best-attempt challenges use BestAttempt, and
// user-selected-goal challenges use Goal and CurrentValue.
//
// Records are values. Every mutating operation returns a new Record and
// the challenge service persists what is returned; nothing mutates in
// place.
type Record struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Type        Type      `json:"type"`
	State       State     `json:"state"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	EndDateTime time.Time `json:"endDateTime"`

	ActiveCompletions int     `json:"activeCompletions,omitempty"`
	TotalToComplete   int     `json:"totalToComplete,omitempty"`
	BestAttempt       float64 `json:"bestAttempt,omitempty"`
	Goal              float64 `json:"goal,omitempty"`
	CurrentValue      float64 `json:"currentValue,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewRecord builds the initial record for a user joining a challenge. The
// window dates are copied from the definition at join time and the initial
// state is pre-registered while the campaign is still in pre-registration.
// For user-selected-goal challenges the caller supplies the chosen goal.
func NewRecord(def *Definition, userID string, goal float64) (Record, error) {
	rec := Record{
		UserID:      userID,
		Name:        def.Name,
		Type:        def.Type,
		State:       StateNotStarted,
		StartDate:   def.StartDate,
		EndDate:     def.EndDate,
		EndDateTime: endOfDay(def.EndDate),
	}
	if def.Status == StatusPreRegistration {
		rec.State = StatePreRegistered
	}

	switch def.Type {
	case TypeIterativeCompletions:
		rec.TotalToComplete = def.Requirements.TotalCompletionsRequired
	case TypeBestAttempt:
		// starts at zero, replaced by the first attempt
	case TypeUserSelectedGoal:
		if !def.GoalAllowed(goal) {
			return Record{}, fmt.Errorf("goal %v is not an option for challenge %q", goal, def.Name)
		}
		rec.Goal = goal
	default:
		return Record{}, fmt.Errorf("unknown challenge type %q", def.Type)
	}
	return rec, nil
}

// WithState returns the record with the given state. Completed is a sink:
// once a record is completed, any attempt to move it elsewhere is silently
// absorbed and the record comes back unchanged.
func (r Record) WithState(next State) Record {
	if r.State == StateCompleted {
		return r
	}
	r.State = next
	return r
}

// ApplyProgress folds a progress report into the record. Iterative
// challenges treat delta as a completion count, goal challenges as a
// quantity in the challenge's unit, and best-attempt challenges as a
// replace-if-better candidate. Reporting progress on a not-started or
// pre-registered record promotes it to in-progress.
//
// Completed records are returned unchanged; the sink state absorbs late
// reports without error.
func (r Record) ApplyProgress(delta float64) (Record, error) {
	if r.State == StateCompleted {
		return r, nil
	}

	switch r.Type {
	case TypeIterativeCompletions:
		// bulk reports apply N single-unit increments; the counter only
		// ever goes up
		n := int(delta)
		if float64(n) != delta {
			return r, fmt.Errorf("completion count must be a whole number (got %v)", delta)
		}
		if n < 0 {
			return r, fmt.Errorf("completion count cannot decrease (got %d)", n)
		}
		r.ActiveCompletions += n
	case TypeUserSelectedGoal:
		r.CurrentValue += delta
	case TypeBestAttempt:
		if delta > r.BestAttempt {
			r.BestAttempt = delta
		}
	default:
		return r, fmt.Errorf("unknown challenge type %q", r.Type)
	}

	if r.State == StateNotStarted || r.State == StatePreRegistered {
		r.State = StateInProgress
	}
	return r, nil
}

// GoalMet is the completion predicate. Best-attempt challenges have no
// automatic predicate; they are completed manually.
func (r Record) GoalMet() bool {
	switch r.Type {
	case TypeIterativeCompletions:
		return r.ActiveCompletions >= r.TotalToComplete
	case TypeUserSelectedGoal:
		return r.CurrentValue >= r.Goal
	default:
		return false
	}
}

// Expired reports whether the challenge window has closed on a record that
// never completed. The guard is the reason the expiry sweep is idempotent.
func (r Record) Expired(now time.Time) bool {
	return now.After(r.EndDateTime) && r.State != StateCompleted && r.State != StateFailed
}

// DueToStart reports whether a pre-registered record's campaign has begun.
func (r Record) DueToStart(now time.Time) bool {
	return r.State == StatePreRegistered && !now.Before(r.StartDate)
}

// ProgressMetric is the value leaderboards rank by.
func (r Record) ProgressMetric() float64 {
	switch r.Type {
	case TypeIterativeCompletions:
		return float64(r.ActiveCompletions)
	case TypeBestAttempt:
		return r.BestAttempt
	case TypeUserSelectedGoal:
		return r.CurrentValue
	default:
		return 0
	}
}
