package challenge

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for challenge dates (US locale).
const DateLayout = "01/02/2006"

type Type string

const (
	TypeIterativeCompletions Type = "iterative_completions"
	TypeBestAttempt          Type = "best_attempt"
	TypeUserSelectedGoal     Type = "user_selected_goal"
)

type Status string

const (
	StatusDraft           Status = "draft"
	StatusPreRegistration Status = "pre_registration"
	StatusStarted         Status = "started"
	StatusCompleted       Status = "completed"
)

// CompletionRequirements is the variant-shaped payload on a definition.
// TotalCompletionsRequired applies to iterative challenges; GoalOptions is
// the menu a user picks from when joining a user-selected-goal challenge.
type CompletionRequirements struct {
	TotalCompletionsRequired int       `json:"totalCompletionsRequired,omitempty"`
	GoalOptions              []float64 `json:"goalOptions,omitempty"`
}

type Definition struct {
	ID                   string                 `json:"id"`
	Name                 string                 `json:"name"`
	Type                 Type                   `json:"challengeType"`
	Status               Status                 `json:"status"`
	StartDate            time.Time              `json:"-"`
	EndDate              time.Time              `json:"-"`
	LastRegistrationDate time.Time              `json:"-"`
	Requirements         CompletionRequirements `json:"completionRequirements"`
	CreatedAt            time.Time              `json:"createdAt"`
}

// Advance computes the campaign status transition due at the given wall
// clock. It returns the new status and whether anything changed. Status
// only moves forward: pre-registration becomes started at startDate, and
// any non-completed status becomes completed at endDate. Draft campaigns
// are advanced to pre-registration by admin action, never by the sweep.
func (d *Definition) Advance(now time.Time) (Status, bool) {
	if d.Status == StatusCompleted {
		return d.Status, false
	}
	if !now.Before(endOfDay(d.EndDate)) {
		return StatusCompleted, true
	}
	if d.Status == StatusPreRegistration && !now.Before(d.StartDate) {
		return StatusStarted, true
	}
	return d.Status, false
}

// RegistrationClosed reports whether joining must be rejected: the
// registration cutoff has passed while the campaign has not started yet.
func (d *Definition) RegistrationClosed(now time.Time) bool {
	return now.After(endOfDay(d.LastRegistrationDate)) && d.Status != StatusStarted
}

// Validate checks the date ordering constraints on a definition.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("challenge name is required")
	}
	if d.EndDate.Before(d.StartDate) {
		return fmt.Errorf("challenge %q: endDate precedes startDate", d.Name)
	}
	if d.LastRegistrationDate.After(d.EndDate) {
		return fmt.Errorf("challenge %q: lastRegistrationDate after endDate", d.Name)
	}
	switch d.Type {
	case TypeIterativeCompletions:
		if d.Requirements.TotalCompletionsRequired <= 0 {
			return fmt.Errorf("challenge %q: totalCompletionsRequired must be positive", d.Name)
		}
	case TypeUserSelectedGoal:
		if len(d.Requirements.GoalOptions) == 0 {
			return fmt.Errorf("challenge %q: at least one goal option is required", d.Name)
		}
	case TypeBestAttempt:
		// no requirements payload
	default:
		return fmt.Errorf("challenge %q: unknown challenge type %q", d.Name, d.Type)
	}
	return nil
}

// GoalAllowed reports whether a user-chosen goal is on the definition's
// enumerated option menu.
func (d *Definition) GoalAllowed(goal float64) bool {
	for _, opt := range d.Requirements.GoalOptions {
		if opt == goal {
			return true
		}
	}
	return false
}

// endOfDay returns the midnight following a calendar date, so a cutoff of
// 03/15 still admits registrations arriving any time on 03/15.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
