package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Attendance links a user to a beatdown they posted at. PreActivity marks
// an optional secondary exercise logged alongside the attendance (a run or
// ruck before the workout); it is what feeds count-type challenge progress.
type Attendance struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"userId" db:"user_id"`
	BeatdownID      uuid.UUID `json:"beatdownId" db:"beatdown_id"`
	PreActivity     bool      `json:"preActivity" db:"pre_activity"`
	PreActivityType string    `json:"preActivityType,omitempty" db:"pre_activity_type"`
	LoggedAt        time.Time `json:"loggedAt" db:"logged_at"`
}

// WorkoutLog is a personal workout recorded outside a beatdown.
// Quantity is in the activity's domain unit (miles, reps, minutes).
type WorkoutLog struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	Date         time.Time `json:"date" db:"date"`
	ActivityType string    `json:"activityType" db:"activity_type"`
	Quantity     float64   `json:"quantity" db:"quantity"`
	Note         string    `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type PostAttendanceRequest struct {
	BeatdownID      string `json:"beatdownId" validate:"required"`
	PreActivity     bool   `json:"preActivity"`
	PreActivityType string `json:"preActivityType,omitempty"`
}

type LogWorkoutRequest struct {
	Date         string  `json:"date" validate:"required"` // MM/DD/YYYY
	ActivityType string  `json:"activityType" validate:"required"`
	Quantity     float64 `json:"quantity"`
	Note         string  `json:"note,omitempty"`
}
