package badge

import (
	"time"

	"github.com/google/uuid"
)

type CriteriaType string

const (
	CriteriaChallenge  CriteriaType = "challenge"
	CriteriaPosts      CriteriaType = "posts"
	CriteriaQCount     CriteriaType = "q_count"
	CriteriaMilestone  CriteriaType = "milestone"
)

type Badge struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	Description   string       `json:"description" db:"description"`
	Icon          string       `json:"icon" db:"icon"`
	CriteriaType  CriteriaType `json:"criteria_type" db:"criteria_type"`
	CriteriaValue int          `json:"criteria_value" db:"criteria_value"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}

type UserBadge struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	BadgeID    uuid.UUID `json:"badge_id" db:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at" db:"unlocked_at"`
}

type BadgeWithStatus struct {
	Badge
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
