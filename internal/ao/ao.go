package ao

import (
	"time"

	"github.com/google/uuid"
)

// Ao is a recurring workout location.
type Ao struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Address    string     `json:"address" db:"address"`
	City       string     `json:"city" db:"city"`
	// Weekday schedule, e.g. ["monday", "wednesday", "friday"].
	Schedule   []string   `json:"schedule" db:"schedule"`
	SiteQID    *uuid.UUID `json:"siteQId,omitempty" db:"site_q_id"`
	Active     bool       `json:"active" db:"active"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

type CreateAoRequest struct {
	Name     string   `json:"name" validate:"required"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	Schedule []string `json:"schedule"`
	SiteQID  *string  `json:"siteQId,omitempty"`
}

type UpdateAoRequest struct {
	Name     string   `json:"name,omitempty"`
	Address  string   `json:"address,omitempty"`
	City     string   `json:"city,omitempty"`
	Schedule []string `json:"schedule,omitempty"`
	SiteQID  *string  `json:"siteQId,omitempty"`
	Active   *bool    `json:"active,omitempty"`
}
