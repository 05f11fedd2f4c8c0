package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleSiteQ Role = "site-q"
)

type User struct {
	ID            string    `json:"id"`
	ClerkID       string    `json:"clerkId"`
	Email         string    `json:"email"`
	F3Name        string    `json:"f3Name"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	HomeAoID      *string   `json:"homeAoId,omitempty"`
	Roles         []string  `json:"roles"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// IsAdmin is a convenience for the most common role check.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// DisplayProfile is the slice of a profile shown on rosters and
// leaderboards.
type DisplayProfile struct {
	ID       string `json:"id"`
	F3Name   string `json:"f3Name"`
	ImageURL string `json:"imageUrl,omitempty"`
}
