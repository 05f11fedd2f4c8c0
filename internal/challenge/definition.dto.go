package challenge

import (
	"encoding/json"
	"fmt"
	"time"
)

type CreateDefinitionRequest struct {
	Name                 string                 `json:"name" validate:"required"`
	ChallengeType        Type                   `json:"challengeType" validate:"required"`
	StartDate            string                 `json:"startDate" validate:"required"`            // MM/DD/YYYY
	EndDate              string                 `json:"endDate" validate:"required"`              // MM/DD/YYYY
	LastRegistrationDate string                 `json:"lastRegistrationDate" validate:"required"` // MM/DD/YYYY
	Requirements         CompletionRequirements `json:"completionRequirements"`
}

// ToDefinition parses the request dates and builds a draft definition.
func (r *CreateDefinitionRequest) ToDefinition() (*Definition, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %w", err)
	}
	lastReg, err := ParseDate(r.LastRegistrationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid lastRegistrationDate: %w", err)
	}

	def := &Definition{
		Name:                 r.Name,
		Type:                 r.ChallengeType,
		Status:               StatusDraft,
		StartDate:            start,
		EndDate:              end,
		LastRegistrationDate: lastReg,
		Requirements:         r.Requirements,
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// ParseDate parses a MM/DD/YYYY wire date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// MarshalJSON renders definition dates in the MM/DD/YYYY wire format.
func (d Definition) MarshalJSON() ([]byte, error) {
	type alias Definition
	return json.Marshal(struct {
		alias
		StartDate            string `json:"startDate"`
		EndDate              string `json:"endDate"`
		LastRegistrationDate string `json:"lastRegistrationDate"`
	}{
		alias:                alias(d),
		StartDate:            d.StartDate.Format(DateLayout),
		EndDate:              d.EndDate.Format(DateLayout),
		LastRegistrationDate: d.LastRegistrationDate.Format(DateLayout),
	})
}
