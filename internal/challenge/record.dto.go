package challenge

type JoinChallengeRequest struct {
	ChallengeID string  `json:"challengeId" validate:"required"`
	Goal        float64 `json:"goal,omitempty"` // user-selected-goal challenges only
}

type LogProgressRequest struct {
	Delta float64 `json:"delta"`
}

type UpdateAttemptRequest struct {
	Attempt float64 `json:"attempt"`
}

// Participant is a roster entry: a record enriched with the owner's
// display profile. Enrichment always completes before the entry is handed
// to a caller.
type Participant struct {
	Record
	F3Name   string `json:"f3Name"`
	ImageURL string `json:"imageUrl,omitempty"`
}
