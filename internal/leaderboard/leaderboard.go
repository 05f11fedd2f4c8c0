package leaderboard

import (
	"sort"

	"ironPaxAPI/internal/challenge"
)

type Entry struct {
	UserID   string  `json:"user_id"`
	F3Name   string  `json:"f3_name"`
	ImageURL string  `json:"image_url,omitempty"`
	Value    float64 `json:"value"`
	Rank     int     `json:"rank"`
	IsSelf   bool    `json:"is_self"`
}

type Leaderboard struct {
	Challenge    string   `json:"challenge"`
	Entries      []*Entry `json:"entries"`
	UserPosition *Entry   `json:"user_position"`
	TotalUsers   int      `json:"total_users"`
}

// Build assembles a challenge leaderboard from enriched participant
// records. The requesting user's own entry is always pinned to position 0;
// everyone else is ordered descending by progress metric, ties keeping
// their encounter order.
func Build(challengeName, selfUserID string, participants []challenge.Participant) *Leaderboard {
	entries := make([]*Entry, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, &Entry{
			UserID:   p.UserID,
			F3Name:   p.F3Name,
			ImageURL: p.ImageURL,
			Value:    p.ProgressMetric(),
			IsSelf:   p.UserID == selfUserID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsSelf != entries[j].IsSelf {
			return entries[i].IsSelf
		}
		return entries[i].Value > entries[j].Value
	})

	var userPosition *Entry
	for i, e := range entries {
		e.Rank = i + 1
		if e.IsSelf {
			userPosition = e
		}
	}

	return &Leaderboard{
		Challenge:    challengeName,
		Entries:      entries,
		UserPosition: userPosition,
		TotalUsers:   len(entries),
	}
}
