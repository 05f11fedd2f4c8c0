package leaderboard

import (
	"testing"

	"ironPaxAPI/internal/challenge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participant(userID, f3Name string, completions int) challenge.Participant {
	return challenge.Participant{
		Record: challenge.Record{
			UserID:            userID,
			Name:              "300 Burpee Challenge",
			Type:              challenge.TypeIterativeCompletions,
			ActiveCompletions: completions,
		},
		F3Name: f3Name,
	}
}

func TestBuildPinsSelfFirst(t *testing.T) {
	lb := Build("300 Burpee Challenge", "c", []challenge.Participant{
		participant("a", "Bandit", 10),
		participant("b", "Mumble", 50),
		participant("c", "Shrek", 5),
	})

	require.Len(t, lb.Entries, 3)
	assert.Equal(t, "c", lb.Entries[0].UserID, "requesting user is pinned to the top even with the lowest score")
	assert.Equal(t, "b", lb.Entries[1].UserID)
	assert.Equal(t, "a", lb.Entries[2].UserID)

	assert.Equal(t, 1, lb.Entries[0].Rank)
	assert.Equal(t, 3, lb.TotalUsers)

	require.NotNil(t, lb.UserPosition)
	assert.Equal(t, "c", lb.UserPosition.UserID)
	assert.True(t, lb.UserPosition.IsSelf)
}

func TestBuildTiesKeepEncounterOrder(t *testing.T) {
	lb := Build("300 Burpee Challenge", "self", []challenge.Participant{
		participant("self", "Shrek", 1),
		participant("a", "Bandit", 20),
		participant("b", "Mumble", 20),
		participant("c", "Gecko", 20),
	})

	require.Len(t, lb.Entries, 4)
	assert.Equal(t, "self", lb.Entries[0].UserID)
	assert.Equal(t, "a", lb.Entries[1].UserID)
	assert.Equal(t, "b", lb.Entries[2].UserID)
	assert.Equal(t, "c", lb.Entries[3].UserID)
}

func TestBuildSelfAbsent(t *testing.T) {
	lb := Build("300 Burpee Challenge", "stranger", []challenge.Participant{
		participant("a", "Bandit", 10),
		participant("b", "Mumble", 50),
	})

	assert.Nil(t, lb.UserPosition)
	assert.Equal(t, "b", lb.Entries[0].UserID, "without a self entry the order is purely descending")
	assert.Equal(t, "a", lb.Entries[1].UserID)
}

func TestBuildEmpty(t *testing.T) {
	lb := Build("300 Burpee Challenge", "self", nil)
	assert.Empty(t, lb.Entries)
	assert.Nil(t, lb.UserPosition)
	assert.Zero(t, lb.TotalUsers)
}
