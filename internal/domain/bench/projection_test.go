package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/lineup"
	"github.com/watter46/footics-sub000/internal/domain/player"
)

func roster(ids ...int64) []player.Player {
	out := make([]player.Player, 0, len(ids))
	for i, id := range ids {
		out = append(out, player.Player{ID: id, TeamID: 1, Name: "p", Number: i + 1})
	}
	return out
}

func TestProject_Partition(t *testing.T) {
	in := Input{
		Roster:         roster(1, 2, 3, 4, 5),
		Assignments:    lineup.Assignments{10: 1, 11: 2},
		SubstitutedOut: []int64{3, 99},
		OutEvents: []event.Event{
			{ID: 5, Action: event.ActionSubOut, Subject: event.Player(3)},
			{ID: 9, Action: event.ActionSubOut, Subject: event.Player(3)},
			{ID: 7, Action: event.ActionSubOut, Subject: event.Ghost("ghost-b")},
			{ID: 6, Action: event.ActionSubOut, Subject: event.Ghost("ghost-a")},
			{ID: 8, Action: event.ActionSubOut, Subject: event.Ghost("ghost-a")},
			{ID: 4, Action: event.ActionSubIn, Subject: event.Ghost("ignored")},
		},
	}

	got := Project(in)

	require.Len(t, got.Available, 2)
	assert.Equal(t, int64(4), got.Available[0].ID)
	assert.Equal(t, int64(5), got.Available[1].ID)

	require.Len(t, got.BenchedOut, 1)
	assert.Equal(t, int64(3), got.BenchedOut[0].Player.ID)
	assert.Equal(t, int64(9), got.BenchedOut[0].OutEventID)

	require.Len(t, got.Unresolved, 2)
	assert.Equal(t, Unresolved{Token: "ghost-a", EventCount: 2, EventIDs: []int64{6, 8}}, got.Unresolved[0])
	assert.Equal(t, "ghost-b", got.Unresolved[1].Token)
}

func TestProject_PlayerInAtMostOneCategory(t *testing.T) {
	in := Input{
		Roster:         roster(1, 2, 3, 4),
		Assignments:    lineup.Assignments{1: 1, 2: 3},
		SubstitutedOut: []int64{2, 3},
	}

	got := Project(in)

	seen := map[int64]int{}
	for _, p := range got.Available {
		seen[p.ID]++
	}
	for _, b := range got.BenchedOut {
		seen[b.Player.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "player %d", id)
	}
	assert.NotContains(t, seen, int64(1))
	assert.NotContains(t, seen, int64(3))
	assert.Equal(t, 1, seen[2])
	assert.Equal(t, 1, seen[4])
}

func TestProject_EmptyInput(t *testing.T) {
	got := Project(Input{})

	assert.NotNil(t, got.Available)
	assert.NotNil(t, got.BenchedOut)
	assert.NotNil(t, got.Unresolved)
}
