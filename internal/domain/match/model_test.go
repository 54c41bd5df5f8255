package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watter46/footics-sub000/internal/domain/lineup"
)

func TestMatch_Validate(t *testing.T) {
	base := Match{ID: 1, Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), Team1ID: 1, Team2ID: 2, SubjectTeamID: 1}
	require.NoError(t, base.Validate())

	same := base
	same.Team2ID = 1
	assert.Error(t, same.Validate())

	foreign := base
	foreign.SubjectTeamID = 3
	assert.Error(t, foreign.Validate())

	dup := base
	dup.AssignedPlayers = lineup.Assignments{1: 9, 2: 9}
	assert.Error(t, dup.Validate())
}

func TestMatch_Occupant(t *testing.T) {
	m := Match{
		AssignedPlayers: lineup.Assignments{1: 10},
		PendingGhosts:   map[int]string{2: "ghost-a", 1: "ghost-b"},
	}

	assert.Equal(t, lineup.Known(10), m.Occupant(1))
	assert.Equal(t, lineup.Ghost("ghost-a"), m.Occupant(2))
	assert.True(t, m.Occupant(3).IsEmpty())
}

func TestPatch_Apply(t *testing.T) {
	m := Match{
		CurrentFormation:        "4-4-2",
		AssignedPlayers:         lineup.Assignments{1: 10},
		SubstitutedOutPlayerIDs: []int64{3},
	}
	ids := []int64{9, 4, 9, 0}
	ghosts := map[int]string{5: "ghost-x"}

	out := Patch{ClearFormation: true, ClearAssignments: true, SubstitutedOutPlayerIDs: &ids, PendingGhosts: &ghosts}.Apply(m)

	assert.Empty(t, out.CurrentFormation)
	assert.Nil(t, out.AssignedPlayers)
	assert.Equal(t, []int64{4, 9}, out.SubstitutedOutPlayerIDs)
	assert.Equal(t, map[int]string{5: "ghost-x"}, out.PendingGhosts)
	assert.Equal(t, "4-4-2", m.CurrentFormation)
	assert.True(t, out.IsSubstitutedOut(9))
	assert.False(t, out.IsSubstitutedOut(3))
	assert.True(t, Patch{}.IsEmpty())
}
