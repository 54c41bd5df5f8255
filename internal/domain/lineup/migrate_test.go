package lineup

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watter46/footics-sub000/internal/domain/formation"
)

func TestMigrate_ExactLabelBeforeGroup(t *testing.T) {
	oldSlots := formation.Slots{
		{ID: 1, Position: "GK", Group: formation.GroupGoalkeeper},
		{ID: 2, Position: "CB", Group: formation.GroupDefender},
		{ID: 3, Position: "CB", Group: formation.GroupDefender},
	}
	newSlots := formation.Slots{
		{ID: 10, Position: "GK", Group: formation.GroupGoalkeeper},
		{ID: 11, Position: "CB", Group: formation.GroupDefender},
	}

	result := Migrate(Assignments{2: 10}, oldSlots, newSlots)

	assert.Equal(t, Assignments{11: 10}, result.Assignments)
	assert.Empty(t, result.Dropped)
}

func TestMigrate_PrefersLabelOverEarlierGroupSlot(t *testing.T) {
	oldSlots := formation.Slots{
		{ID: 1, Position: "CB", Group: formation.GroupDefender},
	}
	newSlots := formation.Slots{
		{ID: 20, Position: "LB", Group: formation.GroupDefender},
		{ID: 21, Position: "RB", Group: formation.GroupDefender},
		{ID: 22, Position: "CB", Group: formation.GroupDefender},
		{ID: 23, Position: "LWB", Group: formation.GroupDefender},
	}

	result := Migrate(Assignments{1: 5}, oldSlots, newSlots)

	assert.Equal(t, Assignments{22: 5}, result.Assignments)
}

func TestMigrate_GroupFallbackAndDrop(t *testing.T) {
	oldSlots := formation.Slots{
		{ID: 1, Position: "LMF", Group: formation.GroupMidfielder},
		{ID: 2, Position: "RMF", Group: formation.GroupMidfielder},
		{ID: 3, Position: "CF", Group: formation.GroupForward},
	}
	newSlots := formation.Slots{
		{ID: 30, Position: "DMF", Group: formation.GroupMidfielder},
		{ID: 31, Position: "CF", Group: formation.GroupForward},
	}

	result := Migrate(Assignments{1: 7, 2: 8, 3: 9}, oldSlots, newSlots)

	assert.Equal(t, Assignments{30: 7, 31: 9}, result.Assignments)
	assert.Equal(t, []int64{8}, result.Dropped)
}

func TestMigrate_UnknownOldSlotIsDropped(t *testing.T) {
	result := Migrate(
		Assignments{99: 4},
		formation.Slots{{ID: 1, Position: "GK", Group: formation.GroupGoalkeeper}},
		formation.Slots{{ID: 2, Position: "GK", Group: formation.GroupGoalkeeper}},
	)

	assert.Empty(t, result.Assignments)
	assert.Equal(t, []int64{4}, result.Dropped)
}

func TestMigrate_DoesNotMutateInput(t *testing.T) {
	catalog := formation.DefaultCatalog()
	oldSlots, _ := catalog.Lookup(formation.Shape442)
	newSlots, _ := catalog.Lookup(formation.Shape433)
	old := Assignments{101: 1, 103: 2}

	Migrate(old, oldSlots, newSlots)

	assert.Equal(t, Assignments{101: 1, 103: 2}, old)
}

func TestMigrate_ConservationAcrossCatalog(t *testing.T) {
	catalog := formation.DefaultCatalog()
	shapes := catalog.Shapes()
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 300; i++ {
		from, _ := catalog.Lookup(shapes[rng.Intn(len(shapes))])
		to, _ := catalog.Lookup(shapes[rng.Intn(len(shapes))])

		old := Assignments{}
		for j, slot := range from {
			if rng.Intn(3) > 0 {
				old[slot.ID] = int64(j + 1)
			}
		}

		result := Migrate(old, from, to)

		require.NoError(t, result.Assignments.Validate())
		inputPlayers := map[int64]struct{}{}
		for _, p := range old {
			inputPlayers[p] = struct{}{}
		}
		for slotID, p := range result.Assignments {
			require.True(t, to.Contains(slotID), "slot %d not in new catalog", slotID)
			_, ok := inputPlayers[p]
			require.True(t, ok, "player %d invented by migration", p)
		}
		require.Equal(t, len(old), len(result.Assignments)+len(result.Dropped))
	}
}
