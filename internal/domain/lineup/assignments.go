package lineup

import (
	"fmt"
	"sort"
)

// Assignments maps slot id to player id for the subject team of one match.
// A player id never appears under more than one slot.
type Assignments map[int]int64

func (a Assignments) Clone() Assignments {
	if a == nil {
		return nil
	}
	out := make(Assignments, len(a))
	for slotID, playerID := range a {
		out[slotID] = playerID
	}
	return out
}

// Get returns the player occupying slotID.
func (a Assignments) Get(slotID int) (int64, bool) {
	playerID, ok := a[slotID]
	return playerID, ok
}

// SlotOf returns the slot currently held by playerID.
func (a Assignments) SlotOf(playerID int64) (int, bool) {
	for slotID, assigned := range a {
		if assigned == playerID {
			return slotID, true
		}
	}
	return 0, false
}

// Assign places playerID on slotID, vacating any other slot the player held.
// It returns false when the map already had exactly that mapping.
func (a Assignments) Assign(slotID int, playerID int64) bool {
	if current, ok := a[slotID]; ok && current == playerID {
		return false
	}
	if previous, ok := a.SlotOf(playerID); ok {
		delete(a, previous)
	}
	a[slotID] = playerID
	return true
}

// Clear removes slotID and reports whether anything was removed.
func (a Assignments) Clear(slotID int) bool {
	if _, ok := a[slotID]; !ok {
		return false
	}
	delete(a, slotID)
	return true
}

// Swap exchanges the occupants of two slots. An empty side is removed on the
// other side instead of being left stale.
func (a Assignments) Swap(slotA, slotB int) bool {
	if slotA == slotB {
		return false
	}
	playerA, okA := a[slotA]
	playerB, okB := a[slotB]
	if !okA && !okB {
		return false
	}

	delete(a, slotA)
	delete(a, slotB)
	if okA {
		a[slotB] = playerA
	}
	if okB {
		a[slotA] = playerB
	}
	return true
}

func (a Assignments) Players() []int64 {
	out := make([]int64, 0, len(a))
	for _, playerID := range a {
		out = append(out, playerID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (a Assignments) SortedSlots() []int {
	out := make([]int, 0, len(a))
	for slotID := range a {
		out = append(out, slotID)
	}
	sort.Ints(out)
	return out
}

func (a Assignments) Contains(playerID int64) bool {
	_, ok := a.SlotOf(playerID)
	return ok
}

func (a Assignments) Equal(other Assignments) bool {
	if len(a) != len(other) {
		return false
	}
	for slotID, playerID := range a {
		if got, ok := other[slotID]; !ok || got != playerID {
			return false
		}
	}
	return true
}

func (a Assignments) Validate() error {
	seen := make(map[int64]int, len(a))
	for _, slotID := range a.SortedSlots() {
		playerID := a[slotID]
		if playerID <= 0 {
			return fmt.Errorf("slot %d has invalid player id %d", slotID, playerID)
		}
		if other, exists := seen[playerID]; exists {
			return fmt.Errorf("player %d occupies slots %d and %d", playerID, other, slotID)
		}
		seen[playerID] = slotID
	}
	return nil
}
