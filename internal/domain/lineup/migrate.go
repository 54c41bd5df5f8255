package lineup

import "github.com/watter46/footics-sub000/internal/domain/formation"

// MigrationResult is the outcome of remapping a lineup onto a new shape.
type MigrationResult struct {
	Assignments Assignments
	// Dropped lists players that could not be placed.
	Dropped []int64
}

type migrationCandidate struct {
	playerID int64
	position string
	group    formation.Group
}

// Migrate remaps old onto newSlots. Players keep a slot with the same position
// label when one is free, otherwise fall back to any free slot of the same
// group. Players that fit neither are dropped. Old slots are visited in
// ascending id order so the outcome is deterministic.
func Migrate(old Assignments, oldSlots, newSlots formation.Slots) MigrationResult {
	result := MigrationResult{Assignments: make(Assignments, len(old))}

	candidates := make([]migrationCandidate, 0, len(old))
	for _, slotID := range old.SortedSlots() {
		playerID := old[slotID]
		slot, ok := oldSlots.ByID(slotID)
		if !ok {
			result.Dropped = append(result.Dropped, playerID)
			continue
		}
		candidates = append(candidates, migrationCandidate{
			playerID: playerID,
			position: slot.Position,
			group:    slot.Group,
		})
	}

	claimed := make(map[int]struct{}, len(newSlots))
	placed := make([]bool, len(candidates))

	claim := func(match func(formation.Slot) bool) (int, bool) {
		for _, slot := range newSlots {
			if _, taken := claimed[slot.ID]; taken {
				continue
			}
			if match(slot) {
				claimed[slot.ID] = struct{}{}
				return slot.ID, true
			}
		}
		return 0, false
	}

	for i, c := range candidates {
		if slotID, ok := claim(func(s formation.Slot) bool { return s.Position == c.position }); ok {
			result.Assignments[slotID] = c.playerID
			placed[i] = true
		}
	}

	for i, c := range candidates {
		if placed[i] {
			continue
		}
		if slotID, ok := claim(func(s formation.Slot) bool { return s.Group == c.group }); ok {
			result.Assignments[slotID] = c.playerID
			placed[i] = true
			continue
		}
		result.Dropped = append(result.Dropped, c.playerID)
	}

	return result
}
