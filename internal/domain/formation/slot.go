package formation

import "fmt"

// Group is the positional family a slot belongs to.
type Group string

const (
	GroupGoalkeeper Group = "goalkeeper"
	GroupDefender   Group = "defender"
	GroupMidfielder Group = "midfielder"
	GroupForward    Group = "forward"
)

var AllGroups = map[Group]struct{}{
	GroupGoalkeeper: {},
	GroupDefender:   {},
	GroupMidfielder: {},
	GroupForward:    {},
}

// Slot is one labelled position of a formation shape. Top and Left are pitch
// coordinates in percent.
type Slot struct {
	ID       int
	Position string
	Group    Group
	Top      float64
	Left     float64
}

func (s Slot) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("slot id must be greater than zero")
	}
	if s.Position == "" {
		return fmt.Errorf("slot %d position is required", s.ID)
	}
	if _, ok := AllGroups[s.Group]; !ok {
		return fmt.Errorf("slot %d has invalid group: %s", s.ID, s.Group)
	}
	if s.Top < 0 || s.Top > 100 || s.Left < 0 || s.Left > 100 {
		return fmt.Errorf("slot %d coordinates must be within 0..100", s.ID)
	}

	return nil
}

// Slots is the ordered slot set of one shape.
type Slots []Slot

func (s Slots) ByID(id int) (Slot, bool) {
	for _, slot := range s {
		if slot.ID == id {
			return slot, true
		}
	}
	return Slot{}, false
}

func (s Slots) Contains(id int) bool {
	_, ok := s.ByID(id)
	return ok
}

func (s Slots) Validate() error {
	seen := make(map[int]struct{}, len(s))
	for _, slot := range s {
		if err := slot.Validate(); err != nil {
			return err
		}
		if _, exists := seen[slot.ID]; exists {
			return fmt.Errorf("duplicate slot id %d", slot.ID)
		}
		seen[slot.ID] = struct{}{}
	}
	return nil
}
