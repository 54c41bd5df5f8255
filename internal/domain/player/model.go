package player

import (
	"fmt"
	"strings"
)

// Player is a roster entry of one team.
type Player struct {
	ID       int64
	TeamID   int64
	Name     string
	Number   int
	Position string
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Number < 0 || p.Number > 99 {
		return fmt.Errorf("invalid player number: %d", p.Number)
	}

	return nil
}

// ValidateRoster checks every player belongs to teamID with unique ids and
// shirt numbers. Number zero means unassigned and may repeat.
func ValidateRoster(teamID int64, players []Player) error {
	ids := make(map[int64]struct{}, len(players))
	numbers := make(map[int]int64, len(players))
	for _, p := range players {
		if err := p.Validate(); err != nil {
			return err
		}
		if p.TeamID != teamID {
			return fmt.Errorf("player %d belongs to team %d, not %d", p.ID, p.TeamID, teamID)
		}
		if _, ok := ids[p.ID]; ok {
			return fmt.Errorf("duplicate player id %d", p.ID)
		}
		ids[p.ID] = struct{}{}
		if p.Number == 0 {
			continue
		}
		if other, ok := numbers[p.Number]; ok {
			return fmt.Errorf("players %d and %d share number %d", other, p.ID, p.Number)
		}
		numbers[p.Number] = p.ID
	}
	return nil
}

func IndexByID(players []Player) map[int64]Player {
	out := make(map[int64]Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}
