package match

import (
	"fmt"
	"sort"
	"time"

	"github.com/watter46/footics-sub000/internal/domain/lineup"
)

// Match is the aggregate that owns the subject team's formation, slot
// assignments and substituted-out set.
type Match struct {
	ID            int64
	Date          time.Time
	Team1ID       int64
	Team2ID       int64
	SubjectTeamID int64
	// CurrentFormation is empty when no shape has been chosen yet.
	CurrentFormation string
	// AssignedPlayers is nil until the first assignment or formation change.
	AssignedPlayers         lineup.Assignments
	SubstitutedOutPlayerIDs []int64
	// PendingGhosts remembers the ghost token minted for a slot until it is
	// resolved or the formation changes.
	PendingGhosts map[int]string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (m Match) Validate() error {
	if m.Team1ID <= 0 || m.Team2ID <= 0 {
		return fmt.Errorf("match teams are required")
	}
	if m.Team1ID == m.Team2ID {
		return fmt.Errorf("match teams must differ")
	}
	if !m.HasTeam(m.SubjectTeamID) {
		return fmt.Errorf("subject team %d is not playing this match", m.SubjectTeamID)
	}
	if m.Date.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if err := m.AssignedPlayers.Validate(); err != nil {
		return fmt.Errorf("assigned players: %w", err)
	}

	return nil
}

func (m Match) HasTeam(teamID int64) bool {
	return teamID > 0 && (teamID == m.Team1ID || teamID == m.Team2ID)
}

func (m Match) OpponentTeamID() int64 {
	if m.SubjectTeamID == m.Team1ID {
		return m.Team2ID
	}
	return m.Team1ID
}

func (m Match) IsSubstitutedOut(playerID int64) bool {
	idx := sort.Search(len(m.SubstitutedOutPlayerIDs), func(i int) bool {
		return m.SubstitutedOutPlayerIDs[i] >= playerID
	})
	return idx < len(m.SubstitutedOutPlayerIDs) && m.SubstitutedOutPlayerIDs[idx] == playerID
}

// PendingGhost returns the token waiting on slotID.
func (m Match) PendingGhost(slotID int) (string, bool) {
	token, ok := m.PendingGhosts[slotID]
	return token, ok && token != ""
}

// Occupant resolves what slotID currently holds.
func (m Match) Occupant(slotID int) lineup.Occupant {
	if playerID, ok := m.AssignedPlayers.Get(slotID); ok {
		return lineup.Known(playerID)
	}
	if token, ok := m.PendingGhost(slotID); ok {
		return lineup.Ghost(token)
	}
	return lineup.Empty()
}

// Clone returns a deep copy.
func (m Match) Clone() Match {
	out := m
	out.AssignedPlayers = m.AssignedPlayers.Clone()
	if m.SubstitutedOutPlayerIDs != nil {
		out.SubstitutedOutPlayerIDs = append([]int64(nil), m.SubstitutedOutPlayerIDs...)
	}
	out.PendingGhosts = ClonePendingGhosts(m.PendingGhosts)
	return out
}

func ClonePendingGhosts(in map[int]string) map[int]string {
	if in == nil {
		return nil
	}
	out := make(map[int]string, len(in))
	for slotID, token := range in {
		out[slotID] = token
	}
	return out
}

// NormalizePlayerSet sorts ids and removes duplicates and non-positive values.
func NormalizePlayerSet(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
