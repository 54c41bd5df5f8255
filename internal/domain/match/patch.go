package match

import "github.com/watter46/footics-sub000/internal/domain/lineup"

// Patch is a partial update. Nil fields are left untouched. Setting
// ClearFormation or ClearAssignments resets the field to null.
type Patch struct {
	SubjectTeamID           *int64
	CurrentFormation        *string
	ClearFormation          bool
	AssignedPlayers         lineup.Assignments
	ClearAssignments        bool
	SubstitutedOutPlayerIDs *[]int64
	PendingGhosts           *map[int]string
}

func (p Patch) IsEmpty() bool {
	return p.SubjectTeamID == nil &&
		p.CurrentFormation == nil &&
		!p.ClearFormation &&
		p.AssignedPlayers == nil &&
		!p.ClearAssignments &&
		p.SubstitutedOutPlayerIDs == nil &&
		p.PendingGhosts == nil
}

// Apply returns m with the patch applied.
func (p Patch) Apply(m Match) Match {
	out := m.Clone()
	if p.SubjectTeamID != nil {
		out.SubjectTeamID = *p.SubjectTeamID
	}
	if p.ClearFormation {
		out.CurrentFormation = ""
	} else if p.CurrentFormation != nil {
		out.CurrentFormation = *p.CurrentFormation
	}
	if p.ClearAssignments {
		out.AssignedPlayers = nil
	} else if p.AssignedPlayers != nil {
		out.AssignedPlayers = p.AssignedPlayers.Clone()
	}
	if p.SubstitutedOutPlayerIDs != nil {
		out.SubstitutedOutPlayerIDs = NormalizePlayerSet(*p.SubstitutedOutPlayerIDs)
	}
	if p.PendingGhosts != nil {
		out.PendingGhosts = ClonePendingGhosts(*p.PendingGhosts)
	}
	return out
}
