package lineup

import "fmt"

type OccupantKind int

const (
	OccupantEmpty OccupantKind = iota
	OccupantKnown
	OccupantGhost
)

func (k OccupantKind) String() string {
	switch k {
	case OccupantKnown:
		return "known"
	case OccupantGhost:
		return "ghost"
	default:
		return "empty"
	}
}

// Occupant is what a slot holds: a known player, a ghost token awaiting
// identity, or nothing.
type Occupant struct {
	kind     OccupantKind
	playerID int64
	token    string
}

func Known(playerID int64) Occupant {
	return Occupant{kind: OccupantKnown, playerID: playerID}
}

func Ghost(token string) Occupant {
	return Occupant{kind: OccupantGhost, token: token}
}

func Empty() Occupant {
	return Occupant{}
}

func (o Occupant) Kind() OccupantKind { return o.kind }

func (o Occupant) PlayerID() (int64, bool) {
	return o.playerID, o.kind == OccupantKnown
}

func (o Occupant) Token() (string, bool) {
	return o.token, o.kind == OccupantGhost
}

func (o Occupant) IsEmpty() bool { return o.kind == OccupantEmpty }

func (o Occupant) String() string {
	switch o.kind {
	case OccupantKnown:
		return fmt.Sprintf("known(%d)", o.playerID)
	case OccupantGhost:
		return fmt.Sprintf("ghost(%s)", o.token)
	default:
		return "empty"
	}
}
