package bench

import (
	"sort"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/lineup"
	"github.com/watter46/footics-sub000/internal/domain/player"
)

type Input struct {
	Roster         []player.Player
	Assignments    lineup.Assignments
	SubstitutedOut []int64
	// OutEvents are the SUB_OUT events of the subject team.
	OutEvents []event.Event
}

// BenchedOut is a substituted-out roster player with the OUT event that took
// them off, when one exists.
type BenchedOut struct {
	Player     player.Player
	OutEventID int64
}

type Unresolved struct {
	Token      string
	EventCount int
	EventIDs   []int64
}

type Projection struct {
	Available  []player.Player
	BenchedOut []BenchedOut
	Unresolved []Unresolved
}

// Project derives the bench view. Roster players on the pitch appear in no
// category; every other roster player is either available or benched out.
func Project(in Input) Projection {
	out := Projection{
		Available:  []player.Player{},
		BenchedOut: []BenchedOut{},
		Unresolved: []Unresolved{},
	}

	subbedOut := make(map[int64]struct{}, len(in.SubstitutedOut))
	for _, id := range in.SubstitutedOut {
		subbedOut[id] = struct{}{}
	}
	onPitch := make(map[int64]struct{}, len(in.Assignments))
	for _, id := range in.Assignments {
		onPitch[id] = struct{}{}
	}

	lastOut := make(map[int64]int64)
	ghosts := make(map[string]*Unresolved)
	ghostFirst := make(map[string]int64)
	for _, e := range in.OutEvents {
		if e.Action != event.ActionSubOut {
			continue
		}
		if playerID, ok := e.Subject.PlayerID(); ok {
			if e.ID > lastOut[playerID] {
				lastOut[playerID] = e.ID
			}
			continue
		}
		token, ok := e.Subject.Token()
		if !ok {
			continue
		}
		item, exists := ghosts[token]
		if !exists {
			item = &Unresolved{Token: token}
			ghosts[token] = item
			ghostFirst[token] = e.ID
		}
		item.EventCount++
		item.EventIDs = append(item.EventIDs, e.ID)
		if e.ID < ghostFirst[token] {
			ghostFirst[token] = e.ID
		}
	}

	roster := append([]player.Player(nil), in.Roster...)
	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].Number != roster[j].Number {
			return roster[i].Number < roster[j].Number
		}
		return roster[i].ID < roster[j].ID
	})

	for _, p := range roster {
		if _, ok := onPitch[p.ID]; ok {
			continue
		}
		if _, ok := subbedOut[p.ID]; ok {
			out.BenchedOut = append(out.BenchedOut, BenchedOut{Player: p, OutEventID: lastOut[p.ID]})
			continue
		}
		out.Available = append(out.Available, p)
	}

	for _, item := range ghosts {
		sort.Slice(item.EventIDs, func(i, j int) bool { return item.EventIDs[i] < item.EventIDs[j] })
		out.Unresolved = append(out.Unresolved, *item)
	}
	sort.Slice(out.Unresolved, func(i, j int) bool {
		return ghostFirst[out.Unresolved[i].Token] < ghostFirst[out.Unresolved[j].Token]
	})

	return out
}
