package memory

import (
	"context"
	"sort"

	crerr "github.com/cockroachdb/errors"

	"github.com/watter46/footics-sub000/internal/domain/player"
)

type PlayerRepository struct {
	acc access
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID int64) ([]player.Player, error) {
	var out []player.Player
	err := r.acc.read(func(st *state) error {
		out = append([]player.Player{}, st.players[teamID]...)
		return nil
	})
	return out, err
}

func (r *PlayerRepository) ReplaceTeam(_ context.Context, teamID int64, players []player.Player) error {
	err := r.acc.write(OpPlayerReplace, func(st *state) error {
		roster := append([]player.Player(nil), players...)
		sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })
		st.players[teamID] = roster
		return nil
	})
	if err != nil {
		return crerr.Wrapf(err, "replace roster of team %d", teamID)
	}
	return nil
}
