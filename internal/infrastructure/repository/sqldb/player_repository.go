package sqldb

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/watter46/footics-sub000/internal/domain/player"
	qb "github.com/watter46/footics-sub000/internal/platform/querybuilder"
)

type playerTableModel struct {
	ID       int64  `db:"id"`
	TeamID   int64  `db:"team_id"`
	Name     string `db:"name"`
	Number   int    `db:"number"`
	Position string `db:"position"`
}

type PlayerRepository struct {
	q  sqlx.ExtContext
	db *DB
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	query, args, err := qb.Select("id", "team_id", "name", "number", "position").
		From("players").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("id").
		PlaceholderFormat(r.db.dialect.format()).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list players query")
	}

	var rows []playerTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list players of team %d", teamID)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:       row.ID,
			TeamID:   row.TeamID,
			Name:     row.Name,
			Number:   row.Number,
			Position: row.Position,
		})
	}
	return out, nil
}

// ReplaceTeam deletes the current roster of teamID and inserts players in one
// transaction.
func (r *PlayerRepository) ReplaceTeam(ctx context.Context, teamID int64, players []player.Player) error {
	return r.db.atomic(ctx, r.q, func(q sqlx.ExtContext) error {
		query, args, err := qb.DeleteFrom("players").
			Where(qb.Eq("team_id", teamID)).
			PlaceholderFormat(r.db.dialect.format()).
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build delete players query")
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "delete players of team %d", teamID)
		}
		if len(players) == 0 {
			return nil
		}

		insert := qb.InsertInto("players").
			Columns("id", "team_id", "name", "number", "position").
			PlaceholderFormat(r.db.dialect.format())
		for _, p := range players {
			insert.Values(p.ID, teamID, p.Name, p.Number, p.Position)
		}
		query, args, err = insert.ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build insert players query")
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "insert players of team %d", teamID)
		}
		return nil
	})
}
