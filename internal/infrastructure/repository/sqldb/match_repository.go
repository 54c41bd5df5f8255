package sqldb

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/watter46/footics-sub000/internal/domain/match"
	qb "github.com/watter46/footics-sub000/internal/platform/querybuilder"
)

type MatchRepository struct {
	q  sqlx.ExtContext
	db *DB
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns).
		From("matches").
		Where(qb.Eq("id", id)).
		PlaceholderFormat(r.db.dialect.format()).
		ToSQL()
	if err != nil {
		return match.Match{}, false, crerr.Wrap(err, "build get match query")
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, crerr.Wrapf(err, "get match %d", id)
	}

	item, err := matchFromRow(row)
	if err != nil {
		return match.Match{}, false, crerr.Wrapf(err, "match %d", id)
	}
	return item, true, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns).
		From("matches").
		OrderBy("id").
		PlaceholderFormat(r.db.dialect.format()).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list matches query")
	}

	var rows []matchTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list matches")
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := matchFromRow(row)
		if err != nil {
			return nil, crerr.Wrapf(err, "match %d", row.ID)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	assigned, err := encodeAssignments(m.AssignedPlayers)
	if err != nil {
		return match.Match{}, err
	}
	subbedOut, err := encodePlayerSet(m.SubstitutedOutPlayerIDs)
	if err != nil {
		return match.Match{}, err
	}
	ghosts, err := encodePendingGhosts(m.PendingGhosts)
	if err != nil {
		return match.Match{}, err
	}

	now := r.db.timestamp()
	query, args, err := qb.InsertInto("matches").
		Columns(
			"match_date", "team1_id", "team2_id", "subject_team_id", "current_formation",
			"assigned_players", "substituted_out_player_ids", "pending_ghosts", "created_at", "updated_at",
		).
		Values(
			m.Date.UTC(), m.Team1ID, m.Team2ID, m.SubjectTeamID, nullString(m.CurrentFormation),
			assigned, subbedOut, ghosts, now, now,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(r.db.dialect.format()).
		ToSQL()
	if err != nil {
		return match.Match{}, crerr.Wrap(err, "build insert match query")
	}

	if err := sqlx.GetContext(ctx, r.q, &m.ID, query, args...); err != nil {
		return match.Match{}, crerr.Wrap(err, "insert match")
	}
	m.CreatedAt, m.UpdatedAt = now, now
	return m, nil
}

// Update writes the fields set in patch. An empty patch still bumps
// updated_at, which reports whether the row exists.
func (r *MatchRepository) Update(ctx context.Context, id int64, patch match.Patch) (int64, error) {
	b := qb.Update("matches").PlaceholderFormat(r.db.dialect.format())

	if patch.SubjectTeamID != nil {
		b.Set("subject_team_id", *patch.SubjectTeamID)
	}
	if patch.ClearFormation {
		b.Set("current_formation", nil)
	} else if patch.CurrentFormation != nil {
		b.Set("current_formation", nullString(*patch.CurrentFormation))
	}
	if patch.ClearAssignments {
		b.Set("assigned_players", nil)
	} else if patch.AssignedPlayers != nil {
		assigned, err := encodeAssignments(patch.AssignedPlayers)
		if err != nil {
			return 0, err
		}
		b.Set("assigned_players", assigned)
	}
	if patch.SubstitutedOutPlayerIDs != nil {
		subbedOut, err := encodePlayerSet(*patch.SubstitutedOutPlayerIDs)
		if err != nil {
			return 0, err
		}
		b.Set("substituted_out_player_ids", subbedOut)
	}
	if patch.PendingGhosts != nil {
		ghosts, err := encodePendingGhosts(*patch.PendingGhosts)
		if err != nil {
			return 0, err
		}
		b.Set("pending_ghosts", ghosts)
	}

	query, args, err := b.Set("updated_at", r.db.timestamp()).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build update match query")
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, crerr.Wrapf(err, "update match %d", id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, crerr.Wrapf(err, "update match %d: rows affected", id)
	}
	return affected, nil
}
