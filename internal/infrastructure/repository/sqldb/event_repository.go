package sqldb

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
	qb "github.com/watter46/footics-sub000/internal/platform/querybuilder"
)

type EventRepository struct {
	q  sqlx.ExtContext
	db *DB
}

func (r *EventRepository) Add(ctx context.Context, e event.Event) (int64, error) {
	playerID, token := subjectColumns(e.Subject)
	query, args, err := qb.InsertInto("events").
		Columns(
			"match_id", "team_id", "player_id", "temp_slot_id", "action", "match_time",
			"position_name", "opponent_position", "memo", "created_at",
		).
		Values(
			e.MatchID, e.TeamID, playerID, token, string(e.Action), e.MatchTime,
			e.PositionName, e.OpponentPosition, e.Memo, r.db.timestamp(),
		).
		Suffix("RETURNING id").
		PlaceholderFormat(r.db.dialect.format()).
		ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build insert event query")
	}

	var id int64
	if err := sqlx.GetContext(ctx, r.q, &id, query, args...); err != nil {
		return 0, classify(err, "insert event")
	}
	return id, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (event.Event, bool, error) {
	items, err := r.list(ctx, "get event", qb.Eq("id", id))
	if err != nil {
		return event.Event{}, false, err
	}
	if len(items) == 0 {
		return event.Event{}, false, nil
	}
	return items[0], true, nil
}

func (r *EventRepository) Update(ctx context.Context, id int64, patch event.Patch) error {
	return r.UpdateMany(ctx, []int64{id}, patch)
}

// UpdateMany fails with persistence.ErrNotFound without writing anything when
// one of ids is missing.
func (r *EventRepository) UpdateMany(ctx context.Context, ids []int64, patch event.Patch) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	return r.db.atomic(ctx, r.q, func(q sqlx.ExtContext) error {
		countQuery, countArgs, err := qb.Select("COUNT(*)").
			From("events").
			Where(qb.In("id", ids)).
			PlaceholderFormat(r.db.dialect.format()).
			ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build count events query")
		}
		var found int
		if err := sqlx.GetContext(ctx, q, &found, countQuery, countArgs...); err != nil {
			return crerr.Wrap(err, "count events")
		}
		if found != len(ids) {
			return crerr.Mark(crerr.Newf("%d of %d events do not exist", len(ids)-found, len(ids)), persistence.ErrNotFound)
		}

		b := qb.Update("events").PlaceholderFormat(r.db.dialect.format())
		if patch.Subject != nil {
			playerID, token := subjectColumns(*patch.Subject)
			b.Set("player_id", playerID).Set("temp_slot_id", token)
		}
		if patch.Memo != nil {
			b.Set("memo", *patch.Memo)
		}
		if !b.HasSets() {
			return nil
		}

		query, args, err := b.Where(qb.In("id", ids)).ToSQL()
		if err != nil {
			return crerr.Wrap(err, "build update events query")
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "update %d events", len(ids))
		}
		return nil
	})
}

func (r *EventRepository) ListByTempSlotID(ctx context.Context, token string) ([]event.Event, error) {
	return r.list(ctx, "list events by ghost token", qb.Eq("temp_slot_id", token))
}

func (r *EventRepository) ListByMatchAndTeam(ctx context.Context, matchID, teamID int64, action event.Action) ([]event.Event, error) {
	return r.list(ctx, "list events by match and team",
		qb.Eq("match_id", matchID),
		qb.Eq("team_id", teamID),
		qb.Eq("action", string(action)),
	)
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID int64) ([]event.Event, error) {
	return r.list(ctx, "list events by match", qb.Eq("match_id", matchID))
}

func (r *EventRepository) list(ctx context.Context, op string, where ...qb.Condition) ([]event.Event, error) {
	query, args, err := qb.Select(eventColumns).
		From("events").
		Where(where...).
		OrderBy("id").
		PlaceholderFormat(r.db.dialect.format()).
		ToSQL()
	if err != nil {
		return nil, crerr.Wrapf(err, "build %s query", op)
	}

	var rows []eventTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, op)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		item, err := eventFromRow(row)
		if err != nil {
			return nil, crerr.Wrapf(err, "event %d", row.ID)
		}
		out = append(out, item)
	}
	return out, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
