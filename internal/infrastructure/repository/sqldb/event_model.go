package sqldb

import (
	"database/sql"
	"time"

	"github.com/watter46/footics-sub000/internal/domain/event"
)

const eventColumns = "id, match_id, team_id, player_id, temp_slot_id, action, match_time, " +
	"position_name, opponent_position, memo, created_at"

type eventTableModel struct {
	ID               int64          `db:"id"`
	MatchID          int64          `db:"match_id"`
	TeamID           int64          `db:"team_id"`
	PlayerID         sql.NullInt64  `db:"player_id"`
	TempSlotID       sql.NullString `db:"temp_slot_id"`
	Action           string         `db:"action"`
	MatchTime        string         `db:"match_time"`
	PositionName     string         `db:"position_name"`
	OpponentPosition string         `db:"opponent_position"`
	Memo             string         `db:"memo"`
	CreatedAt        time.Time      `db:"created_at"`
}

func eventFromRow(row eventTableModel) (event.Event, error) {
	var (
		playerID *int64
		token    *string
	)
	if row.PlayerID.Valid {
		playerID = &row.PlayerID.Int64
	}
	if row.TempSlotID.Valid {
		token = &row.TempSlotID.String
	}
	subject, err := event.SubjectFromColumns(playerID, token)
	if err != nil {
		return event.Event{}, err
	}

	return event.Event{
		ID:               row.ID,
		MatchID:          row.MatchID,
		TeamID:           row.TeamID,
		Subject:          subject,
		Action:           event.Action(row.Action),
		MatchTime:        row.MatchTime,
		PositionName:     row.PositionName,
		OpponentPosition: row.OpponentPosition,
		Memo:             row.Memo,
		CreatedAt:        row.CreatedAt.UTC(),
	}, nil
}

func subjectColumns(s event.Subject) (sql.NullInt64, sql.NullString) {
	playerID, token := s.Columns()
	var (
		pid sql.NullInt64
		tok sql.NullString
	)
	if playerID != nil {
		pid = sql.NullInt64{Int64: *playerID, Valid: true}
	}
	if token != nil {
		tok = sql.NullString{String: *token, Valid: true}
	}
	return pid, tok
}
