package sqldb

import (
	"database/sql"
	"time"

	"github.com/watter46/footics-sub000/internal/domain/match"
)

const matchColumns = "id, match_date, team1_id, team2_id, subject_team_id, current_formation, " +
	"assigned_players, substituted_out_player_ids, pending_ghosts, created_at, updated_at"

type matchTableModel struct {
	ID                      int64          `db:"id"`
	Date                    time.Time      `db:"match_date"`
	Team1ID                 int64          `db:"team1_id"`
	Team2ID                 int64          `db:"team2_id"`
	SubjectTeamID           int64          `db:"subject_team_id"`
	CurrentFormation        sql.NullString `db:"current_formation"`
	AssignedPlayers         sql.NullString `db:"assigned_players"`
	SubstitutedOutPlayerIDs string         `db:"substituted_out_player_ids"`
	PendingGhosts           string         `db:"pending_ghosts"`
	CreatedAt               time.Time      `db:"created_at"`
	UpdatedAt               time.Time      `db:"updated_at"`
}

func matchFromRow(row matchTableModel) (match.Match, error) {
	assigned, err := decodeAssignments(row.AssignedPlayers)
	if err != nil {
		return match.Match{}, err
	}
	subbedOut, err := decodePlayerSet(row.SubstitutedOutPlayerIDs)
	if err != nil {
		return match.Match{}, err
	}
	ghosts, err := decodePendingGhosts(row.PendingGhosts)
	if err != nil {
		return match.Match{}, err
	}

	return match.Match{
		ID:                      row.ID,
		Date:                    row.Date.UTC(),
		Team1ID:                 row.Team1ID,
		Team2ID:                 row.Team2ID,
		SubjectTeamID:           row.SubjectTeamID,
		CurrentFormation:        row.CurrentFormation.String,
		AssignedPlayers:         assigned,
		SubstitutedOutPlayerIDs: subbedOut,
		PendingGhosts:           ghosts,
		CreatedAt:               row.CreatedAt.UTC(),
		UpdatedAt:               row.UpdatedAt.UTC(),
	}, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
