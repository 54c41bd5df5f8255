package sqldb

import (
	"database/sql"
	"strconv"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/watter46/footics-sub000/internal/domain/lineup"
	"github.com/watter46/footics-sub000/internal/domain/match"
)

// Map columns are stored as JSON objects keyed by the decimal slot id.
var columnJSON = sonic.ConfigStd

func encodeAssignments(a lineup.Assignments) (sql.NullString, error) {
	if a == nil {
		return sql.NullString{}, nil
	}
	doc := make(map[string]int64, len(a))
	for slotID, playerID := range a {
		doc[strconv.Itoa(slotID)] = playerID
	}
	raw, err := columnJSON.MarshalToString(doc)
	if err != nil {
		return sql.NullString{}, crerr.Wrap(err, "encode assigned players")
	}
	return sql.NullString{String: raw, Valid: true}, nil
}

func decodeAssignments(col sql.NullString) (lineup.Assignments, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var doc map[string]int64
	if err := columnJSON.UnmarshalFromString(col.String, &doc); err != nil {
		return nil, crerr.Wrap(err, "decode assigned players")
	}
	out := make(lineup.Assignments, len(doc))
	for key, playerID := range doc {
		slotID, err := strconv.Atoi(key)
		if err != nil {
			return nil, crerr.Wrapf(err, "decode assigned players: slot key %q", key)
		}
		out[slotID] = playerID
	}
	return out, nil
}

func encodePlayerSet(ids []int64) (string, error) {
	raw, err := columnJSON.MarshalToString(match.NormalizePlayerSet(ids))
	if err != nil {
		return "", crerr.Wrap(err, "encode substituted out players")
	}
	return raw, nil
}

func decodePlayerSet(raw string) ([]int64, error) {
	if raw == "" {
		return []int64{}, nil
	}
	var ids []int64
	if err := columnJSON.UnmarshalFromString(raw, &ids); err != nil {
		return nil, crerr.Wrap(err, "decode substituted out players")
	}
	return match.NormalizePlayerSet(ids), nil
}

func encodePendingGhosts(ghosts map[int]string) (string, error) {
	doc := make(map[string]string, len(ghosts))
	for slotID, token := range ghosts {
		doc[strconv.Itoa(slotID)] = token
	}
	raw, err := columnJSON.MarshalToString(doc)
	if err != nil {
		return "", crerr.Wrap(err, "encode pending ghosts")
	}
	return raw, nil
}

func decodePendingGhosts(raw string) (map[int]string, error) {
	out := map[int]string{}
	if raw == "" {
		return out, nil
	}
	var doc map[string]string
	if err := columnJSON.UnmarshalFromString(raw, &doc); err != nil {
		return nil, crerr.Wrap(err, "decode pending ghosts")
	}
	for key, token := range doc {
		slotID, err := strconv.Atoi(key)
		if err != nil {
			return nil, crerr.Wrapf(err, "decode pending ghosts: slot key %q", key)
		}
		out[slotID] = token
	}
	return out, nil
}
