package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "player_id").
		From("events").
		Where(Eq("match_id", int64(1)), IsNull("temp_slot_id"), In("action", []string{"SUB_OUT", "SUB_IN"})).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, player_id FROM events WHERE match_id = $1 AND temp_slot_id IS NULL AND action IN ($2, $3) ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(1) || args[2] != "SUB_IN" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_QuestionFormat(t *testing.T) {
	query, args, err := Select("id").
		PlaceholderFormat(Question).
		From("events").
		Where(Eq("match_id", 1), Expr("team_id = ? OR team_id = ?", 2, 3)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM events WHERE match_id = ? AND team_id = ? OR team_id = ?"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("events").Where(In("id", []int64{})).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM events WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query: %s %+v", query, args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("id", "name").
		Values(int64(1), "A").
		Values(int64(2), "B").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (id, name) VALUES ($1, $2), ($3, $4) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != "B" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	if _, _, err := InsertInto("players").Columns("id", "name").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected width error")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("current_formation", "4-4-2").
		SetExpr("updated_at", "CURRENT_TIMESTAMP").
		Where(Eq("id", int64(9))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET current_formation = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "4-4-2" || args[1] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("players").ToSQL(); err == nil {
		t.Fatalf("expected error")
	}

	query, _, err := DeleteFrom("players").PlaceholderFormat(Question).Where(Eq("team_id", 3)).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM players WHERE team_id = ?" {
		t.Fatalf("unexpected query: %s", query)
	}
}
