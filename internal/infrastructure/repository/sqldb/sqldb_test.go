package sqldb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/lineup"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
	"github.com/watter46/footics-sub000/internal/domain/player"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), DialectSQLite, ":memory:", Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, MigrateUp(context.Background(), db))
	return db
}

func createTestMatch(t *testing.T, repos persistence.Repositories) match.Match {
	t.Helper()
	m, err := repos.Matches.Create(context.Background(), match.Match{
		Date:          time.Date(2026, 5, 9, 14, 0, 0, 0, time.UTC),
		Team1ID:       1,
		Team2ID:       2,
		SubjectTeamID: 1,
	})
	require.NoError(t, err)
	require.NotZero(t, m.ID)
	return m
}

func TestMatchRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	repos := db.Repositories()
	ctx := context.Background()

	created := createTestMatch(t, repos)

	got, ok, err := repos.Matches.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Date.Equal(created.Date))
	assert.Empty(t, got.CurrentFormation)
	assert.Nil(t, got.AssignedPlayers)
	assert.Equal(t, []int64{}, got.SubstitutedOutPlayerIDs)
	assert.Equal(t, map[int]string{}, got.PendingGhosts)

	shape := "4-4-2"
	subbedOut := []int64{12, 7, 12}
	ghosts := map[int]string{103: "ghost-a"}
	affected, err := repos.Matches.Update(ctx, created.ID, match.Patch{
		CurrentFormation:        &shape,
		AssignedPlayers:         lineup.Assignments{101: 1, 102: 4},
		SubstitutedOutPlayerIDs: &subbedOut,
		PendingGhosts:           &ghosts,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, _, err = repos.Matches.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "4-4-2", got.CurrentFormation)
	assert.Equal(t, lineup.Assignments{101: 1, 102: 4}, got.AssignedPlayers)
	assert.Equal(t, []int64{7, 12}, got.SubstitutedOutPlayerIDs)
	assert.Equal(t, ghosts, got.PendingGhosts)

	affected, err = repos.Matches.Update(ctx, created.ID, match.Patch{ClearFormation: true, ClearAssignments: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, _, err = repos.Matches.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CurrentFormation)
	assert.Nil(t, got.AssignedPlayers)
	assert.Equal(t, []int64{7, 12}, got.SubstitutedOutPlayerIDs)

	affected, err = repos.Matches.Update(ctx, created.ID+100, match.Patch{})
	require.NoError(t, err)
	assert.Zero(t, affected)

	_, ok, err = repos.Matches.GetByID(ctx, created.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	items, err := repos.Matches.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestEventRepository(t *testing.T) {
	db := openTestDB(t)
	repos := db.Repositories()
	ctx := context.Background()
	m := createTestMatch(t, repos)

	_, err := repos.Events.Add(ctx, event.Event{
		MatchID: m.ID + 50, TeamID: 1, Subject: event.Player(3), Action: "SHOT", MatchTime: "10:00",
	})
	require.ErrorIs(t, err, persistence.ErrNotFound)

	outID, err := repos.Events.Add(ctx, event.Event{
		MatchID: m.ID, TeamID: 1, Subject: event.Ghost("ghost-x"), Action: event.ActionSubOut,
		MatchTime: "60:00", PositionName: "CB",
	})
	require.NoError(t, err)
	secondID, err := repos.Events.Add(ctx, event.Event{
		MatchID: m.ID, TeamID: 1, Subject: event.Ghost("ghost-x"), Action: "FOUL", MatchTime: "61:30",
	})
	require.NoError(t, err)
	_, err = repos.Events.Add(ctx, event.Event{
		MatchID: m.ID, TeamID: 2, Subject: event.None(), Action: "PRESS", MatchTime: "62:00", OpponentPosition: "ST",
	})
	require.NoError(t, err)

	ghostEvents, err := repos.Events.ListByTempSlotID(ctx, "ghost-x")
	require.NoError(t, err)
	require.Len(t, ghostEvents, 2)
	assert.Equal(t, outID, ghostEvents[0].ID)

	outs, err := repos.Events.ListByMatchAndTeam(ctx, m.ID, 1, event.ActionSubOut)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, "CB", outs[0].PositionName)

	resolved := event.Player(42)
	err = repos.Events.UpdateMany(ctx, []int64{outID, secondID, 9999}, event.Patch{Subject: &resolved})
	require.ErrorIs(t, err, persistence.ErrNotFound)

	ghostEvents, err = repos.Events.ListByTempSlotID(ctx, "ghost-x")
	require.NoError(t, err)
	assert.Len(t, ghostEvents, 2, "a failed batch must not resolve a subset")

	require.NoError(t, repos.Events.UpdateMany(ctx, []int64{outID, secondID}, event.Patch{Subject: &resolved}))

	ghostEvents, err = repos.Events.ListByTempSlotID(ctx, "ghost-x")
	require.NoError(t, err)
	assert.Empty(t, ghostEvents)

	got, ok, err := repos.Events.GetByID(ctx, secondID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, event.Player(42), got.Subject)

	all, err := repos.Events.ListByMatch(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[2].Subject.IsNone())

	err = repos.Events.Update(ctx, 9999, event.Patch{Subject: &resolved})
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestPlayerRepository_ReplaceTeam(t *testing.T) {
	db := openTestDB(t)
	repos := db.Repositories()
	ctx := context.Background()

	require.NoError(t, repos.Players.ReplaceTeam(ctx, 1, []player.Player{
		{ID: 9, TeamID: 1, Name: "Ueda", Number: 9, Position: "CF"},
		{ID: 1, TeamID: 1, Name: "Suzuki", Number: 1, Position: "GK"},
	}))
	require.NoError(t, repos.Players.ReplaceTeam(ctx, 2, []player.Player{
		{ID: 1, TeamID: 2, Name: "Other", Number: 1, Position: "GK"},
	}))

	roster, err := repos.Players.ListByTeam(ctx, 1)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, int64(1), roster[0].ID)
	assert.Equal(t, "CF", roster[1].Position)

	require.NoError(t, repos.Players.ReplaceTeam(ctx, 1, nil))
	roster, err = repos.Players.ListByTeam(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, roster)

	roster, err = repos.Players.ListByTeam(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestDB_WithinTxRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	m := createTestMatch(t, db.Repositories())

	errAbort := errors.New("abort")
	err := db.WithinTx(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		if _, err := repos.Events.Add(ctx, event.Event{
			MatchID: m.ID, TeamID: 1, Subject: event.Player(5), Action: event.ActionSubOut, MatchTime: "70:00",
		}); err != nil {
			return err
		}
		if _, err := repos.Matches.Update(ctx, m.ID, match.Patch{AssignedPlayers: lineup.Assignments{101: 5}}); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	events, err := db.Repositories().Events.ListByMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	got, _, err := db.Repositories().Matches.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedPlayers)

	err = db.WithinTx(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		_, err := repos.Matches.Update(ctx, m.ID, match.Patch{AssignedPlayers: lineup.Assignments{101: 5}})
		return err
	})
	require.NoError(t, err)

	got, _, err = db.Repositories().Matches.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, lineup.Assignments{101: 5}, got.AssignedPlayers)
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, MigrateUp(context.Background(), db))

	m, err := NewMigrator(context.Background(), db)
	require.NoError(t, err)
	defer m.Close()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	require.NoError(t, db.Ping(context.Background()))
}

func TestSQLiteDSN(t *testing.T) {
	got := sqliteDSN(":memory:")
	assert.True(t, strings.HasPrefix(got, ":memory:?"))
	assert.Contains(t, got, "_pragma=foreign_keys%281%29")
	assert.Contains(t, got, "_pragma=busy_timeout%285000%29")
	assert.Contains(t, got, "_time_format=sqlite")

	got = sqliteDSN("footics.db?_pragma=foreign_keys(0)")
	assert.NotContains(t, got, "foreign_keys%281%29")
	assert.Contains(t, got, "foreign_keys%280%29")
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect(" PostgreSQL ")
	require.NoError(t, err)
	assert.Equal(t, DialectPostgres, d)

	d, err = ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, DialectSQLite, d)

	_, err = ParseDialect("mysql")
	require.Error(t, err)
}

func TestFormatQueryForTrace(t *testing.T) {
	assert.Equal(t, "SELECT id FROM matches WHERE id = ?", formatQueryForTrace("  SELECT id\n\tFROM matches\n WHERE id = ?  "))

	long := "SELECT " + strings.Repeat("x, ", 400) + "y FROM t"
	got := formatQueryForTrace(long)
	assert.Len(t, got, maxTracedQueryLength+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestDBNameFromDSN(t *testing.T) {
	assert.Equal(t, "footics", dbNameFromDSN(DialectPostgres, "postgres://u:p@localhost:5432/footics?sslmode=disable"))
	assert.Equal(t, "footics", dbNameFromDSN(DialectPostgres, "host=localhost dbname=footics user=u"))
	assert.Equal(t, "data/footics.db", dbNameFromDSN(DialectSQLite, "file:data/footics.db?_pragma=foreign_keys(1)"))
}
