package memory

import (
	"context"
	"errors"
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

func newMatch(t *testing.T, repos persistence.Repositories) match.Match {
	t.Helper()
	m, err := repos.Matches.Create(context.Background(), match.Match{
		Date:          time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Team1ID:       1,
		Team2ID:       2,
		SubjectTeamID: 1,
	})
	require.NoError(t, err)
	return m
}

func TestStore_WithinTxCommits(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	m := newMatch(t, repos)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx persistence.Repositories) error {
		if _, err := tx.Events.Add(ctx, event.Event{MatchID: m.ID, TeamID: 1, Subject: event.Ghost("g1"), Action: event.ActionSubOut, MatchTime: "10:00"}); err != nil {
			return err
		}
		_, err := tx.Matches.Update(ctx, m.ID, match.Patch{AssignedPlayers: lineup.Assignments{1: 5}})
		return err
	})
	require.NoError(t, err)

	got, ok, err := repos.Matches.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lineup.Assignments{1: 5}, got.AssignedPlayers)

	events, err := repos.Events.ListByTempSlotID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestStore_WithinTxRollsBackOnError(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	m := newMatch(t, repos)
	boom := errors.New("boom")

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx persistence.Repositories) error {
		if _, err := tx.Events.Add(ctx, event.Event{MatchID: m.ID, TeamID: 1, Subject: event.Player(3), Action: event.ActionSubOut, MatchTime: "10:00"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	events, err := repos.Events.ListByMatch(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_InjectFailure(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	m := newMatch(t, repos)
	boom := errors.New("disk full")

	store.InjectFailure(OpMatchUpdate, boom)
	_, err := repos.Matches.Update(context.Background(), m.ID, match.Patch{ClearFormation: true})
	require.ErrorIs(t, err, boom)

	store.InjectFailure(OpMatchUpdate, nil)
	affected, err := repos.Matches.Update(context.Background(), m.ID, match.Patch{ClearFormation: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestMatchRepository_UpdateMissingReportsZeroRows(t *testing.T) {
	store := NewStore()

	affected, err := store.Repositories().Matches.Update(context.Background(), 42, match.Patch{ClearFormation: true})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestEventRepository_UpdateManyIsAllOrNothing(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	m := newMatch(t, repos)
	ctx := context.Background()

	id, err := repos.Events.Add(ctx, event.Event{MatchID: m.ID, TeamID: 1, Subject: event.Ghost("g"), Action: event.ActionSubOut, MatchTime: "01:00"})
	require.NoError(t, err)

	subject := event.Player(9)
	err = repos.Events.UpdateMany(ctx, []int64{id, 999}, event.Patch{Subject: &subject})
	require.ErrorIs(t, err, persistence.ErrNotFound)

	got, _, err := repos.Events.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, event.Ghost("g"), got.Subject)
}

func TestEventRepository_AddRequiresMatch(t *testing.T) {
	store := NewStore()

	_, err := store.Repositories().Events.Add(context.Background(), event.Event{MatchID: 5, TeamID: 1, Action: "SHOT", MatchTime: "01:00"})
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestEventRepository_ListByMatchAndTeam(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	m := newMatch(t, repos)
	ctx := context.Background()

	for _, e := range []event.Event{
		{MatchID: m.ID, TeamID: 1, Subject: event.Player(3), Action: event.ActionSubOut, MatchTime: "10:00"},
		{MatchID: m.ID, TeamID: 1, Subject: event.Player(4), Action: event.ActionSubIn, MatchTime: "10:00"},
		{MatchID: m.ID, TeamID: 2, Action: "SHOT", MatchTime: "11:00", OpponentPosition: "CF"},
	} {
		_, err := repos.Events.Add(ctx, e)
		require.NoError(t, err)
	}

	outs, err := repos.Events.ListByMatchAndTeam(ctx, m.ID, 1, event.ActionSubOut)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, event.Player(3), outs[0].Subject)
}

func TestPlayerRepository_ReplaceTeam(t *testing.T) {
	store := NewStore()
	repos := store.Repositories()
	ctx := context.Background()

	require.NoError(t, repos.Players.ReplaceTeam(ctx, 1, []player.Player{{ID: 2, TeamID: 1, Name: "B"}, {ID: 1, TeamID: 1, Name: "A"}}))
	require.NoError(t, repos.Players.ReplaceTeam(ctx, 1, []player.Player{{ID: 3, TeamID: 1, Name: "C"}}))

	roster, err := repos.Players.ListByTeam(ctx, 1)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, int64(3), roster[0].ID)
}
