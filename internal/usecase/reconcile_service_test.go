package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/lineup"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/infrastructure/repository/memory"
)

type recordingObserver struct {
	mu         sync.Mutex
	applied    []string
	rolledBack []string
	minted     int
	resolved   int
	dropped    int
	reconciles [][3]int
}

func (o *recordingObserver) MutationApplied(op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.applied = append(o.applied, op)
}

func (o *recordingObserver) MutationRolledBack(op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rolledBack = append(o.rolledBack, op)
}

func (o *recordingObserver) GhostMinted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.minted++
}

func (o *recordingObserver) GhostResolved(events int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resolved += events
}

func (o *recordingObserver) PlayersDropped(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropped += count
}

func (o *recordingObserver) ReconcileFinished(matches, changed, failed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reconciles = append(o.reconciles, [3]int{matches, changed, failed})
}

func TestReconcileService_RepairsDriftedMatch(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	repos := f.store.Repositories()

	s := f.session(t)
	_, err := s.ChangeFormation(ctx, "4-4-2")
	require.NoError(t, err)

	_, err = repos.Events.Add(ctx, event.Event{
		MatchID: f.matchID, TeamID: homeTeamID, Subject: event.Player(12),
		Action: event.ActionSubOut, MatchTime: "55:00", PositionName: "CB",
	})
	require.NoError(t, err)

	drifted := []int64{13}
	ghosts := map[int]string{3: "ghost-dead"}
	_, err = repos.Matches.Update(ctx, f.matchID, match.Patch{
		AssignedPlayers:         lineup.Assignments{1: 10, 2: 99, 50: 11},
		SubstitutedOutPlayerIDs: &drifted,
		PendingGhosts:           &ghosts,
	})
	require.NoError(t, err)

	observer := &recordingObserver{}
	service := NewReconcileService(repos, f.store, testCatalog(), nil)
	service.SetObserver(observer)

	report, err := service.Run(ctx, 8)
	require.NoError(t, err)

	assert.Equal(t, 1, report.MatchCount)
	assert.Equal(t, 1, report.RepairedCount)
	assert.Equal(t, 1, report.WorkerCount)
	require.Len(t, report.Matches, 1)

	row := report.Matches[0]
	assert.Equal(t, reconcileStatusRepaired, row.Status)
	assert.Equal(t, []int{2, 50}, row.PrunedSlots)
	assert.Equal(t, []string{"ghost-dead"}, row.DroppedGhosts)
	assert.True(t, row.SubstitutedOutChanged)

	persisted := f.persisted(t)
	assert.Equal(t, lineup.Assignments{1: 10}, persisted.AssignedPlayers)
	assert.Equal(t, []int64{12}, persisted.SubstitutedOutPlayerIDs)
	assert.Empty(t, persisted.PendingGhosts)
	assert.Equal(t, [][3]int{{1, 1, 0}}, observer.reconciles)

	again, err := service.Run(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, again.RepairedCount)
	assert.Equal(t, reconcileStatusUnchanged, again.Matches[0].Status)
}

func TestReconcileService_KeepsLiveGhosts(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	s := f.session(t)
	_, err := s.ChangeFormation(ctx, "4-4-2")
	require.NoError(t, err)
	_, err = s.Clear(ctx, 3, subMode)
	require.NoError(t, err)

	report, err := NewReconcileService(f.store.Repositories(), f.store, testCatalog(), nil).Run(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, reconcileStatusUnchanged, report.Matches[0].Status)
	assert.Equal(t, lineup.Ghost("ghost-1"), f.persisted(t).Occupant(3))
}

func TestReconcileService_NoMatches(t *testing.T) {
	store := memory.NewStore()

	report, err := NewReconcileService(store.Repositories(), store, testCatalog(), nil).Run(context.Background(), 4)
	require.NoError(t, err)
	assert.Zero(t, report.MatchCount)
	assert.NotNil(t, report.Matches)
	assert.Empty(t, report.Matches)
}

func TestEngine_ObserverSeesMutations(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()
	observer := &recordingObserver{}
	f.engine.SetObserver(observer)

	s := f.session(t)
	_, err := s.ChangeFormation(ctx, "4-4-2")
	require.NoError(t, err)
	_, err = s.Assign(ctx, 2, 10, MutationOptions{})
	require.NoError(t, err)
	res, err := s.Clear(ctx, 3, subMode)
	require.NoError(t, err)
	token, _ := res.Events[0].Subject.Token()
	_, err = s.ResolveGhost(ctx, token, 42)
	require.NoError(t, err)
	_, err = s.ChangeFormation(ctx, "4-3-3")
	require.NoError(t, err)

	assert.Equal(t, []string{"change_formation", "assign", "clear", "resolve_ghost", "change_formation"}, observer.applied)
	assert.Equal(t, 1, observer.minted)
	assert.Equal(t, 1, observer.resolved)
	assert.Zero(t, observer.dropped)
	assert.Empty(t, observer.rolledBack)
}

func TestNormalizeReconcileWorkers(t *testing.T) {
	assert.Equal(t, defaultReconcileWorkers, normalizeReconcileWorkers(0, 10))
	assert.Equal(t, 3, normalizeReconcileWorkers(8, 3))
	assert.Equal(t, 2, normalizeReconcileWorkers(2, 0))
}
