package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/watter46/footics-sub000/internal/domain/formation"
	"github.com/watter46/footics-sub000/internal/domain/lineup"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
	"github.com/watter46/footics-sub000/internal/domain/player"
	"github.com/watter46/footics-sub000/internal/platform/logging"
)

const (
	reconcileStatusUnchanged = "unchanged"
	reconcileStatusRepaired  = "repaired"
	reconcileStatusSkipped   = "skipped"
	reconcileStatusFailed    = "failed"

	defaultReconcileWorkers = 4
)

type ReconcileReport struct {
	MatchCount    int               `json:"match_count"`
	RepairedCount int               `json:"repaired_count"`
	FailedCount   int               `json:"failed_count"`
	WorkerCount   int               `json:"worker_count"`
	Matches       []ReconcileResult `json:"matches"`
}

type ReconcileResult struct {
	MatchID               int64    `json:"match_id"`
	Status                string   `json:"status"`
	PrunedSlots           []int    `json:"pruned_slots,omitempty"`
	DroppedGhosts         []string `json:"dropped_ghosts,omitempty"`
	SubstitutedOutChanged bool     `json:"substituted_out_changed"`
	DurationMs            int64    `json:"duration_ms"`
	Message               string   `json:"message,omitempty"`
}

// ReconcileService repairs persisted match state that drifted from the event
// log, the roster or the slot catalog.
type ReconcileService struct {
	repos    persistence.Repositories
	tx       persistence.Transactor
	catalog  formation.Catalog
	logger   *logging.Logger
	observer Observer
}

func NewReconcileService(
	repos persistence.Repositories,
	tx persistence.Transactor,
	catalog formation.Catalog,
	logger *logging.Logger,
) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{
		repos:    repos,
		tx:       tx,
		catalog:  catalog,
		logger:   logger.Named("reconcile"),
		observer: noopObserver{},
	}
}

func (s *ReconcileService) SetObserver(observer Observer) {
	if observer == nil {
		observer = noopObserver{}
	}
	s.observer = observer
}

func (s *ReconcileService) Run(ctx context.Context, maxWorkers int) (ReconcileReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Run")
	defer span.End()

	matches, err := s.repos.Matches.List(ctx)
	if err != nil {
		return ReconcileReport{}, storeError("list matches", err)
	}

	workerCount := normalizeReconcileWorkers(maxWorkers, len(matches))
	report := ReconcileReport{
		MatchCount:  len(matches),
		WorkerCount: workerCount,
		Matches:     make([]ReconcileResult, 0, len(matches)),
	}
	if len(matches) == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ReconcileResult, len(matches))
	var repaired, failed atomic.Int32
	var workers sync.WaitGroup
	for _, m := range matches {
		matchID := m.ID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row, err := s.reconcileMatch(ctx, matchID)
			if err != nil {
				row = ReconcileResult{MatchID: matchID, Status: reconcileStatusFailed, Message: err.Error()}
				s.logger.WarnContext(ctx, "reconcile match failed", "match_id", matchID, "error", err)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case reconcileStatusRepaired:
				repaired.Add(1)
			case reconcileStatusFailed:
				failed.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return ReconcileReport{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		report.Matches = append(report.Matches, row)
	}
	sort.Slice(report.Matches, func(i, j int) bool {
		return report.Matches[i].MatchID < report.Matches[j].MatchID
	})

	report.RepairedCount = int(repaired.Load())
	report.FailedCount = int(failed.Load())
	s.observer.ReconcileFinished(report.MatchCount, report.RepairedCount, report.FailedCount)
	s.logger.InfoContext(ctx, "reconcile finished",
		"matches", report.MatchCount,
		"repaired", report.RepairedCount,
		"failed", report.FailedCount,
	)
	return report, nil
}

func (s *ReconcileService) reconcileMatch(ctx context.Context, matchID int64) (ReconcileResult, error) {
	row := ReconcileResult{MatchID: matchID, Status: reconcileStatusUnchanged}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		m, ok, err := repos.Matches.GetByID(ctx, matchID)
		if err != nil {
			return storeError("load match", err)
		}
		if !ok {
			row.Status = reconcileStatusSkipped
			return nil
		}

		roster, err := repos.Players.ListByTeam(ctx, m.SubjectTeamID)
		if err != nil {
			return storeError("load roster", err)
		}
		subbedOut, err := rescanSubstitutedOut(ctx, repos.Events, m.ID, m.SubjectTeamID)
		if err != nil {
			return err
		}

		var slots formation.Slots
		if m.CurrentFormation != "" {
			slots, _ = s.catalog.Lookup(m.CurrentFormation)
		}

		patch := match.Patch{}
		if kept, pruned := pruneAssignments(m.AssignedPlayers, slots, roster); len(pruned) > 0 {
			row.PrunedSlots = pruned
			patch.AssignedPlayers = kept
		}

		ghosts := match.ClonePendingGhosts(m.PendingGhosts)
		for _, slotID := range sortedGhostSlots(ghosts) {
			token := ghosts[slotID]
			live, err := hasGhostEvents(ctx, repos, m.ID, token)
			if err != nil {
				return err
			}
			if live && slots.Contains(slotID) {
				continue
			}
			delete(ghosts, slotID)
			row.DroppedGhosts = append(row.DroppedGhosts, token)
		}
		if len(row.DroppedGhosts) > 0 {
			patch.PendingGhosts = &ghosts
		}

		if !slices.Equal(subbedOut, match.NormalizePlayerSet(m.SubstitutedOutPlayerIDs)) {
			row.SubstitutedOutChanged = true
			patch.SubstitutedOutPlayerIDs = &subbedOut
		}

		if patch.IsEmpty() {
			return nil
		}
		if _, err := repos.Matches.Update(ctx, m.ID, patch); err != nil {
			return storeError("update match", err)
		}
		row.Status = reconcileStatusRepaired
		return nil
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	return row, nil
}

// pruneAssignments keeps entries whose slot exists and whose player is still
// on the roster.
func pruneAssignments(assigned lineup.Assignments, slots formation.Slots, roster []player.Player) (lineup.Assignments, []int) {
	members := player.IndexByID(roster)
	kept := lineup.Assignments{}
	var pruned []int
	for _, slotID := range assigned.SortedSlots() {
		playerID := assigned[slotID]
		_, onRoster := members[playerID]
		if !slots.Contains(slotID) || !onRoster {
			pruned = append(pruned, slotID)
			continue
		}
		kept[slotID] = playerID
	}
	return kept, pruned
}

func hasGhostEvents(ctx context.Context, repos persistence.Repositories, matchID int64, token string) (bool, error) {
	items, err := repos.Events.ListByTempSlotID(ctx, token)
	if err != nil {
		return false, storeError("load ghost events", err)
	}
	for _, item := range items {
		if item.MatchID == matchID {
			return true, nil
		}
	}
	return false, nil
}

func sortedGhostSlots(ghosts map[int]string) []int {
	out := make([]int, 0, len(ghosts))
	for slotID := range ghosts {
		out = append(out, slotID)
	}
	sort.Ints(out)
	return out
}

func normalizeReconcileWorkers(requested, tasks int) int {
	if requested <= 0 {
		requested = defaultReconcileWorkers
	}
	if tasks > 0 && requested > tasks {
		requested = tasks
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}
