package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/watter46/footics-sub000/internal/domain/bench"
	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/formation"
	"github.com/watter46/footics-sub000/internal/domain/lineup"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
	"github.com/watter46/footics-sub000/internal/domain/player"
)

// MutationOptions carries the substitution-mode flag of one mutation.
type MutationOptions struct {
	SubstitutionMode bool
	// MatchTime is the MM:SS clock stamped on substitution events.
	MatchTime string
}

func (o MutationOptions) validate() error {
	if !o.SubstitutionMode {
		return nil
	}
	if !event.ValidMatchTime(strings.TrimSpace(o.MatchTime)) {
		return fmt.Errorf("%w: match_time must be MM:SS in substitution mode", ErrInvalidInput)
	}
	return nil
}

type MutationResult struct {
	Changed bool
	// Events are the substitution events appended by the mutation.
	Events []event.Event
	Match  match.Match
}

// MatchSession serializes mutations of one match and keeps its last known
// good state. Every call reloads the persisted match before acting.
type MatchSession struct {
	engine  *Engine
	matchID int64

	mu    sync.Mutex
	state match.Match
}

// sessionWrite is what a mutation needs persisted in one transaction.
type sessionWrite struct {
	patch  match.Patch
	events []event.Event
	inTx   func(ctx context.Context, repos persistence.Repositories, m *match.Match) error
	rescan bool
	minted int
}

func (s *MatchSession) MatchID() int64 {
	return s.matchID
}

// Match returns a copy of the last known good state.
func (s *MatchSession) Match() match.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *MatchSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(ctx)
}

func (s *MatchSession) refresh(ctx context.Context) error {
	m, ok, err := s.engine.repos.Matches.GetByID(ctx, s.matchID)
	if err != nil {
		return storeError("load match", err)
	}
	if !ok {
		return fmt.Errorf("%w: match %d", ErrNotFound, s.matchID)
	}
	s.state = m
	return nil
}

// GetOccupant returns the player on slotID, if any.
func (s *MatchSession) GetOccupant(slotID int) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AssignedPlayers.Get(slotID)
}

func (s *MatchSession) Occupant(slotID int) lineup.Occupant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Occupant(slotID)
}

func (s *MatchSession) Assign(ctx context.Context, slotID int, playerID int64, opts MutationOptions) (MutationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSession.Assign",
		attribute.Int64("match_id", s.matchID),
		attribute.Int("slot_id", slotID),
		attribute.Bool("substitution_mode", opts.SubstitutionMode),
	)
	defer span.End()

	if playerID <= 0 {
		return MutationResult{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}
	if err := opts.validate(); err != nil {
		return MutationResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return MutationResult{}, err
	}
	slot, err := s.slot(slotID)
	if err != nil {
		return MutationResult{}, err
	}
	if _, err := s.engine.rosterPlayer(ctx, s.state.SubjectTeamID, playerID); err != nil {
		return MutationResult{}, err
	}

	w, err := s.run(ctx, "assign", func(m *match.Match) (*sessionWrite, error) {
		if current, ok := m.AssignedPlayers.Get(slotID); ok && current == playerID {
			return nil, nil
		}

		w := &sessionWrite{}
		if opts.SubstitutionMode {
			if from, onPitch := m.AssignedPlayers.SlotOf(playerID); onPitch {
				return nil, fmt.Errorf("%w: player %d is already on the pitch in slot %d", ErrInvalidInput, playerID, from)
			}
			out, err := s.outEvent(m, slot, opts.MatchTime, w)
			if err != nil {
				return nil, err
			}
			in := s.substitutionEvent(m, slot, event.Player(playerID), event.ActionSubIn, opts.MatchTime)
			w.events = append(w.events, out, in)
			w.rescan = true
		}

		if m.AssignedPlayers == nil {
			m.AssignedPlayers = lineup.Assignments{}
		}
		m.AssignedPlayers.Assign(slotID, playerID)
		w.patch = lineupPatch(m)
		return w, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return MutationResult{}, err
	}
	return s.result(w), nil
}

func (s *MatchSession) Clear(ctx context.Context, slotID int, opts MutationOptions) (MutationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSession.Clear",
		attribute.Int64("match_id", s.matchID),
		attribute.Int("slot_id", slotID),
		attribute.Bool("substitution_mode", opts.SubstitutionMode),
	)
	defer span.End()

	if err := opts.validate(); err != nil {
		return MutationResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return MutationResult{}, err
	}
	slot, err := s.slot(slotID)
	if err != nil {
		return MutationResult{}, err
	}

	w, err := s.run(ctx, "clear", func(m *match.Match) (*sessionWrite, error) {
		w := &sessionWrite{}
		if opts.SubstitutionMode {
			out, err := s.outEvent(m, slot, opts.MatchTime, w)
			if err != nil {
				return nil, err
			}
			w.events = append(w.events, out)
			w.rescan = true
			m.AssignedPlayers.Clear(slotID)
		} else if !m.AssignedPlayers.Clear(slotID) {
			return nil, nil
		}

		w.patch = lineupPatch(m)
		return w, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return MutationResult{}, err
	}
	return s.result(w), nil
}

func (s *MatchSession) Swap(ctx context.Context, slotA, slotB int) (MutationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSession.Swap",
		attribute.Int64("match_id", s.matchID),
		attribute.Int("slot_a", slotA),
		attribute.Int("slot_b", slotB),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return MutationResult{}, err
	}
	if _, err := s.slot(slotA); err != nil {
		return MutationResult{}, err
	}
	if _, err := s.slot(slotB); err != nil {
		return MutationResult{}, err
	}

	w, err := s.run(ctx, "swap", func(m *match.Match) (*sessionWrite, error) {
		if !m.AssignedPlayers.Swap(slotA, slotB) {
			return nil, nil
		}
		return &sessionWrite{patch: lineupPatch(m)}, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return MutationResult{}, err
	}
	return s.result(w), nil
}

// ChangeFormation migrates the lineup onto shape. Pending ghosts are dropped
// because slot ids do not carry over between shapes; their events stay
// resolvable from the bench.
func (s *MatchSession) ChangeFormation(ctx context.Context, shape string) (lineup.MigrationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSession.ChangeFormation",
		attribute.Int64("match_id", s.matchID),
		attribute.String("formation", shape),
	)
	defer span.End()

	shape = strings.TrimSpace(shape)
	if shape == "" {
		return lineup.MigrationResult{}, fmt.Errorf("%w: formation is required", ErrInvalidInput)
	}
	newSlots, ok := s.engine.catalog.Lookup(shape)
	if !ok {
		return lineup.MigrationResult{}, fmt.Errorf("%w: unknown formation %q", ErrInvalidReference, shape)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return lineup.MigrationResult{}, err
	}

	var result lineup.MigrationResult
	w, err := s.run(ctx, "change_formation", func(m *match.Match) (*sessionWrite, error) {
		if m.CurrentFormation == shape {
			result = lineup.MigrationResult{Assignments: m.AssignedPlayers.Clone()}
			return nil, nil
		}

		var oldSlots formation.Slots
		if m.CurrentFormation != "" {
			oldSlots, _ = s.engine.catalog.Lookup(m.CurrentFormation)
		}
		result = lineup.Migrate(m.AssignedPlayers, oldSlots, newSlots)

		m.CurrentFormation = shape
		m.AssignedPlayers = result.Assignments.Clone()
		m.PendingGhosts = map[int]string{}
		patch := lineupPatch(m)
		patch.CurrentFormation = &shape
		return &sessionWrite{patch: patch}, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return lineup.MigrationResult{}, err
	}
	if w != nil && len(result.Dropped) > 0 {
		s.engine.observer.PlayersDropped(len(result.Dropped))
		s.engine.logger.InfoContext(ctx, "players dropped by formation change",
			"match_id", s.matchID,
			"formation", shape,
			"dropped", result.Dropped,
		)
	}
	return result, nil
}

// ChangeSubjectTeam switches the analyzed side. Formation, lineup,
// substituted-out set and pending ghosts are reset.
func (s *MatchSession) ChangeSubjectTeam(ctx context.Context, teamID int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSession.ChangeSubjectTeam",
		attribute.Int64("match_id", s.matchID),
		attribute.Int64("team_id", teamID),
	)
	defer span.End()

	if teamID <= 0 {
		return match.Match{}, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return match.Match{}, err
	}
	if !s.state.HasTeam(teamID) {
		return match.Match{}, fmt.Errorf("%w: team %d is not playing match %d", ErrInvalidReference, teamID, s.matchID)
	}

	_, err := s.run(ctx, "change_subject_team", func(m *match.Match) (*sessionWrite, error) {
		if m.SubjectTeamID == teamID {
			return nil, nil
		}

		m.SubjectTeamID = teamID
		m.CurrentFormation = ""
		m.AssignedPlayers = nil
		m.SubstitutedOutPlayerIDs = []int64{}
		m.PendingGhosts = map[int]string{}

		subbedOut := []int64{}
		ghosts := map[int]string{}
		return &sessionWrite{patch: match.Patch{
			SubjectTeamID:           &teamID,
			ClearFormation:          true,
			ClearAssignments:        true,
			SubstitutedOutPlayerIDs: &subbedOut,
			PendingGhosts:           &ghosts,
		}}, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return match.Match{}, err
	}
	return s.state.Clone(), nil
}

// Bench projects the roster of the subject team onto the current lineup.
func (s *MatchSession) Bench(ctx context.Context) (bench.Projection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSession.Bench", attribute.Int64("match_id", s.matchID))
	defer span.End()

	s.mu.Lock()
	if err := s.refresh(ctx); err != nil {
		s.mu.Unlock()
		return bench.Projection{}, err
	}
	m := s.state.Clone()
	s.mu.Unlock()

	var (
		roster []player.Player
		outs   []event.Event
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		items, err := s.engine.repos.Players.ListByTeam(ctx, m.SubjectTeamID)
		if err != nil {
			return storeError("load roster", err)
		}
		roster = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.engine.repos.Events.ListByMatchAndTeam(ctx, m.ID, m.SubjectTeamID, event.ActionSubOut)
		if err != nil {
			return storeError("load substitution events", err)
		}
		outs = items
		return nil
	})
	if err := p.Wait(); err != nil {
		recordSpanError(span, err)
		return bench.Projection{}, err
	}

	return bench.Project(bench.Input{
		Roster:         roster,
		Assignments:    m.AssignedPlayers,
		SubstitutedOut: m.SubstitutedOutPlayerIDs,
		OutEvents:      outs,
	}), nil
}

// run applies a mutation through optimistic and persists the resulting write
// in one transaction. A nil write from apply means nothing changed.
func (s *MatchSession) run(ctx context.Context, op string, apply func(m *match.Match) (*sessionWrite, error)) (*sessionWrite, error) {
	var w *sessionWrite
	changed, err := optimistic(&s.state, match.Match.Clone,
		func(m *match.Match) (bool, error) {
			var err error
			w, err = apply(m)
			return w != nil, err
		},
		func(m *match.Match) error {
			if err := s.persist(ctx, m, w); err != nil {
				s.engine.observer.MutationRolledBack(op)
				s.engine.logger.WarnContext(ctx, "match mutation rolled back",
					"match_id", s.matchID,
					"op", op,
					"error", err,
				)
				return err
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}

	s.engine.observer.MutationApplied(op)
	for i := 0; i < w.minted; i++ {
		s.engine.observer.GhostMinted()
	}
	s.engine.logger.DebugContext(ctx, "match mutation applied",
		"match_id", s.matchID,
		"op", op,
		"events", len(w.events),
	)
	return w, nil
}

func (s *MatchSession) persist(ctx context.Context, m *match.Match, w *sessionWrite) error {
	return s.engine.tx.WithinTx(ctx, func(ctx context.Context, repos persistence.Repositories) error {
		for i := range w.events {
			eventID, err := repos.Events.Add(ctx, w.events[i])
			if err != nil {
				return storeError("append substitution event", err)
			}
			w.events[i].ID = eventID
		}
		if w.inTx != nil {
			if err := w.inTx(ctx, repos, m); err != nil {
				return err
			}
		}
		if w.rescan {
			subbedOut, err := rescanSubstitutedOut(ctx, repos.Events, m.ID, m.SubjectTeamID)
			if err != nil {
				return err
			}
			m.SubstitutedOutPlayerIDs = subbedOut
			w.patch.SubstitutedOutPlayerIDs = &subbedOut
		}

		affected, err := repos.Matches.Update(ctx, m.ID, w.patch)
		if err != nil {
			return storeError("update match", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: match %d", ErrNotFound, m.ID)
		}
		return nil
	})
}

func (s *MatchSession) result(w *sessionWrite) MutationResult {
	out := MutationResult{Match: s.state.Clone()}
	if w != nil {
		out.Changed = true
		out.Events = append([]event.Event(nil), w.events...)
	}
	return out
}

func (s *MatchSession) slot(slotID int) (formation.Slot, error) {
	if slotID <= 0 {
		return formation.Slot{}, fmt.Errorf("%w: slot id must be greater than zero", ErrInvalidInput)
	}
	if s.state.CurrentFormation == "" {
		return formation.Slot{}, fmt.Errorf("%w: match %d has no formation", ErrInvalidInput, s.matchID)
	}
	slots, ok := s.engine.catalog.Lookup(s.state.CurrentFormation)
	if !ok {
		return formation.Slot{}, fmt.Errorf("%w: formation %q is not in the catalog", ErrInvalidReference, s.state.CurrentFormation)
	}
	slot, ok := slots.ByID(slotID)
	if !ok {
		return formation.Slot{}, fmt.Errorf("%w: slot %d is not part of formation %s", ErrInvalidReference, slotID, s.state.CurrentFormation)
	}
	return slot, nil
}

// outEvent builds the OUT event for the current occupant of slot. An empty
// slot reuses its pending ghost token or gets a fresh one.
func (s *MatchSession) outEvent(m *match.Match, slot formation.Slot, matchTime string, w *sessionWrite) (event.Event, error) {
	occupant := m.Occupant(slot.ID)
	var subject event.Subject
	switch occupant.Kind() {
	case lineup.OccupantKnown:
		playerID, _ := occupant.PlayerID()
		subject = event.Player(playerID)
	case lineup.OccupantGhost:
		token, _ := occupant.Token()
		subject = event.Ghost(token)
	default:
		token, err := s.engine.mintToken()
		if err != nil {
			return event.Event{}, err
		}
		if m.PendingGhosts == nil {
			m.PendingGhosts = map[int]string{}
		}
		m.PendingGhosts[slot.ID] = token
		w.minted++
		subject = event.Ghost(token)
	}
	return s.substitutionEvent(m, slot, subject, event.ActionSubOut, matchTime), nil
}

func (s *MatchSession) substitutionEvent(m *match.Match, slot formation.Slot, subject event.Subject, action event.Action, matchTime string) event.Event {
	return event.Event{
		MatchID:      m.ID,
		TeamID:       m.SubjectTeamID,
		Subject:      subject,
		Action:       action,
		MatchTime:    strings.TrimSpace(matchTime),
		PositionName: slot.Position,
	}
}

// lineupPatch writes the assignment map and pending ghosts of m.
func lineupPatch(m *match.Match) match.Patch {
	if m.AssignedPlayers == nil {
		m.AssignedPlayers = lineup.Assignments{}
	}
	if m.PendingGhosts == nil {
		m.PendingGhosts = map[int]string{}
	}
	ghosts := match.ClonePendingGhosts(m.PendingGhosts)
	return match.Patch{
		AssignedPlayers: m.AssignedPlayers.Clone(),
		PendingGhosts:   &ghosts,
	}
}
