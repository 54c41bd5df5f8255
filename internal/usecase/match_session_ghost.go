package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
)

// ResolveGhost binds every event of the match carrying token to playerID in
// one batch and rebuilds the substituted-out set. Tokens minted for a former
// subject team are rejected.
func (s *MatchSession) ResolveGhost(ctx context.Context, token string, playerID int64) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSession.ResolveGhost",
		attribute.Int64("match_id", s.matchID),
		attribute.Int64("player_id", playerID),
	)
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: ghost token is required", ErrInvalidInput)
	}
	if playerID <= 0 {
		return nil, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	if _, err := s.engine.rosterPlayer(ctx, s.state.SubjectTeamID, playerID); err != nil {
		return nil, err
	}

	var resolved []event.Event
	_, err := s.run(ctx, "resolve_ghost", func(m *match.Match) (*sessionWrite, error) {
		for slotID, pending := range m.PendingGhosts {
			if pending == token {
				delete(m.PendingGhosts, slotID)
			}
		}
		ghosts := match.ClonePendingGhosts(m.PendingGhosts)
		if ghosts == nil {
			ghosts = map[int]string{}
		}

		subject := event.Player(playerID)
		return &sessionWrite{
			patch:  match.Patch{PendingGhosts: &ghosts},
			rescan: true,
			inTx: func(ctx context.Context, repos persistence.Repositories, m *match.Match) error {
				items, err := repos.Events.ListByTempSlotID(ctx, token)
				if err != nil {
					return storeError("load ghost events", err)
				}

				ids := make([]int64, 0, len(items))
				resolved = resolved[:0]
				for _, item := range items {
					if item.MatchID != m.ID {
						continue
					}
					if item.TeamID != m.SubjectTeamID {
						return fmt.Errorf("%w: ghost token %q belongs to team %d, subject team is %d",
							ErrInvalidReference, token, item.TeamID, m.SubjectTeamID)
					}
					ids = append(ids, item.ID)
					item.Subject = subject
					resolved = append(resolved, item)
				}
				if len(ids) == 0 {
					return fmt.Errorf("%w: ghost token %q has no events in match %d", ErrNotFound, token, m.ID)
				}

				if err := repos.Events.UpdateMany(ctx, ids, event.Patch{Subject: &subject}); err != nil {
					return storeError("resolve ghost events", err)
				}
				return nil
			},
		}, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	s.engine.observer.GhostResolved(len(resolved))
	s.engine.logger.InfoContext(ctx, "ghost resolved",
		"match_id", s.matchID,
		"token", token,
		"player_id", playerID,
		"events", len(resolved),
	)
	return resolved, nil
}

// ReassignEvent changes the player of an already identified event. A nil
// playerID turns the event back into an unresolved ghost with a fresh token.
func (s *MatchSession) ReassignEvent(ctx context.Context, eventID int64, playerID *int64) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSession.ReassignEvent",
		attribute.Int64("match_id", s.matchID),
		attribute.Int64("event_id", eventID),
	)
	defer span.End()

	if eventID <= 0 {
		return event.Event{}, fmt.Errorf("%w: event id must be greater than zero", ErrInvalidInput)
	}
	if playerID != nil && *playerID <= 0 {
		return event.Event{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return event.Event{}, err
	}

	current, ok, err := s.engine.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, storeError("load event", err)
	}
	if !ok || current.MatchID != s.matchID {
		return event.Event{}, fmt.Errorf("%w: event %d in match %d", ErrNotFound, eventID, s.matchID)
	}
	if _, ghost := current.Subject.Token(); ghost {
		return event.Event{}, fmt.Errorf("%w: event %d is an unresolved ghost, resolve its token instead", ErrInvalidInput, eventID)
	}
	if current.TeamID != s.state.SubjectTeamID {
		return event.Event{}, fmt.Errorf("%w: event %d does not belong to the subject team", ErrInvalidInput, eventID)
	}
	if playerID != nil {
		if _, err := s.engine.rosterPlayer(ctx, current.TeamID, *playerID); err != nil {
			return event.Event{}, err
		}
	}

	updated := current
	_, err = s.run(ctx, "reassign_event", func(m *match.Match) (*sessionWrite, error) {
		w := &sessionWrite{rescan: true}
		if playerID != nil {
			if existing, ok := current.Subject.PlayerID(); ok && existing == *playerID {
				return nil, nil
			}
			updated.Subject = event.Player(*playerID)
		} else {
			token, err := s.engine.mintToken()
			if err != nil {
				return nil, err
			}
			updated.Subject = event.Ghost(token)
			w.minted++
		}

		subject := updated.Subject
		w.inTx = func(ctx context.Context, repos persistence.Repositories, _ *match.Match) error {
			return storeError("reassign event", repos.Events.Update(ctx, eventID, event.Patch{Subject: &subject}))
		}
		return w, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return event.Event{}, err
	}
	return updated, nil
}
