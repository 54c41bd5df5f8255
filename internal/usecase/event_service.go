package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
)

type RecordEventInput struct {
	MatchID          int64
	TeamID           int64
	PlayerID         *int64
	TempSlotID       *string
	Action           string
	MatchTime        string
	PositionName     string
	OpponentPosition string
	Memo             string
}

// EventService records non-substitution actions. Substitution events are
// written by match sessions only.
type EventService struct {
	repos persistence.Repositories
	now   func() time.Time
}

func NewEventService(repos persistence.Repositories) *EventService {
	return &EventService{repos: repos, now: time.Now}
}

func (s *EventService) Record(ctx context.Context, input RecordEventInput) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Record")
	defer span.End()

	input.Action = strings.ToUpper(strings.TrimSpace(input.Action))
	input.MatchTime = strings.TrimSpace(input.MatchTime)
	input.OpponentPosition = strings.TrimSpace(input.OpponentPosition)

	if input.MatchID <= 0 || input.TeamID <= 0 {
		return event.Event{}, fmt.Errorf("%w: match_id and team_id are required", ErrInvalidInput)
	}
	if input.Action == "" {
		return event.Event{}, fmt.Errorf("%w: action is required", ErrInvalidInput)
	}
	if event.Action(input.Action).IsSubstitution() {
		return event.Event{}, fmt.Errorf("%w: %s is recorded through lineup changes in substitution mode", ErrInvalidInput, input.Action)
	}
	if !event.ValidMatchTime(input.MatchTime) {
		return event.Event{}, fmt.Errorf("%w: match_time must be MM:SS", ErrInvalidInput)
	}
	if input.PlayerID != nil && input.TempSlotID != nil {
		return event.Event{}, fmt.Errorf("%w: player_id and temp_slot_id are mutually exclusive", ErrInvalidInput)
	}

	m, err := s.loadMatch(ctx, input.MatchID)
	if err != nil {
		return event.Event{}, err
	}
	if !m.HasTeam(input.TeamID) {
		return event.Event{}, fmt.Errorf("%w: team %d is not playing match %d", ErrInvalidReference, input.TeamID, m.ID)
	}

	subject, err := s.subject(ctx, m, input)
	if err != nil {
		return event.Event{}, err
	}

	item := event.Event{
		MatchID:          m.ID,
		TeamID:           input.TeamID,
		Subject:          subject,
		Action:           event.Action(input.Action),
		MatchTime:        input.MatchTime,
		PositionName:     strings.TrimSpace(input.PositionName),
		OpponentPosition: input.OpponentPosition,
		Memo:             strings.TrimSpace(input.Memo),
	}
	if err := item.Validate(); err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	eventID, err := s.repos.Events.Add(ctx, item)
	if err != nil {
		return event.Event{}, storeError("add event", err)
	}
	item.ID = eventID
	item.CreatedAt = s.now().UTC()
	return item, nil
}

func (s *EventService) List(ctx context.Context, matchID int64) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.List")
	defer span.End()

	if _, err := s.loadMatch(ctx, matchID); err != nil {
		return nil, err
	}
	items, err := s.repos.Events.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, storeError("list events", err)
	}
	return items, nil
}

func (s *EventService) loadMatch(ctx context.Context, matchID int64) (match.Match, error) {
	if matchID <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}
	m, ok, err := s.repos.Matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, storeError("load match", err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match %d", ErrNotFound, matchID)
	}
	return m, nil
}

// subject checks who the event is about. Subject team events need a roster
// player or a ghost token already known to the match; opponent events only
// carry a position.
func (s *EventService) subject(ctx context.Context, m match.Match, input RecordEventInput) (event.Subject, error) {
	if input.TeamID != m.SubjectTeamID {
		if input.PlayerID != nil || input.TempSlotID != nil {
			return event.Subject{}, fmt.Errorf("%w: opponent events cannot reference players", ErrInvalidInput)
		}
		if input.OpponentPosition == "" {
			return event.Subject{}, fmt.Errorf("%w: opponent_position is required for opponent events", ErrInvalidInput)
		}
		return event.None(), nil
	}

	switch {
	case input.PlayerID != nil:
		roster, err := s.repos.Players.ListByTeam(ctx, input.TeamID)
		if err != nil {
			return event.Subject{}, storeError("load roster", err)
		}
		for _, p := range roster {
			if p.ID == *input.PlayerID {
				return event.Player(p.ID), nil
			}
		}
		return event.Subject{}, fmt.Errorf("%w: player %d is not in the roster of team %d", ErrInvalidReference, *input.PlayerID, input.TeamID)
	case input.TempSlotID != nil:
		token := strings.TrimSpace(*input.TempSlotID)
		for _, pending := range m.PendingGhosts {
			if pending == token {
				return event.Ghost(token), nil
			}
		}
		items, err := s.repos.Events.ListByTempSlotID(ctx, token)
		if err != nil {
			return event.Subject{}, storeError("load ghost events", err)
		}
		for _, item := range items {
			if item.MatchID == m.ID {
				return event.Ghost(token), nil
			}
		}
		return event.Subject{}, fmt.Errorf("%w: ghost token %q is unknown in match %d", ErrInvalidReference, token, m.ID)
	default:
		return event.Subject{}, fmt.Errorf("%w: player_id or temp_slot_id is required for subject team events", ErrInvalidInput)
	}
}
