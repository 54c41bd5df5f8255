package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/formation"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
	"github.com/watter46/footics-sub000/internal/domain/player"
	"github.com/watter46/footics-sub000/internal/platform/id"
	"github.com/watter46/footics-sub000/internal/platform/logging"
)

// Engine owns the match sessions of one process. Each match gets its own
// session; nothing is shared between sessions except the stores.
type Engine struct {
	repos    persistence.Repositories
	tx       persistence.Transactor
	catalog  formation.Catalog
	tokens   id.Generator
	logger   *logging.Logger
	observer Observer

	mu       sync.Mutex
	sessions map[int64]*MatchSession
}

func NewEngine(
	repos persistence.Repositories,
	tx persistence.Transactor,
	catalog formation.Catalog,
	tokens id.Generator,
	logger *logging.Logger,
) *Engine {
	if logger == nil {
		logger = logging.Default()
	}

	return &Engine{
		repos:    repos,
		tx:       tx,
		catalog:  catalog,
		tokens:   tokens,
		logger:   logger.Named("engine"),
		observer: noopObserver{},
		sessions: make(map[int64]*MatchSession),
	}
}

func (e *Engine) SetObserver(observer Observer) {
	if observer == nil {
		observer = noopObserver{}
	}
	e.observer = observer
}

func (e *Engine) Catalog() formation.Catalog {
	return e.catalog
}

// Session returns the session of matchID, loading the match from the store.
func (e *Engine) Session(ctx context.Context, matchID int64) (*MatchSession, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	e.mu.Lock()
	session, ok := e.sessions[matchID]
	if !ok {
		session = &MatchSession{engine: e, matchID: matchID}
		e.sessions[matchID] = session
	}
	e.mu.Unlock()

	if err := session.Refresh(ctx); err != nil {
		if errors.Is(err, ErrNotFound) {
			e.Forget(matchID)
		}
		return nil, err
	}
	return session, nil
}

// Forget drops the cached session of matchID.
func (e *Engine) Forget(matchID int64) {
	e.mu.Lock()
	delete(e.sessions, matchID)
	e.mu.Unlock()
}

func (e *Engine) mintToken() (string, error) {
	token, err := e.tokens.NewID()
	if err != nil {
		return "", fmt.Errorf("mint ghost token: %w", err)
	}
	return token, nil
}

func (e *Engine) rosterPlayer(ctx context.Context, teamID, playerID int64) (player.Player, error) {
	roster, err := e.repos.Players.ListByTeam(ctx, teamID)
	if err != nil {
		return player.Player{}, storeError("load roster", err)
	}
	for _, p := range roster {
		if p.ID == playerID {
			return p, nil
		}
	}
	return player.Player{}, fmt.Errorf("%w: player %d is not in the roster of team %d", ErrInvalidReference, playerID, teamID)
}

// rescanSubstitutedOut rebuilds the substituted-out set from every OUT event
// of the team in the match.
func rescanSubstitutedOut(ctx context.Context, events event.Repository, matchID, teamID int64) ([]int64, error) {
	outs, err := events.ListByMatchAndTeam(ctx, matchID, teamID, event.ActionSubOut)
	if err != nil {
		return nil, storeError("scan substitution events", err)
	}

	ids := make([]int64, 0, len(outs))
	for _, e := range outs {
		if playerID, ok := e.Subject.PlayerID(); ok {
			ids = append(ids, playerID)
		}
	}
	return match.NormalizePlayerSet(ids), nil
}
