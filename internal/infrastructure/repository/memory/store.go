package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
	"github.com/watter46/footics-sub000/internal/domain/player"
)

// Op names a write operation for failure injection.
type Op string

const (
	OpMatchCreate   Op = "matches.create"
	OpMatchUpdate   Op = "matches.update"
	OpEventAdd      Op = "events.add"
	OpEventUpdate   Op = "events.update"
	OpPlayerReplace Op = "players.replace"
)

type state struct {
	matches     map[int64]match.Match
	events      map[int64]event.Event
	players     map[int64][]player.Player
	nextMatchID int64
	nextEventID int64
}

func newState() *state {
	return &state{
		matches: make(map[int64]match.Match),
		events:  make(map[int64]event.Event),
		players: make(map[int64][]player.Player),
	}
}

func (s *state) clone() *state {
	out := &state{
		matches:     make(map[int64]match.Match, len(s.matches)),
		events:      make(map[int64]event.Event, len(s.events)),
		players:     make(map[int64][]player.Player, len(s.players)),
		nextMatchID: s.nextMatchID,
		nextEventID: s.nextEventID,
	}
	for id, m := range s.matches {
		out.matches[id] = m.Clone()
	}
	for id, e := range s.events {
		out.events[id] = e
	}
	for teamID, roster := range s.players {
		out.players[teamID] = append([]player.Player(nil), roster...)
	}
	return out
}

// Store keeps matches, events and rosters in process memory. Transactions work
// on a private copy that replaces the committed state only when fn succeeds.
type Store struct {
	mu       sync.RWMutex
	state    *state
	failures map[Op]error
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		state:    newState(),
		failures: make(map[Op]error),
		now:      time.Now,
	}
}

// InjectFailure makes every subsequent op write fail with err. A nil err
// removes the failure.
func (s *Store) InjectFailure(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Repositories returns auto-commit repositories over the committed state.
func (s *Store) Repositories() persistence.Repositories {
	return s.bind(committed{store: s})
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos persistence.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(ctx, s.bind(&txView{store: s, state: working})); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *Store) bind(acc access) persistence.Repositories {
	return persistence.Repositories{
		Matches: &MatchRepository{acc: acc},
		Events:  &EventRepository{acc: acc},
		Players: &PlayerRepository{acc: acc},
	}
}

// failure must be called with mu held.
func (s *Store) failure(op Op) error {
	return s.failures[op]
}

type access interface {
	read(fn func(st *state) error) error
	write(op Op, fn func(st *state) error) error
	now() time.Time
}

type committed struct {
	store *Store
}

func (c committed) read(fn func(st *state) error) error {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	return fn(c.store.state)
}

// write applies fn to a copy so a failing fn leaves the committed state as is.
func (c committed) write(op Op, fn func(st *state) error) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if err := c.store.failure(op); err != nil {
		return err
	}
	working := c.store.state.clone()
	if err := fn(working); err != nil {
		return err
	}
	c.store.state = working
	return nil
}

func (c committed) now() time.Time { return c.store.now().UTC() }

type txView struct {
	store *Store
	state *state
}

func (t *txView) read(fn func(st *state) error) error {
	return fn(t.state)
}

func (t *txView) write(op Op, fn func(st *state) error) error {
	if err := t.store.failure(op); err != nil {
		return err
	}
	return fn(t.state)
}

func (t *txView) now() time.Time { return t.store.now().UTC() }

func sortedEvents(items []event.Event) []event.Event {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
