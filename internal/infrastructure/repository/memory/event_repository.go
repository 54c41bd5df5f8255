package memory

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
)

type EventRepository struct {
	acc access
}

func (r *EventRepository) Add(_ context.Context, e event.Event) (int64, error) {
	var id int64
	err := r.acc.write(OpEventAdd, func(st *state) error {
		if _, ok := st.matches[e.MatchID]; !ok {
			return crerr.Mark(crerr.Newf("match %d does not exist", e.MatchID), persistence.ErrNotFound)
		}
		st.nextEventID++
		e.ID = st.nextEventID
		e.CreatedAt = r.acc.now()
		st.events[e.ID] = e
		id = e.ID
		return nil
	})
	if err != nil {
		return 0, crerr.Wrap(err, "add event")
	}
	return id, nil
}

func (r *EventRepository) GetByID(_ context.Context, id int64) (event.Event, bool, error) {
	var (
		out    event.Event
		exists bool
	)
	err := r.acc.read(func(st *state) error {
		out, exists = st.events[id]
		return nil
	})
	return out, exists, err
}

func (r *EventRepository) Update(ctx context.Context, id int64, patch event.Patch) error {
	return r.UpdateMany(ctx, []int64{id}, patch)
}

func (r *EventRepository) UpdateMany(_ context.Context, ids []int64, patch event.Patch) error {
	err := r.acc.write(OpEventUpdate, func(st *state) error {
		for _, id := range ids {
			if _, ok := st.events[id]; !ok {
				return crerr.Mark(crerr.Newf("event %d does not exist", id), persistence.ErrNotFound)
			}
		}
		for _, id := range ids {
			st.events[id] = applyEventPatch(st.events[id], patch)
		}
		return nil
	})
	if err != nil {
		return crerr.Wrapf(err, "update %d events", len(ids))
	}
	return nil
}

func (r *EventRepository) ListByTempSlotID(_ context.Context, token string) ([]event.Event, error) {
	return r.filter(func(e event.Event) bool {
		got, ok := e.Subject.Token()
		return ok && got == token
	})
}

func (r *EventRepository) ListByMatchAndTeam(_ context.Context, matchID, teamID int64, action event.Action) ([]event.Event, error) {
	return r.filter(func(e event.Event) bool {
		return e.MatchID == matchID && e.TeamID == teamID && e.Action == action
	})
}

func (r *EventRepository) ListByMatch(_ context.Context, matchID int64) ([]event.Event, error) {
	return r.filter(func(e event.Event) bool { return e.MatchID == matchID })
}

func (r *EventRepository) filter(keep func(event.Event) bool) ([]event.Event, error) {
	out := []event.Event{}
	err := r.acc.read(func(st *state) error {
		for _, e := range st.events {
			if keep(e) {
				out = append(out, e)
			}
		}
		return nil
	})
	return sortedEvents(out), err
}

func applyEventPatch(e event.Event, patch event.Patch) event.Event {
	if patch.Subject != nil {
		e.Subject = *patch.Subject
	}
	if patch.Memo != nil {
		e.Memo = *patch.Memo
	}
	return e
}
