package memory

import (
	"context"
	"sort"

	crerr "github.com/cockroachdb/errors"

	"github.com/watter46/footics-sub000/internal/domain/match"
)

type MatchRepository struct {
	acc access
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	var (
		out    match.Match
		exists bool
	)
	err := r.acc.read(func(st *state) error {
		item, ok := st.matches[id]
		if ok {
			out, exists = item.Clone(), true
		}
		return nil
	})
	return out, exists, err
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	var out []match.Match
	err := r.acc.read(func(st *state) error {
		out = make([]match.Match, 0, len(st.matches))
		for _, m := range st.matches {
			out = append(out, m.Clone())
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) (match.Match, error) {
	err := r.acc.write(OpMatchCreate, func(st *state) error {
		if m.ID == 0 {
			st.nextMatchID++
			m.ID = st.nextMatchID
		} else if _, exists := st.matches[m.ID]; exists {
			return crerr.Newf("match %d already exists", m.ID)
		} else if m.ID > st.nextMatchID {
			st.nextMatchID = m.ID
		}
		now := r.acc.now()
		m.CreatedAt, m.UpdatedAt = now, now
		st.matches[m.ID] = m.Clone()
		return nil
	})
	if err != nil {
		return match.Match{}, crerr.Wrap(err, "create match")
	}
	return m, nil
}

func (r *MatchRepository) Update(_ context.Context, id int64, patch match.Patch) (int64, error) {
	var affected int64
	err := r.acc.write(OpMatchUpdate, func(st *state) error {
		current, ok := st.matches[id]
		if !ok {
			return nil
		}
		updated := patch.Apply(current)
		updated.UpdatedAt = r.acc.now()
		st.matches[id] = updated
		affected = 1
		return nil
	})
	if err != nil {
		return 0, crerr.Wrapf(err, "update match %d", id)
	}
	return affected, nil
}
