package usecase

// optimistic snapshots *state, applies the change in memory, then persists.
// If apply or persist fails, *state is restored to the snapshot. apply
// reports whether anything changed; unchanged state is not persisted.
func optimistic[T any](
	state *T,
	clone func(T) T,
	apply func(*T) (bool, error),
	persist func(*T) error,
) (bool, error) {
	snapshot := clone(*state)

	changed, err := apply(state)
	if err != nil {
		*state = snapshot
		return false, err
	}
	if !changed {
		return false, nil
	}
	if err := persist(state); err != nil {
		*state = snapshot
		return false, err
	}
	return true, nil
}
