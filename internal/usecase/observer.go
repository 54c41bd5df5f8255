package usecase

// Observer receives engine outcomes for metrics.
type Observer interface {
	MutationApplied(op string)
	MutationRolledBack(op string)
	GhostMinted()
	GhostResolved(events int)
	PlayersDropped(count int)
	ReconcileFinished(matches, changed, failed int)
}

type noopObserver struct{}

func (noopObserver) MutationApplied(string)          {}
func (noopObserver) MutationRolledBack(string)       {}
func (noopObserver) GhostMinted()                    {}
func (noopObserver) GhostResolved(int)               {}
func (noopObserver) PlayersDropped(int)              {}
func (noopObserver) ReconcileFinished(int, int, int) {}
