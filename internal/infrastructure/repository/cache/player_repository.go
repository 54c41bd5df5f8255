package cache

import (
	"context"
	"time"

	"github.com/watter46/footics-sub000/internal/domain/persistence"
	"github.com/watter46/footics-sub000/internal/domain/player"
	basecache "github.com/watter46/footics-sub000/internal/platform/cache"
)

// PlayerRepository keeps team rosters in process. Rosters are read on every
// lineup mutation and only change through ReplaceTeam.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store[int64, []player.Player]
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store[int64, []player.Player]) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	items, err := r.cache.GetOrLoad(ctx, teamID, func(ctx context.Context) ([]player.Player, error) {
		items, err := r.next.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]player.Player(nil), items...), nil
}

// ReplaceTeam drops the cached roster even when the write fails, since a
// partial failure leaves the store state unknown.
func (r *PlayerRepository) ReplaceTeam(ctx context.Context, teamID int64, players []player.Player) error {
	defer r.cache.Delete(ctx, teamID)
	return r.next.ReplaceTeam(ctx, teamID, players)
}

// WrapRepositories puts the roster cache in front of repos.Players. A zero
// ttl keeps rosters until they are replaced.
func WrapRepositories(repos persistence.Repositories, ttl time.Duration) persistence.Repositories {
	repos.Players = NewPlayerRepository(repos.Players, basecache.NewStore[int64, []player.Player](ttl))
	return repos
}
