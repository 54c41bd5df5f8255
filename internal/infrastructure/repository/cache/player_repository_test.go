package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/watter46/footics-sub000/internal/domain/player"
	playermock "github.com/watter46/footics-sub000/internal/mocks/domain/player"
	basecache "github.com/watter46/footics-sub000/internal/platform/cache"
)

func TestPlayerRepository_ListByTeamIsCached(t *testing.T) {
	ctx := context.Background()
	next := playermock.NewRepository(t)
	next.On("ListByTeam", mock.Anything, int64(1)).
		Return([]player.Player{{ID: 10, TeamID: 1, Name: "Endo", Number: 6}}, nil).
		Once()

	repo := NewPlayerRepository(next, basecache.NewStore[int64, []player.Player](time.Minute))

	first, err := repo.ListByTeam(ctx, 1)
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := repo.ListByTeam(ctx, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Endo", second[0].Name)
}

func TestPlayerRepository_ReplaceTeamInvalidates(t *testing.T) {
	ctx := context.Background()
	next := playermock.NewRepository(t)
	next.On("ListByTeam", mock.Anything, int64(1)).
		Return([]player.Player{{ID: 10, TeamID: 1, Name: "Endo"}}, nil).
		Once()
	next.On("ReplaceTeam", mock.Anything, int64(1), mock.Anything).Return(nil).Once()
	next.On("ListByTeam", mock.Anything, int64(1)).
		Return([]player.Player{{ID: 11, TeamID: 1, Name: "Morita"}}, nil).
		Once()

	repo := NewPlayerRepository(next, basecache.NewStore[int64, []player.Player](0))

	_, err := repo.ListByTeam(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceTeam(ctx, 1, []player.Player{{ID: 11, TeamID: 1, Name: "Morita"}}))

	items, err := repo.ListByTeam(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(11), items[0].ID)
}

func TestPlayerRepository_LoadErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	errStore := errors.New("store down")
	next := playermock.NewRepository(t)
	next.On("ListByTeam", mock.Anything, int64(2)).Return(nil, errStore).Once()
	next.On("ListByTeam", mock.Anything, int64(2)).Return([]player.Player{}, nil).Once()

	repo := NewPlayerRepository(next, basecache.NewStore[int64, []player.Player](time.Minute))

	_, err := repo.ListByTeam(ctx, 2)
	require.ErrorIs(t, err, errStore)

	items, err := repo.ListByTeam(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
}
