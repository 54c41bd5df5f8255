package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/watter46/footics-sub000/internal/domain/match"
	matchmock "github.com/watter46/footics-sub000/internal/mocks/domain/match"
)

func TestMatchService_Create_DefaultsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo)
	fixedNow := time.Date(2026, 4, 2, 18, 30, 0, 0, time.UTC)
	service.now = func() time.Time { return fixedNow }

	matchRepo.
		On("Create", mock.Anything, mock.MatchedBy(func(m match.Match) bool {
			return m.Date.Equal(fixedNow) &&
				m.SubjectTeamID == 7 &&
				m.SubstitutedOutPlayerIDs != nil &&
				m.PendingGhosts != nil
		})).
		Return(func(_ context.Context, m match.Match) (match.Match, error) {
			m.ID = 31
			return m, nil
		}).
		Once()

	got, err := service.Create(ctx, CreateMatchInput{Team1ID: 7, Team2ID: 8})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if got.ID != 31 || got.SubjectTeamID != 7 {
		t.Fatalf("unexpected match: %+v", got)
	}
}

func TestMatchService_Create_RejectsSameTeamsUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo)

	_, err := service.Create(context.Background(), CreateMatchInput{Team1ID: 7, Team2ID: 7})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	matchRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMatchService_Get_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo)

	matchRepo.
		On("GetByID", mock.Anything, int64(404)).
		Return(match.Match{}, false, nil).
		Once()

	_, err := service.Get(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_List_StoreFailureUsingMockery(t *testing.T) {
	t.Parallel()

	matchRepo := matchmock.NewRepository(t)
	service := NewMatchService(matchRepo)

	matchRepo.
		On("List", mock.Anything).
		Return(nil, errors.New("connection reset")).
		Once()

	_, err := service.List(context.Background())
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
}
