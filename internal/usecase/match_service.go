package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/watter46/footics-sub000/internal/domain/match"
)

type CreateMatchInput struct {
	Date          time.Time
	Team1ID       int64
	Team2ID       int64
	SubjectTeamID int64
}

type MatchService struct {
	matchRepo match.Repository
	now       func() time.Time
}

func NewMatchService(matchRepo match.Repository) *MatchService {
	return &MatchService{matchRepo: matchRepo, now: time.Now}
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	if input.Date.IsZero() {
		input.Date = s.now().UTC()
	}
	if input.SubjectTeamID == 0 {
		input.SubjectTeamID = input.Team1ID
	}

	item := match.Match{
		Date:                    input.Date,
		Team1ID:                 input.Team1ID,
		Team2ID:                 input.Team2ID,
		SubjectTeamID:           input.SubjectTeamID,
		SubstitutedOutPlayerIDs: []int64{},
		PendingGhosts:           map[int]string{},
	}
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.matchRepo.Create(ctx, item)
	if err != nil {
		return match.Match{}, storeError("create match", err)
	}
	return created, nil
}

func (s *MatchService) Get(ctx context.Context, matchID int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	if matchID <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}
	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, storeError("get match", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match %d", ErrNotFound, matchID)
	}
	return item, nil
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, storeError("list matches", err)
	}
	return items, nil
}
