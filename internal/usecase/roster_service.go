package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/watter46/footics-sub000/internal/domain/player"
)

type RosterService struct {
	playerRepo player.Repository
}

func NewRosterService(playerRepo player.Repository) *RosterService {
	return &RosterService{playerRepo: playerRepo}
}

// Replace swaps the whole roster of teamID.
func (s *RosterService) Replace(ctx context.Context, teamID int64, players []player.Player) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Replace")
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	roster := make([]player.Player, 0, len(players))
	for _, p := range players {
		if p.TeamID == 0 {
			p.TeamID = teamID
		}
		p.Name = strings.TrimSpace(p.Name)
		p.Position = strings.ToUpper(strings.TrimSpace(p.Position))
		roster = append(roster, p)
	}
	if err := player.ValidateRoster(teamID, roster); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.ReplaceTeam(ctx, teamID, roster); err != nil {
		return nil, storeError("replace roster", err)
	}
	return s.List(ctx, teamID)
}

func (s *RosterService) List(ctx context.Context, teamID int64) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.List")
	defer span.End()

	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}
	items, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, storeError("list roster", err)
	}
	return items, nil
}
