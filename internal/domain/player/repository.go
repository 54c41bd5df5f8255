package player

import "context"

// Repository describes roster persistence needs from use cases.
type Repository interface {
	ListByTeam(ctx context.Context, teamID int64) ([]Player, error)
	ReplaceTeam(ctx context.Context, teamID int64, players []Player) error
}
