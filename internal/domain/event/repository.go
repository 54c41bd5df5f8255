package event

import "context"

// Repository exposes the match event log.
type Repository interface {
	Add(ctx context.Context, e Event) (int64, error)
	GetByID(ctx context.Context, id int64) (Event, bool, error)
	Update(ctx context.Context, id int64, patch Patch) error
	// UpdateMany applies patch to every id or to none of them.
	UpdateMany(ctx context.Context, ids []int64, patch Patch) error
	ListByTempSlotID(ctx context.Context, token string) ([]Event, error)
	ListByMatchAndTeam(ctx context.Context, matchID, teamID int64, action Action) ([]Event, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Event, error)
}
