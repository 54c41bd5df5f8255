package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	List(ctx context.Context) ([]Match, error)
	Create(ctx context.Context, m Match) (Match, error)
	// Update applies patch and returns the number of affected rows.
	Update(ctx context.Context, id int64, patch Patch) (int64, error)
}
