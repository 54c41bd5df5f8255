package persistence

import (
	"context"
	"errors"

	"github.com/watter46/footics-sub000/internal/domain/event"
	"github.com/watter46/footics-sub000/internal/domain/match"
	"github.com/watter46/footics-sub000/internal/domain/player"
)

// ErrNotFound marks store errors caused by a missing row.
var ErrNotFound = errors.New("record not found")

// Repositories is the set of stores bound to one unit of work.
type Repositories struct {
	Matches match.Repository
	Events  event.Repository
	Players player.Repository
}

// Transactor runs fn against repositories that commit together. Returning an
// error from fn discards every write made through them.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
