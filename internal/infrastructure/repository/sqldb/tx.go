package sqldb

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/watter46/footics-sub000/internal/domain/persistence"
)

func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, repos persistence.Repositories) error) error {
	return db.runInTx(ctx, func(tx *sqlx.Tx) error {
		return fn(ctx, db.bind(tx))
	})
}

// atomic runs fn on q when q is already a transaction, otherwise in a new one.
func (db *DB) atomic(ctx context.Context, q sqlx.ExtContext, fn func(q sqlx.ExtContext) error) error {
	if tx, ok := q.(*sqlx.Tx); ok {
		return fn(tx)
	}
	return db.runInTx(ctx, func(tx *sqlx.Tx) error { return fn(tx) })
}

func (db *DB) runInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.x.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return crerr.WithSecondaryError(err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit transaction")
	}
	return nil
}
