package sqldb

import (
	"context"
	"embed"
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator runs the embedded migrations of one dialect against a DB.
type Migrator struct {
	*migrate.Migrate
	release func() error
}

func NewMigrator(ctx context.Context, db *DB) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+string(db.dialect))
	if err != nil {
		return nil, crerr.Wrap(err, "create migration source")
	}

	var (
		driver  database.Driver
		release func() error
	)
	switch db.dialect {
	case DialectSQLite:
		driver, err = sqlite.WithInstance(db.x.DB, &sqlite.Config{})
		// Closing the sqlite driver closes the shared *sql.DB.
		release = src.Close
	case DialectPostgres:
		conn, connErr := db.x.Conn(ctx)
		if connErr != nil {
			_ = src.Close()
			return nil, crerr.Wrap(connErr, "acquire migration connection")
		}
		driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			_ = conn.Close()
		}
		release = func() error {
			return errors.Join(src.Close(), driver.Close())
		}
	default:
		err = crerr.Newf("unsupported dialect %q", db.dialect)
	}
	if err != nil {
		_ = src.Close()
		return nil, crerr.Wrapf(err, "create %s migration driver", db.dialect)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(db.dialect), driver)
	if err != nil {
		_ = release()
		return nil, crerr.Wrap(err, "create migrator")
	}
	return &Migrator{Migrate: m, release: release}, nil
}

// Close releases the migration source and connection but leaves the DB open.
func (m *Migrator) Close() error {
	return m.release()
}

// MigrateUp applies every pending migration. No change is not an error.
func MigrateUp(ctx context.Context, db *DB) error {
	m, err := NewMigrator(ctx, db)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return crerr.Wrap(err, "apply migrations")
	}
	return nil
}
