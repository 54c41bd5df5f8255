package app

import (
	"context"
	"fmt"

	"github.com/watter46/footics-sub000/internal/config"
	"github.com/watter46/footics-sub000/internal/domain/persistence"
	"github.com/watter46/footics-sub000/internal/infrastructure/repository/cache"
	"github.com/watter46/footics-sub000/internal/infrastructure/repository/memory"
	"github.com/watter46/footics-sub000/internal/infrastructure/repository/sqldb"
	"github.com/watter46/footics-sub000/internal/interfaces/httpapi"
	"github.com/watter46/footics-sub000/internal/platform/logging"
)

// store is the persistence backend picked by FOOTICS_STORE_DRIVER.
type store struct {
	repos  persistence.Repositories
	tx     persistence.Transactor
	health httpapi.HealthChecker
	close  func() error
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*store, error) {
	var out *store
	switch cfg.StoreDriver {
	case config.StoreMemory:
		mem := memory.NewStore()
		out = &store{
			repos: mem.Repositories(),
			tx:    mem,
			close: func() error { return nil },
		}
	case config.StoreSQLite, config.StorePostgres:
		dialect, err := sqldb.ParseDialect(cfg.StoreDriver)
		if err != nil {
			return nil, err
		}
		db, err := sqldb.Open(ctx, dialect, cfg.DBURL, sqldb.Options{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if cfg.DBAutoMigrate {
			if err := sqldb.MigrateUp(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
			logger.InfoContext(ctx, "database migrations applied", "driver", dialect)
		}
		out = &store{
			repos:  db.Repositories(),
			tx:     db,
			health: db,
			close:  db.Close,
		}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	if cfg.CacheEnabled {
		out.repos = cache.WrapRepositories(out.repos, cfg.CacheTTL)
	}
	logger.InfoContext(ctx, "store ready", "driver", cfg.StoreDriver, "cache_enabled", cfg.CacheEnabled)
	return out, nil
}
