package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/watter46/footics-sub000/internal/config"
	"github.com/watter46/footics-sub000/internal/domain/formation"
	"github.com/watter46/footics-sub000/internal/interfaces/httpapi"
	"github.com/watter46/footics-sub000/internal/platform/id"
	"github.com/watter46/footics-sub000/internal/platform/logging"
	"github.com/watter46/footics-sub000/internal/platform/metrics"
	"github.com/watter46/footics-sub000/internal/usecase"
)

// App holds the wired service. Close releases the store.
type App struct {
	Server    *http.Server
	Engine    *usecase.Engine
	Reconcile *usecase.ReconcileService

	cfg    config.Config
	logger *logging.Logger
	store  *store
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	catalog := formation.DefaultCatalog()
	engine := usecase.NewEngine(st.repos, st.tx, catalog, id.NewUUIDGenerator("ghost-"), logger)
	reconcileSvc := usecase.NewReconcileService(st.repos, st.tx, catalog, logger)

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.New()
		engine.SetObserver(recorder)
		reconcileSvc.SetObserver(recorder)
	}

	handler := httpapi.NewHandler(
		engine,
		usecase.NewMatchService(st.repos.Matches),
		usecase.NewEventService(st.repos),
		usecase.NewRosterService(st.repos.Players),
		reconcileSvc,
		st.health,
		cfg.ReconcileWorkers,
		logger,
	)
	router := httpapi.NewRouter(handler, recorder, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = st.close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:    server,
		Engine:    engine,
		Reconcile: reconcileSvc,
		cfg:       cfg,
		logger:    logger,
		store:     st,
	}, nil
}

// ReconcileOnStart repairs persisted lineups before traffic is served. It is
// a no-op unless FOOTICS_RECONCILE_ON_START is set.
func (a *App) ReconcileOnStart(ctx context.Context) error {
	if !a.cfg.ReconcileOnStart {
		return nil
	}
	report, err := a.Reconcile.Run(ctx, a.cfg.ReconcileWorkers)
	if err != nil {
		return fmt.Errorf("startup reconcile: %w", err)
	}
	if report.FailedCount > 0 {
		a.logger.WarnContext(ctx, "startup reconcile left failed matches",
			"matches", report.MatchCount,
			"failed", report.FailedCount,
		)
	}
	return nil
}

func (a *App) Close() error {
	return a.store.close()
}
