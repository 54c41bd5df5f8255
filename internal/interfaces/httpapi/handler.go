package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/watter46/footics-sub000/internal/platform/logging"
	"github.com/watter46/footics-sub000/internal/usecase"
)

// HealthChecker reports whether the backing store answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	engine           *usecase.Engine
	matchService     *usecase.MatchService
	eventService     *usecase.EventService
	rosterService    *usecase.RosterService
	reconcileService *usecase.ReconcileService
	health           HealthChecker
	reconcileWorkers int
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	engine *usecase.Engine,
	matchService *usecase.MatchService,
	eventService *usecase.EventService,
	rosterService *usecase.RosterService,
	reconcileService *usecase.ReconcileService,
	health HealthChecker,
	reconcileWorkers int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		engine:           engine,
		matchService:     matchService,
		eventService:     eventService,
		rosterService:    rosterService,
		reconcileService: reconcileService,
		health:           health,
		reconcileWorkers: reconcileWorkers,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.health != nil {
		if err := h.health.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: store ping failed", errUnavailable))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate reads a JSON body into req and runs its validate tags.
func (h *Handler) decodeAndValidate(ctx context.Context, w http.ResponseWriter, r *http.Request, req any) error {
	if err := decodeJSON(w, r, req); err != nil {
		return err
	}
	return h.validateRequest(ctx, req)
}

func (h *Handler) session(ctx context.Context, r *http.Request) (*usecase.MatchSession, error) {
	matchID, err := pathInt64(r, "matchID")
	if err != nil {
		return nil, err
	}
	return h.engine.Session(ctx, matchID)
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	value, err := pathInt64(r, name)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}
