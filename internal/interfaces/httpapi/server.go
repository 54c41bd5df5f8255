package httpapi

import (
	"net/http"

	"github.com/watter46/footics-sub000/internal/platform/logging"
	"github.com/watter46/footics-sub000/internal/platform/metrics"
)

// NewRouter wires routes and middleware. recorder may be nil, which disables
// GET /metrics and request metrics.
func NewRouter(
	handler *Handler,
	recorder *metrics.Recorder,
	logger *logging.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, recorder)
	registerFormationRoutes(mux, handler)
	registerMatchRoutes(mux, handler)
	registerLineupRoutes(mux, handler)
	registerEventRoutes(mux, handler)
	registerTeamRoutes(mux, handler)
	registerInternalRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, RequestMetrics(recorder, mux)))))
}
