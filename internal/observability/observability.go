// Package observability starts and stops the process-wide telemetry:
// Uptrace tracing, Pyroscope profiling and the pprof side server.
package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/watter46/footics-sub000/internal/config"
	"github.com/watter46/footics-sub000/internal/platform/logging"
)

type Runtime struct {
	logger          *logging.Logger
	shutdownTracing func(context.Context) error
	stopProfiler    func() error
	pprof           *http.Server
}

// Start brings up every enabled component. When one fails, the ones already
// started are stopped before the error is returned.
func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{
		logger:          logger.Named("observability"),
		shutdownTracing: func(context.Context) error { return nil },
		stopProfiler:    func() error { return nil },
	}

	var err error
	if rt.shutdownTracing, err = startTracing(cfg, rt.logger); err != nil {
		return nil, fmt.Errorf("start uptrace: %w", err)
	}
	if rt.stopProfiler, err = startProfiler(cfg, rt.logger); err != nil {
		_ = rt.shutdownTracing(context.Background())
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	if rt.pprof, err = startPprof(cfg, rt.logger); err != nil {
		_ = rt.stopProfiler()
		_ = rt.shutdownTracing(context.Background())
		return nil, fmt.Errorf("start pprof server on %s: %w", cfg.PprofAddr, err)
	}
	return rt, nil
}

// PprofAddr is the bound pprof address, or empty when pprof is off.
func (rt *Runtime) PprofAddr() string {
	if rt.pprof == nil {
		return ""
	}
	return rt.pprof.Addr
}

// Shutdown stops components in reverse start order and flushes spans last so
// shutdown work is still traced.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	err := errors.Join(
		stopPprof(ctx, rt.pprof),
		rt.stopProfiler(),
		rt.shutdownTracing(ctx),
	)
	if err != nil {
		rt.logger.WarnContext(ctx, "observability shutdown incomplete", "error", err)
		return err
	}
	rt.logger.InfoContext(ctx, "observability stopped")
	return nil
}
