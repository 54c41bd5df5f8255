package httpapi

import (
	"net/http"
)

type reconcileRequest struct {
	Workers int `json:"workers" validate:"gte=0,lte=64"`
}

// RunReconcile accepts an empty body, which uses the configured worker count.
func (h *Handler) RunReconcile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReconcile")
	defer span.End()

	req := reconcileRequest{Workers: h.reconcileWorkers}
	if r.ContentLength != 0 {
		if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		if req.Workers == 0 {
			req.Workers = h.reconcileWorkers
		}
	}

	report, err := h.reconcileService.Run(ctx, req.Workers)
	if err != nil {
		h.logger.ErrorContext(ctx, "reconcile failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "reconcile finished",
		"matches", report.MatchCount,
		"repaired", report.RepairedCount,
		"failed", report.FailedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, report)
}
