package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/watter46/footics-sub000/internal/usecase"
)

func (h *Handler) ListFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormations")
	defer span.End()

	catalog := h.engine.Catalog()
	shapes := catalog.Shapes()
	out := make([]formationDTO, 0, len(shapes))
	for _, shape := range shapes {
		slots, _ := catalog.Lookup(shape)
		out = append(out, formationToDTO(shape, slots))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFormation")
	defer span.End()

	shape := strings.TrimSpace(r.PathValue("shape"))
	slots, ok := h.engine.Catalog().Lookup(shape)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: formation %q", usecase.ErrNotFound, shape))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, formationToDTO(shape, slots))
}
