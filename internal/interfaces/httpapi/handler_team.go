package httpapi

import (
	"net/http"

	"github.com/watter46/footics-sub000/internal/domain/player"
)

type rosterPlayerRequest struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=100"`
	Number   int    `json:"number" validate:"gte=0,lte=99"`
	Position string `json:"position" validate:"max=8"`
}

type replaceRosterRequest struct {
	Players []rosterPlayerRequest `json:"players" validate:"required,dive"`
}

func (h *Handler) ListRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoster")
	defer span.End()

	teamID, err := pathInt64(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.rosterService.List(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list roster failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) ReplaceRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceRoster")
	defer span.End()

	teamID, err := pathInt64(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req replaceRosterRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	players := make([]player.Player, 0, len(req.Players))
	for _, p := range req.Players {
		players = append(players, player.Player{
			ID:       p.ID,
			TeamID:   teamID,
			Name:     p.Name,
			Number:   p.Number,
			Position: p.Position,
		})
	}

	items, err := h.rosterService.Replace(ctx, teamID, players)
	if err != nil {
		h.logger.WarnContext(ctx, "replace roster failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}
