package httpapi

import (
	"net/http"
	"strings"

	"github.com/watter46/footics-sub000/internal/usecase"
)

type recordEventRequest struct {
	TeamID           int64   `json:"team_id" validate:"required,gt=0"`
	PlayerID         *int64  `json:"player_id" validate:"omitempty,gt=0"`
	TempSlotID       *string `json:"temp_slot_id" validate:"omitempty,max=64"`
	Action           string  `json:"action" validate:"required,max=32"`
	MatchTime        string  `json:"match_time" validate:"required"`
	PositionName     string  `json:"position_name" validate:"max=16"`
	OpponentPosition string  `json:"opponent_position" validate:"max=16"`
	Memo             string  `json:"memo" validate:"max=500"`
}

type resolveGhostRequest struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
}

// reassignEventRequest with a null player_id turns the event into a fresh
// ghost.
type reassignEventRequest struct {
	PlayerID *int64 `json:"player_id" validate:"omitempty,gt=0"`
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	matchID, err := pathInt64(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.eventService.List(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list events failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(items))
}

func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordEvent")
	defer span.End()

	matchID, err := pathInt64(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req recordEventRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.eventService.Record(ctx, usecase.RecordEventInput{
		MatchID:          matchID,
		TeamID:           req.TeamID,
		PlayerID:         req.PlayerID,
		TempSlotID:       req.TempSlotID,
		Action:           req.Action,
		MatchTime:        req.MatchTime,
		PositionName:     req.PositionName,
		OpponentPosition: req.OpponentPosition,
		Memo:             req.Memo,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record event failed", "match_id", matchID, "action", req.Action, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, eventToDTO(item))
}

func (h *Handler) ResolveGhost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveGhost")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req resolveGhostRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	token := strings.TrimSpace(r.PathValue("token"))
	items, err := session.ResolveGhost(ctx, token, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve ghost failed",
			"match_id", session.MatchID(),
			"token", token,
			"player_id", req.PlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(items))
}

func (h *Handler) ReassignEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReassignEvent")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	eventID, err := pathInt64(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req reassignEventRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := session.ReassignEvent(ctx, eventID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "reassign event failed", "match_id", session.MatchID(), "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(item))
}
