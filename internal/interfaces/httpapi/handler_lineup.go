package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/watter46/footics-sub000/internal/usecase"
)

type assignSlotRequest struct {
	PlayerID         int64  `json:"player_id" validate:"required,gt=0"`
	SubstitutionMode bool   `json:"substitution_mode"`
	MatchTime        string `json:"match_time" validate:"required_if=SubstitutionMode true"`
}

type swapSlotsRequest struct {
	SlotA int `json:"slot_a" validate:"required,gt=0"`
	SlotB int `json:"slot_b" validate:"required,gt=0"`
}

func (h *Handler) GetSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSlot")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	slotID, err := pathInt(r, "slotID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	m := session.Match()
	slots, ok := h.engine.Catalog().Lookup(m.CurrentFormation)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: match %d has no formation", usecase.ErrInvalidInput, m.ID))
		return
	}
	slot, ok := slots.ByID(slotID)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: slot %d is not part of formation %s", usecase.ErrInvalidReference, slotID, m.CurrentFormation))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, occupantToDTO(slot, session.Occupant(slotID)))
}

func (h *Handler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignSlot")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	slotID, err := pathInt(r, "slotID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req assignSlotRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := session.Assign(ctx, slotID, req.PlayerID, usecase.MutationOptions{
		SubstitutionMode: req.SubstitutionMode,
		MatchTime:        req.MatchTime,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "assign slot failed",
			"match_id", session.MatchID(),
			"slot_id", slotID,
			"player_id", req.PlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mutationToDTO(res, h.engine.Catalog()))
}

// ClearSlot takes substitution_mode and match_time from the query string.
func (h *Handler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearSlot")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	slotID, err := pathInt(r, "slotID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	substitutionMode, err := queryBool(r, "substitution_mode")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := session.Clear(ctx, slotID, usecase.MutationOptions{
		SubstitutionMode: substitutionMode,
		MatchTime:        strings.TrimSpace(r.URL.Query().Get("match_time")),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "clear slot failed", "match_id", session.MatchID(), "slot_id", slotID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mutationToDTO(res, h.engine.Catalog()))
}

func (h *Handler) SwapSlots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapSlots")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req swapSlotsRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := session.Swap(ctx, req.SlotA, req.SlotB)
	if err != nil {
		h.logger.WarnContext(ctx, "swap slots failed", "match_id", session.MatchID(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mutationToDTO(res, h.engine.Catalog()))
}
