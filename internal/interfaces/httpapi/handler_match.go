package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/watter46/footics-sub000/internal/usecase"
)

type createMatchRequest struct {
	Date          string `json:"date" validate:"required"`
	Team1ID       int64  `json:"team1_id" validate:"required,gt=0"`
	Team2ID       int64  `json:"team2_id" validate:"required,gt=0"`
	SubjectTeamID int64  `json:"subject_team_id" validate:"omitempty,gt=0"`
}

type subjectTeamRequest struct {
	TeamID int64 `json:"team_id" validate:"required,gt=0"`
}

type formationRequest struct {
	Shape string `json:"shape" validate:"required,max=32"`
}

// parseMatchDate accepts RFC 3339 timestamps or plain calendar dates.
func parseMatchDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: date must be RFC 3339 or YYYY-MM-DD, got %q", usecase.ErrInvalidInput, raw)
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	date, err := parseMatchDate(req.Date)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.Create(ctx, usecase.CreateMatchInput{
		Date:          date,
		Team1ID:       req.Team1ID,
		Team2ID:       req.Team2ID,
		SubjectTeamID: req.SubjectTeamID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	items, err := h.matchService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchWithSlotsToDTO(session.Match(), h.engine.Catalog()))
}

func (h *Handler) ChangeSubjectTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangeSubjectTeam")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req subjectTeamRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := session.ChangeSubjectTeam(ctx, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "change subject team failed", "match_id", session.MatchID(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) ChangeFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangeFormation")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req formationRequest
	if err := h.decodeAndValidate(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := session.ChangeFormation(ctx, strings.TrimSpace(req.Shape))
	if err != nil {
		h.logger.WarnContext(ctx, "change formation failed", "match_id", session.MatchID(), "shape", req.Shape, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, migrationDTO{
		Dropped: append([]int64{}, result.Dropped...),
		Match:   matchWithSlotsToDTO(session.Match(), h.engine.Catalog()),
	})
}

func (h *Handler) GetBench(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBench")
	defer span.End()

	session, err := h.session(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	projection, err := session.Bench(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "bench projection failed", "match_id", session.MatchID(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, benchToDTO(projection))
}
