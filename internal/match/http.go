package match

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eduspark/arena-platform/internal/arena"
	httperrors "github.com/eduspark/arena-platform/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for match operations.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for match endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "match_http").Logger(),
	}
}

// StartMatch handles POST /v1/matches.
func (h *HTTPHandlers) StartMatch(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid JSON payload")
		return
	}
	if req.ThemeID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "theme_id is required", "theme_id")
		return
	}

	result, err := h.service.StartMatch(r.Context(), req)
	if err != nil {
		h.respondStartError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, result)
}

// SubmitAnswer handles POST /v1/matches/{id}/answers.
func (h *HTTPHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var body struct {
		Team      string          `json:"team"`
		Answer    json.RawMessage `json:"answer"`
		ElapsedMs int64           `json:"elapsed_ms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid JSON payload")
		return
	}

	var answer any
	if len(body.Answer) > 0 {
		if err := json.Unmarshal(body.Answer, &answer); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed answer value")
			return
		}
	}

	outcome, err := h.service.SubmitAnswer(r.Context(), SubmitRequest{
		MatchID:   matchID,
		Team:      arena.TeamID(body.Team),
		Answer:    answer,
		ElapsedMs: body.ElapsedMs,
	})
	if errors.Is(err, ErrMatchNotFound) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeMatchNotFound, "no live match for id")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("match_id", matchID.String()).Msg("answer submission failed")
		httperrors.RespondInternalError(w, "answer submission failed")
		return
	}

	// A rejected submission is a well-formed request the rules refused, so it
	// still answers 200 with the reason code.
	h.respondJSON(w, http.StatusOK, outcome)
}

// CancelMatch handles POST /v1/matches/{id}/cancel.
func (h *HTTPHandlers) CancelMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var body struct {
		ForfeitedBy string `json:"forfeited_by,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid JSON payload")
			return
		}
	}

	var forfeitedBy *arena.TeamID
	if body.ForfeitedBy != "" {
		team := arena.TeamID(body.ForfeitedBy)
		if !team.Valid() {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "unknown forfeiting team", "forfeited_by")
			return
		}
		forfeitedBy = &team
	}

	err := h.service.CancelMatch(r.Context(), matchID, forfeitedBy)
	switch {
	case errors.Is(err, ErrMatchNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeMatchNotFound, "no live match for id")
	case err != nil:
		httperrors.RespondConflict(w, httperrors.ErrCodeCancelFailed, err.Error())
	default:
		h.respondJSON(w, http.StatusOK, map[string]any{"cancelled": true})
	}
}

// GetMatch handles GET /v1/matches/{id}.
func (h *HTTPHandlers) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	state, err := h.service.GetState(r.Context(), matchID)
	if errors.Is(err, ErrMatchNotFound) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeMatchNotFound, "no state for match id")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("match_id", matchID.String()).Msg("state lookup failed")
		httperrors.RespondInternalError(w, "state lookup failed")
		return
	}
	h.respondJSON(w, http.StatusOK, state)
}

// GetEvents handles GET /v1/matches/{id}/events.
func (h *HTTPHandlers) GetEvents(w http.ResponseWriter, r *http.Request) {
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	events, err := h.service.GetEvents(r.Context(), matchID)
	if errors.Is(err, ErrMatchNotFound) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeMatchNotFound, "no state for match id")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("match_id", matchID.String()).Msg("event lookup failed")
		httperrors.RespondInternalError(w, "event lookup failed")
		return
	}
	if events == nil {
		events = []arena.Event{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"match_id": matchID, "events": events})
}

// GetResult handles GET /v1/matches/{id}/result.
func (h *HTTPHandlers) GetResult(w http.ResponseWriter, r *http.Request) {
	matchID, ok := h.matchID(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetResult(r.Context(), matchID)
	if errors.Is(err, ErrResultNotFound) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeResultNotFound, "no archived result for match id")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("match_id", matchID.String()).Msg("result lookup failed")
		httperrors.RespondInternalError(w, "result lookup failed")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// ListMatches handles GET /v1/matches: the matches live on this instance.
func (h *HTTPHandlers) ListMatches(w http.ResponseWriter, r *http.Request) {
	live := h.service.ListLive()
	if live == nil {
		live = []Info{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"matches": live})
}

// ListResults handles GET /v1/results?limit=N: recent archived matches.
func (h *HTTPHandlers) ListResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "limit must be a non-negative integer", "limit")
			return
		}
		limit = n
	}

	results, err := h.service.ListRecentResults(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("result list failed")
		httperrors.RespondInternalError(w, "result list failed")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

// ListThemes handles GET /v1/themes.
func (h *HTTPHandlers) ListThemes(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{"themes": h.service.ListThemes()})
}

func (h *HTTPHandlers) matchID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidMatchID, "malformed match id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *HTTPHandlers) respondStartError(w http.ResponseWriter, err error) {
	var cfgErr *arena.ConfigError
	var valErr *arena.ValidationError
	switch {
	case errors.Is(err, ErrUnknownTheme):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnknownTheme, err.Error())
	case errors.As(err, &valErr):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, valErr.Message, valErr.Field)
	case errors.As(err, &cfgErr):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, cfgErr.Message, cfgErr.Field)
	default:
		h.logger.Error().Err(err).Msg("match start failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeMatchCreationFailed, "match start failed")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("response encode failed")
	}
}
