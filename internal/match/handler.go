package match

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eduspark/arena-platform/internal/arena"
	httperrors "github.com/eduspark/arena-platform/pkg/http/errors"
	"github.com/eduspark/arena-platform/pkg/http/ws"
)

// WSHandler routes WebSocket messages from one client into the match service.
// Each connection gets its own handler so replies can target the sender while
// state updates still flow through the hub broadcast.
type WSHandler struct {
	service *Service
	hub     *ws.Hub
	logger  zerolog.Logger
}

// NewWSHandler creates a message handler for the arena socket.
func NewWSHandler(service *Service, hub *ws.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{service: service, hub: hub, logger: logger}
}

// HandleMessage dispatches one client message. Protocol failures are reported
// back to the sender as error messages, never as a dropped connection.
func (h *WSHandler) HandleMessage(ctx context.Context, clientID uuid.UUID, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeStartMatch:
		return h.handleStartMatch(ctx, clientID, msg)
	case ws.TypeSubmitAnswer:
		return h.handleSubmitAnswer(ctx, clientID, msg)
	case ws.TypeWatchMatch:
		return h.handleWatchMatch(ctx, clientID, msg)
	case ws.TypeLeaveMatch:
		return h.handleLeaveMatch(clientID, msg)
	case ws.TypeCancelMatch:
		return h.handleCancelMatch(ctx, clientID, msg)
	case ws.TypeRequestState:
		return h.handleRequestState(ctx, clientID, msg)
	default:
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeUnknownMessageType, "unknown message type "+msg.Type)
	}
}

func (h *WSHandler) handleStartMatch(ctx context.Context, clientID uuid.UUID, msg ws.Message) error {
	var payload ws.StartMatchPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "malformed start_match payload")
	}

	result, err := h.service.StartMatch(ctx, StartRequest{
		ThemeID:        payload.ThemeID,
		Subject:        payload.Subject,
		Difficulty:     payload.Difficulty,
		QuestionCount:  payload.QuestionCount,
		ComebackAssist: payload.ComebackAssist,
	})
	if err != nil {
		return h.sendError(clientID, msg.RequestID, startErrorCode(err), err.Error())
	}

	h.hub.Watch(result.MatchID, clientID)
	return h.reply(clientID, msg.RequestID, ws.TypeMatchStarted, ws.MatchStartedPayload{
		MatchID:       result.MatchID.String(),
		ThemeID:       result.ThemeID,
		ThemeName:     result.ThemeName,
		QuestionCount: result.QuestionCount,
		State:         result.State,
	})
}

func (h *WSHandler) handleSubmitAnswer(ctx context.Context, clientID uuid.UUID, msg ws.Message) error {
	var payload ws.SubmitAnswerPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "malformed submit_answer payload")
	}
	matchID, err := uuid.Parse(payload.MatchID)
	if err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidMatchID, "malformed match id")
	}

	var answer any
	if len(payload.Answer) > 0 {
		if err := json.Unmarshal(payload.Answer, &answer); err != nil {
			return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "malformed answer value")
		}
	}

	outcome, err := h.service.SubmitAnswer(ctx, SubmitRequest{
		MatchID:   matchID,
		Team:      arena.TeamID(payload.Team),
		Answer:    answer,
		ElapsedMs: payload.ElapsedMs,
	})
	if errors.Is(err, ErrMatchNotFound) {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeMatchNotFound, "no live match for id")
	}
	if err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInternalError, "answer submission failed")
	}

	ack := ws.AnswerAckPayload{
		MatchID:  payload.MatchID,
		Team:     payload.Team,
		Accepted: outcome.Accepted,
		Reason:   outcome.Reason,
	}
	if outcome.Accepted {
		ack.Result = outcome.Result
	}
	return h.reply(clientID, msg.RequestID, ws.TypeAnswerAck, ack)
}

func (h *WSHandler) handleWatchMatch(ctx context.Context, clientID uuid.UUID, msg ws.Message) error {
	var payload ws.WatchMatchPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "malformed watch_match payload")
	}
	matchID, err := uuid.Parse(payload.MatchID)
	if err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidMatchID, "malformed match id")
	}

	h.hub.Watch(matchID, clientID)
	// Seed the new watcher with current state so it renders before the next
	// broadcast.
	return h.pushState(ctx, clientID, msg.RequestID, matchID)
}

func (h *WSHandler) handleLeaveMatch(clientID uuid.UUID, msg ws.Message) error {
	var payload ws.LeaveMatchPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "malformed leave_match payload")
	}
	matchID, err := uuid.Parse(payload.MatchID)
	if err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidMatchID, "malformed match id")
	}
	h.hub.Unwatch(matchID, clientID)
	return nil
}

func (h *WSHandler) handleCancelMatch(ctx context.Context, clientID uuid.UUID, msg ws.Message) error {
	var payload ws.CancelMatchPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "malformed cancel_match payload")
	}
	matchID, err := uuid.Parse(payload.MatchID)
	if err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidMatchID, "malformed match id")
	}

	var forfeitedBy *arena.TeamID
	if payload.ForfeitedBy != "" {
		team := arena.TeamID(payload.ForfeitedBy)
		if !team.Valid() {
			return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "unknown forfeiting team")
		}
		forfeitedBy = &team
	}

	err = h.service.CancelMatch(ctx, matchID, forfeitedBy)
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeMatchNotFound, "no live match for id")
	case err != nil:
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeCancelFailed, err.Error())
	}
	return nil
}

func (h *WSHandler) handleRequestState(ctx context.Context, clientID uuid.UUID, msg ws.Message) error {
	var payload ws.RequestStatePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidPayload, "malformed request_state payload")
	}
	matchID, err := uuid.Parse(payload.MatchID)
	if err != nil {
		return h.sendError(clientID, msg.RequestID, httperrors.ErrCodeInvalidMatchID, "malformed match id")
	}
	return h.pushState(ctx, clientID, msg.RequestID, matchID)
}

func (h *WSHandler) pushState(ctx context.Context, clientID uuid.UUID, requestID string, matchID uuid.UUID) error {
	state, err := h.service.GetState(ctx, matchID)
	if errors.Is(err, ErrMatchNotFound) {
		return h.sendError(clientID, requestID, httperrors.ErrCodeMatchNotFound, "no state for match id")
	}
	if err != nil {
		return h.sendError(clientID, requestID, httperrors.ErrCodeInternalError, "state lookup failed")
	}
	return h.reply(clientID, requestID, ws.TypeStateUpdate, ws.StateUpdatePayload{
		MatchID:     matchID.String(),
		Phase:       string(state.State.Phase),
		State:       state.State,
		VisualState: state.VisualState,
	})
}

func (h *WSHandler) reply(clientID uuid.UUID, requestID, msgType string, payload any) error {
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	msg.RequestID = requestID
	return h.hub.SendToClient(clientID, msg)
}

func (h *WSHandler) sendError(clientID uuid.UUID, requestID, code, message string) error {
	h.logger.Debug().Str("client_id", clientID.String()).Str("code", code).Msg(message)
	return h.reply(clientID, requestID, ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
}

// startErrorCode maps a start failure onto a protocol error code.
func startErrorCode(err error) string {
	var cfgErr *arena.ConfigError
	var valErr *arena.ValidationError
	switch {
	case errors.Is(err, ErrUnknownTheme):
		return httperrors.ErrCodeUnknownTheme
	case errors.As(err, &valErr), errors.As(err, &cfgErr):
		return httperrors.ErrCodeValidationFailed
	default:
		return httperrors.ErrCodeMatchCreationFailed
	}
}
