package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeStartMatch   = "start_match"
	TypeSubmitAnswer = "submit_answer"
	TypeWatchMatch   = "watch_match"
	TypeLeaveMatch   = "leave_match"
	TypeCancelMatch  = "cancel_match"
	TypeRequestState = "request_state"

	// Server -> Client
	TypeMatchStarted  = "match_started"
	TypeStateUpdate   = "state_update"
	TypeAnswerAck     = "answer_ack"
	TypeMatchComplete = "match_complete"
	TypeError         = "error"
	TypePing          = "ping"
	TypePong          = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client Messages (incoming)

type StartMatchPayload struct {
	ThemeID        string `json:"theme_id"`
	Subject        string `json:"subject,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
	QuestionCount  int    `json:"question_count,omitempty"`
	ComebackAssist bool   `json:"comeback_assist,omitempty"`
}

type SubmitAnswerPayload struct {
	MatchID   string          `json:"match_id"`
	Team      string          `json:"team"`
	Answer    json.RawMessage `json:"answer"`
	ElapsedMs int64           `json:"elapsed_ms"`
}

type WatchMatchPayload struct {
	MatchID string `json:"match_id"`
}

type LeaveMatchPayload struct {
	MatchID string `json:"match_id"`
}

type CancelMatchPayload struct {
	MatchID     string `json:"match_id"`
	ForfeitedBy string `json:"forfeited_by,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type RequestStatePayload struct {
	MatchID string `json:"match_id"`
}

// Server Messages (outgoing)

type MatchStartedPayload struct {
	MatchID       string `json:"match_id"`
	ThemeID       string `json:"theme_id"`
	ThemeName     string `json:"theme_name"`
	QuestionCount int    `json:"question_count"`
	State         any    `json:"state"`
}

type StateUpdatePayload struct {
	MatchID     string             `json:"match_id"`
	Phase       string             `json:"phase"`
	State       any                `json:"state"`
	VisualState map[string]float64 `json:"visual_state"`
}

type AnswerAckPayload struct {
	MatchID  string `json:"match_id"`
	Team     string `json:"team"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	Result   any    `json:"result,omitempty"`
}

type TeamScore struct {
	Team      string  `json:"team"`
	Score     int     `json:"score"`
	Advantage float64 `json:"advantage"`
}

type MatchCompletePayload struct {
	MatchID string      `json:"match_id"`
	Phase   string      `json:"phase"`
	Winner  string      `json:"winner,omitempty"`
	Scores  []TeamScore `json:"scores"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is a protocol-level error usable as a Go error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// NewMessage marshals a payload into a typed message.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: data}, nil
}
