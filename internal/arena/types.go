package arena

import (
	"time"
)

// TeamID identifies one of the two fixed sides of a match.
type TeamID string

const (
	TeamLeft  TeamID = "left"
	TeamRight TeamID = "right"
)

// Teams lists both sides in a stable order.
var Teams = []TeamID{TeamLeft, TeamRight}

// Valid reports whether the id names one of the two sides.
func (t TeamID) Valid() bool {
	return t == TeamLeft || t == TeamRight
}

// Opponent returns the other side.
func (t TeamID) Opponent() TeamID {
	if t == TeamLeft {
		return TeamRight
	}
	return TeamLeft
}

// Phase lifecycle states of the match state machine.
type Phase string

const (
	PhaseIdle     Phase = "idle"     // no questions loaded
	PhaseQuestion Phase = "question" // awaiting a submission
	PhaseScoring  Phase = "scoring"  // transient, within one submission call
	PhaseWin      Phase = "win"      // terminal: a team satisfied the win condition
	PhaseEnd      Phase = "end"      // terminal: question list exhausted
)

// Terminal reports whether the phase accepts no further mutation.
func (p Phase) Terminal() bool {
	return p == PhaseWin || p == PhaseEnd
}

// QuestionType constants.
const (
	TypeMCQ         = "mcq"
	TypeTrueFalse   = "truefalse"
	TypeNumberInput = "number_input"
)

// Question is immutable once loaded into a match.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer,omitempty"` // server-side only
	Points  int      `json:"points"`
}

// AnswerPayload is a team's submission for the current question.
// ElapsedMs is client-reported time since the question was shown; the engine
// trusts it (anti-cheat belongs to surrounding infrastructure).
type AnswerPayload struct {
	Team      TeamID `json:"team"`
	Answer    any    `json:"answer"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// ScoreResult carries every intermediate scoring quantity for telemetry.
type ScoreResult struct {
	Correct        bool    `json:"correct"`
	ScoreDelta     int     `json:"score_delta"`
	AdvantageDelta int     `json:"advantage_delta"`
	Multiplier     float64 `json:"multiplier"`
	SpeedBonus     int     `json:"speed_bonus"`
}

// TeamState is owned by the match state and mutated only by the engine.
type TeamState struct {
	Score     int     `json:"score"`     // never negative
	Advantage float64 `json:"advantage"` // clamped to [0,100]
	Streak    int     `json:"streak"`    // consecutive correct answers
}

// Event types appended to the match history.
const (
	EventQuestionShown   = "question_shown"
	EventAnswerSubmitted = "answer_submitted"
	EventQuestionTimeout = "question_timeout"
	EventPhaseChanged    = "phase_changed"
	EventWin             = "win"
	EventMatchCancelled  = "match_cancelled"
)

// Event is one tagged record in the bounded match history.
type Event struct {
	Type    string         `json:"type"`
	Team    TeamID         `json:"team,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}

// Snapshot is a read-only copy of the live match state handed to themes,
// observers and the presentation layer.
type Snapshot struct {
	Phase           Phase                `json:"phase"`
	Teams           map[TeamID]TeamState `json:"teams"`
	QuestionIndex   int                  `json:"question_index"`
	CurrentQuestion *Question            `json:"current_question,omitempty"`
	TotalQuestions  int                  `json:"total_questions"`
	Winner          TeamID               `json:"winner,omitempty"`
	Events          []Event              `json:"events"`
}

// Team returns the state for one side; zero value for an unknown id.
func (s Snapshot) Team(id TeamID) TeamState {
	return s.Teams[id]
}

// Exhausted reports whether no questions remain beyond the current index.
func (s Snapshot) Exhausted() bool {
	return s.QuestionIndex+1 >= s.TotalQuestions
}
