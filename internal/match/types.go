package match

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/eduspark/arena-platform/internal/arena"
)

// ErrMatchNotFound is returned when no live session exists for an id.
var ErrMatchNotFound = errors.New("match not found")

// ErrUnknownTheme is returned when a start request names an unregistered theme.
var ErrUnknownTheme = errors.New("unknown theme")

// ErrResultNotFound is returned when no archived record exists for an id.
var ErrResultNotFound = errors.New("match result not found")

// DefaultQuestionCount when the caller does not pick one.
const DefaultQuestionCount = 10

// StartRequest configures a new match.
type StartRequest struct {
	ThemeID        string               `json:"theme_id"`
	Subject        string               `json:"subject,omitempty"`
	Difficulty     string               `json:"difficulty,omitempty"`
	QuestionCount  int                  `json:"question_count,omitempty"`
	ComebackAssist bool                 `json:"comeback_assist,omitempty"`
	Scoring        *arena.ScoringConfig `json:"scoring,omitempty"` // nil uses defaults
}

// StartResult describes a freshly started match.
type StartResult struct {
	MatchID       uuid.UUID      `json:"match_id"`
	ThemeID       string         `json:"theme_id"`
	ThemeName     string         `json:"theme_name"`
	QuestionCount int            `json:"question_count"`
	State         arena.Snapshot `json:"state"`
}

// SubmitRequest is one team's answer for a live match.
type SubmitRequest struct {
	MatchID   uuid.UUID
	Team      arena.TeamID
	Answer    any
	ElapsedMs int64
}

// SubmitOutcome is the explicit accepted/rejected result of a submission.
// Rejections carry a reason code instead of being silently dropped.
type SubmitOutcome struct {
	Accepted bool              `json:"accepted"`
	Reason   string            `json:"reason,omitempty"`
	Result   arena.ScoreResult `json:"result"`
	State    arena.Snapshot    `json:"state"`
}

// State is the current view of a match, live or mirrored.
type State struct {
	MatchID     uuid.UUID          `json:"match_id"`
	ThemeID     string             `json:"theme_id"`
	Live        bool               `json:"live"`
	State       arena.Snapshot     `json:"state"`
	VisualState map[string]float64 `json:"visual_state,omitempty"`
}

// ThemeInfo describes one registered theme for discovery endpoints.
type ThemeInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	WinKind   string `json:"win_kind"`
	WinTarget float64 `json:"win_target,omitempty"`
}

// Info is a lightweight view of one live match.
type Info struct {
	MatchID       uuid.UUID `json:"match_id"`
	ThemeID       string    `json:"theme_id"`
	Subject       string    `json:"subject"`
	QuestionCount int       `json:"question_count"`
	StartedAt     time.Time `json:"started_at"`
}
