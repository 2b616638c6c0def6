package arena

import (
	"errors"
	"fmt"
)

// Rejection reason codes surfaced to callers. The reference behavior of
// silently ignoring bad submissions is replaced with inspectable errors.
const (
	ReasonRoundClosed   = "round_closed"
	ReasonUnknownTeam   = "unknown_team"
	ReasonInvalidAnswer = "invalid_answer"
	ReasonBadConfig     = "bad_config"
)

// PhaseError rejects an operation that arrived outside the required phase.
type PhaseError struct {
	Op    string
	Phase Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s not allowed in phase %q", e.Op, e.Phase)
}

// UnknownTeamError rejects a submission naming a team outside the match.
type UnknownTeamError struct {
	Team TeamID
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("unknown team %q", e.Team)
}

// ValidationError rejects a malformed question or answer shape.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigError rejects an unusable match configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// RejectReason maps a submission error to its wire-level reason code.
// Returns "" for nil or unrecognized errors.
func RejectReason(err error) string {
	var phaseErr *PhaseError
	var teamErr *UnknownTeamError
	var valErr *ValidationError
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &phaseErr):
		return ReasonRoundClosed
	case errors.As(err, &teamErr):
		return ReasonUnknownTeam
	case errors.As(err, &valErr):
		return ReasonInvalidAnswer
	case errors.As(err, &cfgErr):
		return ReasonBadConfig
	default:
		return ""
	}
}
