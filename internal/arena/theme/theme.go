// Package theme holds the pluggable arena theme contract and the built-in
// themes. A theme is a stateless strategy: it re-expresses each team's
// abstract advantage meter as named visual quantities for a renderer, and it
// decides whether a team has won. Adding a new visual theme means
// implementing Module and registering it; the match engine never branches on
// theme identifiers.
package theme

import (
	"github.com/eduspark/arena-platform/internal/arena"
)

// Win condition kinds.
const (
	WinFirstToTarget = "first_to_target" // first team whose advantage reaches the target
	WinHighestAtEnd  = "highest_at_end"  // leading meter once the question list is exhausted
	WinTimed         = "timed"           // leading meter when the match clock runs out
)

// Config is a theme's static configuration block.
type Config struct {
	WinKind   string  `json:"win_kind"`
	WinTarget float64 `json:"win_target"` // advantage meter target for first_to_target
}

// Validate rejects unusable win conditions.
func (c Config) Validate() error {
	switch c.WinKind {
	case WinFirstToTarget:
		if c.WinTarget <= 0 {
			return &arena.ConfigError{Field: "win_target", Message: "must be positive"}
		}
	case WinHighestAtEnd, WinTimed:
	default:
		return &arena.ConfigError{Field: "win_kind", Message: "unknown win kind " + c.WinKind}
	}
	return nil
}

// Module is a pluggable arena theme. Implementations must be stateless; both
// functions are pure over the snapshot.
type Module interface {
	ID() string
	Name() string
	Config() Config
	VisualState(arena.Snapshot) map[string]float64
	CheckWin(arena.Snapshot) (arena.TeamID, bool)
}

// checkWin evaluates the shared win conditions. first_to_target fires as soon
// as a meter reaches the target; highest_at_end and timed only name a winner
// once no questions remain, and never on a tie. Pure over the snapshot, so
// repeated checks against unchanged state stay stable.
func checkWin(cfg Config, s arena.Snapshot) (arena.TeamID, bool) {
	left := s.Team(arena.TeamLeft).Advantage
	right := s.Team(arena.TeamRight).Advantage

	switch cfg.WinKind {
	case WinFirstToTarget:
		switch {
		case left >= cfg.WinTarget && right >= cfg.WinTarget:
			// Both at target in the same round: the higher meter takes it.
			if left == right {
				return "", false
			}
			return leader(left, right), true
		case left >= cfg.WinTarget:
			return arena.TeamLeft, true
		case right >= cfg.WinTarget:
			return arena.TeamRight, true
		}
	case WinHighestAtEnd, WinTimed:
		if s.Phase != arena.PhaseEnd && !questionsConsumed(s) {
			return "", false
		}
		if left == right {
			return "", false
		}
		return leader(left, right), true
	}
	return "", false
}

func leader(left, right float64) arena.TeamID {
	if left > right {
		return arena.TeamLeft
	}
	return arena.TeamRight
}

func questionsConsumed(s arena.Snapshot) bool {
	return s.TotalQuestions > 0 && s.CurrentQuestion == nil
}

// meterPair maps both advantage meters onto two named quantities, the common
// shape of every built-in theme.
func meterPair(s arena.Snapshot, leftKey, rightKey string) map[string]float64 {
	return map[string]float64{
		leftKey:  s.Team(arena.TeamLeft).Advantage,
		rightKey: s.Team(arena.TeamRight).Advantage,
	}
}
