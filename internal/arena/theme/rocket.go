package theme

import (
	"github.com/eduspark/arena-platform/internal/arena"
)

// RocketRace renders the advantage meters as fuel in two racing rockets.
// There is no early finish line: the fuller tank when the question list runs
// out wins the race.
type RocketRace struct {
	cfg Config
}

// NewRocketRace builds the theme with its reference win condition.
func NewRocketRace() *RocketRace {
	return &RocketRace{cfg: Config{WinKind: WinHighestAtEnd}}
}

func (t *RocketRace) ID() string     { return "rocket-race" }
func (t *RocketRace) Name() string   { return "Rocket Race" }
func (t *RocketRace) Config() Config { return t.cfg }

// VisualState exposes the advantage meters as fuel levels.
func (t *RocketRace) VisualState(s arena.Snapshot) map[string]float64 {
	return meterPair(s, "fuel_left", "fuel_right")
}

func (t *RocketRace) CheckWin(s arena.Snapshot) (arena.TeamID, bool) {
	return checkWin(t.cfg, s)
}
