package theme

import (
	"github.com/eduspark/arena-platform/internal/arena"
)

// LightYourCity renders each team's advantage as electrical power flowing
// into its half of a shared city. First team to a full meter lights its side
// and wins.
type LightYourCity struct {
	cfg Config
}

// NewLightYourCity builds the theme with the reference win condition.
func NewLightYourCity() *LightYourCity {
	return &LightYourCity{cfg: Config{WinKind: WinFirstToTarget, WinTarget: 100}}
}

func (t *LightYourCity) ID() string     { return "light-your-city" }
func (t *LightYourCity) Name() string   { return "Light Your City" }
func (t *LightYourCity) Config() Config { return t.cfg }

// VisualState exposes the advantage meters as power levels.
func (t *LightYourCity) VisualState(s arena.Snapshot) map[string]float64 {
	return meterPair(s, "power_left", "power_right")
}

func (t *LightYourCity) CheckWin(s arena.Snapshot) (arena.TeamID, bool) {
	return checkWin(t.cfg, s)
}
