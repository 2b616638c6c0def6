package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduspark/arena-platform/internal/arena"
)

func snapshot(left, right float64, phase arena.Phase, current *arena.Question) arena.Snapshot {
	return arena.Snapshot{
		Phase: phase,
		Teams: map[arena.TeamID]arena.TeamState{
			arena.TeamLeft:  {Advantage: left},
			arena.TeamRight: {Advantage: right},
		},
		CurrentQuestion: current,
		TotalQuestions:  5,
	}
}

func midMatch(left, right float64) arena.Snapshot {
	q := arena.Question{ID: "q", Prompt: "?", Type: arena.TypeNumberInput, Answer: "1"}
	return snapshot(left, right, arena.PhaseScoring, &q)
}

func TestLightYourCityVisualState(t *testing.T) {
	m := NewLightYourCity()
	visual := m.VisualState(midMatch(42, 87.5))

	assert.Equal(t, 42.0, visual["power_left"])
	assert.Equal(t, 87.5, visual["power_right"])
	assert.Len(t, visual, 2)
}

func TestLightYourCityFirstToTarget(t *testing.T) {
	m := NewLightYourCity()

	_, ok := m.CheckWin(midMatch(60, 40))
	assert.False(t, ok)

	winner, ok := m.CheckWin(midMatch(100, 40))
	require.True(t, ok)
	assert.Equal(t, arena.TeamLeft, winner)

	winner, ok = m.CheckWin(midMatch(12, 100))
	require.True(t, ok)
	assert.Equal(t, arena.TeamRight, winner)
}

func TestCheckWinIsStable(t *testing.T) {
	m := NewLightYourCity()
	snap := midMatch(100, 40)

	first, ok := m.CheckWin(snap)
	require.True(t, ok)
	for i := 0; i < 20; i++ {
		winner, ok := m.CheckWin(snap)
		assert.True(t, ok)
		assert.Equal(t, first, winner)
	}
}

func TestRocketRaceVisualState(t *testing.T) {
	m := NewRocketRace()
	visual := m.VisualState(midMatch(10, 30))

	assert.Equal(t, 10.0, visual["fuel_left"])
	assert.Equal(t, 30.0, visual["fuel_right"])
}

func TestRocketRaceOnlyDecidesAtExhaustion(t *testing.T) {
	m := NewRocketRace()

	// Mid-match, even with a large lead, no winner yet.
	_, ok := m.CheckWin(midMatch(90, 10))
	assert.False(t, ok)

	winner, ok := m.CheckWin(snapshot(90, 10, arena.PhaseEnd, nil))
	require.True(t, ok)
	assert.Equal(t, arena.TeamLeft, winner)

	_, ok = m.CheckWin(snapshot(50, 50, arena.PhaseEnd, nil))
	assert.False(t, ok, "a tie names no winner")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, NewLightYourCity().Config().Validate())
	assert.NoError(t, NewRocketRace().Config().Validate())

	bad := Config{WinKind: WinFirstToTarget, WinTarget: 0}
	assert.Error(t, bad.Validate())

	bad = Config{WinKind: "sudden_death"}
	assert.Error(t, bad.Validate())
}
