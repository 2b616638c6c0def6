package arena

import (
	"math"
)

// ScoringConfig exposes every game-balance constant as a tunable. The
// reference values live in DefaultScoringConfig; game designers adjust these
// per match without code changes.
type ScoringConfig struct {
	BasePoints       int     `json:"base_points"`         // default: 5
	SpeedBonusMaxMs  int64   `json:"speed_bonus_max_ms"`  // window for the max speed bonus, default: 8000
	StreakThreshold  int     `json:"streak_threshold"`    // streak length before the multiplier kicks in, default: 3
	AdvantageReward  float64 `json:"advantage_reward"`    // meter gain on a correct answer, default: 12
	AdvantagePenalty float64 `json:"advantage_penalty"`   // meter loss on a miss, default: 5
	SpeedBonusWeight float64 `json:"speed_bonus_weight"`  // share of base points the fastest answer adds, default: 0.5
	StreakStep       float64 `json:"streak_step"`         // multiplier growth per level past the threshold, default: 0.1
	StreakCap        float64 `json:"streak_cap"`          // max multiplier bonus, default: 0.5 (1.5x total)
	ComebackAssist   bool    `json:"comeback_assist"`     // boost the trailing team's meter gains
}

// DefaultScoringConfig returns the reference balance values.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		BasePoints:       5,
		SpeedBonusMaxMs:  8000,
		StreakThreshold:  3,
		AdvantageReward:  12,
		AdvantagePenalty: 5,
		SpeedBonusWeight: 0.5,
		StreakStep:       0.1,
		StreakCap:        0.5,
	}
}

// Validate rejects configurations the engine cannot score with.
func (c ScoringConfig) Validate() error {
	if c.BasePoints <= 0 {
		return &ConfigError{Field: "base_points", Message: "must be positive"}
	}
	if c.SpeedBonusMaxMs <= 0 {
		return &ConfigError{Field: "speed_bonus_max_ms", Message: "must be positive"}
	}
	if c.StreakThreshold < 0 {
		return &ConfigError{Field: "streak_threshold", Message: "must not be negative"}
	}
	return nil
}

// Score computes the score and advantage deltas for one submission. Pure:
// the caller applies the deltas and resets or increments the team streak.
// currentStreak is the submitting team's streak before this answer.
func Score(q Question, payload AnswerPayload, currentStreak int, cfg ScoringConfig) ScoreResult {
	if !IsCorrect(q, payload.Answer) {
		return ScoreResult{
			Correct:        false,
			ScoreDelta:     0,
			AdvantageDelta: -int(math.Round(cfg.AdvantagePenalty)),
			Multiplier:     1,
			SpeedBonus:     0,
		}
	}

	base := cfg.BasePoints
	if q.Points > 0 {
		base = q.Points
	}

	// 1.0 for instant answers, 0 at or beyond the configured window.
	speedRatio := 1 - float64(payload.ElapsedMs)/float64(cfg.SpeedBonusMaxMs)
	if speedRatio < 0 {
		speedRatio = 0
	}
	speedBonus := int(math.Round(float64(base) * cfg.SpeedBonusWeight * speedRatio))

	multiplier := 1.0
	if currentStreak >= cfg.StreakThreshold {
		bonus := float64(currentStreak-cfg.StreakThreshold) * cfg.StreakStep
		if bonus > cfg.StreakCap {
			bonus = cfg.StreakCap
		}
		multiplier = 1 + bonus
	}

	return ScoreResult{
		Correct:        true,
		ScoreDelta:     int(math.Round(float64(base+speedBonus) * multiplier)),
		AdvantageDelta: int(math.Round(cfg.AdvantageReward * multiplier)),
		Multiplier:     multiplier,
		SpeedBonus:     speedBonus,
	}
}
