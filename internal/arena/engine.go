package arena

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// ThemeModule is the engine-side view of a pluggable arena theme: a stateless
// strategy that re-expresses team advantage for a renderer and decides wins.
type ThemeModule interface {
	VisualState(Snapshot) map[string]float64
	CheckWin(Snapshot) (TeamID, bool)
}

// Observer receives a state snapshot after every mutation.
type Observer func(Snapshot)

// Comeback assist: a trailing team's positive meter gains are boosted once it
// is this far behind. See DESIGN.md for the rationale.
const (
	comebackDeficit = 25.0
	comebackBoost   = 1.25
)

// Options configures a new engine.
type Options struct {
	Questions     []Question
	Theme         ThemeModule
	Scoring       ScoringConfig
	EventCapacity int
	Observer      Observer
	Logger        zerolog.Logger
}

// Engine owns one match state and runs the phase state machine:
// question -> scoring -> question | win | end. A submission runs validation,
// scoring, mutation and advancement to completion within one call. The engine
// carries no locking; callers must drive it from a single executor.
type Engine struct {
	questions []Question
	theme     ThemeModule
	scoring   ScoringConfig
	eventCap  int
	observer  Observer
	logger    zerolog.Logger
	state     *state
}

// NewEngine validates the configuration and question list, builds the initial
// state and notifies the observer. With a non-empty question list the match
// starts in the question phase.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Theme == nil {
		return nil, &ConfigError{Field: "theme", Message: "theme module is required"}
	}
	if opts.Scoring == (ScoringConfig{}) {
		opts.Scoring = DefaultScoringConfig()
	}
	if err := opts.Scoring.Validate(); err != nil {
		return nil, err
	}
	for i, q := range opts.Questions {
		if err := validateQuestion(i, q); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		questions: opts.Questions,
		theme:     opts.Theme,
		scoring:   opts.Scoring,
		eventCap:  opts.EventCapacity,
		observer:  opts.Observer,
		logger:    opts.Logger,
	}
	e.state = newState(e.questions, e.eventCap)
	e.emitPhase(e.state.phase)
	if e.state.current != nil {
		e.emitQuestionShown()
	}
	e.notify()
	return e, nil
}

// Snapshot returns a read-only copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return e.state.snapshot()
}

// VisualState delegates the advantage-to-renderer mapping to the theme.
func (e *Engine) VisualState() map[string]float64 {
	return e.theme.VisualState(e.state.snapshot())
}

// Events returns the retained history, oldest first.
func (e *Engine) Events() []Event {
	return e.state.events.Events()
}

// Submit scores one team's answer for the current question. Submissions
// outside the question phase, for an unknown team, or with a malformed
// payload are rejected with a typed error rather than ignored.
func (e *Engine) Submit(payload AnswerPayload) (ScoreResult, error) {
	if e.state.phase != PhaseQuestion || e.state.current == nil {
		return ScoreResult{}, &PhaseError{Op: "submit", Phase: e.state.phase}
	}
	if !payload.Team.Valid() {
		return ScoreResult{}, &UnknownTeamError{Team: payload.Team}
	}
	if payload.Answer == nil {
		return ScoreResult{}, &ValidationError{Field: "answer", Message: "answer is required"}
	}
	if payload.ElapsedMs < 0 {
		return ScoreResult{}, &ValidationError{Field: "elapsed_ms", Message: "must not be negative"}
	}

	q := *e.state.current
	team := e.state.teams[payload.Team]
	result := Score(q, payload, team.Streak, e.scoring)

	advDelta := result.AdvantageDelta
	if e.scoring.ComebackAssist && advDelta > 0 {
		opponent := e.state.teams[payload.Team.Opponent()]
		if opponent.Advantage-team.Advantage >= comebackDeficit {
			advDelta = int(math.Round(float64(advDelta) * comebackBoost))
		}
	}

	e.state.applyDeltas(payload.Team, result, advDelta)
	e.emit(Event{
		Type: EventAnswerSubmitted,
		Team: payload.Team,
		Payload: map[string]any{
			"question_id": q.ID,
			"result":      result,
		},
	})

	e.logger.Debug().
		Str("team", string(payload.Team)).
		Str("question_id", q.ID).
		Bool("correct", result.Correct).
		Int("score_delta", result.ScoreDelta).
		Int("advantage_delta", advDelta).
		Msg("answer scored")

	e.state.phase = PhaseScoring
	e.notify()
	e.advance()
	return result, nil
}

// ExpireQuestion forces advancement when a round's deadline passes with no
// accepted submission. Both teams take the miss penalty and lose their streak.
func (e *Engine) ExpireQuestion() error {
	if e.state.phase != PhaseQuestion || e.state.current == nil {
		return &PhaseError{Op: "expire", Phase: e.state.phase}
	}

	miss := ScoreResult{
		AdvantageDelta: -int(math.Round(e.scoring.AdvantagePenalty)),
		Multiplier:     1,
	}
	for _, id := range Teams {
		e.state.applyDeltas(id, miss, miss.AdvantageDelta)
	}
	e.emit(Event{
		Type:    EventQuestionTimeout,
		Payload: map[string]any{"question_id": e.state.current.ID},
	})

	e.state.phase = PhaseScoring
	e.notify()
	e.advance()
	return nil
}

// Cancel terminates the match out of band. A forfeiting team hands the win to
// its opponent; otherwise the match ends with no winner.
func (e *Engine) Cancel(forfeitedBy *TeamID) error {
	if e.state.phase.Terminal() {
		return &PhaseError{Op: "cancel", Phase: e.state.phase}
	}

	ev := Event{Type: EventMatchCancelled}
	if forfeitedBy != nil && forfeitedBy.Valid() {
		ev.Team = *forfeitedBy
		ev.Payload = map[string]any{"forfeited_by": *forfeitedBy}
		e.emit(ev)
		e.declareWinner(forfeitedBy.Opponent())
		return nil
	}

	e.emit(ev)
	e.state.phase = PhaseEnd
	e.emitPhase(PhaseEnd)
	e.logger.Info().Msg("match cancelled with no winner")
	e.notify()
	return nil
}

// Reset rebuilds the match state from the original question list so the same
// engine can replay the match.
func (e *Engine) Reset() {
	e.state = newState(e.questions, e.eventCap)
	e.emitPhase(e.state.phase)
	if e.state.current != nil {
		e.emitQuestionShown()
	}
	e.notify()
}

// advance runs the win check and either declares a winner, ends the match on
// exhaustion, or loads the next question.
func (e *Engine) advance() {
	if winner, ok := e.theme.CheckWin(e.state.snapshot()); ok && winner.Valid() {
		e.declareWinner(winner)
		return
	}

	next := e.state.questionIndex + 1
	if next >= len(e.questions) {
		e.state.phase = PhaseEnd
		e.state.current = nil
		// A highest-meter theme may still name a winner at exhaustion.
		if winner, ok := e.theme.CheckWin(e.state.snapshot()); ok && winner.Valid() && e.state.winner == "" {
			e.state.winner = winner
		}
		e.emitPhase(PhaseEnd)
		e.logger.Info().Str("winner", string(e.state.winner)).Msg("question list exhausted")
		e.notify()
		return
	}

	e.state.questionIndex = next
	q := e.questions[next]
	e.state.current = &q
	e.state.phase = PhaseQuestion
	e.emitQuestionShown()
	e.notify()
}

// declareWinner transitions to the win phase. A winner, once set, is final.
func (e *Engine) declareWinner(winner TeamID) {
	if e.state.winner == "" {
		e.state.winner = winner
	}
	e.state.phase = PhaseWin
	e.emit(Event{Type: EventWin, Team: e.state.winner})
	e.logger.Info().Str("winner", string(e.state.winner)).Msg("win condition met")
	e.notify()
}

func (e *Engine) emit(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	e.state.events.Append(ev)
}

func (e *Engine) emitPhase(p Phase) {
	e.emit(Event{Type: EventPhaseChanged, Payload: map[string]any{"phase": p}})
}

func (e *Engine) emitQuestionShown() {
	e.emit(Event{
		Type:    EventQuestionShown,
		Payload: map[string]any{"question_id": e.state.current.ID},
	})
}

func (e *Engine) notify() {
	if e.observer != nil {
		e.observer(e.state.snapshot())
	}
}

// validateQuestion rejects malformed questions before a match starts.
func validateQuestion(i int, q Question) error {
	field := func(name string) string {
		return fmt.Sprintf("questions[%d].%s", i, name)
	}
	if q.Prompt == "" {
		return &ValidationError{Field: field("prompt"), Message: "question has no prompt"}
	}
	if q.Answer == "" {
		return &ValidationError{Field: field("answer"), Message: "question has no canonical answer"}
	}
	switch q.Type {
	case TypeMCQ:
		if len(q.Options) < 2 {
			return &ValidationError{Field: field("options"), Message: "mcq question needs at least two options"}
		}
	case TypeTrueFalse, TypeNumberInput:
	default:
		return &ValidationError{Field: field("type"), Message: "unknown question type " + q.Type}
	}
	return nil
}
