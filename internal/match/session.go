package match

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eduspark/arena-platform/internal/arena"
)

// Session hosts one live match. The engine itself carries no locking, so the
// session is the single executor: every operation runs under its mutex, and
// the per-question deadline timer re-enters through the same lock.
type Session struct {
	ID        uuid.UUID
	ThemeID   string
	Subject   string
	StartedAt time.Time

	mu        sync.Mutex
	engine    *arena.Engine
	deadline  time.Duration // per-question; 0 disables the timer
	timer     *time.Timer
	finalized bool
	logger    zerolog.Logger
}

// newSession wraps an engine and arms the first question deadline.
func newSession(id uuid.UUID, themeID, subject string, engine *arena.Engine, deadline time.Duration, logger zerolog.Logger) *Session {
	s := &Session{
		ID:        id,
		ThemeID:   themeID,
		Subject:   subject,
		StartedAt: time.Now(),
		engine:    engine,
		deadline:  deadline,
		logger:    logger,
	}
	s.mu.Lock()
	s.armDeadline()
	s.mu.Unlock()
	return s
}

// Submit scores an answer and re-arms or stops the question deadline.
func (s *Session) Submit(payload arena.AnswerPayload) (arena.ScoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.engine.Submit(payload)
	if err == nil {
		s.armDeadline()
	}
	return result, err
}

// Cancel terminates the match out of band.
func (s *Session) Cancel(forfeitedBy *arena.TeamID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.engine.Cancel(forfeitedBy)
	if err == nil {
		s.stopDeadline()
	}
	return err
}

// Snapshot returns the current state.
func (s *Session) Snapshot() arena.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// VisualState returns the theme's rendering of the current state.
func (s *Session) VisualState() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.VisualState()
}

// Events returns the retained event history, oldest first.
func (s *Session) Events() []arena.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Events()
}

// MarkFinalized flips the once-only finalization guard. Returns false if the
// session was already finalized.
func (s *Session) MarkFinalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return false
	}
	s.finalized = true
	return true
}

// armDeadline (re)starts the question timer. Caller holds the lock.
func (s *Session) armDeadline() {
	s.stopDeadline()
	if s.deadline <= 0 {
		return
	}
	if s.engine.Snapshot().Phase != arena.PhaseQuestion {
		return
	}
	s.timer = time.AfterFunc(s.deadline, s.expire)
}

// stopDeadline halts a pending timer. Caller holds the lock.
func (s *Session) stopDeadline() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// expire fires when a question goes unanswered past the deadline.
func (s *Session) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.ExpireQuestion(); err != nil {
		// A submission won the race; the timer is already re-armed.
		return
	}
	s.logger.Info().Str("match_id", s.ID.String()).Msg("question deadline passed, round forced forward")
	s.armDeadline()
}
