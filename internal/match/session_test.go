package match

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduspark/arena-platform/internal/arena"
)

func newTestEngine(t *testing.T, questionCount int) *arena.Engine {
	t.Helper()

	qs := make([]arena.Question, questionCount)
	for i := range qs {
		qs[i] = arena.Question{
			ID:     uuid.NewString(),
			Prompt: "7 x 8 = ?",
			Type:   arena.TypeNumberInput,
			Answer: "56",
		}
	}
	engine, err := arena.NewEngine(arena.Options{
		Questions: qs,
		Theme:     targetTheme{target: 1000},
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return engine
}

func TestSessionDeadlineForcesRoundForward(t *testing.T) {
	sess := newSession(uuid.New(), "target", "general", newTestEngine(t, 3), 20*time.Millisecond, zerolog.Nop())
	defer sess.Cancel(nil)

	require.Eventually(t, func() bool {
		return sess.Snapshot().QuestionIndex >= 1
	}, time.Second, 5*time.Millisecond)

	types := make([]string, 0)
	for _, ev := range sess.Events() {
		types = append(types, ev.Type)
	}
	assert.Contains(t, types, arena.EventQuestionTimeout)
}

func TestSessionSubmitRearmsDeadline(t *testing.T) {
	sess := newSession(uuid.New(), "target", "general", newTestEngine(t, 3), 250*time.Millisecond, zerolog.Nop())
	defer sess.Cancel(nil)

	result, err := sess.Submit(arena.AnswerPayload{Team: arena.TeamLeft, Answer: "56"})
	require.NoError(t, err)
	assert.True(t, result.Correct)

	snap := sess.Snapshot()
	assert.Equal(t, 1, snap.QuestionIndex)
	// The answered round must not also time out.
	for _, ev := range sess.Events() {
		assert.NotEqual(t, arena.EventQuestionTimeout, ev.Type)
	}
}

func TestSessionCancelStopsDeadline(t *testing.T) {
	sess := newSession(uuid.New(), "target", "general", newTestEngine(t, 3), 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, sess.Cancel(nil))

	snap := sess.Snapshot()
	assert.Equal(t, arena.PhaseEnd, snap.Phase)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, snap.QuestionIndex, sess.Snapshot().QuestionIndex)
}

func TestSessionZeroDeadlineDisablesTimer(t *testing.T) {
	sess := newSession(uuid.New(), "target", "general", newTestEngine(t, 2), 0, zerolog.Nop())
	defer sess.Cancel(nil)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, sess.Snapshot().QuestionIndex)
}

func TestSessionMarkFinalizedOnce(t *testing.T) {
	sess := newSession(uuid.New(), "target", "general", newTestEngine(t, 2), 0, zerolog.Nop())
	defer sess.Cancel(nil)

	assert.True(t, sess.MarkFinalized())
	assert.False(t, sess.MarkFinalized())
}

func TestManagerTracksSessions(t *testing.T) {
	m := NewManager()
	sess := newSession(uuid.New(), "target", "science", newTestEngine(t, 2), 0, zerolog.Nop())
	defer sess.Cancel(nil)

	m.Add(sess)
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	infos := m.List()
	require.Len(t, infos, 1)
	assert.Equal(t, sess.ID, infos[0].MatchID)
	assert.Equal(t, "science", infos[0].Subject)

	m.Remove(sess.ID)
	m.Remove(sess.ID) // idempotent
	assert.Equal(t, 0, m.Count())
	_, ok = m.Get(sess.ID)
	assert.False(t, ok)
}
