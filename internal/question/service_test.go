package question

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eduspark/arena-platform/internal/arena"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SelectQuestions(ctx context.Context, subject, difficulty string, limit int) ([]arena.Question, error) {
	args := m.Called(ctx, subject, difficulty, limit)
	return args.Get(0).([]arena.Question), args.Error(1)
}

func storedQuestions(n int) []arena.Question {
	qs := make([]arena.Question, n)
	for i := range qs {
		qs[i] = arena.Question{
			ID:     fmt.Sprintf("q-%d", i),
			Prompt: fmt.Sprintf("Question %d?", i),
			Type:   arena.TypeNumberInput,
			Answer: "42",
			Points: 5,
		}
	}
	return qs
}

func TestFetchSetIsDeterministicForSeed(t *testing.T) {
	store := new(mockStore)
	store.On("SelectQuestions", mock.Anything, "science", "", 15).Return(storedQuestions(15), nil)

	svc := NewService(store, nil, zerolog.Nop())
	req := SetRequest{Subject: "science", Count: 5, Seed: "match-abc"}

	first, err := svc.FetchSet(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, first.Questions, 5)

	second, err := svc.FetchSet(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.Questions, second.Questions, "same seed, same order")

	other, err := svc.FetchSet(context.Background(), SetRequest{Subject: "science", Count: 5, Seed: "match-xyz"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Questions, other.Questions, "a different seed reorders the set")
}

func TestFetchSetDefaultsSubject(t *testing.T) {
	store := new(mockStore)
	store.On("SelectQuestions", mock.Anything, DefaultSubject, "", 9).Return(storedQuestions(9), nil)

	svc := NewService(store, nil, zerolog.Nop())
	resp, err := svc.FetchSet(context.Background(), SetRequest{Count: 3, Seed: "s"})
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 3)
}

func TestFetchSetRejectsShortSupply(t *testing.T) {
	store := new(mockStore)
	store.On("SelectQuestions", mock.Anything, "history", "", 30).Return(storedQuestions(4), nil)

	svc := NewService(store, nil, zerolog.Nop())
	_, err := svc.FetchSet(context.Background(), SetRequest{Subject: "history", Count: 10, Seed: "s"})

	var valErr *arena.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestFetchSetRejectsNonPositiveCount(t *testing.T) {
	svc := NewService(new(mockStore), nil, zerolog.Nop())
	_, err := svc.FetchSet(context.Background(), SetRequest{Subject: "science", Count: 0})

	var cfgErr *arena.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestFetchSetRejectsMalformedQuestions(t *testing.T) {
	bad := storedQuestions(3)
	bad[1].Answer = ""

	store := new(mockStore)
	store.On("SelectQuestions", mock.Anything, "science", "", 9).Return(bad, nil)

	svc := NewService(store, nil, zerolog.Nop())
	_, err := svc.FetchSet(context.Background(), SetRequest{Subject: "science", Count: 3, Seed: "s"})
	require.Error(t, err)
	var valErr *arena.ValidationError
	assert.ErrorAs(t, err, &valErr)
}
