package question

import (
	"context"

	"github.com/eduspark/arena-platform/internal/arena"
)

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DefaultSubject is used when the caller does not pick one.
const DefaultSubject = "general"

// SetRequest selects a question set for one match.
type SetRequest struct {
	Subject    string
	Difficulty string // empty means any
	Count      int
	Seed       string // drives deterministic ordering
}

// SetResponse holds the selected questions in play order.
type SetResponse struct {
	Questions []arena.Question
	Seed      string
}

// Store loads candidate questions from persistent storage.
type Store interface {
	SelectQuestions(ctx context.Context, subject, difficulty string, limit int) ([]arena.Question, error)
}

// SetCache caches assembled sets so repeated lookups skip the database.
type SetCache interface {
	Get(ctx context.Context, req SetRequest) (*SetResponse, error)
	Set(ctx context.Context, req SetRequest, resp *SetResponse) error
}
