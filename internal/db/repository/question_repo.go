package repository

import (
	"context"
	"fmt"

	"github.com/eduspark/arena-platform/internal/arena"
)

// QuestionRepository loads arena questions from Postgres.
type QuestionRepository struct {
	db DBTX
}

// NewQuestionRepository constructs a question repository.
func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// SelectQuestions returns up to limit questions for a subject, optionally
// filtered by difficulty.
func (r *QuestionRepository) SelectQuestions(ctx context.Context, subject, difficulty string, limit int) ([]arena.Question, error) {
	const query = `
		SELECT question_id, prompt, question_type, options, answer, points
		FROM questions
		WHERE subject = $1
		  AND ($2 = '' OR difficulty = $2)
		ORDER BY question_id
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, subject, difficulty, limit)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	defer rows.Close()

	var questions []arena.Question
	for rows.Next() {
		var q arena.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Type, &q.Options, &q.Answer, &q.Points); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// InsertQuestion stores one question; used by seeding tools.
func (r *QuestionRepository) InsertQuestion(ctx context.Context, subject, difficulty string, q arena.Question) error {
	const query = `
		INSERT INTO questions (question_id, subject, difficulty, prompt, question_type, options, answer, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (question_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, q.ID, subject, difficulty, q.Prompt, q.Type, q.Options, q.Answer, q.Points)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}
