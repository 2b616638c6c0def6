package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eduspark/arena-platform/internal/arena"
)

// CompletedMatch is the durable record of a finished match: final scores,
// winner and the full retained event history, queryable for analytics.
type CompletedMatch struct {
	ID             uuid.UUID     `json:"id"`
	ThemeID        string        `json:"theme_id"`
	Subject        string        `json:"subject"`
	Outcome        string        `json:"outcome"` // terminal phase: win or end
	Winner         string        `json:"winner,omitempty"`
	LeftScore      int           `json:"left_score"`
	RightScore     int           `json:"right_score"`
	LeftAdvantage  float64       `json:"left_advantage"`
	RightAdvantage float64       `json:"right_advantage"`
	QuestionCount  int           `json:"question_count"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    time.Time     `json:"completed_at"`
	Events         []arena.Event `json:"events"`
}

// MatchRepository persists completed matches to Postgres.
type MatchRepository struct {
	db DBTX
}

// NewMatchRepository constructs a match repository.
func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

// InsertCompleted archives one finished match.
func (r *MatchRepository) InsertCompleted(ctx context.Context, m CompletedMatch) error {
	events, err := json.Marshal(m.Events)
	if err != nil {
		return fmt.Errorf("marshal events: %w", err)
	}

	const query = `
		INSERT INTO completed_matches (
			match_id, theme_id, subject, outcome, winner,
			left_score, right_score, left_advantage, right_advantage,
			question_count, started_at, completed_at, events
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.db.Exec(ctx, query,
		m.ID, m.ThemeID, m.Subject, m.Outcome, m.Winner,
		m.LeftScore, m.RightScore, m.LeftAdvantage, m.RightAdvantage,
		m.QuestionCount, m.StartedAt, m.CompletedAt, events,
	)
	if err != nil {
		return fmt.Errorf("insert completed match: %w", err)
	}
	return nil
}

// GetByID returns one archived match.
func (r *MatchRepository) GetByID(ctx context.Context, matchID uuid.UUID) (*CompletedMatch, error) {
	const query = `
		SELECT match_id, theme_id, subject, outcome, winner,
		       left_score, right_score, left_advantage, right_advantage,
		       question_count, started_at, completed_at, events
		FROM completed_matches
		WHERE match_id = $1`

	var m CompletedMatch
	var events []byte
	err := r.db.QueryRow(ctx, query, matchID).Scan(
		&m.ID, &m.ThemeID, &m.Subject, &m.Outcome, &m.Winner,
		&m.LeftScore, &m.RightScore, &m.LeftAdvantage, &m.RightAdvantage,
		&m.QuestionCount, &m.StartedAt, &m.CompletedAt, &events,
	)
	if err != nil {
		return nil, fmt.Errorf("get completed match: %w", err)
	}
	if err := json.Unmarshal(events, &m.Events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	return &m, nil
}

// ListRecent returns the latest archived matches, newest first.
func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]CompletedMatch, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT match_id, theme_id, subject, outcome, winner,
		       left_score, right_score, left_advantage, right_advantage,
		       question_count, started_at, completed_at, events
		FROM completed_matches
		ORDER BY completed_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list completed matches: %w", err)
	}
	defer rows.Close()

	var matches []CompletedMatch
	for rows.Next() {
		var m CompletedMatch
		var events []byte
		if err := rows.Scan(
			&m.ID, &m.ThemeID, &m.Subject, &m.Outcome, &m.Winner,
			&m.LeftScore, &m.RightScore, &m.LeftAdvantage, &m.RightAdvantage,
			&m.QuestionCount, &m.StartedAt, &m.CompletedAt, &events,
		); err != nil {
			return nil, fmt.Errorf("scan completed match: %w", err)
		}
		if err := json.Unmarshal(events, &m.Events); err != nil {
			return nil, fmt.Errorf("unmarshal events: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
