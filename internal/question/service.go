package question

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/eduspark/arena-platform/internal/arena"
)

// Service assembles question sets for matches: storage lookup, deterministic
// seed ordering, shape validation, Redis cache in front.
type Service struct {
	store  Store
	cache  SetCache
	logger zerolog.Logger
}

// NewService creates a question service. cache may be nil.
func NewService(store Store, cache SetCache, logger zerolog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// FetchSet returns a validated question set for one match. The same request
// (including seed) always yields the same set in the same order.
func (s *Service) FetchSet(ctx context.Context, req SetRequest) (*SetResponse, error) {
	if req.Subject == "" {
		req.Subject = DefaultSubject
	}
	if req.Count <= 0 {
		return nil, &arena.ConfigError{Field: "count", Message: "question count must be positive"}
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, req); err != nil {
			s.logger.Warn().Err(err).Msg("question cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	// Overfetch so the seed shuffle has some variety to work with.
	candidates, err := s.store.SelectQuestions(ctx, req.Subject, req.Difficulty, req.Count*3)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	if len(candidates) < req.Count {
		return nil, &arena.ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("subject %q has %d questions, need %d", req.Subject, len(candidates), req.Count),
		}
	}

	shuffleBySeed(candidates, req.Seed)
	selected := candidates[:req.Count]

	for i, q := range selected {
		if err := validateShape(i, q); err != nil {
			return nil, err
		}
	}

	resp := &SetResponse{Questions: selected, Seed: req.Seed}
	if s.cache != nil {
		if err := s.cache.Set(ctx, req, resp); err != nil {
			s.logger.Warn().Err(err).Msg("question cache write failed")
		}
	}
	return resp, nil
}

// shuffleBySeed orders candidates deterministically from the seed string.
func shuffleBySeed(qs []arena.Question, seed string) {
	h := fnv.New64a()
	h.Write([]byte(seed))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}

// validateShape rejects questions the engine would refuse to load.
func validateShape(i int, q arena.Question) error {
	if q.ID == "" {
		return &arena.ValidationError{Field: fmt.Sprintf("questions[%d].id", i), Message: "missing id"}
	}
	if q.Prompt == "" {
		return &arena.ValidationError{Field: fmt.Sprintf("questions[%d].prompt", i), Message: "missing prompt"}
	}
	if q.Answer == "" {
		return &arena.ValidationError{Field: fmt.Sprintf("questions[%d].answer", i), Message: "missing canonical answer"}
	}
	switch q.Type {
	case arena.TypeMCQ:
		if len(q.Options) < 2 {
			return &arena.ValidationError{Field: fmt.Sprintf("questions[%d].options", i), Message: "mcq needs at least two options"}
		}
	case arena.TypeTrueFalse, arena.TypeNumberInput:
	default:
		return &arena.ValidationError{Field: fmt.Sprintf("questions[%d].type", i), Message: "unknown type " + q.Type}
	}
	return nil
}
