package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/eduspark/arena-platform/internal/arena"
	"github.com/eduspark/arena-platform/internal/arena/theme"
	"github.com/eduspark/arena-platform/internal/db/repository"
	"github.com/eduspark/arena-platform/internal/metrics"
	"github.com/eduspark/arena-platform/internal/question"
	"github.com/eduspark/arena-platform/pkg/http/ws"
)

// QuestionSource provides validated question sets for new matches.
type QuestionSource interface {
	FetchSet(ctx context.Context, req question.SetRequest) (*question.SetResponse, error)
}

// Archive persists finished matches.
type Archive interface {
	InsertCompleted(ctx context.Context, m repository.CompletedMatch) error
	GetByID(ctx context.Context, matchID uuid.UUID) (*repository.CompletedMatch, error)
	ListRecent(ctx context.Context, limit int) ([]repository.CompletedMatch, error)
}

// SnapshotStore mirrors live state for reconnects and sibling instances.
type SnapshotStore interface {
	StoreSnapshot(ctx context.Context, matchID uuid.UUID, state StoredState) error
	GetSnapshot(ctx context.Context, matchID uuid.UUID) (*StoredState, error)
	Drop(ctx context.Context, matchID uuid.UUID) error
}

// Broadcaster pushes messages to everyone watching a match.
type Broadcaster interface {
	BroadcastToMatch(matchID uuid.UUID, msg ws.Message) error
	DropMatch(matchID uuid.UUID)
}

// ServiceOptions wires a match service. Archive, Cache and Hub may be nil,
// which disables persistence, state mirroring and push updates respectively.
type ServiceOptions struct {
	Themes           *theme.Registry
	Questions        QuestionSource
	Archive          Archive
	Cache            SnapshotStore
	Hub              Broadcaster
	Metrics          *metrics.Metrics
	QuestionDeadline time.Duration
	EventCapacity    int
	DefaultCount     int
	Logger           zerolog.Logger
}

// Service orchestrates the match lifecycle: start, answer submission,
// cancellation, state fan-out and finalization into the archive.
type Service struct {
	manager  *Manager
	themes   *theme.Registry
	source   QuestionSource
	archive  Archive
	cache    SnapshotStore
	hub      Broadcaster
	metrics      *metrics.Metrics
	deadline     time.Duration
	eventCap     int
	defaultCount int
	logger       zerolog.Logger
}

// NewService creates a match service.
func NewService(opts ServiceOptions) *Service {
	defaultCount := opts.DefaultCount
	if defaultCount <= 0 {
		defaultCount = DefaultQuestionCount
	}
	return &Service{
		manager:      NewManager(),
		themes:       opts.Themes,
		source:       opts.Questions,
		archive:      opts.Archive,
		cache:        opts.Cache,
		hub:          opts.Hub,
		metrics:      opts.Metrics,
		deadline:     opts.QuestionDeadline,
		eventCap:     opts.EventCapacity,
		defaultCount: defaultCount,
		logger:       opts.Logger,
	}
}

// StartMatch assembles a question set, builds an engine bound to the chosen
// theme and registers a live session for it.
func (s *Service) StartMatch(ctx context.Context, req StartRequest) (*StartResult, error) {
	mod, ok := s.themes.Get(req.ThemeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, req.ThemeID)
	}

	count := req.QuestionCount
	if count <= 0 {
		count = s.defaultCount
	}

	matchID := uuid.New()
	set, err := s.source.FetchSet(ctx, question.SetRequest{
		Subject:    req.Subject,
		Difficulty: req.Difficulty,
		Count:      count,
		Seed:       matchID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch question set: %w", err)
	}

	scoring := arena.DefaultScoringConfig()
	if req.Scoring != nil {
		scoring = *req.Scoring
	}
	if req.ComebackAssist {
		scoring.ComebackAssist = true
	}

	logger := s.logger.With().Str("match_id", matchID.String()).Logger()
	engine, err := arena.NewEngine(arena.Options{
		Questions:     set.Questions,
		Theme:         mod,
		Scoring:       scoring,
		EventCapacity: s.eventCap,
		Observer: func(snap arena.Snapshot) {
			s.handleStateChange(matchID, mod, snap)
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	sess := newSession(matchID, req.ThemeID, subjectOrDefault(req.Subject), engine, s.deadline, logger)
	s.manager.Add(sess)

	if s.metrics != nil {
		s.metrics.MatchesStarted.Inc()
		s.metrics.LiveMatches.Inc()
	}
	logger.Info().
		Str("theme_id", req.ThemeID).
		Int("question_count", count).
		Msg("match started")

	return &StartResult{
		MatchID:       matchID,
		ThemeID:       mod.ID(),
		ThemeName:     mod.Name(),
		QuestionCount: count,
		State:         sess.Snapshot(),
	}, nil
}

// SubmitAnswer routes an answer to the live session. Engine rejections come
// back as an explicit outcome with a reason code; everything else is an error.
func (s *Service) SubmitAnswer(ctx context.Context, req SubmitRequest) (*SubmitOutcome, error) {
	sess, ok := s.manager.Get(req.MatchID)
	if !ok {
		return nil, ErrMatchNotFound
	}

	result, err := sess.Submit(arena.AnswerPayload{
		Team:      req.Team,
		Answer:    req.Answer,
		ElapsedMs: req.ElapsedMs,
	})
	if err != nil {
		reason := arena.RejectReason(err)
		if reason == "" {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.AnswersSubmitted.WithLabelValues(metrics.AnswerRejected).Inc()
		}
		return &SubmitOutcome{
			Accepted: false,
			Reason:   reason,
			State:    sess.Snapshot(),
		}, nil
	}

	if s.metrics != nil {
		label := metrics.AnswerIncorrect
		if result.Correct {
			label = metrics.AnswerCorrect
		}
		s.metrics.AnswersSubmitted.WithLabelValues(label).Inc()
		s.metrics.ScoreDeltas.Observe(float64(result.ScoreDelta))
	}

	return &SubmitOutcome{
		Accepted: true,
		Result:   result,
		State:    sess.Snapshot(),
	}, nil
}

// CancelMatch terminates a live match. A forfeiting team hands the win to its
// opponent.
func (s *Service) CancelMatch(ctx context.Context, matchID uuid.UUID, forfeitedBy *arena.TeamID) error {
	sess, ok := s.manager.Get(matchID)
	if !ok {
		return ErrMatchNotFound
	}
	return sess.Cancel(forfeitedBy)
}

// GetState returns the current state of a match: live from the session when
// this instance owns it, otherwise from the snapshot cache.
func (s *Service) GetState(ctx context.Context, matchID uuid.UUID) (*State, error) {
	if sess, ok := s.manager.Get(matchID); ok {
		return &State{
			MatchID:     matchID,
			ThemeID:     sess.ThemeID,
			Live:        true,
			State:       sess.Snapshot(),
			VisualState: sess.VisualState(),
		}, nil
	}

	if s.cache != nil {
		stored, err := s.cache.GetSnapshot(ctx, matchID)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			st := &State{
				MatchID: matchID,
				ThemeID: stored.ThemeID,
				State:   stored.State,
			}
			if mod, ok := s.themes.Get(stored.ThemeID); ok {
				st.VisualState = mod.VisualState(stored.State)
			}
			return st, nil
		}
	}
	return nil, ErrMatchNotFound
}

// GetEvents returns the retained event history of a match, oldest first.
func (s *Service) GetEvents(ctx context.Context, matchID uuid.UUID) ([]arena.Event, error) {
	st, err := s.GetState(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return st.State.Events, nil
}

// GetResult returns the archived record of a finished match.
func (s *Service) GetResult(ctx context.Context, matchID uuid.UUID) (*repository.CompletedMatch, error) {
	if s.archive == nil {
		return nil, ErrResultNotFound
	}
	m, err := s.archive.GetByID(ctx, matchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	return m, err
}

// ListRecentResults returns the latest archived matches, newest first.
func (s *Service) ListRecentResults(ctx context.Context, limit int) ([]repository.CompletedMatch, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.ListRecent(ctx, limit)
}

// ListThemes describes every registered theme.
func (s *Service) ListThemes() []ThemeInfo {
	ids := s.themes.List()
	infos := make([]ThemeInfo, 0, len(ids))
	for _, id := range ids {
		mod, ok := s.themes.Get(id)
		if !ok {
			continue
		}
		cfg := mod.Config()
		infos = append(infos, ThemeInfo{
			ID:        mod.ID(),
			Name:      mod.Name(),
			WinKind:   string(cfg.WinKind),
			WinTarget: cfg.WinTarget,
		})
	}
	return infos
}

// ListLive returns every live match on this instance.
func (s *Service) ListLive() []Info {
	return s.manager.List()
}

// handleStateChange runs on every engine mutation, inside the session's
// executor. It must stay cheap: mirror state, push an update, and hand
// terminal states to an async finalizer.
func (s *Service) handleStateChange(matchID uuid.UUID, mod theme.Module, snap arena.Snapshot) {
	if s.cache != nil {
		stored := StoredState{ThemeID: mod.ID(), State: snap}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.cache.StoreSnapshot(ctx, matchID, stored); err != nil {
				s.logger.Warn().Err(err).Str("match_id", matchID.String()).Msg("snapshot mirror failed")
			}
		}()
	}

	if s.hub != nil {
		msg, err := ws.NewMessage(ws.TypeStateUpdate, ws.StateUpdatePayload{
			MatchID:     matchID.String(),
			Phase:       string(snap.Phase),
			State:       snap,
			VisualState: mod.VisualState(snap),
		})
		if err == nil {
			s.hub.BroadcastToMatch(matchID, msg)
		}
	}

	if snap.Phase.Terminal() {
		go s.finalize(matchID, snap)
	}
}

// finalize archives a finished match and tears its session down. Guarded so a
// win event followed by the end-of-match notification archives only once.
func (s *Service) finalize(matchID uuid.UUID, snap arena.Snapshot) {
	sess, ok := s.manager.Get(matchID)
	if !ok {
		return
	}
	if !sess.MarkFinalized() {
		return
	}

	outcome := string(snap.Phase)
	if s.metrics != nil {
		s.metrics.MatchesCompleted.WithLabelValues(outcome).Inc()
		s.metrics.LiveMatches.Dec()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	archived := false
	if s.archive != nil {
		left := snap.Teams[arena.TeamLeft]
		right := snap.Teams[arena.TeamRight]
		record := repository.CompletedMatch{
			ID:             matchID,
			ThemeID:        sess.ThemeID,
			Subject:        sess.Subject,
			Outcome:        outcome,
			Winner:         string(snap.Winner),
			LeftScore:      left.Score,
			RightScore:     right.Score,
			LeftAdvantage:  left.Advantage,
			RightAdvantage: right.Advantage,
			QuestionCount:  snap.TotalQuestions,
			StartedAt:      sess.StartedAt,
			CompletedAt:    time.Now(),
			Events:         snap.Events,
		}
		if err := s.archive.InsertCompleted(ctx, record); err != nil {
			s.logger.Error().Err(err).Str("match_id", matchID.String()).Msg("match archive failed")
		} else {
			archived = true
		}
	}

	if s.hub != nil {
		scores := make([]ws.TeamScore, 0, len(arena.Teams))
		for _, id := range arena.Teams {
			ts := snap.Teams[id]
			scores = append(scores, ws.TeamScore{
				Team:      string(id),
				Score:     ts.Score,
				Advantage: ts.Advantage,
			})
		}
		msg, err := ws.NewMessage(ws.TypeMatchComplete, ws.MatchCompletePayload{
			MatchID: matchID.String(),
			Phase:   outcome,
			Winner:  string(snap.Winner),
			Scores:  scores,
		})
		if err == nil {
			s.hub.BroadcastToMatch(matchID, msg)
		}
		s.hub.DropMatch(matchID)
	}

	// Once the durable record exists the mirror is redundant; otherwise it is
	// the only surviving copy, so leave it to the TTL.
	if archived && s.cache != nil {
		if err := s.cache.Drop(ctx, matchID); err != nil {
			s.logger.Warn().Err(err).Str("match_id", matchID.String()).Msg("snapshot drop failed")
		}
	}

	s.manager.Remove(matchID)
	s.logger.Info().
		Str("match_id", matchID.String()).
		Str("outcome", outcome).
		Str("winner", string(snap.Winner)).
		Msg("match finalized")
}

func subjectOrDefault(subject string) string {
	if subject == "" {
		return question.DefaultSubject
	}
	return subject
}
