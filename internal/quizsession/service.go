package quizsession

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

type selector interface {
	NextQuestion(ctx context.Context, category int64, served []int64) (trivia.Turn, error)
}

type categoryLookup interface {
	Category(ctx context.Context, id int64) (trivia.Category, error)
}

// Service plays quizzes whose state lives in Redis rather than with the client.
type Service struct {
	store      *Store
	selector   selector
	categories categoryLookup
	logger     zerolog.Logger
}

func NewService(store *Store, sel selector, categories categoryLookup, logger zerolog.Logger) *Service {
	return &Service{
		store:      store,
		selector:   sel,
		categories: categories,
		logger:     logger.With().Str("component", "quiz_sessions").Logger(),
	}
}

// Start opens a session for category (trivia.AllCategories for every category).
func (s *Service) Start(ctx context.Context, category int64) (Session, error) {
	if category < 0 {
		return Session{}, &trivia.Error{Kind: trivia.ErrInvalidArgument, Field: "quiz_category", Message: "must be zero or a category id"}
	}
	if category != trivia.AllCategories {
		if _, err := s.categories.Category(ctx, category); err != nil {
			return Session{}, err
		}
	}
	sess, err := s.store.Create(ctx, category)
	if err != nil {
		return Session{}, err
	}
	s.logger.Debug().Str("session_id", sess.ID).Int64("category", category).Msg("quiz session started")
	return sess, nil
}

// Get returns the current session state.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	return s.store.Get(ctx, id)
}

// Next draws the next unseen question and records it. Once exhausted a
// session stays exhausted.
func (s *Service) Next(ctx context.Context, id string) (trivia.Turn, Session, error) {
	unlock, err := s.store.Lock(ctx, id)
	if err != nil {
		return trivia.Turn{}, Session{}, err
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn().Err(err).Str("session_id", id).Msg("release session lock")
		}
	}()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return trivia.Turn{}, Session{}, err
	}
	if sess.State == trivia.StateExhausted {
		return trivia.Turn{State: trivia.StateExhausted}, sess, nil
	}

	turn, err := s.selector.NextQuestion(ctx, sess.Category, sess.Served)
	if err != nil {
		return trivia.Turn{}, Session{}, err
	}

	if turn.Done() {
		if err := s.store.MarkExhausted(ctx, id); err != nil {
			return trivia.Turn{}, Session{}, err
		}
		sess.State = trivia.StateExhausted
		s.logger.Debug().Str("session_id", id).Int("served", len(sess.Served)).Msg("quiz session exhausted")
		return turn, sess, nil
	}

	if err := s.store.MarkServed(ctx, id, turn.Question.ID); err != nil {
		return trivia.Turn{}, Session{}, err
	}
	sess.State = trivia.StateAnswering
	sess.Served = append(sess.Served, turn.Question.ID)
	return turn, sess, nil
}
