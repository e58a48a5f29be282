package trivia

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Service ties the finder, paginator and quiz selector to the mutation paths.
type Service struct {
	repo     Repository
	finder   *Finder
	selector *QuizSelector
	logger   zerolog.Logger
}

// ServiceOptions configures optional collaborators.
type ServiceOptions struct {
	Rand Rand
}

// NewService wires the trivia core on top of repo.
func NewService(repo Repository, opts ServiceOptions, logger zerolog.Logger) *Service {
	finder := NewFinder(repo)
	return &Service{
		repo:     repo,
		finder:   finder,
		selector: NewQuizSelector(finder, opts.Rand),
		logger:   logger.With().Str("component", "trivia_service").Logger(),
	}
}

// Finder exposes the read-side lookups.
func (s *Service) Finder() *Finder { return s.finder }

// Selector exposes the quiz selector.
func (s *Service) Selector() *QuizSelector { return s.selector }

// ListQuestions returns one page over every question.
func (s *Service) ListQuestions(ctx context.Context, page, pageSize int) (Page, error) {
	qs, err := s.finder.AllQuestions(ctx)
	if err != nil {
		return Page{}, err
	}
	return Paginate(qs, page, pageSize)
}

// ListCategoryQuestions returns one page of a category's questions plus the category.
func (s *Service) ListCategoryQuestions(ctx context.Context, categoryID int64, page, pageSize int) (Page, Category, error) {
	category, err := s.finder.Category(ctx, categoryID)
	if err != nil {
		return Page{}, Category{}, err
	}
	qs, err := s.finder.QuestionsByCategory(ctx, categoryID)
	if err != nil {
		return Page{}, Category{}, err
	}
	p, err := Paginate(qs, page, pageSize)
	return p, category, err
}

// SearchQuestions returns one page of the questions matching term.
func (s *Service) SearchQuestions(ctx context.Context, term string, page, pageSize int) (Page, error) {
	qs, err := s.finder.Search(ctx, term)
	if err != nil {
		return Page{}, err
	}
	return Paginate(qs, page, pageSize)
}

// Categories maps category id to type label.
func (s *Service) Categories(ctx context.Context) (map[int64]string, error) {
	return s.finder.AllCategories(ctx)
}

// NextQuestion draws the next quiz question; see QuizSelector.NextQuestion.
func (s *Service) NextQuestion(ctx context.Context, category int64, served []int64) (Turn, error) {
	return s.selector.NextQuestion(ctx, category, served)
}

// CreateQuestion validates and stores a new question.
func (s *Service) CreateQuestion(ctx context.Context, in NewQuestion) (Question, error) {
	in.Question = strings.TrimSpace(in.Question)
	in.Answer = strings.TrimSpace(in.Answer)

	switch {
	case in.Question == "":
		return Question{}, invalidArgument("question", "is required")
	case in.Answer == "":
		return Question{}, invalidArgument("answer", "is required")
	case in.Category == 0:
		return Question{}, invalidArgument("category", "is required")
	case in.Category < 0:
		return Question{}, invalidArgument("category", "must be a category id")
	case in.Difficulty < 1:
		return Question{}, invalidArgument("difficulty", "must be a positive integer")
	}

	if _, err := s.finder.Category(ctx, in.Category); err != nil {
		return Question{}, err
	}

	q, err := s.repo.CreateQuestion(ctx, in)
	if errors.Is(err, ErrNotFound) {
		// category deleted between the check and the insert
		return Question{}, notFound("category", fmt.Sprintf("category %d does not exist", in.Category))
	}
	if err != nil {
		return Question{}, fmt.Errorf("create question: %w", err)
	}

	questionMutations.WithLabelValues("create").Inc()
	s.logger.Info().Int64("question_id", q.ID).Int64("category", q.Category).Msg("question created")
	return q, nil
}

// DeleteQuestion removes a question permanently. Deleting an unknown id
// yields ErrNotFound.
func (s *Service) DeleteQuestion(ctx context.Context, id int64) error {
	if id < 1 {
		return notFound("id", fmt.Sprintf("question %d does not exist", id))
	}
	err := s.repo.DeleteQuestion(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return notFound("id", fmt.Sprintf("question %d does not exist", id))
	}
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}

	questionMutations.WithLabelValues("delete").Inc()
	s.logger.Info().Int64("question_id", id).Msg("question deleted")
	return nil
}
