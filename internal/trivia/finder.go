package trivia

import (
	"context"
	"errors"
	"fmt"
)

// Finder runs read-only lookups against the repository and always returns
// fully materialized, id-ordered slices.
type Finder struct {
	repo Repository
}

func NewFinder(repo Repository) *Finder {
	return &Finder{repo: repo}
}

// AllQuestions returns every question ordered by id.
func (f *Finder) AllQuestions(ctx context.Context) ([]Question, error) {
	qs, err := f.repo.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return nonNil(qs), nil
}

// QuestionsByCategory returns the questions filed under categoryID. An existing
// category with no questions yields an empty slice; an unknown one ErrNotFound.
func (f *Finder) QuestionsByCategory(ctx context.Context, categoryID int64) ([]Question, error) {
	if _, err := f.Category(ctx, categoryID); err != nil {
		return nil, err
	}
	qs, err := f.repo.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list questions for category %d: %w", categoryID, err)
	}
	return nonNil(qs), nil
}

// Search returns questions whose text contains term, ignoring case. The empty
// term matches everything.
func (f *Finder) Search(ctx context.Context, term string) ([]Question, error) {
	if term == "" {
		return f.AllQuestions(ctx)
	}
	qs, err := f.repo.SearchQuestions(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	return nonNil(qs), nil
}

// Category looks up a single category.
func (f *Finder) Category(ctx context.Context, id int64) (Category, error) {
	if id < 1 {
		return Category{}, notFound("category", fmt.Sprintf("category %d does not exist", id))
	}
	c, err := f.repo.GetCategory(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Category{}, notFound("category", fmt.Sprintf("category %d does not exist", id))
	}
	if err != nil {
		return Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// AllCategories maps category id to its type label.
func (f *Finder) AllCategories(ctx context.Context) (map[int64]string, error) {
	cs, err := f.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make(map[int64]string, len(cs))
	for _, c := range cs {
		out[c.ID] = c.Type
	}
	return out, nil
}

func nonNil(qs []Question) []Question {
	if qs == nil {
		return []Question{}
	}
	return qs
}
