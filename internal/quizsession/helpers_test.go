package quizsession

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// staticRepo serves a fixed question set.
type staticRepo struct {
	questions  []trivia.Question
	categories []trivia.Category
}

func (r *staticRepo) ListQuestions(context.Context) ([]trivia.Question, error) {
	return append([]trivia.Question(nil), r.questions...), nil
}

func (r *staticRepo) ListQuestionsByCategory(_ context.Context, id int64) ([]trivia.Question, error) {
	var out []trivia.Question
	for _, q := range r.questions {
		if q.Category == id {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *staticRepo) SearchQuestions(context.Context, string) ([]trivia.Question, error) {
	return nil, nil
}

func (r *staticRepo) CreateQuestion(context.Context, trivia.NewQuestion) (trivia.Question, error) {
	return trivia.Question{}, fmt.Errorf("read only")
}

func (r *staticRepo) DeleteQuestion(context.Context, int64) error {
	return fmt.Errorf("read only")
}

func (r *staticRepo) GetCategory(_ context.Context, id int64) (trivia.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return trivia.Category{}, trivia.ErrNotFound
}

func (r *staticRepo) ListCategories(context.Context) ([]trivia.Category, error) {
	return r.categories, nil
}

type firstPick struct{}

func (firstPick) IntN(int) int { return 0 }

func newTestRepo() *staticRepo {
	return &staticRepo{
		categories: []trivia.Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}},
		questions: []trivia.Question{
			{ID: 1, Question: "Q1", Answer: "A1", Category: 1, Difficulty: 1},
			{ID: 2, Question: "Q2", Answer: "A2", Category: 1, Difficulty: 2},
			{ID: 3, Question: "Q3", Answer: "A3", Category: 2, Difficulty: 3},
		},
	}
}

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	finder := trivia.NewFinder(newTestRepo())
	selector := trivia.NewQuizSelector(finder, firstPick{})
	store := NewStore(client, time.Hour)
	return NewService(store, selector, finder, zerolog.Nop()), mr
}
