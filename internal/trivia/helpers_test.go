package trivia

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// memoryRepo is an in-memory Repository for tests.
type memoryRepo struct {
	mu         sync.Mutex
	nextID     int64
	questions  map[int64]Question
	categories map[int64]Category
	failWith   error
	calls      int
}

func newMemoryRepo(categories ...Category) *memoryRepo {
	r := &memoryRepo{questions: map[int64]Question{}, categories: map[int64]Category{}}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *memoryRepo) seed(qs ...Question) *memoryRepo {
	for _, q := range qs {
		r.questions[q.ID] = q
		if q.ID > r.nextID {
			r.nextID = q.ID
		}
	}
	return r
}

func (r *memoryRepo) sorted(keep func(Question) bool) ([]Question, error) {
	r.calls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []Question
	for _, q := range r.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) ListQuestions(context.Context) ([]Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(Question) bool { return true })
}

func (r *memoryRepo) ListQuestionsByCategory(_ context.Context, id int64) ([]Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(q Question) bool { return q.Category == id })
}

func (r *memoryRepo) SearchQuestions(_ context.Context, term string) ([]Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	term = strings.ToLower(term)
	return r.sorted(func(q Question) bool { return strings.Contains(strings.ToLower(q.Question), term) })
}

func (r *memoryRepo) CreateQuestion(_ context.Context, in NewQuestion) (Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return Question{}, r.failWith
	}
	if _, ok := r.categories[in.Category]; !ok {
		return Question{}, fmt.Errorf("category %d: %w", in.Category, ErrNotFound)
	}
	r.nextID++
	q := Question{ID: r.nextID, Question: in.Question, Answer: in.Answer, Category: in.Category, Difficulty: in.Difficulty}
	r.questions[q.ID] = q
	return q, nil
}

func (r *memoryRepo) DeleteQuestion(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.questions[id]; !ok {
		return fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	delete(r.questions, id)
	return nil
}

func (r *memoryRepo) GetCategory(_ context.Context, id int64) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return Category{}, r.failWith
	}
	c, ok := r.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) ListCategories(context.Context) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

// scriptedRand replays picks in order, wrapping around.
type scriptedRand struct {
	picks []int
	i     int
	seen  []int
}

func (s *scriptedRand) IntN(n int) int {
	s.seen = append(s.seen, n)
	if len(s.picks) == 0 {
		return 0
	}
	p := s.picks[s.i%len(s.picks)] % n
	s.i++
	return p
}

var errDBDown = errors.New("db down")

func sampleCategories() []Category {
	return []Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}, {ID: 3, Type: "Geography"}, {ID: 4, Type: "History"}}
}

func sampleQuestions(n int, category int64) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:         int64(i + 1),
			Question:   fmt.Sprintf("Question %d", i+1),
			Answer:     fmt.Sprintf("Answer %d", i+1),
			Category:   category,
			Difficulty: 1 + i%5,
		}
	}
	return qs
}
