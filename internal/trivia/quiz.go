package trivia

import (
	"context"
	"fmt"
)

// QuizSelector draws the next unseen question for a game. It keeps no state
// between calls; the caller owns the served-id history.
type QuizSelector struct {
	finder *Finder
	rng    Rand
}

func NewQuizSelector(finder *Finder, rng Rand) *QuizSelector {
	if rng == nil {
		rng = NewRand()
	}
	return &QuizSelector{finder: finder, rng: rng}
}

// NextQuestion picks uniformly among the questions in category (or all of them
// for AllCategories) whose ids are not in served. When nothing is left it
// returns a Turn with a nil Question and StateExhausted.
func (s *QuizSelector) NextQuestion(ctx context.Context, category int64, served []int64) (Turn, error) {
	if category < 0 {
		return Turn{}, invalidArgument("quiz_category", "must be zero or a category id")
	}

	var (
		pool []Question
		err  error
	)
	if category == AllCategories {
		pool, err = s.finder.AllQuestions(ctx)
	} else {
		pool, err = s.finder.QuestionsByCategory(ctx, category)
	}
	if err != nil {
		return Turn{}, err
	}

	remaining := Remaining(pool, served)
	if len(remaining) == 0 {
		quizDraws.WithLabelValues("exhausted").Inc()
		return Turn{State: StateExhausted}, nil
	}

	pick := s.rng.IntN(len(remaining))
	if pick < 0 || pick >= len(remaining) {
		return Turn{}, fmt.Errorf("random source returned %d for pool of %d", pick, len(remaining))
	}
	q := remaining[pick]
	quizDraws.WithLabelValues("question").Inc()
	return Turn{Question: &q, State: StateAnswering}, nil
}

// Remaining returns the questions of pool whose ids are not in served, keeping
// pool order.
func Remaining(pool []Question, served []int64) []Question {
	seen := make(map[int64]struct{}, len(served))
	for _, id := range served {
		seen[id] = struct{}{}
	}
	out := make([]Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := seen[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}
