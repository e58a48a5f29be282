package trivia

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSelector(repo Repository, rng Rand) *QuizSelector {
	return NewQuizSelector(NewFinder(repo), rng)
}

func TestNextQuestionReturnsOnlyRemaining(t *testing.T) {
	repo := newMemoryRepo(sampleCategories()...).seed(sampleQuestions(3, 4)...)
	rng := &scriptedRand{picks: []int{0, 1, 2, 5, 7}}
	selector := newSelector(repo, rng)

	for i := 0; i < 20; i++ {
		turn, err := selector.NextQuestion(context.Background(), 4, []int64{1, 2})
		require.NoError(t, err)
		require.False(t, turn.Done())
		assert.Equal(t, int64(3), turn.Question.ID)
		assert.Equal(t, StateAnswering, turn.State)
	}
	for _, n := range rng.seen {
		assert.Equal(t, 1, n, "draw must be over the remaining pool only")
	}
}

func TestNextQuestionExhausted(t *testing.T) {
	repo := newMemoryRepo(sampleCategories()...).seed(sampleQuestions(3, 4)...)
	rng := &scriptedRand{}
	selector := newSelector(repo, rng)

	turn, err := selector.NextQuestion(context.Background(), 4, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, turn.Done())
	assert.Nil(t, turn.Question)
	assert.Equal(t, StateExhausted, turn.State)
	assert.Empty(t, rng.seen, "no draw once the pool is exhausted")
}

func TestNextQuestionEmptyCategoryIsExhausted(t *testing.T) {
	repo := newMemoryRepo(sampleCategories()...).seed(sampleQuestions(3, 1)...)
	selector := newSelector(repo, &scriptedRand{})

	turn, err := selector.NextQuestion(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.True(t, turn.Done())
}

func TestNextQuestionTerminatesWithinPoolSize(t *testing.T) {
	qs := append(sampleQuestions(6, 1), Question{ID: 7, Question: "Q7", Answer: "A", Category: 2, Difficulty: 1})
	repo := newMemoryRepo(sampleCategories()...).seed(qs...)
	selector := newSelector(repo, NewRand())
	ctx := context.Background()

	for _, tc := range []struct {
		category int64
		pool     int
	}{
		{category: AllCategories, pool: 7},
		{category: 1, pool: 6},
		{category: 2, pool: 1},
	} {
		var served []int64
		seen := map[int64]bool{}
		calls := 0
		for {
			calls++
			require.LessOrEqual(t, calls, tc.pool+1, "category %d did not terminate", tc.category)

			turn, err := selector.NextQuestion(ctx, tc.category, served)
			require.NoError(t, err)
			if turn.Done() {
				break
			}
			assert.False(t, seen[turn.Question.ID], "question %d served twice", turn.Question.ID)
			if tc.category != AllCategories {
				assert.Equal(t, tc.category, turn.Question.Category)
			}
			seen[turn.Question.ID] = true
			served = append(served, turn.Question.ID)
		}
		assert.Len(t, served, tc.pool)
		assert.Equal(t, tc.pool+1, calls)
	}
}

func TestNextQuestionUnknownCategory(t *testing.T) {
	repo := newMemoryRepo(sampleCategories()...).seed(sampleQuestions(3, 1)...)
	selector := newSelector(repo, &scriptedRand{})

	_, err := selector.NextQuestion(context.Background(), 42, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNextQuestionNegativeCategory(t *testing.T) {
	selector := newSelector(newMemoryRepo(sampleCategories()...), &scriptedRand{})

	_, err := selector.NextQuestion(context.Background(), -1, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNextQuestionIgnoresForeignServedIDs(t *testing.T) {
	repo := newMemoryRepo(sampleCategories()...).seed(sampleQuestions(2, 1)...)
	selector := newSelector(repo, &scriptedRand{picks: []int{1}})

	turn, err := selector.NextQuestion(context.Background(), 1, []int64{100, 200})
	require.NoError(t, err)
	require.False(t, turn.Done())
	assert.Equal(t, int64(2), turn.Question.ID)
}

func TestNextQuestionPropagatesRepositoryError(t *testing.T) {
	repo := newMemoryRepo(sampleCategories()...)
	repo.failWith = errDBDown
	selector := newSelector(repo, &scriptedRand{})

	_, err := selector.NextQuestion(context.Background(), AllCategories, nil)
	assert.ErrorIs(t, err, errDBDown)
}

func TestRemainingKeepsPoolOrder(t *testing.T) {
	pool := sampleQuestions(5, 1)

	got := Remaining(pool, []int64{2, 4})
	ids := make([]int64, len(got))
	for i, q := range got {
		ids[i] = q.ID
	}
	assert.Equal(t, []int64{1, 3, 5}, ids)
	assert.Empty(t, Remaining(pool, []int64{1, 2, 3, 4, 5}))
}

func TestNewRandStaysInRange(t *testing.T) {
	rng := NewRand()
	for i := 0; i < 1000; i++ {
		v := rng.IntN(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}
