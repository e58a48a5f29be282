package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	called := m.Called(ctx, sql, args)
	rows, _ := called.Get(0).(pgx.Rows)
	return rows, called.Error(1)
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return m.Called(ctx, sql, args).Get(0).(pgx.Row)
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	called := m.Called(ctx, sql, args)
	return called.Get(0).(pgconn.CommandTag), called.Error(1)
}

// stubRow feeds fixed values (or an error) to Scan.
type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *int:
			*p = r.values[i].(int)
		case *string:
			*p = r.values[i].(string)
		default:
			if s, ok := d.(interface{ Scan(any) error }); ok {
				if err := s.Scan(r.values[i]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func TestTriviaRepository_DeleteQuestion(t *testing.T) {
	db := new(mockQuerier)
	repo := NewTriviaRepository(db)

	db.On("Exec", mock.Anything, mock.Anything, []any{int64(7)}).Return(pgconn.NewCommandTag("DELETE 1"), nil)

	assert.NoError(t, repo.DeleteQuestion(context.Background(), 7))
	db.AssertExpectations(t)
}

func TestTriviaRepository_DeleteQuestionMissing(t *testing.T) {
	db := new(mockQuerier)
	repo := NewTriviaRepository(db)

	db.On("Exec", mock.Anything, mock.Anything, []any{int64(99)}).Return(pgconn.NewCommandTag("DELETE 0"), nil)

	err := repo.DeleteQuestion(context.Background(), 99)
	assert.ErrorIs(t, err, trivia.ErrNotFound)
}

func TestTriviaRepository_GetCategory(t *testing.T) {
	db := new(mockQuerier)
	repo := NewTriviaRepository(db)

	db.On("QueryRow", mock.Anything, mock.Anything, []any{int64(2)}).Return(stubRow{values: []any{int64(2), "Art"}})

	got, err := repo.GetCategory(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, trivia.Category{ID: 2, Type: "Art"}, got)
}

func TestTriviaRepository_GetCategoryMissing(t *testing.T) {
	db := new(mockQuerier)
	repo := NewTriviaRepository(db)

	db.On("QueryRow", mock.Anything, mock.Anything, []any{int64(42)}).Return(stubRow{err: pgx.ErrNoRows})

	_, err := repo.GetCategory(context.Background(), 42)
	assert.ErrorIs(t, err, trivia.ErrNotFound)
}

func TestTriviaRepository_CreateQuestion(t *testing.T) {
	db := new(mockQuerier)
	repo := NewTriviaRepository(db)

	in := trivia.NewQuestion{Question: "Capital of France?", Answer: "Paris", Category: 3, Difficulty: 2}
	db.On("QueryRow", mock.Anything, mock.Anything, []any{in.Question, in.Answer, in.Category, in.Difficulty}).
		Return(stubRow{values: []any{int64(24), in.Question, in.Answer, int64(3), 2}})

	got, err := repo.CreateQuestion(context.Background(), in)
	assert.NoError(t, err)
	assert.Equal(t, trivia.Question{ID: 24, Question: in.Question, Answer: in.Answer, Category: 3, Difficulty: 2}, got)
}

func TestTriviaRepository_CreateQuestionForeignKeyViolation(t *testing.T) {
	db := new(mockQuerier)
	repo := NewTriviaRepository(db)

	in := trivia.NewQuestion{Question: "Q", Answer: "A", Category: 77, Difficulty: 1}
	db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).
		Return(stubRow{err: &pgconn.PgError{Code: pgForeignKeyViolation}})

	_, err := repo.CreateQuestion(context.Background(), in)
	assert.ErrorIs(t, err, trivia.ErrNotFound)
}
