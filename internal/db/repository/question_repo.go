package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// pgForeignKeyViolation is the SQLSTATE for foreign_key_violation.
const pgForeignKeyViolation = "23503"

// querier is the subset of pgxpool.Pool the repository needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TriviaRepository stores questions and categories in Postgres.
type TriviaRepository struct {
	db querier
}

var _ trivia.Repository = (*TriviaRepository)(nil)

// NewTriviaRepository wraps a pgx pool (or transaction) for trivia access.
func NewTriviaRepository(db querier) *TriviaRepository {
	return &TriviaRepository{db: db}
}

const questionColumns = `id, question, answer, category, difficulty`

// ListQuestions returns every question ordered by id.
func (r *TriviaRepository) ListQuestions(ctx context.Context) ([]trivia.Question, error) {
	return r.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

// ListQuestionsByCategory returns the questions of one category ordered by id.
func (r *TriviaRepository) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]trivia.Question, error) {
	return r.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions WHERE category = $1 ORDER BY id`, categoryID)
}

// SearchQuestions matches term as a literal, case-insensitive substring.
func (r *TriviaRepository) SearchQuestions(ctx context.Context, term string) ([]trivia.Question, error) {
	return r.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE strpos(lower(question), lower($1)) > 0
		ORDER BY id
	`, term)
}

// CreateQuestion inserts a question and returns it with its new id.
func (r *TriviaRepository) CreateQuestion(ctx context.Context, in trivia.NewQuestion) (trivia.Question, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO questions (question, answer, category, difficulty)
		VALUES ($1, $2, $3, $4)
		RETURNING `+questionColumns,
		in.Question, in.Answer, in.Category, in.Difficulty,
	)
	q, err := scanQuestion(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return trivia.Question{}, fmt.Errorf("category %d: %w", in.Category, trivia.ErrNotFound)
		}
		return trivia.Question{}, fmt.Errorf("failed to insert question: %w", err)
	}
	return q, nil
}

// DeleteQuestion removes a question; a missing id yields trivia.ErrNotFound.
func (r *TriviaRepository) DeleteQuestion(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %d: %w", id, trivia.ErrNotFound)
	}
	return nil
}

func (r *TriviaRepository) queryQuestions(ctx context.Context, sql string, args ...any) ([]trivia.Question, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []trivia.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

func scanQuestion(row pgx.Row) (trivia.Question, error) {
	var (
		q        trivia.Question
		category pgtype.Int8
	)
	if err := row.Scan(&q.ID, &q.Question, &q.Answer, &category, &q.Difficulty); err != nil {
		return trivia.Question{}, err
	}
	if category.Valid {
		q.Category = category.Int64
	}
	return q, nil
}
