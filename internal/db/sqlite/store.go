package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

const driverName = "sqlite3_trivia"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// SQLite's built-in lower only folds ASCII.
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

// Store is a SQLite-backed trivia repository for local development.
type Store struct {
	db *sql.DB
}

var _ trivia.Repository = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "trivia.db"
	}

	db, err := sql.Open(driverName, "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database handle is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const questionColumns = `id, question, answer, category, difficulty`

func (s *Store) ListQuestions(ctx context.Context) ([]trivia.Question, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

func (s *Store) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]trivia.Question, error) {
	return s.queryQuestions(ctx, `SELECT `+questionColumns+` FROM questions WHERE category = ? ORDER BY id`, categoryID)
}

// SearchQuestions uses instr so the term is matched literally.
func (s *Store) SearchQuestions(ctx context.Context, term string) ([]trivia.Question, error) {
	return s.queryQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE instr(fold(question), fold(?)) > 0
		ORDER BY id
	`, term)
}

func (s *Store) CreateQuestion(ctx context.Context, in trivia.NewQuestion) (trivia.Question, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (question, answer, category, difficulty) VALUES (?, ?, ?, ?)`,
		in.Question, in.Answer, in.Category, in.Difficulty,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return trivia.Question{}, fmt.Errorf("category %d: %w", in.Category, trivia.ErrNotFound)
		}
		return trivia.Question{}, fmt.Errorf("insert question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return trivia.Question{}, fmt.Errorf("insert question id: %w", err)
	}
	return trivia.Question{
		ID:         id,
		Question:   in.Question,
		Answer:     in.Answer,
		Category:   in.Category,
		Difficulty: in.Difficulty,
	}, nil
}

func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("question %d: %w", id, trivia.ErrNotFound)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (trivia.Category, error) {
	var c trivia.Category
	err := s.db.QueryRowContext(ctx, `SELECT id, type FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return trivia.Category{}, fmt.Errorf("category %d: %w", id, trivia.ErrNotFound)
	}
	if err != nil {
		return trivia.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []trivia.Category
	for rows.Next() {
		var c trivia.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// AddCategory inserts a category; used for seeding and tests.
func (s *Store) AddCategory(ctx context.Context, label string) (trivia.Category, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO categories (type) VALUES (?)`, label)
	if err != nil {
		return trivia.Category{}, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return trivia.Category{}, err
	}
	return trivia.Category{ID: id, Type: label}, nil
}

func (s *Store) queryQuestions(ctx context.Context, query string, args ...any) ([]trivia.Question, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []trivia.Question{}
	for rows.Next() {
		var (
			q        trivia.Question
			category sql.NullInt64
		)
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &category, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Category = category.Int64
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
