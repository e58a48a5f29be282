package sqlite

import "context"

// defaultCategories mirrors the Postgres seed migration.
var defaultCategories = []string{"Science", "Art", "Geography", "History", "Entertainment", "Sports"}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			category INTEGER REFERENCES categories (id) ON DELETE SET NULL,
			difficulty INTEGER NOT NULL CHECK (difficulty > 0)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for i, label := range defaultCategories {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO categories (id, type) VALUES (?, ?)`, i+1, label); err != nil {
			return err
		}
	}
	return nil
}
