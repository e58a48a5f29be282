package trivia

import "context"

// Repository is the persistent store behind the trivia core. Implementations
// return ErrNotFound (optionally wrapped) for missing rows and must order
// question listings by id ascending.
type Repository interface {
	ListQuestions(ctx context.Context) ([]Question, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]Question, error)
	SearchQuestions(ctx context.Context, term string) ([]Question, error)
	CreateQuestion(ctx context.Context, q NewQuestion) (Question, error)
	DeleteQuestion(ctx context.Context, id int64) error

	GetCategory(ctx context.Context, id int64) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
