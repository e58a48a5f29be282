package trivia

// CreateQuestionRequest is the body of POST /v1/questions.
type CreateQuestionRequest struct {
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	Category   int64  `json:"category" validate:"required,gt=0"`
	Difficulty int    `json:"difficulty" validate:"required,gte=1"`
}

// SearchRequest is the body of POST /v1/questions/search.
type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// QuizCategory identifies the quiz scope; ID 0 means every category.
type QuizCategory struct {
	ID   int64  `json:"id" validate:"gte=0"`
	Type string `json:"type,omitempty"`
}

// QuizRequest is the body of POST /v1/quizzes.
type QuizRequest struct {
	PreviousQuestions []int64       `json:"previous_questions" validate:"dive,gt=0"`
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
}

type questionListResponse struct {
	Success         bool             `json:"success"`
	Questions       []Question       `json:"questions"`
	TotalQuestions  int              `json:"total_questions"`
	Categories      map[int64]string `json:"categories,omitempty"`
	CurrentCategory *string          `json:"current_category"`
}

type categoriesResponse struct {
	Success    bool             `json:"success"`
	Categories map[int64]string `json:"categories"`
}

type createQuestionResponse struct {
	Success         bool       `json:"success"`
	Created         int64      `json:"created"`
	QuestionCreated string     `json:"question_created"`
	Questions       []Question `json:"questions"`
	TotalQuestions  int        `json:"total_questions"`
}

type deleteQuestionResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type quizResponse struct {
	Success  bool      `json:"success"`
	Question *Question `json:"question"`
	State    QuizState `json:"state"`
}
