package trivia

// AllCategories is the quiz category value meaning "no category restriction".
const AllCategories int64 = 0

// DefaultPageSize is the number of questions per listing page.
const DefaultPageSize = 10

// Question is a stored trivia question. Category 0 means unset.
type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Category labels a group of questions.
type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Page is a bounded slice of an ordered result set plus the unsliced total.
type Page struct {
	Questions []Question
	Total     int
}

// NewQuestion holds the fields a caller supplies when creating a question.
type NewQuestion struct {
	Question   string
	Answer     string
	Category   int64
	Difficulty int
}

// QuizState describes where a game session stands from the caller's point of view.
type QuizState string

const (
	StateReady     QuizState = "ready"
	StateAnswering QuizState = "answering"
	StateExhausted QuizState = "exhausted"
)

// Turn is the outcome of one quiz draw. A nil Question means the quiz is over.
type Turn struct {
	Question *Question
	State    QuizState
}

// Done reports whether the candidate pool has been fully served.
func (t Turn) Done() bool {
	return t.Question == nil
}
