package ws

import "encoding/json"

// MessageType constants for the play protocol.
const (
	// Client -> Server
	TypeNext   = "next"
	TypeAnswer = "answer"

	// Server -> Client
	TypeQuestion     = "question"
	TypeAnswerResult = "answer_result"
	TypeQuizComplete = "quiz_complete"
	TypeError        = "error"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage encodes payload under the given type.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// Client Messages (incoming)

type AnswerPayload struct {
	Answer string `json:"answer"`
}

// Server Messages (outgoing)

// QuestionPayload carries a question without its answer.
type QuestionPayload struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
	Number     int    `json:"number"`
}

type AnswerResultPayload struct {
	QuestionID int64  `json:"question_id"`
	Correct    bool   `json:"correct"`
	Expected   string `json:"expected"`
	Score      int    `json:"score"`
}

type QuizCompletePayload struct {
	Score  int     `json:"score"`
	Served []int64 `json:"served"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
