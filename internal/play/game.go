package play

import (
	"strings"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
	"github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

type game struct {
	category int64
	served   []int64
	current  *trivia.Question
	score    int
	done     bool
}

func (g *game) summary() ws.QuizCompletePayload {
	return ws.QuizCompletePayload{Score: g.score, Served: append([]int64{}, g.served...)}
}

// matches compares answers ignoring case and surrounding whitespace.
func matches(given, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(expected))
}
