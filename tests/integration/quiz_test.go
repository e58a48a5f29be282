//go:build integration
// +build integration

package integration

import (
	"net/http"
	"testing"
)

func TestQuizServesEveryQuestionOnce(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	want := map[int64]bool{}
	for i := 0; i < 3; i++ {
		want[createQuestion(t, baseURL, 5).ID] = true
	}

	resp := makeRequest(t, http.MethodGet, baseURL+"/v1/categories/5/questions?page_size=100", "", nil)
	var pool struct {
		Questions []question `json:"questions"`
	}
	decode(t, resp, http.StatusOK, &pool)

	served := []int64{}
	seen := map[int64]bool{}
	for i := 0; i <= len(pool.Questions); i++ {
		resp := makeRequest(t, http.MethodPost, baseURL+"/v1/quizzes", "", map[string]interface{}{
			"previous_questions": served,
			"quiz_category":      map[string]interface{}{"id": 5, "type": "Sports"},
		})
		var turn struct {
			Question *question `json:"question"`
			State    string    `json:"state"`
		}
		decode(t, resp, http.StatusOK, &turn)

		if turn.Question == nil {
			if turn.State != "exhausted" {
				t.Fatalf("nil question with state %q", turn.State)
			}
			break
		}
		if seen[turn.Question.ID] {
			t.Fatalf("question %d served twice", turn.Question.ID)
		}
		if turn.Question.Category != 5 {
			t.Fatalf("question %d from category %d", turn.Question.ID, turn.Question.Category)
		}
		seen[turn.Question.ID] = true
		served = append(served, turn.Question.ID)
	}

	if len(served) != len(pool.Questions) {
		t.Fatalf("served %d of %d questions", len(served), len(pool.Questions))
	}
	for id := range want {
		if !seen[id] {
			t.Fatalf("created question %d never served", id)
		}
	}
}

func TestQuizSessions(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	createQuestion(t, baseURL, 6)

	resp := makeRequest(t, http.MethodPost, baseURL+"/v1/quiz-sessions", "", map[string]interface{}{
		"quiz_category": map[string]interface{}{"id": 6},
	})
	if resp.StatusCode == http.StatusServiceUnavailable {
		resp.Body.Close()
		t.Skip("quiz sessions disabled on this server")
	}
	var started struct {
		Session struct {
			ID string `json:"session_id"`
		} `json:"session"`
	}
	decode(t, resp, http.StatusCreated, &started)

	for {
		resp := makeRequest(t, http.MethodPost, baseURL+"/v1/quiz-sessions/"+started.Session.ID+"/next", "", nil)
		var turn struct {
			Question *question `json:"question"`
			State    string    `json:"state"`
			Session  struct {
				Served []int64 `json:"served"`
			} `json:"session"`
		}
		decode(t, resp, http.StatusOK, &turn)
		if turn.Question == nil {
			if turn.State != "exhausted" || len(turn.Session.Served) == 0 {
				t.Fatalf("unexpected final turn: %+v", turn)
			}
			return
		}
	}
}
