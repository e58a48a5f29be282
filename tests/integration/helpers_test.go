//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// adminToken signs a token with the same secret as the server under test.
// An empty secret means the server runs without admin auth.
func adminToken(t *testing.T) string {
	t.Helper()

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		return ""
	}
	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(secret),
		Issuer: envOrDefault("APP_NAME", "trivia-api"),
	})
	token, err := tokens.Generate("integration", jwt.RoleAdmin)
	if err != nil {
		t.Fatalf("sign admin token: %v", err)
	}
	return token
}

func makeRequest(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, wantStatus int, out interface{}) {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("expected %d, got %d, body: %v", wantStatus, resp.StatusCode, errResp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

type question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// createQuestion adds a uniquely worded question and removes it when the test ends.
func createQuestion(t *testing.T, baseURL string, category int64) question {
	t.Helper()

	text := fmt.Sprintf("Integration question %d?", time.Now().UnixNano())
	resp := makeRequest(t, http.MethodPost, baseURL+"/v1/questions", adminToken(t), map[string]interface{}{
		"question":   text,
		"answer":     "forty-two",
		"category":   category,
		"difficulty": 3,
	})
	var created struct {
		Success bool  `json:"success"`
		Created int64 `json:"created"`
	}
	decode(t, resp, http.StatusCreated, &created)
	if !created.Success || created.Created == 0 {
		t.Fatalf("unexpected create response: %+v", created)
	}

	t.Cleanup(func() {
		resp := makeRequest(t, http.MethodDelete, fmt.Sprintf("%s/v1/questions/%d", baseURL, created.Created), adminToken(t), nil)
		resp.Body.Close()
	})

	return question{ID: created.Created, Question: text, Answer: "forty-two", Category: category, Difficulty: 3}
}
