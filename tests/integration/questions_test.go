//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestQuestionLifecycle(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	q := createQuestion(t, baseURL, 1)

	// search is literal and case-insensitive
	term := strings.ToUpper(strings.TrimSuffix(q.Question, "?"))
	resp := makeRequest(t, http.MethodPost, baseURL+"/v1/questions/search", "", map[string]string{"searchTerm": term})
	var found struct {
		Questions      []question `json:"questions"`
		TotalQuestions int        `json:"total_questions"`
	}
	decode(t, resp, http.StatusOK, &found)
	if found.TotalQuestions != 1 || found.Questions[0].ID != q.ID {
		t.Fatalf("search for %q returned %+v", term, found)
	}

	resp = makeRequest(t, http.MethodGet, baseURL+"/v1/categories/1/questions?page_size=100", "", nil)
	var byCategory struct {
		Questions       []question `json:"questions"`
		CurrentCategory string     `json:"current_category"`
	}
	decode(t, resp, http.StatusOK, &byCategory)
	if byCategory.CurrentCategory != "Science" {
		t.Fatalf("expected current_category Science, got %q", byCategory.CurrentCategory)
	}
	for _, other := range byCategory.Questions {
		if other.Category != 1 {
			t.Fatalf("question %d has category %d", other.ID, other.Category)
		}
	}

	resp = makeRequest(t, http.MethodDelete, fmt.Sprintf("%s/v1/questions/%d", baseURL, q.ID), adminToken(t), nil)
	decode(t, resp, http.StatusOK, nil)

	resp = makeRequest(t, http.MethodDelete, fmt.Sprintf("%s/v1/questions/%d", baseURL, q.ID), adminToken(t), nil)
	decode(t, resp, http.StatusNotFound, nil)
}

func TestCategories(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")

	resp := makeRequest(t, http.MethodGet, baseURL+"/v1/categories", "", nil)
	var out struct {
		Categories map[string]string `json:"categories"`
	}
	decode(t, resp, http.StatusOK, &out)
	if out.Categories["1"] != "Science" {
		t.Fatalf("expected seeded Science category, got %v", out.Categories)
	}
}
