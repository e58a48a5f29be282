package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Candidate is an externally sourced question before it is mapped onto a
// local category.
type Candidate struct {
	Source     string
	Question   string
	Answer     string
	Category   string
	Difficulty int
}

// Source fetches candidate questions from a public trivia API.
type Source interface {
	Name() string
	Fetch(ctx context.Context, amount int) ([]Candidate, error)
}

// difficultyScore maps the easy/medium/hard scale onto 1..5.
func difficultyScore(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "easy":
		return 1
	case "hard":
		return 5
	default:
		return 3
	}
}

// OpenTDBClient fetches questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &OpenTDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *OpenTDBClient) Name() string { return "opentdb" }

type openTDBQuestion struct {
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []openTDBQuestion `json:"results"`
}

// Fetch asks for free-text friendly multiple choice questions; only the
// correct answer is kept. OpenTDB HTML-escapes its text.
func (c *OpenTDBClient) Fetch(ctx context.Context, amount int) ([]Candidate, error) {
	values := url.Values{}
	values.Set("amount", fmt.Sprint(amount))
	values.Set("type", "multiple")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("opentdb non-200: %d", resp.StatusCode)
	}

	var payload openTDBResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}

	out := make([]Candidate, 0, len(payload.Results))
	for _, q := range payload.Results {
		out = append(out, Candidate{
			Source:     c.Name(),
			Question:   html.UnescapeString(q.Question),
			Answer:     html.UnescapeString(q.CorrectAnswer),
			Category:   html.UnescapeString(q.Category),
			Difficulty: difficultyScore(q.Difficulty),
		})
	}
	return out, nil
}

// TriviaAPIClient integrates with the-trivia-api.com. The key is optional.
type TriviaAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewTriviaAPIClient(baseURL, apiKey string, httpClient *http.Client) *TriviaAPIClient {
	if baseURL == "" {
		baseURL = "https://the-trivia-api.com/api"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &TriviaAPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *TriviaAPIClient) Name() string { return "triviaapi" }

type triviaAPIQuestion struct {
	Category   string `json:"category"`
	Question   string `json:"question"`
	Difficulty string `json:"difficulty"`
	Correct    string `json:"correctAnswer"`
}

func (c *TriviaAPIClient) Fetch(ctx context.Context, amount int) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/questions?limit=%d", c.baseURL, amount), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("triviaapi non-200: %d", resp.StatusCode)
	}

	var payload []triviaAPIQuestion
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(payload))
	for _, q := range payload {
		out = append(out, Candidate{
			Source:     c.Name(),
			Question:   q.Question,
			Answer:     q.Correct,
			Category:   q.Category,
			Difficulty: difficultyScore(q.Difficulty),
		})
	}
	return out, nil
}
