package quizsession

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// StartRequest is the body of POST /v1/quiz-sessions.
type StartRequest struct {
	QuizCategory *trivia.QuizCategory `json:"quiz_category"`
}

type sessionResponse struct {
	Success bool    `json:"success"`
	Session Session `json:"session"`
}

type turnResponse struct {
	Success  bool             `json:"success"`
	Question *trivia.Question `json:"question"`
	State    trivia.QuizState `json:"state"`
	Session  Session          `json:"session"`
}

// HTTPHandler exposes server-side quiz sessions.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{svc: svc, logger: logger.With().Str("component", "quiz_sessions_http").Logger()}
}

// Start handles POST /v1/quiz-sessions
func (h *HTTPHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
			return
		}
	}
	category := trivia.AllCategories
	if req.QuizCategory != nil {
		category = req.QuizCategory.ID
	}

	sess, err := h.svc.Start(r.Context(), category)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sessionResponse{Success: true, Session: sess})
}

// Get handles GET /v1/quiz-sessions/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{Success: true, Session: sess})
}

// Next handles POST /v1/quiz-sessions/{id}/next
func (h *HTTPHandler) Next(w http.ResponseWriter, r *http.Request) {
	turn, sess, err := h.svc.Next(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, turnResponse{
		Success:  true,
		Question: turn.Question,
		State:    turn.State,
		Session:  sess,
	})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Quiz session not found")
	case errors.Is(err, ErrSessionBusy):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeSessionBusy, "Another draw is in progress for this session")
	default:
		trivia.WriteError(w, err, logging.FromContext(r.Context(), h.logger))
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
