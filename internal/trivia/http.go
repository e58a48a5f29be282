package trivia

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// HTTPOptions tunes listing behaviour.
type HTTPOptions struct {
	PageSize    int
	MaxPageSize int
}

// HTTPHandler exposes the trivia core over REST.
type HTTPHandler struct {
	svc         *Service
	validate    *validator.Validate
	pageSize    int
	maxPageSize int
	logger      zerolog.Logger
}

// NewHTTPHandler constructs the trivia REST handler.
func NewHTTPHandler(svc *Service, opts HTTPOptions, logger zerolog.Logger) *HTTPHandler {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxPageSize < opts.PageSize {
		opts.MaxPageSize = opts.PageSize
	}
	return &HTTPHandler{
		svc:         svc,
		validate:    NewValidator(),
		pageSize:    opts.PageSize,
		maxPageSize: opts.MaxPageSize,
		logger:      logger.With().Str("component", "trivia_http").Logger(),
	}
}

// NewValidator returns a validator that reports json field names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// GetCategories handles GET /v1/categories
func (h *HTTPHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if len(categories) == 0 {
		httperrors.RespondNotFound(w, httperrors.ErrCodeCategoryNotFound, "No categories found")
		return
	}
	respondJSON(w, http.StatusOK, categoriesResponse{Success: true, Categories: categories})
}

// ListQuestions handles GET /v1/questions?page=N
func (h *HTTPHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page, size, ok := h.pagination(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	p, err := h.svc.ListQuestions(ctx, page, size)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if len(p.Questions) == 0 {
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "No questions on this page")
		return
	}

	categories, err := h.svc.Categories(ctx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.reportDangling(r, p.Questions, categories)

	respondJSON(w, http.StatusOK, questionListResponse{
		Success:        true,
		Questions:      p.Questions,
		TotalQuestions: p.Total,
		Categories:     categories,
	})
}

// ListCategoryQuestions handles GET /v1/categories/{id}/questions?page=N
func (h *HTTPHandler) ListCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeCategoryNotFound, "Category not found")
		return
	}
	page, size, ok := h.pagination(w, r)
	if !ok {
		return
	}

	p, category, err := h.svc.ListCategoryQuestions(r.Context(), id, page, size)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if len(p.Questions) == 0 {
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "No questions on this page")
		return
	}

	respondJSON(w, http.StatusOK, questionListResponse{
		Success:         true,
		Questions:       p.Questions,
		TotalQuestions:  p.Total,
		CurrentCategory: &category.Type,
	})
}

// SearchQuestions handles POST /v1/questions/search?page=N
func (h *HTTPHandler) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !h.decode(w, r, &req) {
		return
	}
	page, size, ok := h.pagination(w, r)
	if !ok {
		return
	}

	p, err := h.svc.SearchQuestions(r.Context(), req.SearchTerm, page, size)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if len(p.Questions) == 0 {
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "No questions match the search term")
		return
	}

	respondJSON(w, http.StatusOK, questionListResponse{
		Success:        true,
		Questions:      p.Questions,
		TotalQuestions: p.Total,
	})
}

// CreateQuestion handles POST /v1/questions
func (h *HTTPHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	q, err := h.svc.CreateQuestion(ctx, NewQuestion{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   req.Category,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	p, err := h.svc.ListQuestions(ctx, 1, h.pageSize)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, createQuestionResponse{
		Success:         true,
		Created:         q.ID,
		QuestionCreated: q.Question,
		Questions:       p.Questions,
		TotalQuestions:  p.Total,
	})
}

// DeleteQuestion handles DELETE /v1/questions/{id}
func (h *HTTPHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "Question not found")
		return
	}

	if err := h.svc.DeleteQuestion(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deleteQuestionResponse{Success: true, Deleted: id})
}

// PlayQuiz handles POST /v1/quizzes
func (h *HTTPHandler) PlayQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if !h.decode(w, r, &req) {
		return
	}

	turn, err := h.svc.NextQuestion(r.Context(), req.QuizCategory.ID, req.PreviousQuestions)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quizResponse{Success: true, Question: turn.Question, State: turn.State})
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler should continue.
func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, validationMessage(fe), fe.Field())
			return false
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, err.Error())
		return false
	}
	return true
}

func (h *HTTPHandler) pagination(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	page, err := parsePositiveParam(r, "page", 1)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "page")
		return 0, 0, false
	}
	size, err := parsePositiveParam(r, "page_size", h.pageSize)
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "page_size")
		return 0, 0, false
	}
	if size > h.maxPageSize {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed,
			"page_size must not exceed "+strconv.Itoa(h.maxPageSize), "page_size")
		return 0, 0, false
	}
	return page, size, true
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, err, logging.FromContext(r.Context(), h.logger))
}

// reportDangling logs questions whose category is missing from categories.
func (h *HTTPHandler) reportDangling(r *http.Request, qs []Question, categories map[int64]string) {
	l := logging.FromContext(r.Context(), h.logger)
	for _, q := range qs {
		if q.Category == 0 {
			continue
		}
		if _, ok := categories[q.Category]; !ok {
			l.Warn().
				Int64("question_id", q.ID).
				Int64("category", q.Category).
				Msg("question references missing category")
		}
	}
}

// WriteError maps core errors onto HTTP responses.
func WriteError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), FieldOf(err))
	case errors.Is(err, ErrNotFound):
		code := httperrors.ErrCodeNotFound
		switch FieldOf(err) {
		case "category", "quiz_category":
			code = httperrors.ErrCodeCategoryNotFound
		case "id":
			code = httperrors.ErrCodeQuestionNotFound
		}
		httperrors.RespondNotFound(w, code, err.Error())
	default:
		logger.Error().Err(err).Msg("request failed")
		httperrors.RespondInternalError(w, "Unable to process request")
	}
}

func parsePositiveParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt", "gte":
		return fe.Field() + " must be at least " + minFor(fe)
	default:
		return fe.Field() + " is invalid"
	}
}

func minFor(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		n, err := strconv.Atoi(fe.Param())
		if err == nil {
			return strconv.Itoa(n + 1)
		}
	}
	return fe.Param()
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
