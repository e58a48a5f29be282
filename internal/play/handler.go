package play

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
	"github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

const errCodeNoActiveQuestion = "no_active_question"

var activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "trivia_play_active_connections",
	Help: "Open live quiz WebSocket connections.",
})

type selector interface {
	NextQuestion(ctx context.Context, category int64, served []int64) (trivia.Turn, error)
}

type categoryLookup interface {
	Category(ctx context.Context, id int64) (trivia.Category, error)
}

// Handler runs live quizzes over WebSocket. Each connection holds its own
// QuizState; nothing is persisted.
type Handler struct {
	selector   selector
	categories categoryLookup
	upgrader   *websocket.Upgrader
	hub        *ws.Hub
	logger     zerolog.Logger
}

func NewHandler(sel selector, categories categoryLookup, upgrader *websocket.Upgrader, logger zerolog.Logger) *Handler {
	logger = logger.With().Str("component", "play").Logger()
	return &Handler{
		selector:   sel,
		categories: categories,
		upgrader:   upgrader,
		hub: ws.NewHub(logger, func(active int) {
			activeConnections.Set(float64(active))
		}),
		logger: logger,
	}
}

// Hub exposes the live connection registry.
func (h *Handler) Hub() *ws.Hub { return h.hub }

// HandleWebSocket handles GET /ws/play?category=N
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	category := trivia.AllCategories
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed,
				"category must be zero or a category id", "category")
			return
		}
		category = id
	}
	if category != trivia.AllCategories {
		if _, err := h.categories.Category(r.Context(), category); err != nil {
			trivia.WriteError(w, err, logging.FromContext(r.Context(), h.logger))
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.serve(conn, category, logging.FromContext(r.Context(), h.logger))
}

func (h *Handler) serve(conn *websocket.Conn, category int64, logger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsConn := ws.NewConnection(conn, logger)
	id := h.hub.Register(wsConn)
	go wsConn.WritePump()

	g := &game{category: category, served: []int64{}}
	logger = logger.With().Str("conn_id", id.String()).Int64("category", category).Logger()
	logger.Info().Msg("live quiz started")

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(ctx, wsConn, g, msg)
	})

	h.hub.Unregister(id)
	logger.Info().Int("score", g.score).Int("served", len(g.served)).Msg("live quiz ended")
}

// handleMessage routes incoming WebSocket messages.
func (h *Handler) handleMessage(ctx context.Context, conn *ws.Connection, g *game, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeNext:
		return h.handleNext(ctx, conn, g, msg.RequestID)
	case ws.TypeAnswer:
		return h.handleAnswer(conn, g, msg)
	default:
		return sendError(conn, msg.RequestID, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *Handler) handleNext(ctx context.Context, conn *ws.Connection, g *game, requestID string) error {
	if g.done {
		return send(conn, requestID, ws.TypeQuizComplete, g.summary())
	}

	turn, err := h.selector.NextQuestion(ctx, g.category, g.served)
	if err != nil {
		h.logger.Error().Err(err).Msg("draw failed")
		return sendError(conn, requestID, httperrors.ErrCodeInternalError, "Unable to draw a question")
	}
	if turn.Done() {
		g.done = true
		g.current = nil
		return send(conn, requestID, ws.TypeQuizComplete, g.summary())
	}

	q := *turn.Question
	g.current = &q
	g.served = append(g.served, q.ID)
	return send(conn, requestID, ws.TypeQuestion, ws.QuestionPayload{
		ID:         q.ID,
		Question:   q.Question,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Number:     len(g.served),
	})
}

func (h *Handler) handleAnswer(conn *ws.Connection, g *game, msg ws.Message) error {
	var req ws.AnswerPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid answer payload")
	}
	if g.current == nil {
		return sendError(conn, msg.RequestID, errCodeNoActiveQuestion, "Request a question before answering")
	}

	q := g.current
	g.current = nil
	correct := matches(req.Answer, q.Answer)
	if correct {
		g.score++
	}
	return send(conn, msg.RequestID, ws.TypeAnswerResult, ws.AnswerResultPayload{
		QuestionID: q.ID,
		Correct:    correct,
		Expected:   q.Answer,
		Score:      g.score,
	})
}

func send(conn *ws.Connection, requestID, msgType string, payload interface{}) error {
	msg, err := ws.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	msg.RequestID = requestID
	return conn.Send(msg)
}

func sendError(conn *ws.Connection, requestID, code, message string) error {
	return send(conn, requestID, ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
}
