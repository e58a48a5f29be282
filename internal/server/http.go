package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/play"
	"github.com/gokatarajesh/trivia-api/internal/quizsession"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers collects the route handlers. Sessions and Redis are optional.
type Handlers struct {
	Trivia   *trivia.HTTPHandler
	Sessions *quizsession.HTTPHandler
	Play     *play.Handler
	Admin    func(http.Handler) http.Handler
	Store    Pinger
	Redis    *redis.Client
}

// NewUpgrader builds the WebSocket upgrader, accepting the configured origins.
func NewUpgrader(cors config.CORS) *websocket.Upgrader {
	allowed := originMatcher(cors.AllowedOrigins)
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed(origin)
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// NewRouter wires every route and the shared middleware chain.
func NewRouter(cfg *config.App, logger zerolog.Logger, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), h.Store, h.Redis); err != nil {
			l := logging.FromContext(r.Context(), logger)
			l.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "upstream error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	admin := h.Admin
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}

	t := h.Trivia
	mux.HandleFunc("GET /v1/categories", t.GetCategories)
	mux.HandleFunc("GET /v1/categories/{id}/questions", t.ListCategoryQuestions)
	mux.HandleFunc("GET /v1/questions", t.ListQuestions)
	mux.HandleFunc("POST /v1/questions/search", t.SearchQuestions)
	mux.Handle("POST /v1/questions", admin(http.HandlerFunc(t.CreateQuestion)))
	mux.Handle("DELETE /v1/questions/{id}", admin(http.HandlerFunc(t.DeleteQuestion)))
	mux.HandleFunc("POST /v1/quizzes", t.PlayQuiz)

	if h.Sessions != nil {
		mux.HandleFunc("POST /v1/quiz-sessions", h.Sessions.Start)
		mux.HandleFunc("GET /v1/quiz-sessions/{id}", h.Sessions.Get)
		mux.HandleFunc("POST /v1/quiz-sessions/{id}/next", h.Sessions.Next)
	} else {
		disabled := func(w http.ResponseWriter, r *http.Request) {
			httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeFeatureNotAvailable, "Quiz sessions require Redis")
		}
		mux.HandleFunc("/v1/quiz-sessions", disabled)
		mux.HandleFunc("/v1/quiz-sessions/", disabled)
	}

	if h.Play != nil {
		mux.HandleFunc("GET /ws/play", h.Play.HandleWebSocket)
	}

	var handler http.Handler = mux
	handler = instrument(handler)
	handler = cors(cfg.CORS)(handler)
	handler = logging.Middleware(logger)(handler)
	return handler
}

// NewHTTPServer builds the API server.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, logger, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func pingDependencies(ctx context.Context, store Pinger, rdb *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if store != nil {
		if err := store.Ping(ctx); err != nil {
			return err
		}
	}
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
