package quizsession

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

const (
	defaultTTL = 2 * time.Hour
	lockTTL    = 5 * time.Second
	keyPrefix  = "trivia:quiz:"
)

var (
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrSessionBusy     = errors.New("quiz session is busy")
)

// Session is the server-held QuizState of one game.
type Session struct {
	ID       string           `json:"session_id"`
	Category int64            `json:"category"`
	State    trivia.QuizState `json:"state"`
	Served   []int64          `json:"served"`
}

// Store keeps quiz sessions in Redis: a hash for category/state and a set of
// served question ids, both expiring together.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{redis: client, ttl: ttl}
}

func sessionKey(id string) string { return keyPrefix + id }
func servedKey(id string) string  { return keyPrefix + id + ":served" }
func lockKey(id string) string    { return keyPrefix + id + ":lock" }

// Create starts a session in the ready state.
func (s *Store) Create(ctx context.Context, category int64) (Session, error) {
	id := uuid.NewString()
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionKey(id), "category", category, "state", string(trivia.StateReady))
		pipe.Expire(ctx, sessionKey(id), s.ttl)
		return nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return Session{ID: id, Category: category, State: trivia.StateReady, Served: []int64{}}, nil
}

// Get loads a session with its served ids in ascending order.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, ErrSessionNotFound
	}
	fields, err := s.redis.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	if len(fields) == 0 {
		return Session{}, ErrSessionNotFound
	}
	category, err := strconv.ParseInt(fields["category"], 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("decode session category: %w", err)
	}

	members, err := s.redis.SMembers(ctx, servedKey(id)).Result()
	if err != nil {
		return Session{}, fmt.Errorf("get served ids: %w", err)
	}
	served := make([]int64, 0, len(members))
	for _, m := range members {
		qid, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return Session{}, fmt.Errorf("decode served id %q: %w", m, err)
		}
		served = append(served, qid)
	}
	sort.Slice(served, func(i, j int) bool { return served[i] < served[j] })

	return Session{
		ID:       id,
		Category: category,
		State:    trivia.QuizState(fields["state"]),
		Served:   served,
	}, nil
}

// advanceScript updates an existing session only, so a write racing with
// expiry cannot resurrect a hash without its category.
// KEYS: session, served. ARGV: state, ttl ms, optional served id.
var advanceScript = redis.NewScript(`
	if redis.call("exists", KEYS[1]) == 0 then
		return 0
	end
	if ARGV[3] then
		redis.call("sadd", KEYS[2], ARGV[3])
	end
	redis.call("hset", KEYS[1], "state", ARGV[1])
	redis.call("pexpire", KEYS[1], ARGV[2])
	redis.call("pexpire", KEYS[2], ARGV[2])
	return 1
`)

func (s *Store) advance(ctx context.Context, id string, state trivia.QuizState, served ...int64) error {
	args := []interface{}{string(state), s.ttl.Milliseconds()}
	for _, qid := range served {
		args = append(args, qid)
	}
	updated, err := advanceScript.Run(ctx, s.redis, []string{sessionKey(id), servedKey(id)}, args...).Int()
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// MarkServed records questionID as served. The set only ever grows.
func (s *Store) MarkServed(ctx context.Context, id string, questionID int64) error {
	if err := s.advance(ctx, id, trivia.StateAnswering, questionID); err != nil {
		return fmt.Errorf("mark served: %w", err)
	}
	return nil
}

// MarkExhausted moves the session to its terminal state.
func (s *Store) MarkExhausted(ctx context.Context, id string) error {
	if err := s.advance(ctx, id, trivia.StateExhausted); err != nil {
		return fmt.Errorf("mark exhausted: %w", err)
	}
	return nil
}

// Lock acquires a short-lived lock so two draws on one session cannot
// interleave. The returned func releases it.
func (s *Store) Lock(ctx context.Context, id string) (func() error, error) {
	key := lockKey(id)
	token := uuid.NewString()

	acquired, err := s.redis.SetNX(ctx, key, token, lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return nil, ErrSessionBusy
	}

	unlock := func() error {
		// only delete the lock if we still own it
		script := `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			else
				return 0
			end
		`
		return s.redis.Eval(context.WithoutCancel(ctx), script, []string{key}, token).Err()
	}
	return unlock, nil
}
