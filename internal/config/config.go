package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-api"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Store    Store
	Postgres Postgres
	Redis    Redis
	Security Security
	Trivia   Trivia
	Import   Import
	CORS     CORS
}

// Store selects the question repository backend.
type Store struct {
	Driver     string `env:"STORE_DRIVER" envDefault:"postgres"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"trivia.db"`
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:"postgres"`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:"trivia"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders a postgres:// URL understood by pgx and database/sql.
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.Database,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	return u.String()
}

// Redis holds quiz session storage configuration. An empty Addr disables sessions.
type Redis struct {
	Addr       string        `env:"REDIS_ADDR" envDefault:""`
	DB         int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize   int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	SessionTTL time.Duration `env:"QUIZ_SESSION_TTL" envDefault:"2h"`
}

// Security stores secrets for admin tokens. An empty secret leaves mutations open.
type Security struct {
	AdminJWTSecret string        `env:"ADMIN_JWT_SECRET" envDefault:""`
	AdminTokenTTL  time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"24h"`
}

// Trivia groups listing defaults.
type Trivia struct {
	QuestionsPerPage int `env:"QUESTIONS_PER_PAGE" envDefault:"10"`
	MaxPageSize      int `env:"MAX_PAGE_SIZE" envDefault:"100"`
}

// Import configures pulling questions from public trivia APIs. A zero
// Interval disables the background worker; cmd/importer still works.
type Import struct {
	OpenTDBURL       string        `env:"OPENTDB_URL" envDefault:"https://opentdb.com"`
	TriviaAPIURL     string        `env:"TRIVIA_API_URL" envDefault:"https://the-trivia-api.com/api"`
	TriviaAPIKey     string        `env:"TRIVIA_API_KEY" envDefault:""`
	Interval         time.Duration `env:"IMPORT_INTERVAL" envDefault:"0s"`
	BatchSize        int           `env:"IMPORT_BATCH_SIZE" envDefault:"10"`
	FallbackCategory int64         `env:"IMPORT_FALLBACK_CATEGORY" envDefault:"0"`
	HTTPTimeout      time.Duration `env:"IMPORT_HTTP_TIMEOUT" envDefault:"5s"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,PUT,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.Store.Driver, DriverPostgres, DriverSQLite)
	}
	if c.Trivia.QuestionsPerPage < 1 {
		return fmt.Errorf("QUESTIONS_PER_PAGE must be positive, got %d", c.Trivia.QuestionsPerPage)
	}
	if c.Trivia.MaxPageSize < c.Trivia.QuestionsPerPage {
		return fmt.Errorf("MAX_PAGE_SIZE (%d) must be at least QUESTIONS_PER_PAGE (%d)", c.Trivia.MaxPageSize, c.Trivia.QuestionsPerPage)
	}
	if c.Import.BatchSize < 1 || c.Import.BatchSize > 50 {
		return fmt.Errorf("IMPORT_BATCH_SIZE must be between 1 and 50, got %d", c.Import.BatchSize)
	}
	if c.Import.Interval < 0 {
		return fmt.Errorf("IMPORT_INTERVAL must not be negative")
	}
	return nil
}
