// Command importer pulls a batch of questions from the public trivia APIs into
// the configured store.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/app"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

func main() {
	amount := flag.Int("amount", 0, "Questions to request per source; defaults to IMPORT_BATCH_SIZE")
	timeout := flag.Duration("timeout", time.Minute, "Overall deadline for the run")
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.Name+"-importer", cfg.Env)

	repo, _, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open store")
	}
	defer closeStore()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		defer rdb.Close()
	}

	n := *amount
	if n <= 0 {
		n = cfg.Import.BatchSize
	}

	svc := trivia.NewService(repo, trivia.ServiceOptions{}, logger)
	res, err := app.NewImporter(cfg, svc, rdb, logger).Run(ctx, n)
	if err != nil {
		logger.Error().Err(err).Msg("import failed")
		closeStore()
		os.Exit(1)
	}
	logger.Info().Int("created", res.Created).Int("duplicate", res.Duplicate).Msg("done")
}
