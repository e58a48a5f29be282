package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

var importedQuestions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "trivia_import_questions_total",
	Help: "Externally sourced questions by source and outcome.",
}, []string{"source", "outcome"})

// categoryAliases maps upstream labels onto the seeded category names.
var categoryAliases = map[string]string{
	"arts_and_literature": "art",
	"art":                 "art",
	"film_and_tv":         "entertainment",
	"music":               "entertainment",
	"celebrities":         "entertainment",
	"sport_and_leisure":   "sports",
	"sport":               "sports",
	"science":             "science",
	"science & nature":    "science",
	"geography":           "geography",
	"history":             "history",
}

type questionWriter interface {
	CreateQuestion(ctx context.Context, in trivia.NewQuestion) (trivia.Question, error)
}

type catalog interface {
	AllCategories(ctx context.Context) (map[int64]string, error)
	Search(ctx context.Context, term string) ([]trivia.Question, error)
}

// Options tunes an Importer.
type Options struct {
	// FallbackCategory receives questions whose upstream category has no
	// local match. Zero drops them.
	FallbackCategory int64
	// Seen is optional.
	Seen *SeenCache
}

// Result counts the outcome of one import run.
type Result struct {
	Fetched   int
	Created   int
	Duplicate int
	Skipped   int
	Failed    int
}

// Importer pulls questions from public trivia APIs into the store.
type Importer struct {
	sources  []Source
	writer   questionWriter
	catalog  catalog
	fallback int64
	seen     *SeenCache
	logger   zerolog.Logger
}

func New(sources []Source, writer questionWriter, cat catalog, opts Options, logger zerolog.Logger) *Importer {
	return &Importer{
		sources:  sources,
		writer:   writer,
		catalog:  cat,
		fallback: opts.FallbackCategory,
		seen:     opts.Seen,
		logger:   logger.With().Str("component", "importer").Logger(),
	}
}

// Run fetches up to amount questions from every source. A failing source is
// logged and skipped; the error reports only when every source failed.
func (im *Importer) Run(ctx context.Context, amount int) (Result, error) {
	var res Result
	if amount < 1 {
		return res, fmt.Errorf("amount must be positive, got %d", amount)
	}

	categories, err := im.catalog.AllCategories(ctx)
	if err != nil {
		return res, fmt.Errorf("load categories: %w", err)
	}
	byLabel := make(map[string]int64, len(categories))
	for id, label := range categories {
		byLabel[strings.ToLower(label)] = id
	}

	var errs []error
	for _, src := range im.sources {
		candidates, err := src.Fetch(ctx, amount)
		if err != nil {
			im.logger.Warn().Err(err).Str("source", src.Name()).Msg("fetch failed")
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		res.Fetched += len(candidates)
		for _, c := range candidates {
			outcome := im.importOne(ctx, c, byLabel)
			importedQuestions.WithLabelValues(c.Source, outcome).Inc()
			switch outcome {
			case "created":
				res.Created++
			case "duplicate":
				res.Duplicate++
			case "skipped":
				res.Skipped++
			default:
				res.Failed++
			}
		}
	}

	im.logger.Info().
		Int("fetched", res.Fetched).
		Int("created", res.Created).
		Int("duplicate", res.Duplicate).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("import finished")

	if len(errs) > 0 && len(errs) == len(im.sources) {
		return res, errors.Join(errs...)
	}
	return res, nil
}

func (im *Importer) importOne(ctx context.Context, c Candidate, byLabel map[string]int64) string {
	text := strings.TrimSpace(c.Question)
	if text == "" || strings.TrimSpace(c.Answer) == "" {
		return "skipped"
	}

	category, ok := matchCategory(c.Category, byLabel)
	if !ok {
		if im.fallback == 0 {
			return "skipped"
		}
		category = im.fallback
	}

	dup, err := im.duplicate(ctx, text)
	if err != nil {
		im.logger.Warn().Err(err).Str("source", c.Source).Msg("duplicate check failed")
		return "failed"
	}
	if dup {
		return "duplicate"
	}

	if _, err := im.writer.CreateQuestion(ctx, trivia.NewQuestion{
		Question:   text,
		Answer:     c.Answer,
		Category:   category,
		Difficulty: c.Difficulty,
	}); err != nil {
		im.logger.Warn().Err(err).Str("source", c.Source).Msg("create failed")
		return "failed"
	}
	if im.seen != nil {
		if err := im.seen.Remember(ctx, text); err != nil {
			im.logger.Debug().Err(err).Msg("remember imported question")
		}
	}
	return "created"
}

func (im *Importer) duplicate(ctx context.Context, text string) (bool, error) {
	if im.seen != nil {
		seen, err := im.seen.Seen(ctx, text)
		if err == nil && seen {
			return true, nil
		}
	}
	matches, err := im.catalog.Search(ctx, text)
	if err != nil {
		return false, err
	}
	for _, q := range matches {
		if strings.EqualFold(strings.TrimSpace(q.Question), text) {
			return true, nil
		}
	}
	return false, nil
}

// matchCategory resolves an upstream label such as "Science: Computers" or
// "film_and_tv" to a local category id.
func matchCategory(label string, byLabel map[string]int64) (int64, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if id, ok := byLabel[key]; ok {
		return id, true
	}
	if alias, ok := categoryAliases[key]; ok {
		if id, ok := byLabel[alias]; ok {
			return id, true
		}
	}
	if head, _, found := strings.Cut(key, ":"); found {
		return matchCategory(head, byLabel)
	}
	return 0, false
}
