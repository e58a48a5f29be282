package importer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Worker runs the importer on a fixed interval to keep the pool topped up.
type Worker struct {
	importer *Importer
	interval time.Duration
	amount   int
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewWorker(importer *Importer, interval time.Duration, amount int, logger zerolog.Logger) *Worker {
	if amount <= 0 {
		amount = 10
	}
	return &Worker{
		importer: importer,
		interval: interval,
		amount:   amount,
		timeout:  30 * time.Second,
		logger:   logger.With().Str("component", "import_worker").Logger(),
	}
}

// Run blocks until ctx is done, importing once per interval.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("import worker stopping")
			return ctx.Err()
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if _, err := w.importer.Run(ctx, w.amount); err != nil {
		w.logger.Warn().Err(err).Msg("scheduled import failed")
	}
}
