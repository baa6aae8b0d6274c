package sched

import (
	"context"
	"time"

	"poster-commerce/internal/infra/metrics"
	red "poster-commerce/internal/infra/redis"
	"poster-commerce/internal/usecase"

	"github.com/rs/zerolog"
)

const JobStorySweep = "story_sweep"

// StorySweeper periodically deletes expired stories.
type StorySweeper struct {
	interval time.Duration
	stories  usecase.StoryUseCase
	guard    guard
	log      *zerolog.Logger
}

func NewStorySweeper(interval, lockTTL time.Duration, stories usecase.StoryUseCase, locker red.Locker, logger *zerolog.Logger) *StorySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	compLog := logger.With().Str("component", "StorySweeper").Logger()
	return &StorySweeper{
		interval: interval,
		stories:  stories,
		guard:    guard{job: JobStorySweep, locker: locker, ttl: lockTTL, log: &compLog},
		log:      &compLog,
	}
}

func (w *StorySweeper) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting story sweeper")
	// Run once on startup, then on every tick
	w.guard.run(ctx, w.sweep)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping story sweeper")
			return ctx.Err()
		case <-ticker.C:
			w.guard.run(ctx, w.sweep)
		}
	}
}

func (w *StorySweeper) sweep(ctx context.Context) error {
	n, err := w.stories.SweepExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.IncStoriesExpired(n)
		w.log.Info().Int64("count", n).Msg("expired stories removed")
	}
	return nil
}
