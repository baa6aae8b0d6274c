package sched

import (
	"context"
	"errors"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/infra/metrics"
	red "poster-commerce/internal/infra/redis"

	"github.com/rs/zerolog"
)

// guard runs one tick of a job under a distributed lock. When another
// replica holds the lock the tick is skipped.
//
// With period set, the lock key is suffixed with the period the tick covers
// and the lock is left to expire instead of being released, so each period
// runs at most once across replicas.
type guard struct {
	job    string
	locker red.Locker
	ttl    time.Duration
	log    *zerolog.Logger
	period func() string
}

func (g guard) run(ctx context.Context, fn func(ctx context.Context) error) {
	start := time.Now()
	key := red.JobLockKey(g.job)
	hold := false
	if g.period != nil {
		key += ":" + g.period()
		hold = true
	}

	if g.locker != nil {
		token, err := g.locker.TryLock(ctx, key, g.ttl)
		if errors.Is(err, domain.ErrLockHeld) {
			g.log.Debug().Str("job", g.job).Msg("lock held elsewhere; skipping tick")
			metrics.ObserveJob(g.job, "skipped", 0)
			return
		}
		if err != nil {
			g.log.Error().Err(err).Str("job", g.job).Msg("acquire job lock failed")
			metrics.ObserveJob(g.job, "error", time.Since(start))
			return
		}
		if hold {
			g.log.Debug().Str("job", g.job).Str("key", key).Msg("period claimed")
		} else {
			defer g.release(key, token)
		}
	}

	if err := fn(ctx); err != nil {
		g.log.Error().Err(err).Str("job", g.job).Msg("job failed")
		metrics.ObserveJob(g.job, "error", time.Since(start))
		return
	}
	metrics.ObserveJob(g.job, "ok", time.Since(start))
}

func (g guard) release(key, token string) {
	// the tick context may already be cancelled
	uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.locker.Unlock(uctx, key, token); err != nil {
		g.log.Warn().Err(err).Str("job", g.job).Msg("release job lock failed")
	}
}
