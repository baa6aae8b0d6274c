package sched

import (
	"context"
	"time"

	"poster-commerce/internal/infra/metrics"
	red "poster-commerce/internal/infra/redis"
	"poster-commerce/internal/usecase"

	"github.com/rs/zerolog"
)

const JobOccasionSMS = "occasion_sms"

// occasionClaimTTL outlives the day a run claims so a replica restarted
// later the same day cannot send the greetings again.
const occasionClaimTTL = 26 * time.Hour

// OccasionWorker sends birthday and anniversary greetings once a day at a
// fixed local hour.
type OccasionWorker struct {
	hour  int
	loc   *time.Location
	notif usecase.NotificationUseCase
	guard guard
	log   *zerolog.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

func NewOccasionWorker(hour int, loc *time.Location, lockTTL time.Duration, notif usecase.NotificationUseCase, locker red.Locker, logger *zerolog.Logger) *OccasionWorker {
	if loc == nil {
		loc = time.UTC
	}
	if hour < 0 || hour > 23 {
		hour = 12
	}
	if lockTTL < occasionClaimTTL {
		lockTTL = occasionClaimTTL
	}
	compLog := logger.With().Str("component", "OccasionWorker").Logger()
	w := &OccasionWorker{
		hour:  hour,
		loc:   loc,
		notif: notif,
		log:   &compLog,
		now:   time.Now,
		after: time.After,
	}
	w.guard = guard{job: JobOccasionSMS, locker: locker, ttl: lockTTL, log: &compLog, period: w.day}
	return w
}

// day is the local calendar date a run greets for.
func (w *OccasionWorker) day() string {
	return w.now().In(w.loc).Format(time.DateOnly)
}

// nextRun returns the first instant at or after now whose local clock
// reads hour:00 in loc. Exactly hour:00 counts as now.
func nextRun(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if next.Before(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}

func (w *OccasionWorker) Run(ctx context.Context) error {
	w.log.Info().Int("hour", w.hour).Str("tz", w.loc.String()).Msg("Starting occasion worker")
	for {
		next := nextRun(w.now(), w.hour, w.loc)
		w.log.Debug().Time("next_run", next).Msg("occasion run scheduled")
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping occasion worker")
			return ctx.Err()
		case <-w.after(next.Sub(w.now())):
			w.guard.run(ctx, w.dispatch)
			// step past the hour boundary before planning the next run
			select {
			case <-ctx.Done():
				w.log.Info().Msg("Stopping occasion worker")
				return ctx.Err()
			case <-w.after(time.Second):
			}
		}
	}
}

func (w *OccasionWorker) dispatch(ctx context.Context) error {
	sum, err := w.notif.RunOccasions(ctx)
	metrics.AddOccasionSMS(sum.Sent, sum.Failed)
	if err != nil {
		return err
	}
	w.log.Info().
		Int("matched", sum.Matched).
		Int("sent", sum.Sent).
		Int("failed", sum.Failed).
		Msg("occasion greetings dispatched")
	return nil
}
