package sched

import (
	"context"
	"time"

	"poster-commerce/internal/infra/metrics"

	"github.com/jackc/pgx/v4/pgxpool"
)

type poolStatter interface {
	Stat() *pgxpool.Stat
}

// ReportPoolStats publishes connection pool gauges every interval until ctx ends.
func ReportPoolStats(ctx context.Context, pool poolStatter, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		s := pool.Stat()
		metrics.SetDBPoolStats(s.TotalConns(), s.IdleConns(), s.AcquiredConns())
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
