package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"poster-commerce/internal/infra/metrics"
	"poster-commerce/internal/usecase"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const dashboardKey = "stats:dashboard"

var _ usecase.StatsUseCase = (*CachedStats)(nil)

// CachedStats keeps the admin dashboard in Redis for a short TTL.
type CachedStats struct {
	inner  usecase.StatsUseCase
	client RedisClient
	ttl    time.Duration
	log    *zerolog.Logger
}

func NewCachedStats(inner usecase.StatsUseCase, client RedisClient, ttl time.Duration, logger *zerolog.Logger) *CachedStats {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedStats{inner: inner, client: client, ttl: ttl, log: logger}
}

func (c *CachedStats) Dashboard(ctx context.Context) (*usecase.Dashboard, error) {
	val, err := c.client.Get(ctx, dashboardKey)
	if err == nil {
		var d usecase.Dashboard
		if json.Unmarshal([]byte(val), &d) == nil {
			metrics.IncCacheRequest("dashboard", "hit")
			return &d, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("dashboard cache read failed")
	}

	metrics.IncCacheRequest("dashboard", "miss")
	d, err := c.inner.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(d); err == nil {
		if err := c.client.Set(ctx, dashboardKey, b, c.ttl); err != nil {
			c.log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}
	return d, nil
}
