//go:build !integration

package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"poster-commerce/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func TestRateLimiter_FixedWindow(t *testing.T) {
	ctx := context.Background()
	cli := newMemClient()
	rl := NewRateLimiter(cli)
	key := LoginKey(" 9876543210 ")
	if key != "rate_limit:login:9876543210" {
		t.Fatalf("key = %q", key)
	}

	for i := 1; i <= 3; i++ {
		ok, err := rl.Allow(ctx, key, 3, time.Minute)
		if err != nil || !ok {
			t.Fatalf("hit %d: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := rl.Allow(ctx, key, 3, time.Minute)
	if err != nil || ok {
		t.Fatalf("4th hit should be limited: ok=%v err=%v", ok, err)
	}
	if cli.expires != 1 || cli.ttls[key] != time.Minute {
		t.Fatalf("window set %d times, ttl %v", cli.expires, cli.ttls[key])
	}
}

type countingStats struct {
	calls int
	err   error
}

func (c *countingStats) Dashboard(ctx context.Context) (*usecase.Dashboard, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &usecase.Dashboard{TotalUsers: 7, Revenue: decimal.NewFromInt(1250)}, nil
}

func TestCachedStats(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()

	t.Run("second call is served from cache", func(t *testing.T) {
		inner, cli := &countingStats{}, newMemClient()
		cs := NewCachedStats(inner, cli, time.Minute, &log)

		for i := 0; i < 2; i++ {
			d, err := cs.Dashboard(ctx)
			if err != nil {
				t.Fatalf("Dashboard: %v", err)
			}
			if d.TotalUsers != 7 || !d.Revenue.Equal(decimal.NewFromInt(1250)) {
				t.Fatalf("unexpected dashboard: %+v", d)
			}
		}
		if inner.calls != 1 {
			t.Fatalf("inner called %d times", inner.calls)
		}
	})

	t.Run("redis failure falls through to the source", func(t *testing.T) {
		inner, cli := &countingStats{}, newMemClient()
		cli.getErr = errors.New("connection refused")
		cs := NewCachedStats(inner, cli, time.Minute, &log)

		if _, err := cs.Dashboard(ctx); err != nil {
			t.Fatalf("Dashboard: %v", err)
		}
		if inner.calls != 1 {
			t.Fatalf("inner called %d times", inner.calls)
		}
	})

	t.Run("source errors are not cached", func(t *testing.T) {
		inner, cli := &countingStats{err: errors.New("db down")}, newMemClient()
		cs := NewCachedStats(inner, cli, time.Minute, &log)

		if _, err := cs.Dashboard(ctx); err == nil {
			t.Fatal("expected error")
		}
		if _, ok := cli.vals[dashboardKey]; ok {
			t.Fatal("error result cached")
		}
	})
}
