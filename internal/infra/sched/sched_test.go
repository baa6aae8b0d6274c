//go:build !integration

package sched

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/usecase"

	"github.com/rs/zerolog"
)

var nop = zerolog.Nop()

type fakeLocker struct {
	mu       sync.Mutex
	held     bool
	err      error
	unlocked []string
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", l.err
	}
	if l.held {
		return "", domain.ErrLockHeld
	}
	return "tok-" + key, nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unlocked = append(l.unlocked, token)
	return nil
}

// memLocker behaves like SET NX with compare-and-delete release.
type memLocker struct {
	mu   sync.Mutex
	keys map[string]string
	seq  int
}

func newMemLocker() *memLocker { return &memLocker{keys: map[string]string{}} }

func (l *memLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.keys[key]; ok {
		return "", domain.ErrLockHeld
	}
	l.seq++
	token := fmt.Sprintf("t%d", l.seq)
	l.keys[key] = token
	return token, nil
}

func (l *memLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.keys[key] == token {
		delete(l.keys, key)
	}
	return nil
}

func TestNextRun(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before the hour", time.Date(2025, 3, 14, 9, 30, 0, 0, ist), time.Date(2025, 3, 14, 12, 0, 0, 0, ist)},
		{"exactly at the hour", time.Date(2025, 3, 14, 12, 0, 0, 0, ist), time.Date(2025, 3, 14, 12, 0, 0, 0, ist)},
		{"after the hour", time.Date(2025, 3, 14, 12, 0, 1, 0, ist), time.Date(2025, 3, 15, 12, 0, 0, 0, ist)},
		{"utc input", time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC), time.Date(2025, 3, 15, 12, 0, 0, 0, ist)},
		{"month end", time.Date(2025, 1, 31, 23, 0, 0, 0, ist), time.Date(2025, 2, 1, 12, 0, 0, 0, ist)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextRun(tc.now, 12, ist); !got.Equal(tc.want) {
				t.Fatalf("nextRun(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("runs and releases", func(t *testing.T) {
		l := &fakeLocker{}
		ran := false
		guard{job: "j", locker: l, ttl: time.Minute, log: &nop}.run(ctx, func(context.Context) error {
			ran = true
			return nil
		})
		if !ran {
			t.Fatal("job did not run")
		}
		if len(l.unlocked) != 1 || l.unlocked[0] != "tok-lock:job:j" {
			t.Fatalf("unlock calls: %v", l.unlocked)
		}
	})

	t.Run("skips when held", func(t *testing.T) {
		l := &fakeLocker{held: true}
		guard{job: "j", locker: l, ttl: time.Minute, log: &nop}.run(ctx, func(context.Context) error {
			t.Fatal("job ran while lock was held")
			return nil
		})
		if len(l.unlocked) != 0 {
			t.Fatal("unlock without lock")
		}
	})

	t.Run("skips on redis error", func(t *testing.T) {
		l := &fakeLocker{err: errors.New("redis down")}
		guard{job: "j", locker: l, ttl: time.Minute, log: &nop}.run(ctx, func(context.Context) error {
			t.Fatal("job ran without lock")
			return nil
		})
	})

	t.Run("period lock is kept", func(t *testing.T) {
		l := newMemLocker()
		day := "2025-03-14"
		g := guard{job: "j", locker: l, ttl: time.Hour, log: &nop, period: func() string { return day }}
		runs := 0
		job := func(context.Context) error { runs++; return nil }

		g.run(ctx, job)
		g.run(ctx, job)
		if runs != 1 {
			t.Fatalf("ran %d times in one period, want 1", runs)
		}
		if _, ok := l.keys["lock:job:j:2025-03-14"]; !ok {
			t.Fatalf("period lock released: %v", l.keys)
		}

		day = "2025-03-15"
		g.run(ctx, job)
		if runs != 2 {
			t.Fatalf("next period did not run, runs=%d", runs)
		}
	})

	t.Run("releases after failure", func(t *testing.T) {
		l := &fakeLocker{}
		guard{job: "j", locker: l, ttl: time.Minute, log: &nop}.run(ctx, func(context.Context) error {
			return errors.New("boom")
		})
		if len(l.unlocked) != 1 {
			t.Fatal("lock leaked after job failure")
		}
	})
}

type fakeStories struct {
	usecase.StoryUseCase
	calls chan struct{}
}

func (f *fakeStories) SweepExpired(ctx context.Context) (int64, error) {
	f.calls <- struct{}{}
	return 2, nil
}

func TestStorySweeper_RunsOnStartup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stories := &fakeStories{calls: make(chan struct{}, 1)}
	w := NewStorySweeper(time.Hour, time.Minute, stories, &fakeLocker{}, &nop)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-stories.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not run on startup")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
}

type countingNotifier struct {
	usecase.NotificationUseCase
	runs atomic.Int32
}

func (f *countingNotifier) RunOccasions(ctx context.Context) (usecase.OccasionSummary, error) {
	f.runs.Add(1)
	return usecase.OccasionSummary{}, nil
}

func TestOccasionWorker_OncePerDayAcrossReplicas(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	locker := newMemLocker()
	notif := &countingNotifier{}
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	fired := make(chan struct{}, 2)
	done := make(chan error, 2)

	for _, delay := range []time.Duration{0, 50 * time.Millisecond} {
		w := NewOccasionWorker(12, time.UTC, time.Minute, notif, locker, &nop)
		w.now = func() time.Time { return now }
		calls := 0
		w.after = func(d time.Duration) <-chan time.Time {
			calls++
			if calls == 1 {
				return time.After(delay)
			}
			fired <- struct{}{}
			return nil
		}
		go func() { done <- w.Run(ctx) }()
	}

	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not fire")
		}
	}
	cancel()
	<-done
	<-done

	if n := notif.runs.Load(); n != 1 {
		t.Fatalf("RunOccasions called %d times across replicas, want 1", n)
	}
	if _, ok := locker.keys["lock:job:occasion_sms:2025-03-14"]; !ok {
		t.Fatalf("day claim missing: %v", locker.keys)
	}
}

func TestNewOccasionWorker_Hour(t *testing.T) {
	cases := map[int]int{0: 0, 7: 7, 23: 23, -1: 12, 24: 12}
	for in, want := range cases {
		w := NewOccasionWorker(in, time.UTC, time.Minute, &fakeNotifier{}, nil, &nop)
		if w.hour != want {
			t.Errorf("hour %d: got %d, want %d", in, w.hour, want)
		}
	}
	if w := NewOccasionWorker(0, time.UTC, time.Minute, &fakeNotifier{}, nil, &nop); w.guard.ttl < 24*time.Hour {
		t.Errorf("day claim ttl %v shorter than a day", w.guard.ttl)
	}
}

type fakeNotifier struct {
	usecase.NotificationUseCase
	runs   int
	onRun  func()
	result usecase.OccasionSummary
}

func (f *fakeNotifier) RunOccasions(ctx context.Context) (usecase.OccasionSummary, error) {
	f.runs++
	if f.onRun != nil {
		f.onRun()
	}
	return f.result, nil
}

func TestOccasionWorker_FiresAtScheduledHour(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notif := &fakeNotifier{onRun: cancel, result: usecase.OccasionSummary{Matched: 2, Sent: 2}}
	w := NewOccasionWorker(12, time.UTC, time.Minute, notif, &fakeLocker{}, &nop)

	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }
	var waits []time.Duration
	w.after = func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		if len(waits) == 1 {
			ch := make(chan time.Time, 1)
			ch <- now.Add(d)
			return ch
		}
		return nil
	}

	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
	if notif.runs != 1 {
		t.Fatalf("RunOccasions called %d times, want 1", notif.runs)
	}
	if waits[0] != 3*time.Hour {
		t.Fatalf("first wait = %v, want 3h", waits[0])
	}
}

func TestOccasionWorker_SkipsWhenLockHeld(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notif := &fakeNotifier{}
	w := NewOccasionWorker(12, time.UTC, time.Minute, notif, &fakeLocker{held: true}, &nop)
	calls := 0
	w.after = func(d time.Duration) <-chan time.Time {
		calls++
		if calls == 1 {
			ch := make(chan time.Time, 1)
			ch <- time.Now()
			return ch
		}
		cancel()
		return nil
	}

	_ = w.Run(ctx)
	if notif.runs != 0 {
		t.Fatal("greetings sent without the job lock")
	}
}
