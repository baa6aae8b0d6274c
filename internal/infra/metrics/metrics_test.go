//go:build !integration

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCountersMove(t *testing.T) {
	IncCheckout(" Settled_Free ")
	if got := value(t, checkoutsTotal.WithLabelValues("settled_free")); got < 1 {
		t.Fatalf("checkout counter = %v", got)
	}

	before := value(t, jobRunsTotal.WithLabelValues("story_sweeper", "skipped"))
	ObserveJob("story_sweeper", "skipped", time.Second)
	if got := value(t, jobRunsTotal.WithLabelValues("story_sweeper", "skipped")); got != before+1 {
		t.Fatalf("job counter = %v, want %v", got, before+1)
	}

	AddOccasionSMS(3, 1)
	if got := value(t, occasionSMSTotal.WithLabelValues("failed")); got < 1 {
		t.Fatalf("occasion failures = %v", got)
	}
}

func TestMustRegisterIsIdempotent(t *testing.T) {
	MustRegister()
	MustRegister()
	if len(collectors) == 0 {
		t.Fatal("no collectors enqueued")
	}
}
