package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		jobRunsTotal,
		jobDurationSeconds,
		storiesExpiredTotal,
		occasionSMSTotal,
	)
}

var (
	jobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_runs_total",
			Help: "Background job runs, labeled by job and status.",
		},
		[]string{"job", "status"}, // status: 'ok', 'failed', 'skipped'
	)

	jobDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_duration_seconds",
			Help:    "Background job run duration.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	storiesExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stories_expired_total",
			Help: "Total number of stories removed by the expiry sweeper.",
		},
	)

	occasionSMSTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "occasion_sms_total",
			Help: "Birthday and anniversary greetings by result.",
		},
		[]string{"result"}, // 'sent', 'failed'
	)
)

func ObserveJob(job, status string, d time.Duration) {
	jobRunsTotal.WithLabelValues(norm(job), norm(status)).Inc()
	if status != "skipped" {
		jobDurationSeconds.WithLabelValues(norm(job)).Observe(d.Seconds())
	}
}

func IncStoriesExpired(count int64) {
	storiesExpiredTotal.Add(float64(count))
}

func AddOccasionSMS(sent, failed int) {
	occasionSMSTotal.WithLabelValues("sent").Add(float64(sent))
	occasionSMSTotal.WithLabelValues("failed").Add(float64(failed))
}
