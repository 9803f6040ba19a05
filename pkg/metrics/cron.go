package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics records outcomes of the scheduled maintenance jobs.
// A nil receiver or unregistered instance is a no-op so jobs can run in
// tests without a registry.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	lastRun  *prometheus.GaugeVec
}

// NewCronJobMetrics registers the job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cron_job_duration_seconds",
		Help:    "Duration of scheduled job runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cron_job_success_total",
		Help: "Successful scheduled job runs.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cron_job_failure_total",
		Help: "Failed scheduled job runs.",
	}, []string{"job"})
	lastRun := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cron_job_last_run_timestamp_seconds",
		Help: "Unix time of the most recent run per job.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure, lastRun)
	return &CronJobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		lastRun:  lastRun,
	}
}

// ObserveRun records one run of the named job.
func (c *CronJobMetrics) ObserveRun(job string, took time.Duration, err error) {
	if c == nil {
		return
	}
	job = normalizeLabel(job)
	if c.duration != nil {
		c.duration.WithLabelValues(job).Observe(took.Seconds())
	}
	if c.lastRun != nil {
		c.lastRun.WithLabelValues(job).SetToCurrentTime()
	}
	if err != nil {
		if c.failure != nil {
			c.failure.WithLabelValues(job).Inc()
		}
		return
	}
	if c.success != nil {
		c.success.WithLabelValues(job).Inc()
	}
}

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
