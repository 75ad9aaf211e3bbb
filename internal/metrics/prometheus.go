package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TestExecutionsTotal counts verified test cases by language and outcome
	// (pass, fail, error).
	TestExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codequest_test_executions_total",
			Help: "Total number of verified test cases",
		},
		[]string{"language", "outcome"},
	)

	// SandboxCallDuration tracks the duration of individual sandbox provider
	// calls in seconds.
	SandboxCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codequest_sandbox_call_duration_seconds",
			Help:    "Duration of sandbox provider calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"language"},
	)

	// SandboxFailures counts sandbox transport failures (not user code errors).
	SandboxFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codequest_sandbox_failures_total",
			Help: "Total number of sandbox transport failures",
		},
	)

	// SubmissionsTotal counts scored submissions by result (solved, unsolved).
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codequest_submissions_total",
			Help: "Total number of scored submissions",
		},
		[]string{"result"},
	)

	// LevelUpsTotal counts level-up events detected on submission.
	LevelUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codequest_level_ups_total",
			Help: "Total number of level-up events",
		},
	)
)
