package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_sessions_started_total",
			Help: "Total number of adaptive test sessions started",
		},
	)

	// result: correct/incorrect
	AnswersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_answers_submitted_total",
			Help: "Total number of accepted answers",
		},
		[]string{"result"},
	)

	// reason: max_questions/exhausted/finished_early
	SessionsConcluded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_sessions_concluded_total",
			Help: "Total number of sessions that reached the terminal state",
		},
		[]string{"reason"},
	)

	// tier: exact/adjacent/any_in_pool/global
	FallbackSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_next_question_tier_total",
			Help: "Which fallback tier produced the next question",
		},
		[]string{"tier"},
	)

	SessionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_session_conflicts_total",
			Help: "Writes rejected because the session changed underneath them",
		},
	)

	PoolBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_pool_build_duration_seconds",
			Help:    "Time spent assembling a question pool",
			Buckets: prometheus.DefBuckets,
		},
	)

	PoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_pool_size",
			Help:    "Number of questions in freshly built pools",
			Buckets: prometheus.LinearBuckets(0, 2, 8),
		},
	)

	// status: success/failure
	SupplyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_supply_requests_total",
			Help: "Question supply generation requests",
		},
		[]string{"status"},
	)

	AchievementFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_achievement_award_failures_total",
			Help: "XP awards that failed after a result was stored",
		},
	)
)
