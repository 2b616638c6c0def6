// Package metrics exposes Prometheus instrumentation for the arena service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	MatchesStarted   prometheus.Counter
	MatchesCompleted *prometheus.CounterVec
	AnswersSubmitted *prometheus.CounterVec
	ScoreDeltas      prometheus.Histogram
	LiveMatches      prometheus.Gauge
}

// New registers the arena collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MatchesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "arena_matches_started_total",
			Help: "Matches started.",
		}),
		MatchesCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_matches_completed_total",
			Help: "Matches reaching a terminal phase, by outcome.",
		}, []string{"outcome"}),
		AnswersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_answers_total",
			Help: "Answer submissions, by result.",
		}, []string{"result"}),
		ScoreDeltas: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "arena_score_delta",
			Help:    "Score awarded per accepted answer.",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		}),
		LiveMatches: factory.NewGauge(prometheus.GaugeOpts{
			Name: "arena_live_matches",
			Help: "Matches currently in play.",
		}),
	}
}

// Answer result label values.
const (
	AnswerCorrect   = "correct"
	AnswerIncorrect = "incorrect"
	AnswerRejected  = "rejected"
)
