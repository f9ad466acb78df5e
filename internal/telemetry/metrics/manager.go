package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterSessionsStarted    prometheus.Counter
	CounterSessionsCompleted  prometheus.Counter
	CounterSessionsClosed     prometheus.Counter
	CounterSetsCompleted      prometheus.Counter
	CounterRestsStarted       prometheus.Counter
	CounterRestsSkipped       prometheus.Counter
	CounterCatalogLookups     *prometheus.CounterVec
	CounterDayRestarts        prometheus.Counter

	// gauges
	GaugeActiveSessions prometheus.Gauge
	GaugeLifeSignal     prometheus.Gauge

	// histograms
	HistRestSeconds          prometheus.Histogram
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("gymtrainer", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("gymtrainer", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming status requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterSessionsStarted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_started",
		Help:      "The total number of started exercise sessions",
	})
	counterSessionsCompleted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_completed",
		Help:      "The total number of exercise sessions run to completion",
	})
	counterSessionsClosed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_closed_early",
		Help:      "The total number of exercise sessions closed with partial progress",
	})
	counterSetsCompleted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sets_completed",
		Help:      "The total number of completed sets",
	})
	counterRestsStarted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rests_started",
		Help:      "The total number of rest periods started between sets",
	})
	counterRestsSkipped := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rests_skipped",
		Help:      "The total number of rest periods cut short by the trainee",
	})
	counterCatalogLookups := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "catalog_cache_lookups",
		Help:      "Catalog cache lookups by result",
	}, []string{"result"})
	counterDayRestarts := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "day_restarts",
		Help:      "The total number of explicit training day restarts",
	})

	gaugeActiveSessions := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_sessions",
		Help:      "Current number of sessions which are active or resting",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the trainer is alive",
	})

	histRestSeconds := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rest_seconds",
		Help:      "Prescribed rest per started rest period in seconds",
		Buckets:   []float64{15, 30, 45, 60, 90, 120, 180, 240, 300},
	})
	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for status requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:           counterRequests,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		CounterSessionsStarted:    counterSessionsStarted,
		CounterSessionsCompleted:  counterSessionsCompleted,
		CounterSessionsClosed:     counterSessionsClosed,
		CounterSetsCompleted:      counterSetsCompleted,
		CounterRestsStarted:       counterRestsStarted,
		CounterRestsSkipped:       counterRestsSkipped,
		CounterCatalogLookups:     counterCatalogLookups,
		CounterDayRestarts:        counterDayRestarts,
		GaugeActiveSessions:       gaugeActiveSessions,
		GaugeLifeSignal:           gaugeLifeSignal,
		HistRestSeconds:           histRestSeconds,
		HistogramRequestDuration:  histogramRequestDuration,
	}
}
