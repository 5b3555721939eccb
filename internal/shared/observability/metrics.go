package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	UnitsDiscoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smalihook_units_discovered_total",
		Help: "Total number of smali files discovered under the input roots.",
	})

	UnitsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smalihook_units_processed_total",
		Help: "Total number of units that produced a hook script.",
	})

	UnitsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smalihook_units_skipped_total",
		Help: "Total number of units skipped, by reason.",
	}, []string{"reason"})

	MethodsHookedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smalihook_methods_hooked_total",
		Help: "Total number of method hooks emitted.",
	})

	ScriptSyntaxIssuesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smalihook_script_syntax_issues_total",
		Help: "Total number of generated scripts that failed syntax verification.",
	})

	UnitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smalihook_unit_seconds",
		Help:    "Time spent on one unit, by stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "smalihook_run_seconds",
		Help:    "Wall time of a complete generation run.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smalihook_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatchRebuildsThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smalihook_watch_rebuilds_throttled_total",
		Help: "Total number of watch-triggered rebuilds delayed by the rate limiter.",
	})
)

// Skip reasons used with UnitsSkippedTotal.
const (
	SkipNoMarker   = "no_marker"
	SkipNoClass    = "no_class"
	SkipFiltered   = "filtered"
	SkipReadFailed = "read_failed"
)
