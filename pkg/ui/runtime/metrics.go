package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tradelog",
		Subsystem: "ui",
		Name:      "events_total",
		Help:      "Input events dispatched into the widget tree, by kind.",
	}, []string{"kind"})
	metricCallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tradelog",
		Subsystem: "ui",
		Name:      "callbacks_total",
		Help:      "Deferred callbacks run after dispatch.",
	})
	metricRemeasures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tradelog",
		Subsystem: "ui",
		Name:      "remeasures_total",
		Help:      "Full-tree remeasure passes.",
	})
	metricRenders = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tradelog",
		Subsystem: "ui",
		Name:      "renders_total",
		Help:      "Frames drawn.",
	})
	metricSelectionChanges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tradelog",
		Subsystem: "ui",
		Name:      "selection_changes_total",
		Help:      "Keyboard focus changes.",
	})
	metricDispatchSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tradelog",
		Subsystem: "ui",
		Name:      "dispatch_seconds",
		Help:      "Time to route one input event and apply its response.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
	})
)

func recordEvent(kind string) {
	metricEvents.WithLabelValues(kind).Inc()
}

func recordCallbacks(n int) {
	if n > 0 {
		metricCallbacks.Add(float64(n))
	}
}

func recordRemeasure() {
	metricRemeasures.Inc()
}

func recordRender() {
	metricRenders.Inc()
}

func recordSelectionChange() {
	metricSelectionChanges.Inc()
}
