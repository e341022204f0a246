package journal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tradelog",
		Subsystem: "journal",
		Name:      "entries_total",
		Help:      "Submitted entries by save result.",
	}, []string{"result"})
	metricMarkdown = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tradelog",
		Subsystem: "journal",
		Name:      "markdown_files_total",
		Help:      "Markdown entry files by write result.",
	}, []string{"result"})
)

func recordEntry(result string) {
	metricEntries.WithLabelValues(result).Inc()
}

func recordMarkdown(result string) {
	metricMarkdown.WithLabelValues(result).Inc()
}
