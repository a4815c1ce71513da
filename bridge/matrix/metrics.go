package matrix

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	syncEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matterroom",
			Subsystem: "sync",
			Name:      "events_total",
			Help:      "Number of events received from /sync, by section",
		},
		[]string{"section"}, // state, timeline, ephemeral
	)
	syncDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "matterroom",
			Subsystem: "sync",
			Name:      "duplicates_total",
			Help:      "Number of timeline events dropped because they were already ingested",
		},
	)
	transportErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matterroom",
			Subsystem: "transport",
			Name:      "errors_total",
			Help:      "Number of failed homeserver calls, by operation",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(syncEvents, syncDuplicates, transportErrors)
}
