package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ValueQuantile = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ostree_value_quantile",
			Help: "Quantile of the values observed within the stats window",
		},
		[]string{"source", "quantile"},
	)
	WindowSamples = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ostree_window_samples",
			Help: "Number of values currently held in the stats window",
		},
		[]string{"source"},
	)
	IngestedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ostree_ingested_total",
			Help: "Total number of values ingested",
		},
		[]string{"source"},
	)
	ParseFailureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ostree_parse_failure_total",
			Help: "Total number of inputs that could not be parsed as a value",
		},
		[]string{"source"},
	)
)
