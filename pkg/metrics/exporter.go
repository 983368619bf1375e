package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pliu/ostree/pkg/stats"
)

// Recorder feeds values into a stats registry and counts them.
type Recorder struct {
	registry *stats.Registry
}

func NewRecorder(registry *stats.Registry) *Recorder {
	return &Recorder{registry: registry}
}

func (r *Recorder) Observe(source string, value int64) {
	r.registry.Get(source).Add(value)
	IngestedCount.WithLabelValues(source).Inc()
}

func (r *Recorder) ParseFailure(source string) {
	ParseFailureCount.WithLabelValues(source).Inc()
}

// Exporter periodically publishes window quantiles as gauges.
type Exporter struct {
	registry  *stats.Registry
	quantiles []float64
	frequency time.Duration
	clock     clock.Clock
}

func NewExporter(registry *stats.Registry, quantiles []float64, frequency time.Duration) *Exporter {
	return NewExporterWithClock(registry, quantiles, frequency, clock.New())
}

func NewExporterWithClock(registry *stats.Registry, quantiles []float64, frequency time.Duration, clk clock.Clock) *Exporter {
	return &Exporter{
		registry:  registry,
		quantiles: quantiles,
		frequency: frequency,
		clock:     clk,
	}
}

func (e *Exporter) Run(ctx context.Context) {
	ticker := e.clock.Ticker(e.frequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Stopping quantile exporter")
			return
		case <-ticker.C:
			e.Update()
		}
	}
}

// Update expires old values and refreshes every gauge once.
func (e *Exporter) Update() {
	for _, source := range e.registry.Sources() {
		s := e.registry.Get(source)
		s.Expire()
		WindowSamples.WithLabelValues(source).Set(float64(s.Len()))

		res, ok := s.Percentile(e.quantiles)
		if !ok {
			log.Debug().Str("source", source).Msg("no quantiles to export")
			ValueQuantile.DeletePartialMatch(prometheus.Labels{"source": source})
			continue
		}
		for i, q := range e.quantiles {
			ValueQuantile.WithLabelValues(source, quantileLabel(q)).Set(float64(res[i]))
		}
	}
}

func quantileLabel(q float64) string {
	return "p" + strconv.FormatFloat(q, 'f', -1, 64)
}
