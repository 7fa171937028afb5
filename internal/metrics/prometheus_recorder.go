package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration     prom.Histogram
	buildOutcome      *prom.CounterVec
	docResults        *prom.CounterVec
	renderConcurrency prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "pagepress",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagepress",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		docResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pagepress",
			Name:      "documents_total",
			Help:      "Per-document pipeline results",
		}, []string{"result"}),
		renderConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: "pagepress",
			Name:      "render_concurrency",
			Help:      "Configured render worker count for the last build",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.docResults, pr.renderConcurrency)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncDocResult(result DocResult) {
	if p == nil {
		return
	}
	p.docResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetRenderConcurrency(n int) {
	if p == nil {
		return
	}
	p.renderConcurrency.Set(float64(n))
}

// HTTPHandler returns a handler serving Prometheus metrics for the registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
