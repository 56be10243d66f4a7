// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry      *prometheus.Registry
	ArtifactViews *prometheus.CounterVec
}

// New registers the service collectors plus the Go and process collectors
// on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		ArtifactViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "artifact_id_views_total",
			Help: "Number of successful lookups per artifact id.",
		}, []string{"artifact_id"}),
	}
	reg.MustRegister(
		m.ArtifactViews,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ArtifactViewed(id string) {
	if m == nil {
		return
	}
	m.ArtifactViews.WithLabelValues(id).Inc()
}
