package observability

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics counts results-engine events. It satisfies
// services.Recorder.
type EngineMetrics struct {
	searches   *prometheus.CounterVec
	stale      prometheus.Counter
	rejections *prometheus.CounterVec
}

// NewEngineMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "motormony_searches_total",
			Help: "Applied searches by outcome (ready, empty, failed).",
		}, []string{"outcome"}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "motormony_stale_responses_total",
			Help: "Recommendation responses discarded because a newer query superseded them.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "motormony_comparison_rejections_total",
			Help: "Rejected comparison additions by reason (full, duplicate).",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.searches, m.stale, m.rejections)
	}
	return m
}

func (m *EngineMetrics) SearchFinished(outcome string)    { m.searches.WithLabelValues(outcome).Inc() }
func (m *EngineMetrics) StaleResponse()                   { m.stale.Inc() }
func (m *EngineMetrics) ComparisonRejected(reason string) { m.rejections.WithLabelValues(reason).Inc() }
