// Package telemetry holds the Prometheus metrics for an AtlasERP process.
//
// Metrics live on a dedicated Registry rather than the default one so that a
// shell session can gather and print them without an HTTP endpoint.
//
//	telemetry.LoginAttemptsTotal.WithLabelValues(telemetry.ResultSuccess).Inc()
package telemetry

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Registry is the process-wide metrics registry.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// LoginAttemptsTotal counts authentication attempts by result.
	LoginAttemptsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_login_attempts_total",
			Help: "Total number of authentication attempts, by result.",
		},
		[]string{"result"},
	)

	// ModuleInitTotal counts module initialization hook runs by module and result.
	ModuleInitTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atlas_module_init_total",
			Help: "Total number of module initialization hook runs, by module and result.",
		},
		[]string{"module", "result"},
	)

	// ModuleInitDuration observes how long each initialization hook took.
	ModuleInitDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atlas_module_init_duration_seconds",
			Help:    "Histogram of module initialization hook latencies, by module.",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
		},
		[]string{"module"},
	)

	// ModulesRegistered is the module count of the most recently changed
	// registry. The application runs one registry per process; tests that
	// build several see the last one written.
	ModulesRegistered = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "atlas_modules_registered",
			Help: "Number of modules currently registered.",
		},
	)
)

// Sample is one flattened series value.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot gathers every series from Registry, sorted by name. Histograms are
// reported by their observation count.
func Snapshot() ([]Sample, error) {
	families, err := Registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: labels(m),
				Value:  value(mf.GetType(), m),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func labels(m *dto.Metric) map[string]string {
	if len(m.GetLabel()) == 0 {
		return nil
	}
	l := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		l[lp.GetName()] = lp.GetValue()
	}
	return l
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(m.GetHistogram().GetSampleCount())
	default:
		return m.GetUntyped().GetValue()
	}
}
