package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "semsplit"

// Metrics holds the engine's Prometheus counters. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	SemanticDiffTotal *prometheus.CounterVec
	ParseErrorsTotal  *prometheus.CounterVec
	SplitPatchTotal   *prometheus.CounterVec
	FragmentsTotal    prometheus.Counter
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SemanticDiffTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "semantic_diff_total",
				Help:      "Semantic diffs computed, by mode (symbol or textual)",
			},
			[]string{"mode"},
		),
		ParseErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_errors_total",
				Help:      "Sources rejected by the parser, by language",
			},
			[]string{"language"},
		),
		SplitPatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "split_patch_total",
				Help:      "Patches segmented, by executed strategy and whether the result was degraded",
			},
			[]string{"strategy", "degraded"},
		),
		FragmentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fragments_total",
				Help:      "Patch fragments produced",
			},
		),
	}
}

func (m *Metrics) ObserveSemanticDiff(mode string) {
	if m == nil {
		return
	}
	m.SemanticDiffTotal.WithLabelValues(mode).Inc()
}

func (m *Metrics) ObserveParseError(language string) {
	if m == nil {
		return
	}
	m.ParseErrorsTotal.WithLabelValues(language).Inc()
}

func (m *Metrics) ObserveSplit(strategy string, degraded bool, fragments int) {
	if m == nil {
		return
	}
	m.SplitPatchTotal.WithLabelValues(strategy, strconv.FormatBool(degraded)).Inc()
	m.FragmentsTotal.Add(float64(fragments))
}
