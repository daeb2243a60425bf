package cpu

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "beautyhunter"

var (
	candidatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "candidates_total",
		Help:      "Candidate accounts generated.",
	})

	matchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "matches_total",
		Help:      "Candidate accounts pushed to the sink, by classification code.",
	}, []string{"code"})

	invalidDerivationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "invalid_derivations_total",
		Help:      "Candidates skipped because HD derivation produced an invalid key.",
	})
)
