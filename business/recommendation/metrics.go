package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallback_total",
			Help: "Count of deterministic ranking fallbacks by cause.",
		},
		[]string{"cause"},
	)
)

func init() {
	prometheus.MustRegister(FallbackTotal)
}
