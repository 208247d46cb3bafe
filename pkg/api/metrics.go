package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// sinkFailures counts best-effort downstream writes that failed and
	// were swallowed; the usage endpoint still answers 200.
	sinkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_sink_failures_total",
		Help: "Best-effort downstream writes that failed",
	}, []string{"sink"})
)
