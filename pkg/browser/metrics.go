package browser

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "suno_mcp",
		Name:      "downloads_total",
		Help:      "Downloads handled, by source (passive, explicit) and outcome.",
	}, []string{"source", "outcome"})

	sessionOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "suno_mcp",
		Name:      "browser_session_open",
		Help:      "1 while a browser page is available, 0 otherwise.",
	})

	sessionLaunches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "suno_mcp",
		Name:      "browser_launch_steps_total",
		Help:      "Session resources created, by level and outcome.",
	}, []string{"level", "outcome"})
)
