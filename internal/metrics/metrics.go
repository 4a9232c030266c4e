package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScreensMounted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pogoda_screens_mounted_total",
			Help: "Total weather screens mounted",
		},
	)

	ScreensTornDown = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pogoda_screens_torn_down_total",
			Help: "Total weather screens torn down",
		},
		[]string{"reason"},
	)

	ScreensActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pogoda_screens_active",
			Help: "Weather screens currently mounted",
		},
	)

	LoadingCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pogoda_loading_completed_total",
			Help: "Screens whose loading view has cleared",
		},
	)

	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pogoda_state_transitions_total",
			Help: "User-driven state transitions",
		},
		[]string{"kind", "status"},
	)

	PageRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pogoda_page_renders_total",
			Help: "Rendered pages by view",
		},
		[]string{"view"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pogoda_rate_limited_total",
			Help: "Requests rejected by the mutation rate limiter",
		},
	)

	OGImageRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pogoda_og_image_renders_total",
			Help: "Open Graph images served",
		},
		[]string{"cache"},
	)
)
