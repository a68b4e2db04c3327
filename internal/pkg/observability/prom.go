package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "dddorok_admin"
)

var (
	SvgUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "resource", "svg_upload_bytes"),
		Help:    "Size of accepted SVG uploads in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})
	SvgUploadOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "resource", "svg_upload_total"),
		Help: "SVG uploads by outcome",
	}, []string{"outcome"})
	ReclaimCandidates = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "reclaimer", "last_candidates"),
		Help: "Number of orphaned resources found by the last sweep",
	})
	ReclaimOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "reclaimer", "resources_total"),
		Help: "Reclaimed resources by outcome",
	}, []string{"outcome"})
	ReclaimDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "reclaimer", "sweep_duration_seconds"),
		Help: "Duration of the last reclaimer sweep in seconds",
	}, []string{"trigger"})
)
