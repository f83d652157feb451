package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for stream activity, registered on the default registry
// and exposed via /metrics.
var (
	ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aquamonitor_active_streams",
		Help: "Dashboard streams currently open.",
	})

	FramesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquamonitor_frames_written_total",
		Help: "Frames written across all dashboard streams.",
	})

	FrameBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquamonitor_frame_bytes_total",
		Help: "Bytes written across all dashboard streams, length prefixes included.",
	})

	QueryErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquamonitor_query_errors_total",
		Help: "Upstream telemetry queries that failed. Failed widgets are omitted from their stream, never surfaced as protocol errors.",
	})
)
