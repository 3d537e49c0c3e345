// Package metrics declares the prometheus collectors sceneview exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsTriggeredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sceneview_events_triggered_total",
		Help: "Number of Trigger calls that reached at least one subscriber, by channel",
	}, []string{"channel"})

	EventSubscriberErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sceneview_event_subscriber_errors_total",
		Help: "Subscriber callbacks that returned an error or panicked, by channel",
	}, []string{"channel"})

	EventSubscriptions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sceneview_event_subscriptions",
		Help: "Live subscriptions across all targets, by channel",
	}, []string{"channel"})

	PointerSamplesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sceneview_pointer_samples_dropped_total",
		Help: "Pointer samples discarded before reaching the bus, by reason",
	}, []string{"reason"})

	FramesRenderedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sceneview_frames_rendered_total",
		Help: "Frames submitted to the composer",
	})

	SceneLoadSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sceneview_scene_load_seconds",
		Help:    "Time spent in the external loader per scene",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"result"})
)

// IncPointerDrop records a dropped pointer sample
func IncPointerDrop(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	PointerSamplesDroppedTotal.WithLabelValues(reason).Inc()
}
