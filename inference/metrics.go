package inference

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records prediction latency and detection counts.
type Metrics struct {
	duration   prometheus.Histogram
	detections *prometheus.CounterVec
	empty      prometheus.Counter
	failures   prometheus.Counter
}

// NewMetrics creates the engine metrics and registers them with reg.
//
// Arguments:
//   - reg: The registerer to use, e.g. prometheus.NewRegistry().
//
// Returns:
//   - *Metrics: The metrics.
//   - error: An error if a metric is already registered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "yolov3",
			Name:      "predict_duration_seconds",
			Help:      "Time spent running the network and decoding its outputs.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yolov3",
			Name:      "detections_total",
			Help:      "Detections kept after suppression, by class name.",
		}, []string{"class"}),
		empty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yolov3",
			Name:      "empty_predictions_total",
			Help:      "Predictions that produced no detections.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yolov3",
			Name:      "predict_failures_total",
			Help:      "Predictions that returned an error.",
		}),
	}
	for _, c := range []prometheus.Collector{m.duration, m.detections, m.empty, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(start time.Time, result Result, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.failures.Inc()
		return
	}
	if len(result.Boxes) == 0 {
		m.empty.Inc()
	}
	for _, b := range result.Boxes {
		m.detections.WithLabelValues(b.Label).Inc()
	}
}
