package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roster"

// Recorder owns a private registry so tests can build as many as they like.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	gestures *prometheus.CounterVec
	sessions prometheus.Gauge
	clients  prometheus.Gauge
	reaped   prometheus.Counter
	dropped  prometheus.Counter
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestures_total",
			Help:      "Gestures processed by roster sessions, by gesture type and outcome code.",
		}, []string{"gesture", "outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Roster sessions currently held by the hub.",
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clients_connected",
			Help:      "Subscribers across all sessions.",
		}),
		reaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_reaped_total",
			Help:      "Sessions closed by the idle reaper.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clients_dropped_total",
			Help:      "Subscribers dropped because their outbox was full.",
		}),
	}
	r.registry.MustRegister(
		r.gestures, r.sessions, r.clients, r.reaped, r.dropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Gesture(gesture, outcome string) {
	if r == nil {
		return
	}
	r.gestures.WithLabelValues(gesture, outcome).Inc()
}

func (r *Recorder) SessionOpened() {
	if r == nil {
		return
	}
	r.sessions.Inc()
}

func (r *Recorder) SessionClosed() {
	if r == nil {
		return
	}
	r.sessions.Dec()
}

func (r *Recorder) SessionsReaped(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.reaped.Add(float64(n))
}

func (r *Recorder) ClientJoined() {
	if r == nil {
		return
	}
	r.clients.Inc()
}

func (r *Recorder) ClientLeft() {
	if r == nil {
		return
	}
	r.clients.Dec()
}

func (r *Recorder) ClientDropped() {
	if r == nil {
		return
	}
	r.dropped.Inc()
	r.clients.Dec()
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
