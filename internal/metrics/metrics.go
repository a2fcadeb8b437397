// Package metrics exposes Prometheus instrumentation for a running world.
package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives world activity and publishes it as Prometheus metrics.
// It satisfies game.Observer.
type Recorder struct {
	registry  *prometheus.Registry
	startTime time.Time

	sessions      *prometheus.GaugeVec
	connections   *prometheus.CounterVec
	commands      *prometheus.CounterVec
	saves         *prometheus.CounterVec
	rooms         prometheus.Gauge
	uptimeSeconds prometheus.Gauge
	goroutines    prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder(startTime time.Time) *Recorder {
	r := &Recorder{
		registry:  prometheus.NewRegistry(),
		startTime: startTime,
		sessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "brackenhold_sessions_connected",
			Help: "Number of currently connected sessions by transport.",
		}, []string{"transport"}),
		connections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brackenhold_connections_total",
			Help: "Total connections since server start.",
		}, []string{"transport"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brackenhold_commands_total",
			Help: "Commands processed, by the cascade stage that consumed them.",
		}, []string{"stage"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brackenhold_saves_total",
			Help: "World saves by outcome.",
		}, []string{"result"}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brackenhold_rooms",
			Help: "Number of rooms in the world, tombstones included.",
		}),
		uptimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brackenhold_uptime_seconds",
			Help: "Server uptime in seconds.",
		}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brackenhold_goroutines",
			Help: "Number of active goroutines.",
		}),
	}

	r.registry.MustRegister(
		r.sessions,
		r.connections,
		r.commands,
		r.saves,
		r.rooms,
		r.uptimeSeconds,
		r.goroutines,
	)
	return r
}

func (r *Recorder) SessionOpened(transport string) {
	r.sessions.WithLabelValues(transport).Inc()
	r.connections.WithLabelValues(transport).Inc()
}

func (r *Recorder) SessionClosed(transport string) {
	r.sessions.WithLabelValues(transport).Dec()
}

func (r *Recorder) CommandResolved(stage string) {
	r.commands.WithLabelValues(stage).Inc()
}

func (r *Recorder) WorldSaved(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.saves.WithLabelValues(result).Inc()
}

func (r *Recorder) RoomsChanged(count int) {
	r.rooms.Set(float64(count))
}

// Update refreshes the process gauges.
func (r *Recorder) Update() {
	r.uptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.goroutines.Set(float64(runtime.NumGoroutine()))
}

// Handler returns an http.Handler that updates metrics before serving them.
func (r *Recorder) Handler() http.Handler {
	inner := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.Update()
		inner.ServeHTTP(w, req)
	})
}
