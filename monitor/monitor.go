// monitor/monitor.go
package monitor

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khaldane/Scrabble-Game/logger"
)

type Metrics struct {
	OnlinePlayers  prometheus.Gauge
	ActiveRooms    prometheus.Gauge
	Commands       *prometheus.CounterVec
	CommandLatency *prometheus.HistogramVec
	PointsScored   prometheus.Counter
	GamesFinished  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of connected clients",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of hosted rooms",
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Room commands by kind and outcome",
		}, []string{"kind", "outcome"}),
		CommandLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_latency_seconds",
			Help:      "Time a room command spends on the room loop",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"kind"}),
		PointsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_scored_total",
			Help:      "Points awarded for accepted placements",
		}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.OnlinePlayers,
		m.ActiveRooms,
		m.Commands,
		m.CommandLatency,
		m.PointsScored,
		m.GamesFinished,
	)

	return m
}

// Monitor 指标入口，nil Monitor 的所有方法都是 no-op
type Monitor struct {
	metrics      *Metrics
	registry     *prometheus.Registry
	startTime    time.Time
	requestCount int64
	mutex        sync.Mutex
	server       *http.Server
}

func NewMonitor(namespace string) *Monitor {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return &Monitor{
		metrics:   NewMetrics(namespace, reg),
		registry:  reg,
		startTime: time.Now(),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var publishOnce sync.Once

// StartServer serves /metrics and /debug/vars on addr until ctx is done.
func (m *Monitor) StartServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/debug/vars", expvar.Handler())

	// 添加expvar指标
	publishOnce.Do(func() {
		expvar.Publish("uptime", expvar.Func(func() interface{} {
			return time.Since(m.startTime).Seconds()
		}))
		expvar.Publish("requests", expvar.Func(func() interface{} {
			m.mutex.Lock()
			defer m.mutex.Unlock()
			return m.requestCount
		}))
	})

	m.server = &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		m.server.Shutdown(shutdownCtx)
	}()

	logger.Log.Infof("Metrics server listening on %s", addr)
	if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (m *Monitor) IncOnlinePlayers() {
	if m == nil {
		return
	}
	m.metrics.OnlinePlayers.Inc()
}

func (m *Monitor) DecOnlinePlayers() {
	if m == nil {
		return
	}
	m.metrics.OnlinePlayers.Dec()
}

func (m *Monitor) SetActiveRooms(count int) {
	if m == nil {
		return
	}
	m.metrics.ActiveRooms.Set(float64(count))
}

// ObserveCommand records one room command.
func (m *Monitor) ObserveCommand(kind string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.metrics.Commands.WithLabelValues(kind, outcome).Inc()
	m.metrics.CommandLatency.WithLabelValues(kind).Observe(duration.Seconds())

	m.mutex.Lock()
	m.requestCount++
	m.mutex.Unlock()
}

func (m *Monitor) AddPoints(points int) {
	if m == nil || points <= 0 {
		return
	}
	m.metrics.PointsScored.Add(float64(points))
}

// games_finished_total 的 outcome 标签只取这几个值
const (
	EndPlayerLeft  = "player_left"
	EndSupplyEmpty = "supply_empty"
	EndAdmin       = "admin"
)

// GameFinished counts a finished game. Any outcome other than
// EndPlayerLeft or EndSupplyEmpty is counted as EndAdmin.
func (m *Monitor) GameFinished(outcome string) {
	if m == nil {
		return
	}
	switch outcome {
	case EndPlayerLeft, EndSupplyEmpty:
	default:
		outcome = EndAdmin
	}
	m.metrics.GamesFinished.WithLabelValues(outcome).Inc()
}
