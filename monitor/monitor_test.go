package monitor

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCommand(t *testing.T) {
	m := NewMonitor("test")
	m.ObserveCommand("place", nil, time.Millisecond)
	m.ObserveCommand("place", errors.New("not your turn"), time.Millisecond)
	m.ObserveCommand("place", errors.New("unknown word"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.Commands.WithLabelValues("place", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.metrics.Commands.WithLabelValues("place", "rejected")))
}

func TestGauges(t *testing.T) {
	m := NewMonitor("test")
	m.IncOnlinePlayers()
	m.IncOnlinePlayers()
	m.DecOnlinePlayers()
	m.SetActiveRooms(3)
	m.AddPoints(5)
	m.AddPoints(-1)
	m.GameFinished(EndSupplyEmpty)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.OnlinePlayers))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.metrics.ActiveRooms))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.metrics.PointsScored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.GamesFinished.WithLabelValues(EndSupplyEmpty)))
}

func TestGameFinishedLabelsAreBounded(t *testing.T) {
	m := NewMonitor("test")
	m.GameFinished(EndPlayerLeft)
	m.GameFinished("closing for maintenance")
	m.GameFinished("another free text reason")

	assert.Equal(t, 2, testutil.CollectAndCount(m.metrics.GamesFinished))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.GamesFinished.WithLabelValues(EndPlayerLeft)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.metrics.GamesFinished.WithLabelValues(EndAdmin)))
}

func TestNilMonitorIsSafe(t *testing.T) {
	var m *Monitor
	m.IncOnlinePlayers()
	m.SetActiveRooms(1)
	m.ObserveCommand("start", nil, time.Second)
	m.AddPoints(3)
	m.GameFinished("x")
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMonitor("scrabble")
	m.SetActiveRooms(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "scrabble_active_rooms 2"))
}

func TestMetricsRegisterOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics("a", reg)
	assert.Panics(t, func() { NewMetrics("a", reg) }, "duplicate registration must fail loudly")
}
