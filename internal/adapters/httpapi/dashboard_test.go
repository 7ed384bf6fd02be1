package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TuliEscobar/prueba-trakii/internal/adapters/memory"
	"github.com/TuliEscobar/prueba-trakii/internal/domain"
	"github.com/TuliEscobar/prueba-trakii/internal/metrics"
	"github.com/TuliEscobar/prueba-trakii/internal/ports"
)

func newTestController(t *testing.T, reg *prometheus.Registry) *ports.Controller {
	t.Helper()
	gen := ports.NewGenerator(nil, domain.DefaultWalk(), rand.New(rand.NewSource(11)))
	cfg := ports.ControllerConfig{
		Thresholds:      domain.DefaultThresholds(),
		UpdateInterval:  time.Hour,
		HistoryCapacity: 6,
		Ramp:            domain.DefaultRamp(),
	}
	c, err := ports.NewController(cfg, gen, memory.NewReadingRepository(), ports.WithMetrics(metrics.New(reg)))
	require.NoError(t, err)
	t.Cleanup(func() { c.StopAutoUpdate() })
	return c
}

func newTestServer(t *testing.T) (*httptest.Server, *ports.Controller) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := newTestController(t, reg)
	srv := httptest.NewServer(NewDashboardRouter(c, reg))
	t.Cleanup(srv.Close)
	return srv, c
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestDashboard_Battery(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/battery")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, float64(100), body["level"])
	assert.Equal(t, "normal", body["band"])
	assert.Equal(t, "simulated", body["device_status"])
}

func TestDashboard_RefreshThenHistory(t *testing.T) {
	srv, c := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/refresh", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap ports.Snapshot
	decode(t, resp, &snap)
	assert.Equal(t, c.SessionID(), snap.SessionID)

	resp, err = http.Get(srv.URL + "/api/v1/history")
	require.NoError(t, err)
	var hist struct {
		Capacity   int `json:"capacity"`
		Thresholds struct {
			Warning  int `json:"warning"`
			Critical int `json:"critical"`
		} `json:"thresholds"`
		Entries []domain.ClassifiedLevel `json:"entries"`
	}
	decode(t, resp, &hist)

	assert.Equal(t, 6, hist.Capacity)
	assert.Equal(t, 50, hist.Thresholds.Warning)
	assert.Equal(t, 20, hist.Thresholds.Critical)
	require.Len(t, hist.Entries, 6)
	assert.Equal(t, snap.Level, hist.Entries[0].Level)
	assert.Equal(t, 100, hist.Entries[1].Level)
}

func TestDashboard_Readings(t *testing.T) {
	srv, c := newTestServer(t)
	c.Refresh(context.Background())
	c.Refresh(context.Background())

	resp, err := http.Get(srv.URL + "/api/v1/readings")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Readings   []map[string]any  `json:"readings"`
		Statistics domain.Statistics `json:"statistics"`
	}
	decode(t, resp, &body)
	assert.Len(t, body.Readings, 2)
	assert.Equal(t, 2, body.Statistics.Count)
}

func TestDashboard_Readings_BadRange(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/readings?from=yesterday")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/readings?from=2024-01-02T00:00:00Z&to=2024-01-01T00:00:00Z")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_AutoUpdateToggle(t *testing.T) {
	srv, c := newTestServer(t)

	put := func(body string) map[string]bool {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/auto-update", strings.NewReader(body))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]bool
		decode(t, resp, &out)
		return out
	}

	assert.Equal(t, map[string]bool{"enabled": true, "changed": true}, put(`{"enabled": true}`))
	assert.Equal(t, map[string]bool{"enabled": true, "changed": false}, put(`{"enabled": true}`))
	assert.True(t, c.AutoUpdating())

	assert.Equal(t, map[string]bool{"enabled": false, "changed": true}, put(`{"enabled": false}`))
	assert.Equal(t, map[string]bool{"enabled": false, "changed": false}, put(`{"enabled": false}`))

	resp, err := http.Get(srv.URL + "/api/v1/auto-update")
	require.NoError(t, err)
	var state map[string]bool
	decode(t, resp, &state)
	assert.False(t, state["enabled"])
}

func TestDashboard_AutoUpdateBadBody(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/auto-update", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_DeviceMissing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/device")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboard_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/refresh")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestDashboard_HealthAndMetrics(t *testing.T) {
	srv, c := newTestServer(t)
	c.Refresh(context.Background())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "batterymon_readings_total")
}
