package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TuliEscobar/prueba-trakii/internal/adapters/mock"
	"github.com/TuliEscobar/prueba-trakii/internal/adapters/telemetry"
)

func TestDeviceRouter_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(NewDeviceRouter(mock.NewFakeTelemetry(0, 5)))
	defer srv.Close()

	client := telemetry.NewClient(srv.URL, time.Second)
	ctx := context.Background()

	report, err := client.ReadBattery(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, report.Level, 0)
	assert.LessOrEqual(t, report.Level, 100)
	assert.Equal(t, mock.ReportStatus(report.Level), report.Status)
	assert.False(t, report.Timestamp.IsZero())

	info, err := client.DeviceInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TRAKII-001", info.DeviceID)
	require.NotNil(t, info.Location)
}

func TestDeviceRouter_Outage(t *testing.T) {
	srv := httptest.NewServer(NewDeviceRouter(mock.NewFakeTelemetry(1, 5)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/battery")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestDeviceRouter_CORS(t *testing.T) {
	srv := httptest.NewServer(NewDeviceRouter(mock.NewFakeTelemetry(0, 5)))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/device-info", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
