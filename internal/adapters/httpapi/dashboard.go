package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
	"github.com/TuliEscobar/prueba-trakii/internal/ports"
)

// Dashboard is the subset of ports.Controller served over HTTP
type Dashboard interface {
	Snapshot() ports.Snapshot
	Refresh(ctx context.Context) ports.Snapshot
	StartAutoUpdate() bool
	StopAutoUpdate() bool
	AutoUpdating() bool
	Thresholds() domain.Thresholds
	Repository() domain.ReadingRepository
}

type dashboardHandler struct {
	dash Dashboard
}

// NewDashboardRouter exposes the dashboard session as a JSON API.
// gatherer may be nil to omit /metrics.
func NewDashboardRouter(dash Dashboard, gatherer prometheus.Gatherer) http.Handler {
	h := &dashboardHandler{dash: dash}

	r := mux.NewRouter()
	r.Use(accessLog)

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/battery", h.battery).Methods(http.MethodGet)
	api.HandleFunc("/history", h.history).Methods(http.MethodGet)
	api.HandleFunc("/readings", h.readings).Methods(http.MethodGet)
	api.HandleFunc("/refresh", h.refresh).Methods(http.MethodPost)
	api.HandleFunc("/auto-update", h.getAutoUpdate).Methods(http.MethodGet)
	api.HandleFunc("/auto-update", h.setAutoUpdate).Methods(http.MethodPut)
	api.HandleFunc("/device", h.device).Methods(http.MethodGet)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
}

type batteryResponse struct {
	Level        int                 `json:"level"`
	Band         domain.SeverityBand `json:"band"`
	Source       domain.Source       `json:"source"`
	UpdatedAt    time.Time           `json:"updated_at"`
	DeviceStatus string              `json:"device_status"`
	Notices      []string            `json:"notices,omitempty"`
}

type historyResponse struct {
	Capacity   int                      `json:"capacity"`
	Thresholds thresholdsResponse       `json:"thresholds"`
	Entries    []domain.ClassifiedLevel `json:"entries"`
}

type thresholdsResponse struct {
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}

type readingResponse struct {
	ID        int64               `json:"id"`
	Level     int                 `json:"level"`
	Band      domain.SeverityBand `json:"band"`
	Source    domain.Source       `json:"source"`
	Timestamp time.Time           `json:"timestamp"`
}

type readingsResponse struct {
	From       time.Time         `json:"from"`
	To         time.Time         `json:"to"`
	Readings   []readingResponse `json:"readings"`
	Statistics domain.Statistics `json:"statistics"`
}

type autoUpdateBody struct {
	Enabled *bool `json:"enabled"`
}

func (h *dashboardHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *dashboardHandler) battery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toBatteryResponse(h.dash.Snapshot()))
}

func (h *dashboardHandler) history(w http.ResponseWriter, r *http.Request) {
	snap := h.dash.Snapshot()
	th := h.dash.Thresholds()
	writeJSON(w, http.StatusOK, historyResponse{
		Capacity:   snap.Capacity,
		Thresholds: thresholdsResponse{Warning: th.Warning, Critical: th.Critical},
		Entries:    snap.History,
	})
}

func (h *dashboardHandler) readings(w http.ResponseWriter, r *http.Request) {
	repo := h.dash.Repository()
	if repo == nil {
		writeError(w, http.StatusNotFound, "reading log disabled")
		return
	}

	to := time.Now()
	from := to.Add(-time.Hour)
	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid from: "+err.Error())
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid to: "+err.Error())
			return
		}
	}
	if !from.Before(to) {
		writeError(w, http.StatusBadRequest, "from must be before to")
		return
	}

	readings, err := repo.GetReadingsInRange(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get readings")
		return
	}

	th := h.dash.Thresholds()
	out := readingsResponse{
		From:       from,
		To:         to,
		Readings:   make([]readingResponse, len(readings)),
		Statistics: domain.CalculateStatistics(readings),
	}
	for i, rd := range readings {
		out.Readings[i] = readingResponse{
			ID:        rd.ID,
			Level:     rd.Level,
			Band:      rd.Band(th),
			Source:    rd.Source,
			Timestamp: rd.Timestamp,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *dashboardHandler) refresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dash.Refresh(r.Context()))
}

func (h *dashboardHandler) getAutoUpdate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.dash.AutoUpdating()})
}

func (h *dashboardHandler) setAutoUpdate(w http.ResponseWriter, r *http.Request) {
	var body autoUpdateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Enabled == nil {
		writeError(w, http.StatusBadRequest, `body must be {"enabled": true|false}`)
		return
	}

	var changed bool
	if *body.Enabled {
		changed = h.dash.StartAutoUpdate()
	} else {
		changed = h.dash.StopAutoUpdate()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.dash.AutoUpdating(), "changed": changed})
}

func (h *dashboardHandler) device(w http.ResponseWriter, r *http.Request) {
	snap := h.dash.Snapshot()
	if snap.Device == nil {
		writeError(w, http.StatusNotFound, "no device info (status: "+snap.DeviceStatus+")")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"device":  snap.Device,
		"address": snap.Address,
	})
}

func toBatteryResponse(snap ports.Snapshot) batteryResponse {
	return batteryResponse{
		Level:        snap.Level,
		Band:         snap.Band,
		Source:       snap.Source,
		UpdatedAt:    snap.UpdatedAt,
		DeviceStatus: snap.DeviceStatus,
		Notices:      snap.Notices,
	}
}
