package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/TuliEscobar/prueba-trakii/internal/ports"
)

// NewDeviceRouter serves a telemetry source as the device API the dashboard
// polls: GET /battery and GET /device-info, CORS enabled for browser clients
func NewDeviceRouter(source ports.TelemetrySource) http.Handler {
	r := mux.NewRouter()
	r.Use(accessLog)

	r.HandleFunc("/battery", func(w http.ResponseWriter, req *http.Request) {
		report, err := source.ReadBattery(req.Context())
		if err != nil {
			log.Warn().Err(err).Msg("battery read failed")
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if report.Timestamp.IsZero() {
			report.Timestamp = time.Now()
		}
		writeJSON(w, http.StatusOK, report)
	}).Methods(http.MethodGet)

	r.HandleFunc("/device-info", func(w http.ResponseWriter, req *http.Request) {
		info, err := source.DeviceInfo(req.Context())
		if err != nil {
			log.Warn().Err(err).Msg("device info failed")
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, info)
	}).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)
	return cors(r)
}
