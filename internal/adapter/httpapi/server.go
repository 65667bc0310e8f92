// Package httpapi exposes the dashboard over HTTP: the JSON API the
// frontend drives, a websocket stream of snapshot updates, static assets,
// and the health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skycastapp/skycast/internal/controller"
	"github.com/skycastapp/skycast/internal/domain"
	"github.com/skycastapp/skycast/internal/locate"
	"github.com/skycastapp/skycast/internal/observability"
)

// Dashboard is the controller surface the HTTP layer drives.
type Dashboard interface {
	LoadCity(ctx context.Context, city string) error
	LoadCoords(ctx context.Context, lat, lon float64) error
	Refresh(ctx context.Context, trigger string) error
	NotifyVisible()
	Snapshot() controller.Snapshot
	Subscribe() (<-chan controller.Snapshot, func())
	CheckReadiness(ctx context.Context) bool
}

// Server exposes the dashboard API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	resolver   *locate.Resolver
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the HTTP server. staticDir holds the frontend assets
// served at the root.
func NewServer(addr, staticDir string, dashboard Dashboard, resolver *locate.Resolver, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dashboard,
		resolver:  resolver,
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/weather", s.handleWeather)
	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/ws", s.handleWebsocket)

	mux.Handle("GET /", http.FileServer(http.Dir(staticDir)))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if !s.dashboard.CheckReadiness(ctx) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleWeather loads a location by ?city= or ?lat=&lon= and answers with
// the resulting snapshot.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var err error
	switch {
	case q.Has("city"):
		err = s.dashboard.LoadCity(r.Context(), q.Get("city"))
	case q.Has("lat") && q.Has("lon"):
		var lat, lon float64
		lat, lon, err = parseCoords(q.Get("lat"), q.Get("lon"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		err = s.dashboard.LoadCoords(r.Context(), lat, lon)
	default:
		writeError(w, http.StatusBadRequest, errors.New("either city or lat+lon is required"))
		return
	}

	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot())
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	matches := s.resolver.Suggest(r.URL.Query().Get("q"))
	if matches == nil {
		matches = []domain.Location{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": matches})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot())
}

// handleRefresh re-fetches the current location. ?trigger=visibility queues
// a coalesced background refresh; anything else refreshes inline.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("trigger") == controller.TriggerVisibility {
		s.dashboard.NotifyVisible()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	if err := s.dashboard.Refresh(r.Context(), controller.TriggerManual); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot())
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	payload := map[string]string{"error": err.Error()}
	if errors.Is(err, domain.ErrUnconfigured) {
		payload["hint"] = "set WEATHER_API_KEY to a real provider key; demo data is shown until then"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, payload)
}

// statusFor maps the domain error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnconfigured):
		return http.StatusServiceUnavailable
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPermissionDenied), errors.Is(err, locate.ErrGPSUnavailable):
		return http.StatusUnprocessableEntity
	case isOutOfServiceArea(err):
		return http.StatusUnprocessableEntity
	case domain.IsUnavailable(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func isOutOfServiceArea(err error) bool {
	var oosa *domain.OutOfServiceAreaError
	return errors.As(err, &oosa)
}

func parseCoords(latStr, lonStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, errors.New("lon must be a number")
	}
	return lat, lon, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
