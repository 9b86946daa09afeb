// Package httpapi exposes the session over HTTP: sensor readings are pushed in,
// display and pipeline state are read out.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/ingest"
	"github.com/UnknownOlympus/lodestar/internal/loop"
	"github.com/UnknownOlympus/lodestar/internal/models"
	"github.com/UnknownOlympus/lodestar/internal/scene"
	"github.com/UnknownOlympus/lodestar/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestsPerMinute = 600

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunLister reads the ingestion run log.
type RunLister interface {
	RecentRuns(ctx context.Context, limit int) ([]models.IngestionRun, error)
}

// Deps are the collaborators of the router. DB and Runs may be nil.
type Deps struct {
	Log      *slog.Logger
	Session  *session.Session
	Sensors  *scene.Memory
	Map      *scene.MemoryMap
	Gatherer prometheus.Gatherer
	DB       Pinger
	Runs     RunLister
}

// NewRouter builds the control and monitoring routes.
func NewRouter(d Deps) http.Handler {
	h := &handler{Deps: d}

	r := chi.NewRouter()
	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(requestsPerMinute, time.Minute))
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Post("/session/resume", h.resume)
		r.Post("/session/pause", h.pause)
		r.Get("/session", h.session)

		r.Post("/search", h.search)
		r.Get("/status", h.status)
		r.Get("/telemetry", h.telemetry)
		r.Get("/listings", h.listings)
		r.Get("/markers", h.markers)
		r.Get("/markers/{tag}/open", h.open)
		r.Get("/runs", h.runs)

		r.Get("/map", h.mapState)
		r.Put("/map/center-on-user", h.centerOnUser)

		r.Route("/sensors", func(r chi.Router) {
			r.Put("/location", h.putLocation)
			r.Delete("/location", h.deleteLocation)
			r.Put("/pose", h.putPose)
			r.Delete("/pose", h.deletePose)
			r.Put("/heading", h.putHeading)
			r.Delete("/heading", h.deleteHeading)
			r.Put("/estimate", h.putEstimate)
			r.Delete("/estimate", h.deleteEstimate)
		})
	})

	return r
}

type handler struct {
	Deps
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.Log.DebugContext(ctx, "Performing health checks...")

	status, body := http.StatusOK, "OK"
	if h.DB != nil {
		if err := h.DB.Ping(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
	}
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		h.Log.ErrorContext(ctx, "failed to write reply", "error", err)
	}

	h.Log.DebugContext(ctx, "Health checks completed", "status", status)
}

// fail renders err with the status code its kind maps to.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal_error"

	switch {
	case errors.Is(err, ingest.ErrEmptyRadius):
		status, code = http.StatusBadRequest, "radius_required"
	case errors.Is(err, ingest.ErrNoFix):
		status, code = http.StatusConflict, "no_location_fix"
	case errors.Is(err, ingest.ErrUnknownMarker):
		status, code = http.StatusNotFound, "unknown_marker"
	case errors.Is(err, loop.ErrStopped):
		status, code = http.StatusServiceUnavailable, "loop_stopped"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusServiceUnavailable, "canceled"
	default:
		h.Log.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": code, "detail": err.Error()})
}

func badRequest(w http.ResponseWriter, r *http.Request, code string, err error) {
	render.Status(r, http.StatusBadRequest)
	body := map[string]any{"error": code}
	if err != nil {
		body["detail"] = err.Error()
	}
	render.JSON(w, r, body)
}
