package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 500
)

type SearchRequest struct {
	Radius string `json:"radius"`
}

type CenterRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *handler) resume(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Resume(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"running": true})
}

func (h *handler) pause(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Pause(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"running": false})
}

func (h *handler) session(w http.ResponseWriter, r *http.Request) {
	running, err := h.Session.Running(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"running": running})
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		badRequest(w, r, "invalid_json", err)
		return
	}

	generation, err := h.Session.Search(r.Context(), body.Radius)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]any{"generation": generation})
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Session.Status(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, status)
}

func (h *handler) telemetry(w http.ResponseWriter, r *http.Request) {
	display, err := h.Session.Telemetry(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, display)
}

func (h *handler) listings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.Session.Listings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"count": len(listings), "listings": listings})
}

func (h *handler) markers(w http.ResponseWriter, r *http.Request) {
	markers, err := h.Session.Markers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"count": len(markers), "markers": markers})
}

// open is the tap-through: it redirects to the page of the listing behind a marker.
func (h *handler) open(w http.ResponseWriter, r *http.Request) {
	target, err := h.Session.Tap(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *handler) runs(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		render.Status(r, http.StatusNotImplemented)
		render.JSON(w, r, map[string]any{"error": "run_log_disabled"})
		return
	}

	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxRunsLimit {
			badRequest(w, r, "invalid_limit", nil)
			return
		}
		limit = n
	}

	runs, err := h.Runs.RecentRuns(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"count": len(runs), "runs": runs})
}

func (h *handler) mapState(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.Map.State())
}

func (h *handler) centerOnUser(w http.ResponseWriter, r *http.Request) {
	var body CenterRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		badRequest(w, r, "invalid_json", err)
		return
	}
	if err := h.Session.SetCenterOnUser(r.Context(), body.Enabled); err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, body)
}
