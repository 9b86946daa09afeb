package httpapi

import (
	"errors"
	"net/http"

	"github.com/UnknownOlympus/lodestar/internal/models"
	"github.com/go-chi/render"
)

var errCoordinateRange = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")

type PoseRequest struct {
	Position *models.Vec3 `json:"position"`
	Euler    *models.Vec3 `json:"euler"`
}

func validCoordinate(pos models.GeoPosition) bool {
	return pos.Latitude >= -90 && pos.Latitude <= 90 && pos.Longitude >= -180 && pos.Longitude <= 180
}

func (h *handler) putLocation(w http.ResponseWriter, r *http.Request) {
	var pos models.GeoPosition
	if err := render.DecodeJSON(r.Body, &pos); err != nil {
		badRequest(w, r, "invalid_json", err)
		return
	}
	if !validCoordinate(pos) {
		badRequest(w, r, "invalid_coordinate", errCoordinateRange)
		return
	}

	h.Sensors.SetLocation(&pos)
	render.JSON(w, r, pos)
}

func (h *handler) deleteLocation(w http.ResponseWriter, _ *http.Request) {
	h.Sensors.SetLocation(nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) putPose(w http.ResponseWriter, r *http.Request) {
	var pose PoseRequest
	if err := render.DecodeJSON(r.Body, &pose); err != nil {
		badRequest(w, r, "invalid_json", err)
		return
	}

	h.Sensors.SetPose(pose.Position, pose.Euler)
	render.JSON(w, r, pose)
}

func (h *handler) deletePose(w http.ResponseWriter, _ *http.Request) {
	h.Sensors.SetPose(nil, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) putHeading(w http.ResponseWriter, r *http.Request) {
	var heading models.Heading
	if err := render.DecodeJSON(r.Body, &heading); err != nil {
		badRequest(w, r, "invalid_json", err)
		return
	}

	h.Sensors.SetHeading(&heading)
	render.JSON(w, r, heading)
}

func (h *handler) deleteHeading(w http.ResponseWriter, _ *http.Request) {
	h.Sensors.SetHeading(nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) putEstimate(w http.ResponseWriter, r *http.Request) {
	var estimate models.LocationEstimate
	if err := render.DecodeJSON(r.Body, &estimate); err != nil {
		badRequest(w, r, "invalid_json", err)
		return
	}
	if !validCoordinate(estimate.Location) {
		badRequest(w, r, "invalid_coordinate", errCoordinateRange)
		return
	}

	h.Sensors.SetEstimate(&estimate)
	render.JSON(w, r, estimate)
}

func (h *handler) deleteEstimate(w http.ResponseWriter, _ *http.Request) {
	h.Sensors.SetEstimate(nil)
	w.WriteHeader(http.StatusNoContent)
}
