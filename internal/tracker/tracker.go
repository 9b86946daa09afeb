// Package tracker keeps the user and location-estimate annotations on the map
// in step with the AR subsystem.
package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/scene"
)

const (
	// MarkerAnimation is how long the user annotation takes to glide to a new fix.
	MarkerAnimation = 500 * time.Millisecond
	// CenterAnimation is how long re-centering the map on the user takes.
	CenterAnimation = 450 * time.Millisecond
	// ZoomSpan is the map span, in degrees, applied after centering.
	ZoomSpan = 0.0005
)

// Options toggles optional tracker behavior.
type Options struct {
	CenterOnUser     bool // Re-center the map on every tick.
	DisplayDebugging bool // Show the best location estimate on the map.
}

// Tracker moves the map annotations. It must only be used from the interaction loop.
type Tracker struct {
	log      *slog.Logger
	scene    scene.Subsystem
	mapView  scene.MapView
	opts     Options
	user     *scene.Annotation
	estimate *scene.Annotation
}

// New creates a tracker with no annotations yet.
func New(log *slog.Logger, subsystem scene.Subsystem, mapView scene.MapView, opts Options) *Tracker {
	return &Tracker{log: log, scene: subsystem, mapView: mapView, opts: opts}
}

// SetCenterOnUser turns automatic re-centering on or off.
func (t *Tracker) SetCenterOnUser(enabled bool) {
	t.opts.CenterOnUser = enabled
}

// Tick updates the map from the current fix. Without a fix it does nothing.
func (t *Tracker) Tick(ctx context.Context) {
	current, ok := t.scene.CurrentLocation()
	if !ok {
		return
	}

	t.logTranslation(ctx)

	if t.user == nil {
		t.user = &scene.Annotation{Kind: scene.AnnotationUser, Coordinate: current}
		t.mapView.AddAnnotation(t.user)
	}
	t.mapView.MoveAnnotation(t.user, current, MarkerAnimation)

	if t.opts.CenterOnUser {
		t.mapView.SetCenter(current, CenterAnimation, func() {
			t.mapView.SetSpan(ZoomSpan, ZoomSpan)
		})
	}

	if !t.opts.DisplayDebugging {
		return
	}

	estimate, ok := t.scene.BestLocationEstimate()
	switch {
	case ok:
		if t.estimate == nil {
			t.estimate = &scene.Annotation{Kind: scene.AnnotationEstimate, Coordinate: estimate.Location}
			t.mapView.AddAnnotation(t.estimate)
		}
		t.mapView.MoveAnnotation(t.estimate, estimate.Location, 0)
	case t.estimate != nil:
		t.mapView.RemoveAnnotation(t.estimate)
		t.estimate = nil
	}
}

// UserAnnotation returns the user annotation, nil before the first fix.
func (t *Tracker) UserAnnotation() *scene.Annotation {
	return t.user
}

// EstimateAnnotation returns the estimate annotation, nil while no estimate is shown.
func (t *Tracker) EstimateAnnotation() *scene.Annotation {
	return t.estimate
}

func (t *Tracker) logTranslation(ctx context.Context) {
	estimate, ok := t.scene.BestLocationEstimate()
	if !ok {
		return
	}
	position, ok := t.scene.CurrentScenePosition()
	if !ok {
		return
	}

	translation := t.scene.TranslatedLocation(estimate, position)
	t.log.DebugContext(ctx, "Best location estimate",
		"position", estimate.Position,
		"lat", estimate.Location.Latitude,
		"lon", estimate.Location.Longitude,
		"accuracy", estimate.Location.HorizontalAccuracy,
		"date", estimate.Location.Timestamp,
		"current_position", position,
		"translation", translation,
	)
}
