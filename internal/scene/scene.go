// Package scene describes the host AR/location subsystem and map view that
// lodestar drives, and ships in-memory implementations of both.
package scene

import (
	"time"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

// Subsystem is the host AR/location framework. Readings may be absent: the
// boolean result reports whether a value is currently available.
type Subsystem interface {
	CurrentLocation() (models.GeoPosition, bool)
	CurrentScenePosition() (models.Vec3, bool)
	CurrentEulerAngles() (models.Vec3, bool)
	Heading() (models.Heading, bool)
	BestLocationEstimate() (models.LocationEstimate, bool)
	// TranslatedLocation reports the offset between the estimate's anchored position and to.
	TranslatedLocation(estimate models.LocationEstimate, to models.Vec3) models.Translation
	AddLocationNodeWithConfirmedLocation(marker models.Marker)
	RemoveAllNodes()
	Run()
	Pause()
}

// AnnotationKind distinguishes the map annotations lodestar maintains.
type AnnotationKind string

const (
	AnnotationUser     AnnotationKind = "user"
	AnnotationEstimate AnnotationKind = "estimate"
)

// Annotation is a point marker on the map view.
type Annotation struct {
	Kind       AnnotationKind     `json:"kind"`
	Coordinate models.GeoPosition `json:"coordinate"`
}

// MapView is the host map widget.
type MapView interface {
	AddAnnotation(a *Annotation)
	RemoveAnnotation(a *Annotation)
	// MoveAnnotation animates a to the given coordinate over the duration.
	MoveAnnotation(a *Annotation, to models.GeoPosition, over time.Duration)
	// SetCenter animates the viewport center and calls done once the animation completes.
	SetCenter(to models.GeoPosition, over time.Duration, done func())
	SetSpan(latitudeDelta, longitudeDelta float64)
}
