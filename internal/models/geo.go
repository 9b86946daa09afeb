package models

import "time"

// GeoPosition is a location fix reported by the device location subsystem.
type GeoPosition struct {
	Latitude           float64   `json:"latitude"`            // Latitude in degrees, WGS84.
	Longitude          float64   `json:"longitude"`           // Longitude in degrees, WGS84.
	Altitude           *float64  `json:"altitude,omitempty"`  // Altitude in meters, nil when unknown.
	HorizontalAccuracy float64   `json:"horizontal_accuracy"` // Horizontal accuracy in meters.
	Timestamp          time.Time `json:"timestamp"`           // Time the fix was taken.
}

// WithAltitude returns a copy of the position anchored at the given altitude.
func (g GeoPosition) WithAltitude(meters float64) GeoPosition {
	g.Altitude = &meters
	return g
}

// Vec3 is a vector in the AR scene's local coordinate frame.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Heading is a compass reading.
type Heading struct {
	Degrees  float64 `json:"degrees"`  // Degrees clockwise from north.
	Accuracy float64 `json:"accuracy"` // Accuracy in degrees.
}

// LocationEstimate pairs a scene position with the location believed to correspond to it.
type LocationEstimate struct {
	Position Vec3        `json:"position"`
	Location GeoPosition `json:"location"`
}

// Translation is the offset in meters between an estimate's anchored position and another scene position.
type Translation struct {
	LatitudeMeters  float64 `json:"latitude_meters"`
	LongitudeMeters float64 `json:"longitude_meters"`
	AltitudeMeters  float64 `json:"altitude_meters"`
}
