package models

// Marker is a scene node anchored to a geographic position.
type Marker struct {
	Tag                     string      `json:"tag"`                        // Tag correlates taps back to the originating listing.
	Location                GeoPosition `json:"location"`                   // Location the node is anchored to.
	Image                   string      `json:"image"`                      // Image displayed by the node.
	ScaleRelativeToDistance bool        `json:"scale_relative_to_distance"` // Whether the node scales with distance from the camera.
}
