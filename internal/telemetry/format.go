package telemetry

import (
	"fmt"
	"math"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

// FormatPosition renders a fix with six decimal digits per axis.
func FormatPosition(pos models.GeoPosition) string {
	return fmt.Sprintf("Position - %.6f x %.6f", pos.Latitude, pos.Longitude)
}

// FormatCount renders the number of placed markers.
func FormatCount(n int) string {
	return fmt.Sprintf("Count - %d", n)
}

// FormatScenePosition renders a scene position.
func FormatScenePosition(v models.Vec3) string {
	return fmt.Sprintf("x: %.2f, y: %.2f, z: %.2f", v.X, v.Y, v.Z)
}

// FormatEuler renders the camera orientation.
func FormatEuler(v models.Vec3) string {
	return fmt.Sprintf("Euler x: %.2f, y: %.2f, z: %.2f", v.X, v.Y, v.Z)
}

// FormatHeading renders a compass reading rounded to whole degrees.
func FormatHeading(h models.Heading) string {
	return fmt.Sprintf("Heading: %dº, accuracy: %dº", int(math.Round(h.Degrees)), int(math.Round(h.Accuracy)))
}

// FormatClock renders t as HH:MM:SS:mmm.
func FormatClock(t time.Time) string {
	const nanosPerMilli = 1_000_000
	return fmt.Sprintf("%02d:%02d:%02d:%03d", t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/nanosPerMilli)
}
