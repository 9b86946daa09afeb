// Package telemetry renders the on-screen diagnostics refreshed every 100ms.
package telemetry

import (
	"strings"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/scene"
)

// Display holds the diagnostic text fields.
type Display struct {
	Position string `json:"position"`
	Count    string `json:"count"`
	Info     string `json:"info"`
}

// MarkerCounter reports how many markers are currently placed.
type MarkerCounter interface {
	PlacedCount() int
}

// Refresher overwrites the display from the current subsystem state on every tick.
// It must only be used from the interaction loop.
type Refresher struct {
	scene   scene.Subsystem
	counter MarkerCounter
	now     func() time.Time
	display Display
}

// NewRefresher creates a refresher. A nil now defaults to time.Now.
func NewRefresher(subsystem scene.Subsystem, counter MarkerCounter, now func() time.Time) *Refresher {
	if now == nil {
		now = time.Now
	}

	return &Refresher{scene: subsystem, counter: counter, now: now}
}

// Tick refreshes the display. Unavailable readings are left out.
// Without a fix the position and count fields keep their previous text.
func (r *Refresher) Tick() {
	if pos, ok := r.scene.CurrentLocation(); ok {
		r.display.Position = FormatPosition(pos)
		r.display.Count = FormatCount(r.counter.PlacedCount())
	}

	var lines []string
	if position, ok := r.scene.CurrentScenePosition(); ok {
		lines = append(lines, FormatScenePosition(position))
	}
	if euler, ok := r.scene.CurrentEulerAngles(); ok {
		lines = append(lines, FormatEuler(euler))
	}
	if heading, ok := r.scene.Heading(); ok {
		lines = append(lines, FormatHeading(heading))
	}
	lines = append(lines, FormatClock(r.now()))

	r.display.Info = strings.Join(lines, "\n")
}

// Snapshot returns a copy of the display.
func (r *Refresher) Snapshot() Display {
	return r.display
}
