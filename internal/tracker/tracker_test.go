package tracker_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/models"
	"github.com/UnknownOlympus/lodestar/internal/scene"
	"github.com/UnknownOlympus/lodestar/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMap wraps MemoryMap and counts mutations.
type countingMap struct {
	*scene.MemoryMap

	adds, removes, moves, centers int
	lastMove                      time.Duration
}

func newCountingMap() *countingMap {
	return &countingMap{MemoryMap: scene.NewMemoryMap()}
}

func (c *countingMap) AddAnnotation(a *scene.Annotation) {
	c.adds++
	c.MemoryMap.AddAnnotation(a)
}

func (c *countingMap) RemoveAnnotation(a *scene.Annotation) {
	c.removes++
	c.MemoryMap.RemoveAnnotation(a)
}

func (c *countingMap) MoveAnnotation(a *scene.Annotation, to models.GeoPosition, over time.Duration) {
	c.moves++
	c.lastMove = over
	c.MemoryMap.MoveAnnotation(a, to, over)
}

func (c *countingMap) SetCenter(to models.GeoPosition, over time.Duration, done func()) {
	c.centers++
	c.MemoryMap.SetCenter(to, over, done)
}

func (c *countingMap) mutations() int {
	return c.adds + c.removes + c.moves + c.centers
}

func TestTracker_NoFixIsNoop(t *testing.T) {
	subsystem := scene.NewMemory()
	subsystem.SetEstimate(&models.LocationEstimate{Location: models.GeoPosition{Latitude: 1}})
	mapView := newCountingMap()
	trk := tracker.New(slog.Default(), subsystem, mapView, tracker.Options{CenterOnUser: true, DisplayDebugging: true})

	trk.Tick(t.Context())

	assert.Zero(t, mapView.mutations())
	assert.Nil(t, trk.UserAnnotation())
	assert.Nil(t, trk.EstimateAnnotation())
}

func TestTracker_UserAnnotation(t *testing.T) {
	subsystem := scene.NewMemory()
	mapView := newCountingMap()
	trk := tracker.New(slog.Default(), subsystem, mapView, tracker.Options{CenterOnUser: true})

	subsystem.SetLocation(&models.GeoPosition{Latitude: 55.7, Longitude: 37.6})
	trk.Tick(t.Context())
	subsystem.SetLocation(&models.GeoPosition{Latitude: 55.8, Longitude: 37.7})
	trk.Tick(t.Context())

	require.NotNil(t, trk.UserAnnotation())
	assert.Equal(t, 1, mapView.adds, "user annotation must be created once")
	assert.Equal(t, tracker.MarkerAnimation, mapView.lastMove)
	assert.InDelta(t, 55.8, trk.UserAnnotation().Coordinate.Latitude, 1e-9)

	state := mapView.State()
	require.NotNil(t, state.Center)
	assert.InDelta(t, 37.7, state.Center.Longitude, 1e-9)
	assert.Equal(t, [2]float64{tracker.ZoomSpan, tracker.ZoomSpan}, state.Span)
}

func TestTracker_CenterDisabled(t *testing.T) {
	subsystem := scene.NewMemory()
	subsystem.SetLocation(&models.GeoPosition{Latitude: 1, Longitude: 1})
	mapView := newCountingMap()
	trk := tracker.New(slog.Default(), subsystem, mapView, tracker.Options{CenterOnUser: true})
	trk.SetCenterOnUser(false)

	trk.Tick(t.Context())

	assert.Zero(t, mapView.centers)
	assert.Nil(t, mapView.State().Center)
}

func TestTracker_EstimateAnnotationLifecycle(t *testing.T) {
	subsystem := scene.NewMemory()
	subsystem.SetLocation(&models.GeoPosition{Latitude: 10, Longitude: 20})
	subsystem.SetPose(&models.Vec3{X: 1, Z: -2}, nil)
	mapView := newCountingMap()
	trk := tracker.New(slog.Default(), subsystem, mapView, tracker.Options{DisplayDebugging: true})

	t.Run("estimate present creates annotation", func(t *testing.T) {
		subsystem.SetEstimate(&models.LocationEstimate{Location: models.GeoPosition{Latitude: 10.1, Longitude: 20.1}})
		trk.Tick(t.Context())

		require.NotNil(t, trk.EstimateAnnotation())
		assert.Equal(t, scene.AnnotationEstimate, trk.EstimateAnnotation().Kind)
		assert.Len(t, mapView.State().Annotations, 2)
	})

	t.Run("estimate update moves annotation", func(t *testing.T) {
		subsystem.SetEstimate(&models.LocationEstimate{Location: models.GeoPosition{Latitude: 10.2, Longitude: 20.2}})
		trk.Tick(t.Context())

		assert.InDelta(t, 10.2, trk.EstimateAnnotation().Coordinate.Latitude, 1e-9)
		assert.Equal(t, 2, mapView.adds)
	})

	t.Run("estimate gone removes annotation exactly once", func(t *testing.T) {
		subsystem.SetEstimate(nil)
		trk.Tick(t.Context())
		trk.Tick(t.Context())

		assert.Nil(t, trk.EstimateAnnotation())
		assert.Equal(t, 1, mapView.removes)
		assert.Len(t, mapView.State().Annotations, 1)
	})
}

func TestTracker_DebuggingOff(t *testing.T) {
	subsystem := scene.NewMemory()
	subsystem.SetLocation(&models.GeoPosition{})
	subsystem.SetEstimate(&models.LocationEstimate{})
	mapView := newCountingMap()
	trk := tracker.New(slog.Default(), subsystem, mapView, tracker.Options{})

	trk.Tick(t.Context())

	assert.Nil(t, trk.EstimateAnnotation())
	assert.Equal(t, 1, mapView.adds)
}
