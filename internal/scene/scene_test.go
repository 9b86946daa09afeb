package scene_test

import (
	"sync"
	"testing"

	"github.com/UnknownOlympus/lodestar/internal/models"
	"github.com/UnknownOlympus/lodestar/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Readings(t *testing.T) {
	m := scene.NewMemory()

	_, ok := m.CurrentLocation()
	assert.False(t, ok)
	_, ok = m.CurrentScenePosition()
	assert.False(t, ok)
	_, ok = m.CurrentEulerAngles()
	assert.False(t, ok)
	_, ok = m.Heading()
	assert.False(t, ok)
	_, ok = m.BestLocationEstimate()
	assert.False(t, ok)

	fix := models.GeoPosition{Latitude: 55.7436, Longitude: 37.7671}
	m.SetLocation(&fix)
	m.SetPose(&models.Vec3{X: 1}, nil)
	m.SetHeading(&models.Heading{Degrees: 12, Accuracy: 3})

	loc, ok := m.CurrentLocation()
	require.True(t, ok)
	assert.Equal(t, fix, loc)

	pos, ok := m.CurrentScenePosition()
	require.True(t, ok)
	assert.Equal(t, models.Vec3{X: 1}, pos)

	_, ok = m.CurrentEulerAngles()
	assert.False(t, ok)

	heading, ok := m.Heading()
	require.True(t, ok)
	assert.InDelta(t, 12.0, heading.Degrees, 1e-9)

	m.SetLocation(nil)
	_, ok = m.CurrentLocation()
	assert.False(t, ok)
}

func TestMemory_TranslatedLocation(t *testing.T) {
	m := scene.NewMemory()
	estimate := models.LocationEstimate{Position: models.Vec3{X: 1, Y: 2, Z: 3}}

	got := m.TranslatedLocation(estimate, models.Vec3{X: 4, Y: 1, Z: -7})

	assert.InDelta(t, 10.0, got.LatitudeMeters, 1e-9)
	assert.InDelta(t, 3.0, got.LongitudeMeters, 1e-9)
	assert.InDelta(t, -1.0, got.AltitudeMeters, 1e-9)
}

func TestMemory_Nodes(t *testing.T) {
	m := scene.NewMemory()

	m.AddLocationNodeWithConfirmedLocation(models.Marker{Tag: "1"})
	m.AddLocationNodeWithConfirmedLocation(models.Marker{Tag: "2"})

	nodes := m.Nodes()
	require.Len(t, nodes, 2)
	nodes[0].Tag = "changed"
	assert.Equal(t, "1", m.Nodes()[0].Tag)

	m.RemoveAllNodes()
	assert.Empty(t, m.Nodes())

	m.Run()
	assert.True(t, m.Running())
	m.Pause()
	assert.False(t, m.Running())
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := scene.NewMemory()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.SetLocation(&models.GeoPosition{Latitude: float64(i)})
			m.AddLocationNodeWithConfirmedLocation(models.Marker{})
		}()
		go func() {
			defer wg.Done()
			m.CurrentLocation()
			m.Nodes()
		}()
	}
	wg.Wait()

	assert.Len(t, m.Nodes(), 8)
}

func TestMemoryMap(t *testing.T) {
	m := scene.NewMemoryMap()

	user := &scene.Annotation{Kind: scene.AnnotationUser}
	estimate := &scene.Annotation{Kind: scene.AnnotationEstimate}
	m.AddAnnotation(user)
	m.AddAnnotation(estimate)

	to := models.GeoPosition{Latitude: 1, Longitude: 2}
	m.MoveAnnotation(user, to, 0)

	var completed bool
	m.SetCenter(to, 0, func() { completed = true })
	assert.True(t, completed)

	m.SetSpan(0.1, 0.2)
	m.RemoveAnnotation(estimate)
	m.RemoveAnnotation(estimate)

	state := m.State()
	require.Len(t, state.Annotations, 1)
	assert.Equal(t, scene.Annotation{Kind: scene.AnnotationUser, Coordinate: to}, state.Annotations[0])
	require.NotNil(t, state.Center)
	assert.Equal(t, to, *state.Center)
	assert.Equal(t, [2]float64{0.1, 0.2}, state.Span)

	m.SetCenter(models.GeoPosition{}, 0, nil)
	assert.Equal(t, to, *state.Center)
}
