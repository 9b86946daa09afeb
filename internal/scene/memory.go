package scene

import (
	"sync"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

// metersPerScene is the scale of the scene frame: one unit is one meter.
const metersPerScene = 1.0

// Memory is a Subsystem backed by plain values. Sensor readings are pushed in
// with the Set* methods, placed nodes can be inspected with Nodes.
type Memory struct {
	mu       sync.RWMutex
	location *models.GeoPosition
	position *models.Vec3
	euler    *models.Vec3
	heading  *models.Heading
	estimate *models.LocationEstimate
	nodes    []models.Marker
	running  bool
}

// NewMemory returns an empty subsystem with no fix and no tracking.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) CurrentLocation() (models.GeoPosition, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.location == nil {
		return models.GeoPosition{}, false
	}

	return *m.location, true
}

func (m *Memory) CurrentScenePosition() (models.Vec3, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.position == nil {
		return models.Vec3{}, false
	}

	return *m.position, true
}

func (m *Memory) CurrentEulerAngles() (models.Vec3, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.euler == nil {
		return models.Vec3{}, false
	}

	return *m.euler, true
}

func (m *Memory) Heading() (models.Heading, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.heading == nil {
		return models.Heading{}, false
	}

	return *m.heading, true
}

func (m *Memory) BestLocationEstimate() (models.LocationEstimate, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.estimate == nil {
		return models.LocationEstimate{}, false
	}

	return *m.estimate, true
}

// TranslatedLocation treats -Z as north, +X as east and +Y as up.
func (m *Memory) TranslatedLocation(estimate models.LocationEstimate, to models.Vec3) models.Translation {
	return models.Translation{
		LatitudeMeters:  -(to.Z - estimate.Position.Z) * metersPerScene,
		LongitudeMeters: (to.X - estimate.Position.X) * metersPerScene,
		AltitudeMeters:  (to.Y - estimate.Position.Y) * metersPerScene,
	}
}

func (m *Memory) AddLocationNodeWithConfirmedLocation(marker models.Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nodes = append(m.nodes, marker)
}

func (m *Memory) RemoveAllNodes() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nodes = nil
}

func (m *Memory) Run() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = true
}

func (m *Memory) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
}

// Running reports whether the session is between Run and Pause.
func (m *Memory) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.running
}

// Nodes returns a copy of the currently placed nodes.
func (m *Memory) Nodes() []models.Marker {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make([]models.Marker, len(m.nodes))
	copy(nodes, m.nodes)

	return nodes
}

// SetLocation records a new fix. A nil position drops the fix.
func (m *Memory) SetLocation(pos *models.GeoPosition) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.location = pos
}

// SetPose records the tracked scene position and orientation. Nil values mean tracking is unavailable.
func (m *Memory) SetPose(position, euler *models.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.position = position
	m.euler = euler
}

// SetHeading records a compass reading. Nil drops it.
func (m *Memory) SetHeading(heading *models.Heading) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.heading = heading
}

// SetEstimate records the best location estimate. Nil drops it.
func (m *Memory) SetEstimate(estimate *models.LocationEstimate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.estimate = estimate
}
