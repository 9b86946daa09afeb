package scene

import (
	"sync"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

// MemoryMap is a MapView that applies every animation instantly.
type MemoryMap struct {
	mu          sync.RWMutex
	annotations []*Annotation
	center      *models.GeoPosition
	span        [2]float64
}

// NewMemoryMap returns an empty map view.
func NewMemoryMap() *MemoryMap {
	return &MemoryMap{}
}

func (m *MemoryMap) AddAnnotation(a *Annotation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.annotations = append(m.annotations, a)
}

func (m *MemoryMap) RemoveAnnotation(a *Annotation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.annotations {
		if existing == a {
			m.annotations = append(m.annotations[:i], m.annotations[i+1:]...)
			return
		}
	}
}

func (m *MemoryMap) MoveAnnotation(a *Annotation, to models.GeoPosition, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.Coordinate = to
}

// SetCenter moves the viewport and runs done on the calling goroutine.
func (m *MemoryMap) SetCenter(to models.GeoPosition, _ time.Duration, done func()) {
	m.mu.Lock()
	m.center = &to
	m.mu.Unlock()

	if done != nil {
		done()
	}
}

func (m *MemoryMap) SetSpan(latitudeDelta, longitudeDelta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.span = [2]float64{latitudeDelta, longitudeDelta}
}

// MapState is a point-in-time copy of the map view.
type MapState struct {
	Annotations []Annotation        `json:"annotations"`
	Center      *models.GeoPosition `json:"center,omitempty"`
	Span        [2]float64          `json:"span"`
}

// State returns a copy of the map view.
func (m *MemoryMap) State() MapState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := MapState{Span: m.span}
	for _, a := range m.annotations {
		state.Annotations = append(state.Annotations, *a)
	}
	if m.center != nil {
		center := *m.center
		state.Center = &center
	}

	return state
}
