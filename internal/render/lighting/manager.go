package lighting

import (
	"slices"
)

// FrameStats summarises one RenderAll call.
type FrameStats struct {
	Submitted int
	Skipped   int
	// Vertices is the total vertex count of submitted meshes.
	Vertices int
}

// Manager handles all lights in the scene.
type Manager struct {
	lights  map[string]*PolygonLight
	order   []string
	ambient float32 // 0 = pitch black, 1 = fully lit
}

// NewManager creates an empty manager with a low ambient level.
func NewManager() *Manager {
	return &Manager{
		lights:  make(map[string]*PolygonLight),
		ambient: 0.15,
	}
}

// SetAmbient sets the light level of unlit areas.
func (m *Manager) SetAmbient(level float32) {
	m.ambient = level
}

// Ambient returns the light level of unlit areas.
func (m *Manager) Ambient() float32 {
	return m.ambient
}

// Add registers a light and returns its ID. Adding the same light twice
// keeps its original place in the draw order.
func (m *Manager) Add(l *PolygonLight) string {
	if _, ok := m.lights[l.ID]; !ok {
		m.order = append(m.order, l.ID)
	}
	m.lights[l.ID] = l
	return l.ID
}

// Remove drops the light with the given ID.
func (m *Manager) Remove(id string) {
	if _, ok := m.lights[id]; !ok {
		return
	}
	delete(m.lights, id)
	m.order = slices.DeleteFunc(m.order, func(other string) bool { return other == id })
}

// Get returns the light with the given ID.
func (m *Manager) Get(id string) (*PolygonLight, bool) {
	l, ok := m.lights[id]
	return l, ok
}

// Lights returns every light in the order it was added.
func (m *Manager) Lights() []*PolygonLight {
	out := make([]*PolygonLight, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.lights[id])
	}
	return out
}

// Len returns the number of lights.
func (m *Manager) Len() int {
	return len(m.order)
}

// RenderAll renders every light through pass. A failing light does not stop
// the others; the first error is returned.
func (m *Manager) RenderAll(pass *Pass, cam Camera) (FrameStats, error) {
	var stats FrameStats
	var firstErr error
	for _, id := range m.order {
		l := m.lights[id]
		result, err := pass.Render(l, cam)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if result == Submitted {
			stats.Submitted++
			stats.Vertices += l.mesh.VertexCount()
		} else {
			stats.Skipped++
		}
	}
	return stats, firstErr
}
