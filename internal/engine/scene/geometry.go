package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MorphTarget is a named per-vertex displacement channel. The renderer
// blends it as position + Weight*Displacements[i]; Weight stays in [0,1].
type MorphTarget struct {
	Name          string
	Displacements []mgl32.Vec3
	Weight        float32
}

// Geometry holds the vertex data of a mesh node. Positions are required;
// normals and indices are optional. Morph-target channels are stored by
// name and replaced wholesale when a channel is rebuilt.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32

	targets []*MorphTarget

	// ReleaseGPU, when set, frees the GPU buffers backing this
	// geometry. Called at most once by Release.
	ReleaseGPU func() error

	released bool
}

// VertexCount returns the number of vertices. Safe on a nil geometry.
func (g *Geometry) VertexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Positions)
}

// AddMorphTarget attaches a displacement channel. An existing channel
// with the same name is replaced, not accumulated: channels are rebuilt
// from scratch whenever their mesh pair is rebuilt.
func (g *Geometry) AddMorphTarget(t *MorphTarget) {
	for i, existing := range g.targets {
		if existing.Name == t.Name {
			g.targets[i] = t
			return
		}
	}
	g.targets = append(g.targets, t)
}

// MorphTargetByName returns the channel with the given name, or nil.
func (g *Geometry) MorphTargetByName(name string) *MorphTarget {
	for _, t := range g.targets {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// MorphTargets returns all channels. The slice must not be mutated.
func (g *Geometry) MorphTargets() []*MorphTarget {
	return g.targets
}

// SetMorphWeight sets the weight of the named channel, clamped to [0,1].
// Returns false if no such channel exists.
func (g *Geometry) SetMorphWeight(name string, w float32) bool {
	t := g.MorphTargetByName(name)
	if t == nil {
		return false
	}
	t.Weight = clamp01(w)
	return true
}

// MorphedPosition returns the position of vertex i with all morph
// channels applied at their current weights.
func (g *Geometry) MorphedPosition(i int) mgl32.Vec3 {
	p := g.Positions[i]
	for _, t := range g.targets {
		if i < len(t.Displacements) {
			p = p.Add(t.Displacements[i].Mul(t.Weight))
		}
	}
	return p
}

// Clone returns a deep copy of the geometry, including morph channels.
// The ReleaseGPU hook is not copied: a clone owns no GPU resources
// until the renderer uploads it.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	c := &Geometry{
		Positions: append([]mgl32.Vec3(nil), g.Positions...),
		Normals:   append([]mgl32.Vec3(nil), g.Normals...),
		Indices:   append([]uint32(nil), g.Indices...),
	}
	for _, t := range g.targets {
		c.targets = append(c.targets, &MorphTarget{
			Name:          t.Name,
			Displacements: append([]mgl32.Vec3(nil), t.Displacements...),
			Weight:        t.Weight,
		})
	}
	return c
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
