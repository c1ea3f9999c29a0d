package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Material holds the interpolatable PBR scalars of a mesh. Colors are
// linear RGB in [0,1] per channel.
type Material struct {
	Name string

	Color             mgl32.Vec3
	Roughness         float32
	Metalness         float32
	Emissive          mgl32.Vec3
	EmissiveIntensity float32

	// SkipTransition excludes this material from era interpolation
	// entirely. Set by asset authors on materials that must keep a
	// fixed appearance (glass, signage).
	SkipTransition bool

	// Unlit materials have no blend-weight channel in their shader,
	// so morphing has no geometric effect on them.
	Unlit bool

	// MorphTargets is set when a displacement channel has been
	// attached to geometry using this material; the renderer compiles
	// the blend-weight path only for flagged materials.
	MorphTargets bool

	// ReleaseGPU, when set, frees compiled shader/texture resources.
	// Called at most once by Release.
	ReleaseGPU func() error

	needsUpdate bool
	released    bool
}

// MarkDirty flags the material for renderer re-upload/recompile.
func (m *Material) MarkDirty() {
	m.needsUpdate = true
}

// NeedsUpdate reports whether the material changed since ClearDirty.
func (m *Material) NeedsUpdate() bool {
	return m.needsUpdate
}

// ClearDirty resets the dirty flag; the renderer calls this after
// consuming the updated values.
func (m *Material) ClearDirty() {
	m.needsUpdate = false
}

// Clone returns a copy of the material. The clone starts clean and owns
// no GPU resources.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	c := *m
	c.ReleaseGPU = nil
	c.needsUpdate = false
	c.released = false
	return &c
}
