package transition

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/cityglass/eramorph/internal/engine/scene"
)

// Palette is the set of interpolatable material properties.
type Palette struct {
	Color             mgl32.Vec3
	Roughness         float32
	Metalness         float32
	Emissive          mgl32.Vec3
	EmissiveIntensity float32
}

// PaletteFromMaterial captures the material's current values.
func PaletteFromMaterial(m *scene.Material) Palette {
	return Palette{
		Color:             m.Color,
		Roughness:         m.Roughness,
		Metalness:         m.Metalness,
		Emissive:          m.Emissive,
		EmissiveIntensity: m.EmissiveIntensity,
	}
}

// DeriveFunc produces a target palette from a captured source palette
// when an asset supplies no explicit futuristic material values.
type DeriveFunc func(Palette) Palette

// DeriveFuturistic is the default derivation: a cooler, glossier,
// more metallic rendition of the source with a cyan glow.
//
// The constants are demo-tuned placeholders, not a documented design
// rule; hosts needing visual parity with authored assets should supply
// their own DeriveFunc or explicit target palettes.
func DeriveFuturistic(src Palette) Palette {
	return Palette{
		Color: mgl32.Vec3{
			clamp01(src.Color.X() * 0.7),
			clamp01(src.Color.Y() * 0.8),
			clamp01(src.Color.Z() * 1.2),
		},
		Roughness:         max32(0.1, src.Roughness-0.4),
		Metalness:         min32(0.9, src.Metalness+0.5),
		Emissive:          mgl32.Vec3{0, 0.5, 1.0},
		EmissiveIntensity: 0.5,
	}
}

type paletteEntry struct {
	source Palette
	target Palette
}

// PaletteTable is the palette side-table: it maps material identity to
// the captured source palette and the derived (or explicitly supplied)
// target palette, keeping per-material transition data off the material
// itself. Each entry is captured once, on first use, and is immutable
// for the lifetime of the material instance.
type PaletteTable struct {
	derive  DeriveFunc
	entries map[*scene.Material]*paletteEntry
}

// NewPaletteTable creates a table using the given derivation strategy;
// nil selects DeriveFuturistic.
func NewPaletteTable(derive DeriveFunc) *PaletteTable {
	if derive == nil {
		derive = DeriveFuturistic
	}
	return &PaletteTable{
		derive:  derive,
		entries: make(map[*scene.Material]*paletteEntry),
	}
}

// entry returns the material's palette entry, capturing the source
// palette and deriving the target on first use.
func (t *PaletteTable) entry(m *scene.Material) *paletteEntry {
	if e, ok := t.entries[m]; ok {
		return e
	}
	src := PaletteFromMaterial(m)
	e := &paletteEntry{source: src, target: t.derive(src)}
	t.entries[m] = e
	return e
}

// SetTarget registers an explicit target palette for the material,
// overriding derivation. The source palette is captured now if it has
// not been already, so the material must still hold its authored
// values when SetTarget is called.
func (t *PaletteTable) SetTarget(m *scene.Material, target Palette) {
	e := t.entry(m)
	e.target = target
}

// SourcePalette returns the captured source palette, if the material
// has been seen.
func (t *PaletteTable) SourcePalette(m *scene.Material) (Palette, bool) {
	if e, ok := t.entries[m]; ok {
		return e.source, true
	}
	return Palette{}, false
}

// TargetPalette returns the material's target palette, if captured.
func (t *PaletteTable) TargetPalette(m *scene.Material) (Palette, bool) {
	if e, ok := t.entries[m]; ok {
		return e.target, true
	}
	return Palette{}, false
}

// Interpolate writes the blend of the material's source and target
// palettes at the given progress into the live material and marks it
// dirty. Progress is clamped to [0,1]; at 0 the material holds exactly
// its source values, at 1 exactly its target values. Emissive is the
// one exception: it blends from black toward the target emissive, so
// the glow is a target-era signature that never shows at the source
// era. Materials flagged SkipTransition are never touched.
func (t *PaletteTable) Interpolate(m *scene.Material, progress float32) {
	if m == nil || m.SkipTransition {
		return
	}
	e := t.entry(m)
	p := clamp01(progress)

	m.Color = lerpVec3(e.source.Color, e.target.Color, p)
	m.Roughness = lerp(e.source.Roughness, e.target.Roughness, p)
	m.Metalness = lerp(e.source.Metalness, e.target.Metalness, p)
	m.Emissive = lerpVec3(mgl32.Vec3{}, e.target.Emissive, p)
	m.EmissiveIntensity = lerp(e.source.EmissiveIntensity, e.target.EmissiveIntensity, p)
	m.MarkDirty()
}

// lerp blends a toward b. The a*(1-t) + b*t form is exact at both
// endpoints, which the era endpoints rely on.
func lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		lerp(a.X(), b.X(), t),
		lerp(a.Y(), b.Y(), t),
		lerp(a.Z(), b.Z(), t),
	}
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

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
