// Package procgen generates paired-era building models. Every building
// is produced in both visual eras with identical mesh names and vertex
// counts, so a generated pair always morphs cleanly.
package procgen

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/cityglass/eramorph/internal/engine/scene"
	"github.com/cityglass/eramorph/internal/engine/transition"
)

// Definition is the JSON schema describing one building's dimensions.
// All lengths are in meters.
type Definition struct {
	Name        string  `json:"name"`
	Floors      int     `json:"floors"`
	Width       float32 `json:"width"`
	Depth       float32 `json:"depth"`
	FloorHeight float32 `json:"floor_height"`
	RoofHeight  float32 `json:"roof_height"`

	// FutureScale multiplies the body height in the futuristic era.
	FutureScale float32 `json:"future_scale"`
	// FutureTaper shrinks the futuristic body's top footprint toward
	// a spire: 0 keeps the box, 1 collapses the top to a point.
	FutureTaper float32 `json:"future_taper"`
}

// Validate checks the definition for generatable values.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("building definition has no name")
	}
	if d.Floors < 1 {
		return fmt.Errorf("building %q: floors must be >= 1", d.Name)
	}
	if d.Width <= 0 || d.Depth <= 0 || d.FloorHeight <= 0 {
		return fmt.Errorf("building %q: dimensions must be positive", d.Name)
	}
	return nil
}

// LoadDefinitions reads building definitions from a JSON file.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading building definitions: %w", err)
	}
	var defs []Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing building definitions: %w", err)
	}
	for i := range defs {
		if err := defs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// Generator produces building definitions and their era models.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with a deterministic seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Random produces count random building definitions. Output depends
// only on the generator's seed and call order.
func (g *Generator) Random(count int) []Definition {
	defs := make([]Definition, 0, count)
	for i := 0; i < count; i++ {
		defs = append(defs, Definition{
			Name:        fmt.Sprintf("building-%02d", i+1),
			Floors:      2 + g.rng.Intn(6),
			Width:       8 + g.rng.Float32()*12,
			Depth:       8 + g.rng.Float32()*12,
			FloorHeight: 2.8 + g.rng.Float32()*0.8,
			RoofHeight:  1 + g.rng.Float32()*2,
			FutureScale: 1.5 + g.rng.Float32()*1.5,
			FutureTaper: 0.2 + g.rng.Float32()*0.5,
		})
	}
	return defs
}

// BuildPair generates the building in both eras. The hierarchies share
// mesh names and vertex counts by construction.
func (g *Generator) BuildPair(def Definition) (historical, futuristic *scene.Node) {
	return g.Build(def, transition.EraHistorical), g.Build(def, transition.EraFuturistic)
}

// Build generates the building model for one era. Geometry is derived
// from the definition alone, so rebuilding an era is deterministic.
func (g *Generator) Build(def Definition, era transition.Era) *scene.Node {
	bodyHeight := float32(def.Floors) * def.FloorHeight
	roofHeight := def.RoofHeight
	taper := float32(0)
	if era == transition.EraFuturistic {
		scale := def.FutureScale
		if scale <= 0 {
			scale = 1
		}
		bodyHeight *= scale
		roofHeight *= 0.5
		taper = clampTaper(def.FutureTaper)
	}

	root := scene.NewGroup(def.Name)
	root.AddChild(scene.NewMesh("base",
		boxGeometry(def.Width*1.1, 0.4, def.Depth*1.1, 0, 0),
		baseMaterial(era)))
	root.AddChild(scene.NewMesh("body",
		boxGeometry(def.Width, bodyHeight, def.Depth, taper, 0.4),
		bodyMaterial(era)))
	root.AddChild(scene.NewMesh("roof",
		boxGeometry(def.Width*(1-taper), roofHeight, def.Depth*(1-taper), 0, 0.4+bodyHeight),
		roofMaterial(era)))
	return root
}

func clampTaper(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 0.95 {
		return 0.95
	}
	return t
}

func baseMaterial(era transition.Era) *scene.Material {
	if era == transition.EraFuturistic {
		return &scene.Material{
			Name:      "base-future",
			Color:     mgl32.Vec3{0.25, 0.28, 0.32},
			Roughness: 0.3,
			Metalness: 0.7,
		}
	}
	return &scene.Material{
		Name:      "base-stone",
		Color:     mgl32.Vec3{0.45, 0.42, 0.38},
		Roughness: 0.95,
		Metalness: 0.0,
	}
}

func bodyMaterial(era transition.Era) *scene.Material {
	if era == transition.EraFuturistic {
		return &scene.Material{
			Name:              "body-glass",
			Color:             mgl32.Vec3{0.4, 0.55, 0.7},
			Roughness:         0.1,
			Metalness:         0.8,
			Emissive:          mgl32.Vec3{0, 0.5, 1},
			EmissiveIntensity: 0.5,
		}
	}
	return &scene.Material{
		Name:      "body-brick",
		Color:     mgl32.Vec3{0.6, 0.35, 0.25},
		Roughness: 0.9,
		Metalness: 0.0,
	}
}

func roofMaterial(era transition.Era) *scene.Material {
	if era == transition.EraFuturistic {
		return &scene.Material{
			Name:              "roof-spire",
			Color:             mgl32.Vec3{0.6, 0.65, 0.75},
			Roughness:         0.15,
			Metalness:         0.9,
			Emissive:          mgl32.Vec3{0, 0.5, 1},
			EmissiveIntensity: 0.8,
		}
	}
	return &scene.Material{
		Name:      "roof-tile",
		Color:     mgl32.Vec3{0.4, 0.2, 0.15},
		Roughness: 0.85,
		Metalness: 0.0,
	}
}

// boxGeometry builds an axis-aligned box with 4 vertices per face (24
// total) and per-face normals, centered on the Y axis with its bottom
// at yOffset. taper shrinks the top face's footprint, producing a
// frustum; vertex count and index layout are independent of taper, so
// any two boxes from this function are morph-compatible.
func boxGeometry(width, height, depth, taper, yOffset float32) *scene.Geometry {
	hw, hd := width/2, depth/2
	tw, td := hw*(1-taper), hd*(1-taper)
	y0, y1 := yOffset, yOffset+height

	// Corner order: bottom ring then top ring, -X-Z first.
	b := [4]mgl32.Vec3{
		{-hw, y0, -hd}, {hw, y0, -hd}, {hw, y0, hd}, {-hw, y0, hd},
	}
	tp := [4]mgl32.Vec3{
		{-tw, y1, -td}, {tw, y1, -td}, {tw, y1, td}, {-tw, y1, td},
	}

	faces := [6][4]mgl32.Vec3{
		{b[0], b[1], tp[1], tp[0]}, // -Z
		{b[1], b[2], tp[2], tp[1]}, // +X
		{b[2], b[3], tp[3], tp[2]}, // +Z
		{b[3], b[0], tp[0], tp[3]}, // -X
		{tp[0], tp[1], tp[2], tp[3]}, // +Y
		{b[3], b[2], b[1], b[0]},    // -Y
	}

	geom := &scene.Geometry{
		Positions: make([]mgl32.Vec3, 0, 24),
		Normals:   make([]mgl32.Vec3, 0, 24),
		Indices:   make([]uint32, 0, 36),
	}
	for _, face := range faces {
		normal := faceNormal(face)
		start := uint32(len(geom.Positions))
		for _, v := range face {
			geom.Positions = append(geom.Positions, v)
			geom.Normals = append(geom.Normals, normal)
		}
		geom.Indices = append(geom.Indices,
			start, start+1, start+2,
			start, start+2, start+3)
	}
	return geom
}

// faceNormal computes the unit normal of a planar quad wound
// counter-clockwise.
func faceNormal(face [4]mgl32.Vec3) mgl32.Vec3 {
	e1 := face[1].Sub(face[0])
	e2 := face[3].Sub(face[0])
	n := e1.Cross(e2)
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}
