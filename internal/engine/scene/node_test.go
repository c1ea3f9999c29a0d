package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testGeometry(positions ...mgl32.Vec3) *Geometry {
	return &Geometry{Positions: positions}
}

func TestMeshesTraversalOrder(t *testing.T) {
	// root
	//   group1
	//     wall
	//     roof
	//   door
	root := NewGroup("root")
	group := NewGroup("group1")
	group.AddChild(NewMesh("wall", testGeometry(mgl32.Vec3{})))
	group.AddChild(NewMesh("roof", testGeometry(mgl32.Vec3{})))
	root.AddChild(group)
	root.AddChild(NewMesh("door", testGeometry(mgl32.Vec3{})))

	meshes := root.Meshes()
	want := []string{"wall", "roof", "door"}
	if len(meshes) != len(want) {
		t.Fatalf("expected %d meshes, got %d", len(want), len(meshes))
	}
	for i, name := range want {
		if meshes[i].Name != name {
			t.Errorf("mesh %d: expected %q, got %q", i, name, meshes[i].Name)
		}
	}
}

func TestFindMeshFirstMatchWins(t *testing.T) {
	root := NewGroup("root")
	first := NewMesh("wall", testGeometry(mgl32.Vec3{1, 0, 0}))
	second := NewMesh("wall", testGeometry(mgl32.Vec3{2, 0, 0}))
	root.AddChild(first)
	root.AddChild(second)

	found := root.FindMesh("wall")
	if found != first {
		t.Error("expected first mesh in depth-first order to win")
	}
	if root.FindMesh("missing") != nil {
		t.Error("expected nil for a name with no mesh")
	}
}

func TestCloneIsDeep(t *testing.T) {
	mat := &Material{Name: "brick", Color: mgl32.Vec3{0.6, 0.3, 0.2}, Roughness: 0.9}
	geom := testGeometry(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 5, 6})
	geom.AddMorphTarget(&MorphTarget{
		Name:          "era-morph",
		Displacements: []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}},
		Weight:        0.5,
	})
	root := NewGroup("root")
	root.AddChild(NewMesh("wall", geom, mat))

	clone := root.Clone()

	// Mutate the clone; the original must be untouched.
	cm := clone.FindMesh("wall")
	cm.Geometry.Positions[0] = mgl32.Vec3{9, 9, 9}
	cm.Geometry.MorphTargetByName("era-morph").Weight = 1
	cm.Materials[0].Color = mgl32.Vec3{0, 0, 0}

	if geom.Positions[0] != (mgl32.Vec3{1, 2, 3}) {
		t.Error("clone shares position buffer with original")
	}
	if geom.MorphTargetByName("era-morph").Weight != 0.5 {
		t.Error("clone shares morph channel with original")
	}
	if mat.Color != (mgl32.Vec3{0.6, 0.3, 0.2}) {
		t.Error("clone shares material with original")
	}
}

func TestVertexCount(t *testing.T) {
	root := NewGroup("root")
	root.AddChild(NewMesh("a", testGeometry(mgl32.Vec3{}, mgl32.Vec3{})))
	root.AddChild(NewMesh("b", testGeometry(mgl32.Vec3{})))

	if got := root.VertexCount(); got != 3 {
		t.Errorf("expected 3 vertices, got %d", got)
	}
}

func TestCollectMaterialsDeduplicates(t *testing.T) {
	shared := &Material{Name: "shared"}
	other := &Material{Name: "other"}
	root := NewGroup("root")
	root.AddChild(NewMesh("a", testGeometry(mgl32.Vec3{}), shared))
	root.AddChild(NewMesh("b", testGeometry(mgl32.Vec3{}), shared, other))

	mats := root.CollectMaterials()
	if len(mats) != 2 {
		t.Fatalf("expected 2 distinct materials, got %d", len(mats))
	}
	if mats[0] != shared || mats[1] != other {
		t.Error("expected materials in first-reference order")
	}
}

func TestMorphedPosition(t *testing.T) {
	geom := testGeometry(mgl32.Vec3{0, 0, 0})
	geom.AddMorphTarget(&MorphTarget{
		Name:          "era-morph",
		Displacements: []mgl32.Vec3{{1, 2, 3}},
	})
	geom.SetMorphWeight("era-morph", 0.5)

	got := geom.MorphedPosition(0)
	want := mgl32.Vec3{0.5, 1, 1.5}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSetMorphWeightClamps(t *testing.T) {
	geom := testGeometry(mgl32.Vec3{})
	geom.AddMorphTarget(&MorphTarget{Name: "era-morph", Displacements: []mgl32.Vec3{{1, 1, 1}}})

	geom.SetMorphWeight("era-morph", 2)
	if w := geom.MorphTargetByName("era-morph").Weight; w != 1 {
		t.Errorf("expected weight clamped to 1, got %f", w)
	}
	geom.SetMorphWeight("era-morph", -3)
	if w := geom.MorphTargetByName("era-morph").Weight; w != 0 {
		t.Errorf("expected weight clamped to 0, got %f", w)
	}
	if geom.SetMorphWeight("missing", 0.5) {
		t.Error("expected false for a missing channel")
	}
}

func TestAddMorphTargetReplacesSameName(t *testing.T) {
	geom := testGeometry(mgl32.Vec3{})
	geom.AddMorphTarget(&MorphTarget{Name: "era-morph", Displacements: []mgl32.Vec3{{1, 0, 0}}})
	geom.AddMorphTarget(&MorphTarget{Name: "era-morph", Displacements: []mgl32.Vec3{{2, 0, 0}}})

	if len(geom.MorphTargets()) != 1 {
		t.Fatalf("expected 1 channel after rebuild, got %d", len(geom.MorphTargets()))
	}
	if geom.MorphTargetByName("era-morph").Displacements[0] != (mgl32.Vec3{2, 0, 0}) {
		t.Error("expected rebuilt channel to replace the old one")
	}
}
