package assets

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// buildingDocument assembles an in-memory glTF document with one named
// mesh, mirroring the shape of the era model assets.
func buildingDocument(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()

	positions := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	})
	normals := modeler.WriteNormal(doc, [][3]float32{
		{0, 0, 1}, {0, 0, 1}, {0, 0, 1},
	})
	indices := modeler.WriteIndices(doc, []uint32{0, 1, 2})

	metallic := float32(0.1)
	roughness := float32(0.9)
	doc.Materials = []*gltf.Material{{
		Name: "brick",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{0.6, 0.3, 0.2, 1},
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
	}}
	var materialIndex, meshIndex uint32
	doc.Meshes = []*gltf.Mesh{{
		Name: "wall",
		Primitives: []*gltf.Primitive{{
			Indices:  &indices,
			Material: &materialIndex,
			Attributes: map[string]uint32{
				"POSITION": positions,
				"NORMAL":   normals,
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "wall", Mesh: &meshIndex}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func TestHierarchyFromDocument(t *testing.T) {
	doc := buildingDocument(t)

	root, err := hierarchyFromDocument(doc, "building.gltf")
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	mesh := root.FindMesh("wall")
	if mesh == nil {
		t.Fatal("expected a mesh named wall")
	}
	if got := mesh.Geometry.VertexCount(); got != 3 {
		t.Errorf("expected 3 vertices, got %d", got)
	}
	if mesh.Geometry.Positions[1] != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("unexpected position: %v", mesh.Geometry.Positions[1])
	}
	if len(mesh.Geometry.Normals) != 3 {
		t.Errorf("expected 3 normals, got %d", len(mesh.Geometry.Normals))
	}
	if len(mesh.Geometry.Indices) != 3 {
		t.Errorf("expected 3 indices, got %d", len(mesh.Geometry.Indices))
	}

	if len(mesh.Materials) != 1 {
		t.Fatalf("expected 1 material, got %d", len(mesh.Materials))
	}
	m := mesh.Materials[0]
	if m.Name != "brick" {
		t.Errorf("expected material brick, got %q", m.Name)
	}
	if m.Roughness != 0.9 || m.Metalness != 0.1 {
		t.Errorf("expected roughness 0.9 / metalness 0.1, got %f / %f", m.Roughness, m.Metalness)
	}
	if m.Color.X() != 0.6 || m.Color.Y() != 0.3 {
		t.Errorf("unexpected base color: %v", m.Color)
	}
}

func TestHierarchyFromDocumentNoMeshes(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "empty"}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if _, err := hierarchyFromDocument(doc, "empty.gltf"); err == nil {
		t.Error("expected an error for a document without meshes")
	}
}

func TestMaterialDefaults(t *testing.T) {
	m := materialFromGLTF(&gltf.Material{Name: "bare"})
	if m.Color != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected default white base color, got %v", m.Color)
	}
	if m.Roughness != 1 || m.Metalness != 1 {
		t.Errorf("expected glTF defaults 1/1, got %f/%f", m.Roughness, m.Metalness)
	}
	if m.EmissiveIntensity != 0 {
		t.Errorf("expected no emissive intensity, got %f", m.EmissiveIntensity)
	}
}

func TestMaterialEmissive(t *testing.T) {
	m := materialFromGLTF(&gltf.Material{
		Name:           "glow",
		EmissiveFactor: [3]float32{0, 0.5, 1},
	})
	if m.Emissive != (mgl32.Vec3{0, 0.5, 1}) {
		t.Errorf("unexpected emissive: %v", m.Emissive)
	}
	if m.EmissiveIntensity != 1 {
		t.Errorf("expected intensity 1 for emissive material, got %f", m.EmissiveIntensity)
	}
}

func TestMultiPrimitiveMeshBecomesGroup(t *testing.T) {
	doc := gltf.NewDocument()
	pos1 := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	pos2 := modeler.WritePosition(doc, [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}})
	var meshIndex uint32
	doc.Meshes = []*gltf.Mesh{{
		Name: "tower",
		Primitives: []*gltf.Primitive{
			{Attributes: map[string]uint32{"POSITION": pos1}},
			{Attributes: map[string]uint32{"POSITION": pos2}},
		},
	}}
	doc.Nodes = []*gltf.Node{{Name: "tower", Mesh: &meshIndex}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	root, err := hierarchyFromDocument(doc, "tower.gltf")
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	meshes := root.Meshes()
	if len(meshes) != 2 {
		t.Fatalf("expected 2 primitive meshes, got %d", len(meshes))
	}
	if meshes[0].Name != "tower.0" || meshes[1].Name != "tower.1" {
		t.Errorf("expected indexed names, got %q, %q", meshes[0].Name, meshes[1].Name)
	}
}
