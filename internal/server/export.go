package server

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/cityglass/eramorph/internal/engine/scene"
)

// ExportModel renders an entity's current visual state into a glTF
// document: positions are baked at the active morph weights, so the
// exported mesh matches what the entity looks like mid-transition.
func (w *World) ExportModel(id string) (*gltf.Document, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return documentFromNode(e.Controller.Root(), e.Name), nil
}

// documentFromNode flattens a hierarchy's meshes into a single-scene
// glTF document.
func documentFromNode(root *scene.Node, name string) *gltf.Document {
	doc := gltf.NewDocument()
	doc.Scenes[0].Name = name
	if root == nil {
		return doc
	}
	for _, mesh := range root.Meshes() {
		appendMesh(doc, mesh)
	}
	return doc
}

func appendMesh(doc *gltf.Document, n *scene.Node) {
	g := n.Geometry
	if g == nil || g.VertexCount() == 0 {
		return
	}

	positions := make([][3]float32, g.VertexCount())
	for i := range positions {
		positions[i] = [3]float32(g.MorphedPosition(i))
	}
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, positions),
	}

	if len(g.Normals) > 0 {
		normals := make([][3]float32, len(g.Normals))
		for i, nrm := range g.Normals {
			normals[i] = [3]float32(nrm)
		}
		attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}

	prim := &gltf.Primitive{Attributes: attributes}
	if len(g.Indices) > 0 {
		indices := modeler.WriteIndices(doc, g.Indices)
		prim.Indices = &indices
	}
	if len(n.Materials) > 0 {
		doc.Materials = append(doc.Materials, materialToGLTF(n.Materials[0]))
		materialIndex := uint32(len(doc.Materials) - 1)
		prim.Material = &materialIndex
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       n.Name,
		Primitives: []*gltf.Primitive{prim},
	})
	meshIndex := uint32(len(doc.Meshes) - 1)
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: n.Name, Mesh: &meshIndex})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
}

// materialToGLTF maps the engine material back onto glTF PBR factors.
// Emissive intensity has no core glTF slot, so it is premultiplied
// into the emissive factor.
func materialToGLTF(m *scene.Material) *gltf.Material {
	color := &[4]float32{m.Color.X(), m.Color.Y(), m.Color.Z(), 1}
	metallic := m.Metalness
	roughness := m.Roughness
	return &gltf.Material{
		Name: m.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: color,
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
		EmissiveFactor: [3]float32{
			m.Emissive.X() * m.EmissiveIntensity,
			m.Emissive.Y() * m.EmissiveIntensity,
			m.Emissive.Z() * m.EmissiveIntensity,
		},
	}
}
