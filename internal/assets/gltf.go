package assets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/cityglass/eramorph/internal/engine/scene"
)

// GLTFLoader loads glTF 2.0 documents (.gltf/.glb) into mesh
// hierarchies. Keys are paths relative to BaseDir (or absolute when
// BaseDir is empty). Node names become the era pairing keys, so paired
// assets must name their meshes consistently across eras.
//
// Node transforms are not imported: placement is the render host's
// concern, and morph displacements are computed in mesh-local space.
type GLTFLoader struct {
	BaseDir string
}

// Load implements Loader.
func (l *GLTFLoader) Load(ctx context.Context, key string) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := key
	if l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, key)
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return hierarchyFromDocument(doc, key)
}

// hierarchyFromDocument converts a parsed glTF document into a scene
// hierarchy rooted at a group named after the source key.
func hierarchyFromDocument(doc *gltf.Document, name string) (*scene.Node, error) {
	materials := make([]*scene.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		materials[i] = materialFromGLTF(gm)
	}

	root := scene.NewGroup(name)
	for _, nodeIndex := range rootNodes(doc) {
		child, err := nodeFromGLTF(doc, materials, nodeIndex)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	if len(root.Meshes()) == 0 {
		return nil, fmt.Errorf("document %s contains no meshes", name)
	}
	return root, nil
}

// rootNodes returns the node indices of the document's default scene,
// falling back to the first scene when none is marked default.
func rootNodes(doc *gltf.Document) []uint32 {
	if len(doc.Scenes) == 0 {
		return nil
	}
	index := 0
	if doc.Scene != nil {
		index = int(*doc.Scene)
	}
	if index >= len(doc.Scenes) {
		return nil
	}
	return doc.Scenes[index].Nodes
}

func nodeFromGLTF(doc *gltf.Document, materials []*scene.Material, index uint32) (*scene.Node, error) {
	if int(index) >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", index)
	}
	src := doc.Nodes[index]

	var node *scene.Node
	if src.Mesh != nil {
		mesh, err := meshFromGLTF(doc, materials, *src.Mesh, src.Name)
		if err != nil {
			return nil, err
		}
		node = mesh
	} else {
		node = scene.NewGroup(src.Name)
	}

	for _, childIndex := range src.Children {
		child, err := nodeFromGLTF(doc, materials, childIndex)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
	}
	return node, nil
}

// meshFromGLTF converts one glTF mesh. A single-primitive mesh becomes
// one mesh node; a multi-primitive mesh becomes a group of mesh nodes
// with indexed name suffixes, keeping every primitive pairable.
func meshFromGLTF(doc *gltf.Document, materials []*scene.Material, index uint32, nodeName string) (*scene.Node, error) {
	if int(index) >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", index)
	}
	gm := doc.Meshes[index]
	name := nodeName
	if name == "" {
		name = gm.Name
	}
	if name == "" {
		name = fmt.Sprintf("mesh-%d", index)
	}

	if len(gm.Primitives) == 1 {
		return primitiveToMesh(doc, materials, gm.Primitives[0], name)
	}

	group := scene.NewGroup(name)
	for i, prim := range gm.Primitives {
		mesh, err := primitiveToMesh(doc, materials, prim, fmt.Sprintf("%s.%d", name, i))
		if err != nil {
			return nil, err
		}
		group.AddChild(mesh)
	}
	return group, nil
}

func primitiveToMesh(doc *gltf.Document, materials []*scene.Material, prim *gltf.Primitive, name string) (*scene.Node, error) {
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("mesh %q: primitive has no position attribute", name)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], nil)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: reading positions: %w", name, err)
	}

	geom := &scene.Geometry{Positions: make([]mgl32.Vec3, len(positions))}
	for i, p := range positions {
		geom.Positions[i] = mgl32.Vec3(p)
	}

	if normIndex, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[normIndex], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: reading normals: %w", name, err)
		}
		geom.Normals = make([]mgl32.Vec3, len(normals))
		for i, n := range normals {
			geom.Normals[i] = mgl32.Vec3(n)
		}
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: reading indices: %w", name, err)
		}
		geom.Indices = indices
	}

	var mats []*scene.Material
	if prim.Material != nil && int(*prim.Material) < len(materials) {
		mats = append(mats, materials[*prim.Material])
	}
	return scene.NewMesh(name, geom, mats...), nil
}

// materialFromGLTF maps glTF PBR metallic-roughness factors onto the
// engine material, applying the glTF specification defaults for absent
// factors.
func materialFromGLTF(gm *gltf.Material) *scene.Material {
	m := &scene.Material{
		Name:      gm.Name,
		Color:     mgl32.Vec3{1, 1, 1},
		Roughness: 1,
		Metalness: 1,
		Emissive: mgl32.Vec3{
			float32(gm.EmissiveFactor[0]),
			float32(gm.EmissiveFactor[1]),
			float32(gm.EmissiveFactor[2]),
		},
	}
	if m.Emissive != (mgl32.Vec3{}) {
		m.EmissiveIntensity = 1
	}
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			m.Color = mgl32.Vec3{
				float32(pbr.BaseColorFactor[0]),
				float32(pbr.BaseColorFactor[1]),
				float32(pbr.BaseColorFactor[2]),
			}
		}
		if pbr.RoughnessFactor != nil {
			m.Roughness = float32(*pbr.RoughnessFactor)
		}
		if pbr.MetallicFactor != nil {
			m.Metalness = float32(*pbr.MetallicFactor)
		}
	}
	return m
}
