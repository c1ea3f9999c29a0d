// Package scene provides the mesh hierarchy model shared by the era
// transition engine: group/mesh nodes, geometry with named morph-target
// channels, PBR-style materials, and resource release.
package scene

// Kind discriminates the node variants. The set is closed: a node is
// either a grouping node or a renderable mesh.
type Kind uint8

const (
	// KindGroup is a structural node with no geometry of its own.
	KindGroup Kind = iota
	// KindMesh is a renderable node carrying geometry and materials.
	KindMesh
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	if k == KindMesh {
		return "mesh"
	}
	return "group"
}

// Node is one element of a mesh hierarchy. Names are the pairing key for
// era morphing and are not required to be unique within a hierarchy.
type Node struct {
	Name string
	Kind Kind

	// Geometry and Materials are set only for KindMesh nodes.
	Geometry  *Geometry
	Materials []*Material

	children []*Node
}

// NewGroup creates a structural node with the given name.
func NewGroup(name string) *Node {
	return &Node{Name: name, Kind: KindGroup}
}

// NewMesh creates a mesh node with the given geometry and materials.
func NewMesh(name string, geom *Geometry, materials ...*Material) *Node {
	return &Node{Name: name, Kind: KindMesh, Geometry: geom, Materials: materials}
}

// AddChild appends child to this node's children and returns the node
// itself so construction can be chained.
func (n *Node) AddChild(child *Node) *Node {
	n.children = append(n.children, child)
	return n
}

// Children returns the child list. The returned slice must not be
// mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// Walk visits n and every descendant in depth-first pre-order,
// left-to-right. This is the documented traversal order for mesh
// pairing: when names collide, the first mesh in this order wins.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.children {
		child.Walk(visit)
	}
}

// Meshes returns every KindMesh descendant (including n itself) in
// depth-first pre-order.
func (n *Node) Meshes() []*Node {
	var meshes []*Node
	n.Walk(func(node *Node) {
		if node.Kind == KindMesh {
			meshes = append(meshes, node)
		}
	})
	return meshes
}

// FindMesh returns the first mesh with the given name in depth-first
// pre-order, or nil if no mesh carries that name.
func (n *Node) FindMesh(name string) *Node {
	for _, mesh := range n.Meshes() {
		if mesh.Name == name {
			return mesh
		}
	}
	return nil
}

// Clone returns a deep copy of the hierarchy. Geometry buffers, morph
// channels, and materials are all copied, so the clone can be mutated
// or released without affecting the original.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Name: n.Name, Kind: n.Kind}
	if n.Geometry != nil {
		c.Geometry = n.Geometry.Clone()
	}
	if len(n.Materials) > 0 {
		c.Materials = make([]*Material, len(n.Materials))
		for i, m := range n.Materials {
			c.Materials[i] = m.Clone()
		}
	}
	if len(n.children) > 0 {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			c.children[i] = child.Clone()
		}
	}
	return c
}

// VertexCount returns the total number of vertices across all meshes
// in the hierarchy.
func (n *Node) VertexCount() int {
	total := 0
	n.Walk(func(node *Node) {
		if node.Geometry != nil {
			total += node.Geometry.VertexCount()
		}
	})
	return total
}

// CollectMaterials returns the distinct materials referenced by the
// hierarchy, in depth-first pre-order of first reference.
func (n *Node) CollectMaterials() []*Material {
	var materials []*Material
	seen := make(map[*Material]struct{})
	n.Walk(func(node *Node) {
		for _, m := range node.Materials {
			if m == nil {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			materials = append(materials, m)
		}
	})
	return materials
}
