package scene

import (
	"fmt"

	"go.uber.org/zap"
)

// Release frees the geometry and material resources of node and every
// descendant. It is idempotent and safe to call on partially
// initialized hierarchies. A failing resource never prevents sibling
// resources from being released: every failure is logged and swallowed.
func Release(root *Node) {
	if root == nil {
		return
	}
	root.Walk(func(n *Node) {
		if n.Geometry != nil {
			if err := n.Geometry.Release(); err != nil {
				zap.L().Warn("geometry release failed",
					zap.String("node", n.Name), zap.Error(err))
			}
		}
		for _, m := range n.Materials {
			if m == nil {
				continue
			}
			if err := m.Release(); err != nil {
				zap.L().Warn("material release failed",
					zap.String("node", n.Name),
					zap.String("material", m.Name), zap.Error(err))
			}
		}
	})
}

// Release frees the GPU buffers backing the geometry. Subsequent calls
// are no-ops. A panicking ReleaseGPU hook is converted to an error.
func (g *Geometry) Release() (err error) {
	if g == nil || g.released {
		return nil
	}
	g.released = true
	if g.ReleaseGPU == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geometry release panicked: %v", r)
		}
	}()
	return g.ReleaseGPU()
}

// Released reports whether Release has run on the geometry.
func (g *Geometry) Released() bool {
	return g.released
}

// Release frees the GPU resources of the material. Subsequent calls are
// no-ops. A panicking ReleaseGPU hook is converted to an error.
func (m *Material) Release() (err error) {
	if m == nil || m.released {
		return nil
	}
	m.released = true
	if m.ReleaseGPU == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("material release panicked: %v", r)
		}
	}()
	return m.ReleaseGPU()
}

// Released reports whether Release has run on the material.
func (m *Material) Released() bool {
	return m.released
}
