package morph

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/cityglass/eramorph/internal/engine/scene"
)

// VertexCountMismatchError reports a mesh pair whose geometries cannot
// be morphed because their vertex counts differ. The mesh keeps its
// shape and still receives material interpolation.
type VertexCountMismatchError struct {
	Mesh           string
	SourceVertices int
	TargetVertices int
}

func (e *VertexCountMismatchError) Error() string {
	return fmt.Sprintf("mesh %q: vertex count mismatch (source %d, target %d)",
		e.Mesh, e.SourceVertices, e.TargetVertices)
}

// Build computes the displacement channel for one matched pair and
// attaches it to the source geometry under ChannelName with the given
// initial weight. The displacement of vertex i is target[i] - source[i].
// Returns a *VertexCountMismatchError when the counts differ; the
// source geometry is left untouched in that case.
func Build(pair Pair, initialWeight float32) error {
	src := pair.Source.Geometry
	dst := pair.Target.Geometry
	if src == nil || dst == nil {
		return &VertexCountMismatchError{
			Mesh:           pair.Source.Name,
			SourceVertices: src.VertexCount(),
			TargetVertices: dst.VertexCount(),
		}
	}
	if src.VertexCount() != dst.VertexCount() {
		return &VertexCountMismatchError{
			Mesh:           pair.Source.Name,
			SourceVertices: src.VertexCount(),
			TargetVertices: dst.VertexCount(),
		}
	}

	disp := make([]mgl32.Vec3, src.VertexCount())
	for i := range disp {
		disp[i] = dst.Positions[i].Sub(src.Positions[i])
	}
	src.AddMorphTarget(&scene.MorphTarget{
		Name:          ChannelName,
		Displacements: disp,
		Weight:        clamp01(initialWeight),
	})

	// Only lit materials compile a blend-weight channel; unlit ones
	// keep their shape and show material interpolation only.
	for _, m := range pair.Source.Materials {
		if m != nil && !m.Unlit {
			m.MorphTargets = true
		}
	}
	return nil
}

// Report summarizes a BuildAll run over a hierarchy pair.
type Report struct {
	// Built counts meshes that received a displacement channel.
	Built int
	// Mismatched counts pairs excluded for differing vertex counts.
	Mismatched int
	// Unmatched counts source meshes with no same-named counterpart.
	Unmatched int
}

// BuildAll matches the two hierarchies and builds a displacement
// channel for every compatible pair. Vertex-count mismatches are logged
// and skipped; the batch continues with the remaining pairs. Source
// meshes without a counterpart are excluded silently, supporting
// partial-coverage asset pairs.
func BuildAll(sourceRoot, targetRoot *scene.Node, initialWeight float32) Report {
	var rep Report
	pairs := Match(sourceRoot, targetRoot)
	if sourceRoot != nil {
		rep.Unmatched = len(sourceRoot.Meshes()) - len(pairs)
	}
	for _, pair := range pairs {
		err := Build(pair, initialWeight)
		if err == nil {
			rep.Built++
			continue
		}
		var mismatch *VertexCountMismatchError
		if errors.As(err, &mismatch) {
			rep.Mismatched++
			zap.L().Warn("mesh pair excluded from morphing",
				zap.String("mesh", mismatch.Mesh),
				zap.Int("source_vertices", mismatch.SourceVertices),
				zap.Int("target_vertices", mismatch.TargetVertices))
		}
	}
	return rep
}

// SetWeight writes w, clamped to [0,1], to the era channel of every
// mesh under root that has one. Called once per frame; allocation-free.
func SetWeight(root *scene.Node, w float32) {
	if root == nil {
		return
	}
	w = clamp01(w)
	root.Walk(func(n *scene.Node) {
		if n.Geometry != nil {
			n.Geometry.SetMorphWeight(ChannelName, w)
		}
	})
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
