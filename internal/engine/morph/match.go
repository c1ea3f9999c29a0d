// Package morph builds per-vertex displacement channels between two
// same-topology mesh hierarchies and drives their blend weights. Meshes
// are paired by name; pairs whose vertex counts differ are excluded
// from geometric morphing and fall back to material-only transition.
package morph

import (
	"github.com/cityglass/eramorph/internal/engine/scene"
)

// ChannelName identifies the era displacement channel on a geometry.
const ChannelName = "era-morph"

// Pair is a source mesh and its same-named counterpart in the target
// hierarchy. Vertex counts are not checked here; Build does that.
type Pair struct {
	Source *scene.Node
	Target *scene.Node
}

// Match pairs every mesh under sourceRoot with the first same-named mesh
// under targetRoot. Both hierarchies are traversed depth-first pre-order,
// left-to-right; when several target meshes share a name, the first in
// that order wins (a known ambiguity of name-keyed assets, documented
// rather than resolved). Source meshes with no counterpart are simply
// absent from the result. Neither hierarchy is mutated.
func Match(sourceRoot, targetRoot *scene.Node) []Pair {
	if sourceRoot == nil || targetRoot == nil {
		return nil
	}
	targets := targetRoot.Meshes()
	byName := make(map[string]*scene.Node, len(targets))
	for _, t := range targets {
		if _, ok := byName[t.Name]; !ok {
			byName[t.Name] = t
		}
	}

	var pairs []Pair
	for _, s := range sourceRoot.Meshes() {
		if t, ok := byName[s.Name]; ok {
			pairs = append(pairs, Pair{Source: s, Target: t})
		}
	}
	return pairs
}
