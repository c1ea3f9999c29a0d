package procgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cityglass/eramorph/internal/engine/morph"
	"github.com/cityglass/eramorph/internal/engine/transition"
)

func testDefinition() Definition {
	return Definition{
		Name:        "townhouse",
		Floors:      3,
		Width:       10,
		Depth:       8,
		FloorHeight: 3,
		RoofHeight:  2,
		FutureScale: 2,
		FutureTaper: 0.4,
	}
}

func TestBuildPairSharesTopology(t *testing.T) {
	g := NewGenerator(7)
	historical, futuristic := g.BuildPair(testDefinition())

	srcMeshes := historical.Meshes()
	dstMeshes := futuristic.Meshes()
	if len(srcMeshes) != 3 || len(dstMeshes) != 3 {
		t.Fatalf("expected 3 meshes per era, got %d/%d", len(srcMeshes), len(dstMeshes))
	}
	for i, src := range srcMeshes {
		dst := dstMeshes[i]
		if src.Name != dst.Name {
			t.Errorf("mesh %d: names differ: %q vs %q", i, src.Name, dst.Name)
		}
		if src.Geometry.VertexCount() != dst.Geometry.VertexCount() {
			t.Errorf("mesh %q: vertex counts differ: %d vs %d",
				src.Name, src.Geometry.VertexCount(), dst.Geometry.VertexCount())
		}
	}

	// Every generated pair must morph fully.
	rep := morph.BuildAll(historical, futuristic, 0)
	if rep.Built != 3 || rep.Mismatched != 0 || rep.Unmatched != 0 {
		t.Errorf("expected 3 channels and no exclusions, got %+v", rep)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	def := testDefinition()
	a := NewGenerator(1).Build(def, transition.EraFuturistic)
	b := NewGenerator(99).Build(def, transition.EraFuturistic)

	am := a.Meshes()
	bm := b.Meshes()
	for i := range am {
		ag, bg := am[i].Geometry, bm[i].Geometry
		for v := range ag.Positions {
			if ag.Positions[v] != bg.Positions[v] {
				t.Fatalf("mesh %q vertex %d differs across generators", am[i].Name, v)
			}
		}
	}
}

func TestFuturisticEraIsTaller(t *testing.T) {
	g := NewGenerator(7)
	historical, futuristic := g.BuildPair(testDefinition())

	histTop := float32(0)
	for _, m := range historical.Meshes() {
		for _, p := range m.Geometry.Positions {
			if p.Y() > histTop {
				histTop = p.Y()
			}
		}
	}
	futTop := float32(0)
	for _, m := range futuristic.Meshes() {
		for _, p := range m.Geometry.Positions {
			if p.Y() > futTop {
				futTop = p.Y()
			}
		}
	}
	if futTop <= histTop {
		t.Errorf("expected futuristic era taller: %f vs %f", futTop, histTop)
	}
}

func TestRandomIsSeedStable(t *testing.T) {
	a := NewGenerator(42).Random(4)
	b := NewGenerator(42).Random(4)
	if len(a) != 4 || len(b) != 4 {
		t.Fatalf("expected 4 definitions, got %d/%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("definition %d differs across equal seeds", i)
		}
		if err := a[i].Validate(); err != nil {
			t.Errorf("random definition %d invalid: %v", i, err)
		}
	}
}

func TestLoadDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buildings.json")
	content := `[
  {"name": "mill", "floors": 2, "width": 10, "depth": 6,
   "floor_height": 3, "roof_height": 2, "future_scale": 1.8, "future_taper": 0.3}
]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	defs, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "mill" || defs[0].Floors != 2 {
		t.Errorf("unexpected definitions: %+v", defs)
	}
}

func TestLoadDefinitionsRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buildings.json")
	content := `[{"name": "broken", "floors": 0, "width": 10, "depth": 6, "floor_height": 3}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadDefinitions(path); err == nil {
		t.Error("expected validation error for zero floors")
	}

	if _, err := LoadDefinitions(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
