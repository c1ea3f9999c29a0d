package app

import (
	"testing"

	"github.com/cityglass/eramorph/internal/config"
)

func TestNewBuildsConfiguredWorld(t *testing.T) {
	cfg := config.Default()
	cfg.Buildings.Count = 3

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("building app: %v", err)
	}
	defer a.Close()

	if got := a.World().Len(); got != 3 {
		t.Errorf("expected 3 entities, got %d", got)
	}
	for _, st := range a.World().States() {
		if st.Era != "historical" {
			t.Errorf("entity %s should start historical, got %q", st.ID, st.Era)
		}
		if st.MorphChannels == 0 {
			t.Errorf("entity %s has no morph channels", st.ID)
		}
	}
}

func TestNewRejectsUnknownEra(t *testing.T) {
	cfg := config.Default()
	cfg.Transition.InitialEra = "medieval"

	if _, err := New(cfg); err == nil {
		t.Error("expected an error for an unknown initial era")
	}
}

func TestNewRejectsUnknownEasing(t *testing.T) {
	cfg := config.Default()
	cfg.Transition.Easing = "bouncy"

	if _, err := New(cfg); err == nil {
		t.Error("expected an error for an unknown easing name")
	}
}

func TestNewRejectsEmptyWorld(t *testing.T) {
	cfg := config.Default()
	cfg.Buildings.Count = 0

	if _, err := New(cfg); err == nil {
		t.Error("expected an error for a world with no entities")
	}
}

func TestNewFailsOnMissingModelFile(t *testing.T) {
	cfg := config.Default()
	cfg.Buildings.Count = 0
	cfg.Models = []config.ModelPair{{
		ID:         "clock-tower",
		Historical: "does-not-exist.gltf",
		Futuristic: "also-missing.gltf",
	}}

	if _, err := New(cfg); err == nil {
		t.Error("expected an error for missing model files")
	}
}
