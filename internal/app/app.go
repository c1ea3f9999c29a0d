// Package app assembles the era-morphing world from configuration and
// runs it behind the HTTP server.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cityglass/eramorph/internal/assets"
	"github.com/cityglass/eramorph/internal/config"
	"github.com/cityglass/eramorph/internal/engine/transition"
	"github.com/cityglass/eramorph/internal/procgen"
	"github.com/cityglass/eramorph/internal/server"
)

// App wires the generator, the model cache, and the server together.
type App struct {
	cfg    *config.Config
	cache  *assets.Cache
	world  *server.World
	server *server.Server
}

// New builds the world described by cfg: procedurally generated
// buildings plus any configured glTF model pairs.
func New(cfg *config.Config) (*App, error) {
	opts, err := controllerOptions(cfg.Transition)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:   cfg,
		cache: assets.NewCache(&assets.GLTFLoader{}),
		world: server.NewWorld(),
	}

	if err := a.populateBuildings(opts); err != nil {
		return nil, err
	}
	if err := a.populateModels(opts); err != nil {
		return nil, err
	}
	if a.world.Len() == 0 {
		return nil, fmt.Errorf("no entities configured")
	}

	a.server = server.New(a.world, cfg.Server)
	return a, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases cached model resources.
func (a *App) Close() {
	a.cache.Clear()
}

// World exposes the entity registry, mainly for tests.
func (a *App) World() *server.World {
	return a.world
}

func controllerOptions(tc config.TransitionConfig) (transition.Options, error) {
	opts := transition.DefaultOptions()

	era, err := transition.ParseEra(tc.InitialEra)
	if err != nil {
		return opts, fmt.Errorf("transition config: %w", err)
	}
	easing, err := transition.ParseEasing(tc.Easing)
	if err != nil {
		return opts, fmt.Errorf("transition config: %w", err)
	}

	opts.InitialEra = era
	opts.Speed = tc.Speed
	opts.UseMorphTargets = tc.UseMorphTargets
	opts.UseShaderEffect = tc.UseShaderEffect
	opts.Easing = easing
	return opts, nil
}

// populateBuildings generates building entities, from the definition
// file when configured, randomly otherwise.
func (a *App) populateBuildings(opts transition.Options) error {
	bc := a.cfg.Buildings
	gen := procgen.NewGenerator(bc.Seed)

	var defs []procgen.Definition
	if bc.Definitions != "" {
		loaded, err := procgen.LoadDefinitions(bc.Definitions)
		if err != nil {
			return fmt.Errorf("loading building definitions: %w", err)
		}
		defs = loaded
	} else if bc.Count > 0 {
		defs = gen.Random(bc.Count)
	}

	for _, def := range defs {
		historical, futuristic := gen.BuildPair(def)
		ctrl := transition.NewController(opts)
		rep := ctrl.Attach(historical, futuristic)
		zap.L().Debug("building generated",
			zap.String("name", def.Name),
			zap.Int("channels", rep.Built))

		err := a.world.Add(&server.Entity{
			ID:         def.Name,
			Name:       def.Name,
			Controller: ctrl,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// populateModels loads configured glTF era pairs through the cache.
func (a *App) populateModels(opts transition.Options) error {
	ctx := context.Background()
	for _, pair := range a.cfg.Models {
		historical, err := a.cache.Load(ctx, pair.Historical)
		if err != nil {
			return fmt.Errorf("model %s: %w", pair.ID, err)
		}
		futuristic, err := a.cache.Load(ctx, pair.Futuristic)
		if err != nil {
			return fmt.Errorf("model %s: %w", pair.ID, err)
		}

		ctrl := transition.NewController(opts)
		rep := ctrl.Attach(historical, futuristic)
		zap.L().Info("model pair loaded",
			zap.String("id", pair.ID),
			zap.Int("channels", rep.Built),
			zap.Int("mismatched", rep.Mismatched),
			zap.Int("unmatched", rep.Unmatched))

		err = a.world.Add(&server.Entity{
			ID:         pair.ID,
			Name:       pair.ID,
			Controller: ctrl,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
