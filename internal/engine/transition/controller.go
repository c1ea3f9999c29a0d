package transition

import (
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/cityglass/eramorph/internal/engine/morph"
	"github.com/cityglass/eramorph/internal/engine/scene"
)

// Options configures a Controller.
type Options struct {
	// InitialEra is the era the model starts in.
	InitialEra Era
	// Speed is the transition speed in progress units per second.
	// Non-positive values fall back to DefaultSpeed.
	Speed float64
	// UseMorphTargets enables geometric morphing. When false only
	// material interpolation runs.
	UseMorphTargets bool
	// UseShaderEffect enables the orthogonal screen-space effect the
	// render host may apply during transitions. The controller only
	// reports its intensity; rendering it is the host's concern.
	UseShaderEffect bool
	// Easing shapes the applied visual progress. Nil means linear.
	Easing ease.TweenFunc
	// Derive produces target palettes for materials without explicit
	// ones. Nil selects DeriveFuturistic.
	Derive DeriveFunc
}

// DefaultOptions returns the recognized option defaults.
func DefaultOptions() Options {
	return Options{
		InitialEra:      EraHistorical,
		Speed:           DefaultSpeed,
		UseMorphTargets: true,
		UseShaderEffect: false,
		Easing:          ease.Linear,
	}
}

// Controller orchestrates one model's era transition. Each frame the
// host calls Tick; the controller advances the state machine and, when
// progress moved, pushes the eased value into the model's morph
// weights and material palettes. RequestTransition is the only
// external mutator.
//
// A controller owns its state exclusively; it is driven by a single
// goroutine and is not safe for concurrent use.
type Controller struct {
	opts     Options
	state    *State
	palettes *PaletteTable

	root      *scene.Node
	materials []*scene.Material
	built     int
	attached  bool

	onComplete func(Era)
}

// NewController creates a controller with the given options.
func NewController(opts Options) *Controller {
	if opts.Easing == nil {
		opts.Easing = ease.Linear
	}
	c := &Controller{
		opts:     opts,
		state:    NewState(opts.InitialEra, opts.Speed),
		palettes: NewPaletteTable(opts.Derive),
	}
	c.state.SetOnComplete(func(era Era) {
		if c.onComplete != nil {
			c.onComplete(era)
		}
	})
	return c
}

// OnComplete registers the callback fired synchronously each time a
// transition reaches its target era.
func (c *Controller) OnComplete(fn func(Era)) {
	c.onComplete = fn
}

// Attach binds the controller to a source hierarchy and builds morph
// data against its target-era counterpart. Displacement channels are
// created with the weight matching the initial era, and the model's
// materials are collected for interpolation. Until Attach is called,
// Tick is a no-op. If no sub-mesh pair could be built, the controller
// degrades to material-only transition rather than failing.
func (c *Controller) Attach(source, target *scene.Node) morph.Report {
	var rep morph.Report
	initialWeight := float32(c.state.Progress())
	if c.opts.UseMorphTargets {
		rep = morph.BuildAll(source, target, initialWeight)
	}

	c.root = source
	c.materials = source.CollectMaterials()
	c.built = rep.Built
	c.attached = true

	if rep.Built == 0 && c.opts.UseMorphTargets {
		zap.L().Info("no morphable mesh pairs; material-only transition",
			zap.String("model", source.Name),
			zap.Int("mismatched", rep.Mismatched),
			zap.Int("unmatched", rep.Unmatched))
	}

	// Settle the model on its initial era so the first rendered frame
	// is consistent even if no transition ever starts.
	c.apply(c.state.Progress())
	return rep
}

// Attached reports whether a model is bound to the controller.
func (c *Controller) Attached() bool {
	return c.attached
}

// Root returns the attached source hierarchy, or nil.
func (c *Controller) Root() *scene.Node {
	return c.root
}

// RequestTransition asks the controller to move toward era. Requests
// for the era already current or already targeted are no-ops; a
// request opposing an in-flight transition reverses it from the
// current progress.
func (c *Controller) RequestTransition(era Era) {
	c.state.Begin(era)
}

// Tick advances the transition by deltaSeconds and applies the result.
// Called once per render frame; inert until a model is attached.
func (c *Controller) Tick(deltaSeconds float64) {
	if !c.attached {
		return
	}
	if !c.state.Advance(deltaSeconds) {
		return
	}
	c.apply(c.state.Progress())
}

// apply pushes the eased progress into morph weights and materials.
func (c *Controller) apply(progress float64) {
	eased := c.eased(progress)
	if c.opts.UseMorphTargets && c.built > 0 {
		morph.SetWeight(c.root, eased)
	}
	for _, m := range c.materials {
		c.palettes.Interpolate(m, eased)
	}
}

// eased shapes raw progress for application. Endpoints are passed
// through untouched so era endpoints stay exact under any easing.
func (c *Controller) eased(progress float64) float32 {
	p := float32(progress)
	if p <= 0 || p >= 1 {
		return clamp01(p)
	}
	return clamp01(c.opts.Easing(p, 0, 1, 1))
}

// Era returns the current era (the era being left while transitioning).
func (c *Controller) Era() Era {
	return c.state.Era()
}

// TargetEra returns the era being moved toward.
func (c *Controller) TargetEra() Era {
	return c.state.TargetEra()
}

// Progress returns the raw transition progress in [0,1].
func (c *Controller) Progress() float64 {
	return c.state.Progress()
}

// Transitioning reports whether a transition is in flight.
func (c *Controller) Transitioning() bool {
	return c.state.Transitioning()
}

// BuiltChannels returns the number of displacement channels built at
// Attach time; zero means the model runs material-only.
func (c *Controller) BuiltChannels() int {
	return c.built
}

// Palettes exposes the palette side-table, letting hosts register
// explicit target palettes before the first Tick.
func (c *Controller) Palettes() *PaletteTable {
	return c.palettes
}

// EffectIntensity returns the screen-space effect strength for the
// render host: the eased progress toward the futuristic era while
// transitioning, or zero when the effect is disabled or the model is
// at rest.
func (c *Controller) EffectIntensity() float64 {
	if !c.opts.UseShaderEffect || !c.state.Transitioning() {
		return 0
	}
	return float64(c.eased(c.state.Progress()))
}
