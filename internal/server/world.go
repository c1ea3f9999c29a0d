// Package server exposes the era-morphing world over HTTP: a JSON API
// for entity state and transition requests, a websocket stream of
// transition progress, and glTF export of each entity's current look.
package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cityglass/eramorph/internal/engine/transition"
)

// ErrNotFound is returned for requests naming an unknown entity.
var ErrNotFound = errors.New("entity not found")

// Entity is one era-morphing model managed by the world.
type Entity struct {
	ID         string
	Name       string
	Controller *transition.Controller
}

// EntityState is the wire snapshot of an entity.
type EntityState struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Era           string  `json:"era"`
	TargetEra     string  `json:"target_era"`
	Label         string  `json:"label"`
	Progress      float64 `json:"progress"`
	Transitioning bool    `json:"transitioning"`
	MorphChannels int     `json:"morph_channels"`
}

// World owns the entity registry. Controllers are single-writer, so
// every read and mutation goes through the world lock; the tick loop
// is the only caller of Tick.
type World struct {
	mu       sync.RWMutex
	entities map[string]*Entity
	order    []string
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{entities: make(map[string]*Entity)}
}

// Add registers an entity. IDs must be unique.
func (w *World) Add(e *Entity) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.entities[e.ID]; exists {
		return fmt.Errorf("entity %q already registered", e.ID)
	}
	w.entities[e.ID] = e
	w.order = append(w.order, e.ID)
	return nil
}

// Len returns the number of registered entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

// States returns snapshots of all entities in registration order.
func (w *World) States() []EntityState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	states := make([]EntityState, 0, len(w.order))
	for _, id := range w.order {
		states = append(states, snapshot(w.entities[id]))
	}
	return states
}

// State returns the snapshot of one entity.
func (w *World) State(id string) (EntityState, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	if !ok {
		return EntityState{}, ErrNotFound
	}
	return snapshot(e), nil
}

// Request asks an entity to transition. An empty or "toggle" era flips
// the entity away from where it is heading; anything else must parse
// as an era name.
func (w *World) Request(id, era string) (EntityState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	if !ok {
		return EntityState{}, ErrNotFound
	}

	var target transition.Era
	switch era {
	case "", "toggle":
		target = opposite(e.Controller)
	default:
		t, err := transition.ParseEra(era)
		if err != nil {
			return EntityState{}, err
		}
		target = t
	}

	e.Controller.RequestTransition(target)
	return snapshot(e), nil
}

// Tick advances every controller by dt seconds and returns snapshots
// of the entities that moved this tick, including those that just
// completed.
func (w *World) Tick(dt float64) []EntityState {
	w.mu.Lock()
	defer w.mu.Unlock()
	var moved []EntityState
	for _, id := range w.order {
		e := w.entities[id]
		moving := e.Controller.Transitioning()
		e.Controller.Tick(dt)
		if moving || e.Controller.Transitioning() {
			moved = append(moved, snapshot(e))
		}
	}
	return moved
}

// opposite picks the era a toggle request should head toward: the era
// being left while transitioning, otherwise the era the entity is not
// currently in.
func opposite(c *transition.Controller) transition.Era {
	if c.Transitioning() {
		return c.Era()
	}
	if c.Era() == transition.EraHistorical {
		return transition.EraFuturistic
	}
	return transition.EraHistorical
}

func snapshot(e *Entity) EntityState {
	c := e.Controller
	return EntityState{
		ID:            e.ID,
		Name:          e.Name,
		Era:           c.Era().String(),
		TargetEra:     c.TargetEra().String(),
		Label:         transition.Label(c.Progress()),
		Progress:      c.Progress(),
		Transitioning: c.Transitioning(),
		MorphChannels: c.BuiltChannels(),
	}
}
