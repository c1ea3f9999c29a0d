package transition

// DefaultSpeed is the default transition speed in progress units per
// second: a full era switch takes half a second.
const DefaultSpeed = 2.0

// State is the era transition state machine. Progress runs along
// [0,1], with 0 = EraHistorical and 1 = EraFuturistic. When the machine
// is not transitioning, progress sits exactly on the current era's
// terminal value. The current era changes only at the instant a
// transition completes.
//
// State has a single logical writer per frame and is not safe for
// concurrent use.
type State struct {
	current       Era
	target        Era
	progress      float64
	speed         float64
	transitioning bool

	onComplete func(Era)
}

// NewState creates a state machine resting in the given era. A
// non-positive speed falls back to DefaultSpeed.
func NewState(initial Era, speed float64) *State {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &State{
		current:  initial,
		target:   initial,
		progress: initial.terminalProgress(),
		speed:    speed,
	}
}

// SetOnComplete registers the completion callback. It fires exactly
// once per completed transition, synchronously from Advance, after the
// state mutation.
func (s *State) SetOnComplete(fn func(Era)) {
	s.onComplete = fn
}

// Era returns the current era. During a transition this is still the
// era the model is leaving.
func (s *State) Era() Era {
	return s.current
}

// TargetEra returns the era the machine is moving toward. Equal to
// Era() when resting.
func (s *State) TargetEra() Era {
	return s.target
}

// Progress returns the raw transition progress in [0,1].
func (s *State) Progress() float64 {
	return s.progress
}

// Speed returns the transition speed in progress units per second.
func (s *State) Speed() float64 {
	return s.speed
}

// Transitioning reports whether a transition is in flight.
func (s *State) Transitioning() bool {
	return s.transitioning
}

// Begin starts (or redirects) a transition toward era. Requesting the
// era the machine is already in, or already moving toward, is a no-op.
// Progress is never reset: reversing an interrupted transition resumes
// from the current value and animates back smoothly.
func (s *State) Begin(era Era) {
	if s.transitioning {
		if era == s.target {
			return
		}
	} else if era == s.current {
		return
	}
	s.target = era
	s.transitioning = true
}

// Advance integrates progress over deltaSeconds and reports whether
// progress changed. Progress is clamped into [0,1] on every step, so
// arbitrarily large deltas snap to the endpoint in one call and
// negative or zero deltas cannot escape the range. On completion the
// current era becomes the target era, the machine stops, and the
// completion callback fires once with the era captured before the
// callback runs (a reentrant Begin inside the callback cannot alter
// the reported era).
func (s *State) Advance(deltaSeconds float64) bool {
	if !s.transitioning {
		return false
	}

	direction := -1.0
	if s.target == EraFuturistic {
		direction = 1.0
	}
	next := clampProgress(s.progress + direction*deltaSeconds*s.speed)
	changed := next != s.progress
	s.progress = next

	completed := (s.progress <= 0 && s.target == EraHistorical) ||
		(s.progress >= 1 && s.target == EraFuturistic)
	if completed {
		s.current = s.target
		s.transitioning = false
		reached := s.target
		if s.onComplete != nil {
			s.onComplete(reached)
		}
	}
	return changed
}

func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
