// Package transition owns the era transition model: the two-era state
// machine, the material palette interpolator, and the controller that
// applies a frame's progress to geometry weights and material scalars.
package transition

import "fmt"

// Era is one of the two terminal visual styles a model can occupy.
type Era uint8

const (
	// EraHistorical is the source era; its terminal progress is 0.
	EraHistorical Era = iota
	// EraFuturistic is the target era; its terminal progress is 1.
	EraFuturistic
)

// String returns the lowercase era name.
func (e Era) String() string {
	if e == EraFuturistic {
		return "futuristic"
	}
	return "historical"
}

// terminalProgress returns the progress value at which the era is fully
// occupied.
func (e Era) terminalProgress() float64 {
	if e == EraFuturistic {
		return 1
	}
	return 0
}

// ParseEra converts a configuration string to an Era.
func ParseEra(s string) (Era, error) {
	switch s {
	case "historical":
		return EraHistorical, nil
	case "futuristic":
		return EraFuturistic, nil
	default:
		return EraHistorical, fmt.Errorf("unknown era %q", s)
	}
}

// Label names the visual style at the given progress: one of the two
// era names at the endpoints, "transitional" strictly in between. This
// is a display label only, never a state machine input.
func Label(progress float64) string {
	switch {
	case progress <= 0:
		return EraHistorical.String()
	case progress >= 1:
		return EraFuturistic.String()
	default:
		return "transitional"
	}
}
