package transition

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// ParseEasing maps a configuration name to an easing function applied
// to the visual progress. Only the applied value is eased; the state
// machine's raw progress integrates linearly so an interrupted
// transition always reverses from where it stands.
func ParseEasing(name string) (ease.TweenFunc, error) {
	switch name {
	case "", "linear":
		return ease.Linear, nil
	case "in-quad":
		return ease.InQuad, nil
	case "out-quad":
		return ease.OutQuad, nil
	case "in-out-quad":
		return ease.InOutQuad, nil
	case "in-cubic":
		return ease.InCubic, nil
	case "out-cubic":
		return ease.OutCubic, nil
	case "in-out-cubic":
		return ease.InOutCubic, nil
	case "in-out-sine":
		return ease.InOutSine, nil
	default:
		return nil, fmt.Errorf("unknown easing %q", name)
	}
}
