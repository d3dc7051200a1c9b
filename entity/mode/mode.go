package mode

import (
	"fmt"
	"strings"
)

type Mode uint8

const (
	// CoLinear is the inline (Gabor) setup: reference and object share one axis.
	CoLinear Mode = iota
	// AngularOffset is the off-axis (Leith-Upatnieks) setup.
	AngularOffset
)

func UnmarshalText(text string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "inline", "colinear", "co-linear", "gabor":
		return CoLinear, nil
	case "offaxis", "off-axis", "angular", "angular-offset":
		return AngularOffset, nil
	default:
		return 0, fmt.Errorf("invalid mode: %q", text)
	}
}

func (m Mode) String() string {
	switch m {
	case CoLinear:
		return "inline"
	case AngularOffset:
		return "offaxis"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// MarshalText lets config files and JSON history carry the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := UnmarshalText(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Caption describes how the two reconstructed images relate in this mode.
func (m Mode) Caption() string {
	if m == AngularOffset {
		return "Off-axis: The Real Image is deflected away, leaving a clear view of the Virtual Image."
	}
	return "Inline: Real and Virtual images overlap on the same axis (Gabor's Problem)."
}
