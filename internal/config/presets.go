package config

import "fmt"

// TolerancePreset names a bundle of engine tolerances.
type TolerancePreset string

const (
	PresetDefault TolerancePreset = "default"
	PresetStrict  TolerancePreset = "strict"
	PresetLoose   TolerancePreset = "loose"
)

// ParsePreset validates a preset name. An empty name selects PresetDefault.
func ParsePreset(name string) (TolerancePreset, error) {
	switch p := TolerancePreset(name); p {
	case "":
		return PresetDefault, nil
	case PresetDefault, PresetStrict, PresetLoose:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown tolerance preset %q", ErrInvalid, name)
	}
}

// ApplyPreset overwrites the tolerance fields of cfg.
// Frame duration and history depth are left alone.
func ApplyPreset(cfg *EngineConfig, preset TolerancePreset) {
	switch preset {
	case PresetStrict:
		cfg.PointDeviation = 1e-9
		cfg.DiscriminantPlaces = 6
		cfg.TouchPlaces = 9
		cfg.MovedPlaces = 6
		cfg.TimeBuffer = 1.0
	case PresetLoose:
		cfg.PointDeviation = 1e-5
		cfg.DiscriminantPlaces = 2
		cfg.TouchPlaces = 5
		cfg.MovedPlaces = 2
		cfg.TimeBuffer = 1.25
	default:
		d := DefaultEngine()
		cfg.PointDeviation = d.PointDeviation
		cfg.DiscriminantPlaces = d.DiscriminantPlaces
		cfg.TouchPlaces = d.TouchPlaces
		cfg.MovedPlaces = d.MovedPlaces
		cfg.TimeBuffer = d.TimeBuffer
	}
}
