package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the sweep configuration.
// Search order: customPath -> ~/.sweep/config.yaml -> ./configs/sweep.yaml -> embedded default.
// Keys missing from a file keep their default values.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			candidate := Default()
			if err := yaml.Unmarshal(data, &candidate); err == nil && candidate.Validate() == nil {
				return candidate, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "sweep.yaml")); err == nil {
		candidate := Default()
		if err := yaml.Unmarshal(data, &candidate); err == nil && candidate.Validate() == nil {
			return candidate, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultSweepYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot work with.
func (c Config) Validate() error {
	e := c.Engine
	switch {
	case e.PointDeviation < 0:
		return fmt.Errorf("%w: engine.point_deviation must be >= 0, got %v", ErrInvalid, e.PointDeviation)
	case e.DiscriminantPlaces < 0:
		return fmt.Errorf("%w: engine.discriminant_places must be >= 0, got %d", ErrInvalid, e.DiscriminantPlaces)
	case e.TouchPlaces < 0:
		return fmt.Errorf("%w: engine.touch_places must be >= 0, got %d", ErrInvalid, e.TouchPlaces)
	case e.MovedPlaces < 0:
		return fmt.Errorf("%w: engine.moved_places must be >= 0, got %d", ErrInvalid, e.MovedPlaces)
	case e.TimeBuffer < 1:
		return fmt.Errorf("%w: engine.time_buffer must be >= 1, got %v", ErrInvalid, e.TimeBuffer)
	case e.DefaultFrameDuration <= 0:
		return fmt.Errorf("%w: engine.default_frame_duration must be > 0, got %v", ErrInvalid, e.DefaultFrameDuration)
	case e.HistoryDepth < 0:
		return fmt.Errorf("%w: engine.history_depth must be >= 0, got %d", ErrInvalid, e.HistoryDepth)
	case c.Viewer.FPS <= 0:
		return fmt.Errorf("%w: viewer.fps must be > 0, got %d", ErrInvalid, c.Viewer.FPS)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sweep", filename)
}
