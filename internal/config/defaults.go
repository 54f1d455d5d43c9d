package config

import (
	_ "embed"
)

//go:embed defaults/sweep.yaml
var defaultSweepYAML []byte

// Default returns the hardcoded configuration used when no file can be read.
func Default() Config {
	return Config{
		Engine: DefaultEngine(),
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Path: "~/.sweep/sweep.db",
		},
		Viewer: ViewerConfig{
			FPS:    4,
			Width:  80,
			Height: 24,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        23235,
			HostKeyPath: ".ssh/sweep_ed25519",
		},
	}
}

// DefaultEngine returns the tolerances the engine was tuned against.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		PointDeviation:       1e-7,
		DiscriminantPlaces:   4,
		TouchPlaces:          7,
		MovedPlaces:          4,
		TimeBuffer:           1.1,
		DefaultFrameDuration: 1,
		HistoryDepth:         0,
	}
}
