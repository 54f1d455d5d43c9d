// Package config provides YAML-based configuration loading for the collision
// engine and the sweep tooling built around it.
package config

import "errors"

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid value")

// Config is the complete sweep configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Server  ServerConfig  `yaml:"server"`
}

// EngineConfig holds the numeric tolerances the collision math is tuned with.
type EngineConfig struct {
	PointDeviation       float64 `yaml:"point_deviation"`        // Max distance a point may sit off a segment
	DiscriminantPlaces   int     `yaml:"discriminant_places"`    // Decimals kept before the discriminant sign check
	TouchPlaces          int     `yaml:"touch_places"`           // Decimals compared when testing flush edges
	MovedPlaces          int     `yaml:"moved_places"`           // Decimals compared when testing displacement
	TimeBuffer           float64 `yaml:"time_buffer"`            // Multiple of the frame a hit may land at
	DefaultFrameDuration float64 `yaml:"default_frame_duration"` // Used when a frame is opened without a duration
	HistoryDepth         int     `yaml:"history_depth"`          // Closed frames retained; 0 keeps all
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// StorageConfig configures run persistence.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// ViewerConfig configures the terminal scenario viewer.
type ViewerConfig struct {
	FPS    int `yaml:"fps"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ServerConfig configures the SSH viewer server.
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
}
