package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the room's world and camera tunables.
type Config struct {
	Grid   GridConfig   `yaml:"grid"`
	Camera CameraConfig `yaml:"camera"`
}

type GridConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	CellSize        float64 `yaml:"cell_size"`
	BackgroundColor string  `yaml:"background_color"`
}

type CameraConfig struct {
	BgOffsetX     float64 `yaml:"bg_offset_x"`
	BgOffsetY     float64 `yaml:"bg_offset_y"`
	ManualOffsetX float64 `yaml:"manual_offset_x"`
	ManualOffsetY float64 `yaml:"manual_offset_y"`
}

// DefaultConfig returns the compiled-in room configuration.
func DefaultConfig() Config {
	return Config{
		Grid: GridConfig{
			Width:           2000,
			Height:          1000,
			CellSize:        32,
			BackgroundColor: "#f0f9ff",
		},
		Camera: CameraConfig{
			BgOffsetX:     50,
			BgOffsetY:     500,
			ManualOffsetX: 800,
			ManualOffsetY: -100,
		},
	}
}

// LoadConfig reads a YAML config file, falling back to defaults when the file
// does not exist. Zero-valued grid fields are filled from the defaults so a
// partial file stays usable.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}
	def := DefaultConfig()
	if cfg.Grid.Width <= 0 {
		cfg.Grid.Width = def.Grid.Width
	}
	if cfg.Grid.Height <= 0 {
		cfg.Grid.Height = def.Grid.Height
	}
	if cfg.Grid.CellSize <= 0 {
		cfg.Grid.CellSize = def.Grid.CellSize
	}
	if cfg.Grid.BackgroundColor == "" {
		cfg.Grid.BackgroundColor = def.Grid.BackgroundColor
	}
	return cfg, nil
}
