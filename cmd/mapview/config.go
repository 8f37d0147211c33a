package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	WindowWidth  int     `toml:"window_width"`
	WindowHeight int     `toml:"window_height"`
	MapsDir      string  `toml:"maps_dir"`
	Volume       float64 `toml:"volume"`
	Autoplay     bool    `toml:"autoplay"`
}

func defaultConfig() Config {
	return Config{
		WindowWidth:  1024,
		WindowHeight: 768,
		MapsDir:      ".",
		Volume:       0.7,
		Autoplay:     true,
	}
}

// loadConfig reads the viewer config. A missing default-location file just
// yields defaults; an explicitly passed path must exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "mapview", "config.toml")
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaultConfig(), nil
		}
		return cfg, err
	}

	if cfg.WindowWidth < 320 {
		cfg.WindowWidth = defaultConfig().WindowWidth
	}
	if cfg.WindowHeight < 240 {
		cfg.WindowHeight = defaultConfig().WindowHeight
	}
	if cfg.Volume < 0 {
		cfg.Volume = 0
	}
	if cfg.Volume > 1 {
		cfg.Volume = 1
	}
	if cfg.MapsDir == "" {
		cfg.MapsDir = "."
	}
	return cfg, nil
}
