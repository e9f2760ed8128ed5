// ABOUTME: Player settings file
// ABOUTME: Loads YAML defaults that command-line flags can override
package playback

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of the player settings
type FileConfig struct {
	Output     string `yaml:"output"`
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
	Volume     int    `yaml:"volume"`
	BitDepth   int    `yaml:"bit_depth"`
	DeviceRate int    `yaml:"device_rate"`
	NoTUI      bool   `yaml:"no_tui"`
}

// DefaultFileConfig returns the settings used when no file exists
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Output:   "oto",
		LogLevel: "info",
		LogFile:  "earwax.log",
		Volume:   100,
		BitDepth: 16,
	}
}

// LoadFileConfig reads settings from a YAML file. A missing file yields the defaults.
func LoadFileConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Volume < 0 || cfg.Volume > 100 {
		return cfg, fmt.Errorf("volume %d out of range 0-100", cfg.Volume)
	}
	switch cfg.BitDepth {
	case 16, 24, 32:
	default:
		return cfg, fmt.Errorf("unsupported bit depth %d", cfg.BitDepth)
	}
	return cfg, nil
}
