package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileConfig holds chartctl defaults read from a TOML file. Unset keys stay
// nil so command-line flags and built-in defaults win.
type FileConfig struct {
	Chart    FileChartConfig  `toml:"chart"`
	Render   FileRenderConfig `toml:"render"`
	Output   *string          `toml:"output"`
	LogLevel *string          `toml:"log-level"`
}

// FileChartConfig maps the [chart] table.
type FileChartConfig struct {
	Kind   *string `toml:"kind"`
	Scheme *string `toml:"scheme"`
	Locale *string `toml:"locale"`
	XField *string `toml:"x-field"`
	YField *string `toml:"y-field"`
}

// FileRenderConfig maps the [render] table.
type FileRenderConfig struct {
	Width  *int    `toml:"width"`
	Height *int    `toml:"height"`
	Format *string `toml:"format"`
}

// LoadFile reads a TOML config from path. A missing file is not an error.
// Unknown keys are rejected so typos do not pass silently.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}

	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return FileConfig{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
