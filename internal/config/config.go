// Package config handles csvmesh configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/csvmesh/pkg/formats"
	"github.com/Faultbox/csvmesh/pkg/mesh"
)

// Config holds all csvmesh settings.
type Config struct {
	Import  ImportConfig  `yaml:"import" toml:"import"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ImportConfig mirrors the importer's option panel. Instance settings are
// slot lists; only the first *Count slots are used.
type ImportConfig struct {
	MirrorX       bool `yaml:"mirror_x" toml:"mirror_x"`
	FlipWinding   bool `yaml:"flip_winding" toml:"flip_winding"`
	MirrorUV      bool `yaml:"mirror_uv" toml:"mirror_uv"`
	SkipHeader    bool `yaml:"skip_header" toml:"skip_header"`
	ApplyCleanup  bool `yaml:"apply_cleanup" toml:"apply_cleanup"`
	ShowNormalize bool `yaml:"show_normalize" toml:"show_normalize"` // when false every divisor is 1

	AxisForward   string `yaml:"axis_forward" toml:"axis_forward"`
	AxisUp        string `yaml:"axis_up" toml:"axis_up"`
	TargetForward string `yaml:"target_forward" toml:"target_forward"`
	TargetUp      string `yaml:"target_up" toml:"target_up"`

	PositionColumns [3]int `yaml:"position_columns" toml:"position_columns"`
	NormalColumns   [3]int `yaml:"normal_columns" toml:"normal_columns"`
	NormalDivisor   int    `yaml:"normal_divisor" toml:"normal_divisor"`

	UVCount    int         `yaml:"uv_count" toml:"uv_count"`
	UV         []UVSlot    `yaml:"uv" toml:"uv"`
	RGBCount   int         `yaml:"rgb_count" toml:"rgb_count"`
	RGB        []RGBSlot   `yaml:"rgb" toml:"rgb"`
	AlphaCount int         `yaml:"alpha_count" toml:"alpha_count"`
	Alpha      []AlphaSlot `yaml:"alpha" toml:"alpha"`
}

// UVSlot is one UV map's columns and divisor.
type UVSlot struct {
	Columns [2]int `yaml:"columns" toml:"columns"`
	Divisor int    `yaml:"divisor" toml:"divisor"`
}

// RGBSlot is one RGB color set's columns and divisor.
type RGBSlot struct {
	Columns [3]int `yaml:"columns" toml:"columns"`
	Divisor int    `yaml:"divisor" toml:"divisor"`
}

// AlphaSlot is one alpha color set's column and divisor.
type AlphaSlot struct {
	Column  int `yaml:"column" toml:"column"`
	Divisor int `yaml:"divisor" toml:"divisor"`
}

// OutputConfig holds where converted meshes are written.
type OutputConfig struct {
	Dir     string `yaml:"dir" toml:"dir"`
	Workers int    `yaml:"workers" toml:"workers"` // parallel imports, 0 = one per CPU
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	mapping := formats.DefaultMapping()
	cfg := &Config{
		Import: ImportConfig{
			MirrorX:       true,
			FlipWinding:   false,
			MirrorUV:      true,
			SkipHeader:    true,
			ApplyCleanup:  true,
			ShowNormalize: false,

			AxisForward:   "Z",
			AxisUp:        "Y",
			TargetForward: "Y",
			TargetUp:      "Z",

			PositionColumns: mapping.Position,
			NormalColumns:   mapping.Normal,
			NormalDivisor:   1,

			UVCount:    len(mapping.UV),
			RGBCount:   0,
			AlphaCount: 0,
		},
		Output: OutputConfig{
			Dir:     ".",
			Workers: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}

	for i := 0; i < formats.MaxInstances; i++ {
		cfg.Import.UV = append(cfg.Import.UV, UVSlot{Divisor: 1})
		cfg.Import.RGB = append(cfg.Import.RGB, RGBSlot{Divisor: 1})
		cfg.Import.Alpha = append(cfg.Import.Alpha, AlphaSlot{Divisor: 1})
	}
	for i, uv := range mapping.UV {
		cfg.Import.UV[i].Columns = uv
	}
	cfg.Import.RGB[0].Columns = [3]int{10, 11, 12}

	return cfg
}

// Validate checks instance counts against their bounds and the configured
// slots. Errors wrap mesh.ErrConfiguration.
func (c *ImportConfig) Validate() error {
	counts := []struct {
		name  string
		count int
		slots int
	}{
		{"uv_count", c.UVCount, len(c.UV)},
		{"rgb_count", c.RGBCount, len(c.RGB)},
		{"alpha_count", c.AlphaCount, len(c.Alpha)},
	}
	for _, cc := range counts {
		if cc.count < 0 || cc.count > formats.MaxInstances {
			return fmt.Errorf("%w: %s must be in [0,%d], got %d", mesh.ErrConfiguration, cc.name, formats.MaxInstances, cc.count)
		}
		if cc.count > cc.slots {
			return fmt.Errorf("%w: %s is %d but only %d slots are configured", mesh.ErrConfiguration, cc.name, cc.count, cc.slots)
		}
	}
	return nil
}
