package config

import "flag"

// Flags holds command-line overrides. Counts of -1 mean "not given".
type Flags struct {
	Config  string
	Debug   bool
	LogFile string

	NoMirrorX   bool
	FlipWinding bool
	NoMirrorUV  bool
	NoHeader    bool
	NoCleanup   bool
	Normalize   bool

	Forward string
	Up      string

	UVCount    int
	RGBCount   int
	AlphaCount int

	OutputDir string
	Workers   int
}

// RegisterFlags binds the common csvmesh flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log", "", "Write logs to this file as well")

	fs.BoolVar(&f.NoMirrorX, "no-mirror-x", false, "Do not mirror vertices across X")
	fs.BoolVar(&f.FlipWinding, "flip-winding", false, "Reverse triangle winding order")
	fs.BoolVar(&f.NoMirrorUV, "no-mirror-uv", false, "Do not flip UV maps vertically")
	fs.BoolVar(&f.NoHeader, "no-header", false, "Treat the first row as data")
	fs.BoolVar(&f.NoCleanup, "no-cleanup", false, "Do not request smooth shading on output")
	fs.BoolVar(&f.Normalize, "normalize", false, "Apply configured divisors")

	fs.StringVar(&f.Forward, "forward", "", "Source forward axis (X, Y, Z, -X, -Y, -Z)")
	fs.StringVar(&f.Up, "up", "", "Source up axis (X, Y, Z, -X, -Y, -Z)")

	fs.IntVar(&f.UVCount, "uv-count", -1, "Number of UV maps to import")
	fs.IntVar(&f.RGBCount, "rgb-count", -1, "Number of RGB color sets to import")
	fs.IntVar(&f.AlphaCount, "alpha-count", -1, "Number of alpha color sets to import")

	fs.StringVar(&f.OutputDir, "o", "", "Output directory")
	fs.IntVar(&f.Workers, "j", 0, "Parallel imports (0 = config value)")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.NoMirrorX {
		cfg.Import.MirrorX = false
	}
	if f.FlipWinding {
		cfg.Import.FlipWinding = true
	}
	if f.NoMirrorUV {
		cfg.Import.MirrorUV = false
	}
	if f.NoHeader {
		cfg.Import.SkipHeader = false
	}
	if f.NoCleanup {
		cfg.Import.ApplyCleanup = false
	}
	if f.Normalize {
		cfg.Import.ShowNormalize = true
	}
	if f.Forward != "" {
		cfg.Import.AxisForward = f.Forward
	}
	if f.Up != "" {
		cfg.Import.AxisUp = f.Up
	}
	if f.UVCount >= 0 {
		cfg.Import.UVCount = f.UVCount
	}
	if f.RGBCount >= 0 {
		cfg.Import.RGBCount = f.RGBCount
	}
	if f.AlphaCount >= 0 {
		cfg.Import.AlphaCount = f.AlphaCount
	}
	if f.OutputDir != "" {
		cfg.Output.Dir = f.OutputDir
	}
	if f.Workers > 0 {
		cfg.Output.Workers = f.Workers
	}
}
