// csvmesh is a CLI utility for converting CSV vertex dumps into meshes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/csvmesh/internal/config"
	"github.com/Faultbox/csvmesh/internal/importer"
	"github.com/Faultbox/csvmesh/internal/logger"
	"github.com/Faultbox/csvmesh/internal/watch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "import", "i":
		cmdImport(args)
	case "info":
		cmdInfo(args)
	case "watch", "w":
		cmdWatch(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		exit(1)
	}
}

func printUsage() {
	fmt.Println(`csvmesh - CSV vertex dump to mesh converter

Usage:
  csvmesh <command> [options]

Commands:
  import [options] <file.csv>...     Convert files to OBJ
  info [options] <file.csv>          Show vertex, face and layer counts
  watch [options] <file.csv>         Re-convert whenever the file changes
  config [-format yaml|toml] [-save] Print (or save) the effective config

Common options:
  -config <path>    Config file (.yaml or .toml)
  -o <dir>          Output directory
  -forward, -up     Source axes (X, Y, Z, -X, -Y, -Z)
  -uv-count, -rgb-count, -alpha-count <n>
  -no-mirror-x, -no-mirror-uv, -flip-winding, -no-header, -normalize

Examples:
  csvmesh import -o out body.csv head.csv
  csvmesh info -uv-count 2 body.csv
  csvmesh watch -flip-winding body.csv`)
}

// exit flushes buffered log entries and terminates the process.
func exit(code int) {
	logger.Sync()
	os.Exit(code)
}

// setup parses args, loads config and initializes logging.
func setup(fs *flag.FlagSet, flags *config.Flags, args []string) *config.Config {
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		exit(1)
	}
	logger.Debug("config loaded", zap.Any("config", cfg))
	return cfg
}

func newImporter(cfg *config.Config) *importer.Importer {
	im, err := importer.New(cfg.Import, logger.Named("importer"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
	return im
}

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	cfg := setup(fs, flags, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: csvmesh import [options] <file.csv>...")
		exit(1)
	}

	if err := importer.CheckOutputs(cfg.Output.Dir, fs.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	im := newImporter(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := im.ImportAll(ctx, fs.Args(), cfg.Output.Workers)
	if err != nil {
		logger.Error("import failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	for _, res := range results {
		out, err := im.Export(res, cfg.Output.Dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", res.Path, err)
			exit(1)
		}
		fmt.Printf("Converted: %s -> %s (%d vertices, %d faces)\n",
			res.Path, out, res.Mesh.VertexCount(), res.Mesh.FaceCount())
	}

	logger.Info("import finished", zap.Int("files", len(results)), zap.String("output", cfg.Output.Dir))
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	cfg := setup(fs, flags, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: csvmesh info [options] <file.csv>")
		exit(1)
	}

	im := newImporter(cfg)
	res, err := im.Import(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	m := res.Mesh
	lo, hi := m.Bounds()
	fmt.Printf("File:     %s\n", res.Path)
	fmt.Printf("Mesh:     %s (%s)\n", m.Name, m.ID)
	fmt.Printf("Rows:     %d\n", res.Rows)
	fmt.Printf("Vertices: %d\n", m.VertexCount())
	fmt.Printf("Faces:    %d\n", m.FaceCount())
	if res.Dropped > 0 {
		fmt.Printf("Dropped:  %d trailing rows (not a full triangle)\n", res.Dropped)
	}
	fmt.Printf("Bounds:   (%.4g, %.4g, %.4g) - (%.4g, %.4g, %.4g)\n",
		lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])

	names := m.LayerNames()
	if len(names) == 0 {
		names = []string{"(none)"}
	}
	fmt.Printf("Layers:   %s\n", strings.Join(names, ", "))

	plan := im.Plan()
	fmt.Printf("Axes:     %s/%s -> %s/%s (identity: %t)\n",
		cfg.Import.AxisForward, cfg.Import.AxisUp, cfg.Import.TargetForward, cfg.Import.TargetUp,
		plan.Transform.IsIdentity())
	fmt.Printf("Options:  mirror-x=%t mirror-uv=%t flip-winding=%t header=%t\n",
		plan.Options.MirrorX, plan.Options.MirrorUV, plan.Options.FlipWinding, plan.Options.SkipHeader)
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	cfg := setup(fs, flags, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: csvmesh watch [options] <file.csv>")
		exit(1)
	}

	im := newImporter(cfg)
	convert := func(path string) {
		res, err := im.Import(path)
		if err != nil {
			// Keep watching; the next save may fix the input.
			logger.Warn("import failed, waiting for next change", zap.Error(err))
			return
		}
		if _, err := im.Export(res, cfg.Output.Dir); err != nil {
			logger.Error("export failed", zap.Error(err))
		}
	}

	path := fs.Arg(0)
	convert(path)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("watching", zap.String("file", path), zap.String("output", cfg.Output.Dir))
	w := watch.New(path, convert, logger.Named("watch"))
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	format := fs.String("format", "yaml", "Output format (yaml or toml)")
	save := fs.Bool("save", false, "Save to the user config directory")
	cfg := setup(fs, flags, args)
	defer logger.Sync()

	if *save {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			exit(1)
		}
		fmt.Fprintf(os.Stderr, "Saved config to %s\n", config.ConfigDir())
		return
	}

	data, err := cfg.Marshal(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
	os.Stdout.Write(data)
}
