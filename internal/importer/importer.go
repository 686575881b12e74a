// Package importer runs the CSV decode and mesh assembly pipeline for one
// file or a batch of files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/csvmesh/internal/config"
	"github.com/Faultbox/csvmesh/pkg/formats"
	"github.com/Faultbox/csvmesh/pkg/math"
	"github.com/Faultbox/csvmesh/pkg/mesh"
)

// ErrOutputCollision is returned when two inputs would be written to the
// same output file.
var ErrOutputCollision = errors.New("output name collision")

// Plan is an import configuration resolved into the tables the decoder
// and assembler consume.
type Plan struct {
	Mapping       formats.ColumnMapping
	Normalization mesh.Normalization
	Options       formats.DecodeOptions
	Transform     math.Mat4
	Cleanup       bool
}

// Resolve turns slot-based settings into a Plan. Only the first *Count
// slots are used; divisors are all 1 unless ShowNormalize is set.
func Resolve(cfg config.ImportConfig) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Plan{
		Mapping: formats.ColumnMapping{
			Position: cfg.PositionColumns,
			Normal:   cfg.NormalColumns,
		},
		Normalization: mesh.NoNormalization(),
		Options: formats.DecodeOptions{
			MirrorX:     cfg.MirrorX,
			MirrorUV:    cfg.MirrorUV,
			FlipWinding: cfg.FlipWinding,
			SkipHeader:  cfg.SkipHeader,
		},
		Cleanup: cfg.ApplyCleanup,
	}

	for _, s := range cfg.UV[:cfg.UVCount] {
		p.Mapping.UV = append(p.Mapping.UV, s.Columns)
	}
	for _, s := range cfg.RGB[:cfg.RGBCount] {
		p.Mapping.RGB = append(p.Mapping.RGB, s.Columns)
	}
	for _, s := range cfg.Alpha[:cfg.AlphaCount] {
		p.Mapping.Alpha = append(p.Mapping.Alpha, s.Column)
	}
	if err := p.Mapping.Validate(); err != nil {
		return nil, err
	}

	if cfg.ShowNormalize {
		if cfg.NormalDivisor < 1 {
			return nil, fmt.Errorf("%w: normal_divisor must be >= 1, got %d", mesh.ErrConfiguration, cfg.NormalDivisor)
		}
		p.Normalization.Normal = cfg.NormalDivisor
		for _, s := range cfg.UV[:cfg.UVCount] {
			p.Normalization.UV = append(p.Normalization.UV, s.Divisor)
		}
		for _, s := range cfg.RGB[:cfg.RGBCount] {
			p.Normalization.RGB = append(p.Normalization.RGB, s.Divisor)
		}
		for _, s := range cfg.Alpha[:cfg.AlphaCount] {
			p.Normalization.Alpha = append(p.Normalization.Alpha, s.Divisor)
		}
	}
	if err := p.Normalization.Validate(len(p.Mapping.UV), len(p.Mapping.RGB), len(p.Mapping.Alpha)); err != nil {
		return nil, err
	}

	transform, err := resolveTransform(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mesh.ErrConfiguration, err)
	}
	p.Transform = transform

	return p, nil
}

func resolveTransform(cfg config.ImportConfig) (math.Mat4, error) {
	axes := make([]math.Axis, 0, 4)
	for _, label := range []string{cfg.AxisForward, cfg.AxisUp, cfg.TargetForward, cfg.TargetUp} {
		a, err := math.ParseAxis(label)
		if err != nil {
			return math.Identity(), err
		}
		axes = append(axes, a)
	}
	return math.AxisConversion(axes[0], axes[1], axes[2], axes[3])
}

// Result is the outcome of importing one file.
type Result struct {
	Path    string
	Mesh    *mesh.Mesh
	Rows    int
	Dropped int
	Elapsed time.Duration
}

// Importer imports CSV files with a fixed plan.
type Importer struct {
	plan *Plan
	log  *zap.Logger
}

// New resolves cfg and returns an Importer. A nil logger discards output.
func New(cfg config.ImportConfig, log *zap.Logger) (*Importer, error) {
	plan, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{plan: plan, log: log}, nil
}

// Plan returns the resolved plan.
func (im *Importer) Plan() *Plan {
	return im.plan
}

// Import decodes and assembles the CSV file at path. The mesh is named
// after the file.
func (im *Importer) Import(path string) (*Result, error) {
	start := time.Now()

	decoded, err := formats.DecodeFile(path, im.plan.Mapping, im.plan.Options)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if decoded.Dropped > 0 {
		im.log.Warn("row count is not a multiple of 3, trailing rows have no face",
			zap.String("file", path),
			zap.Int("rows", decoded.Rows),
			zap.Int("dropped", decoded.Dropped))
	}

	m, err := mesh.Assemble(decoded.Input(), im.plan.Normalization, im.plan.Transform)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", path, err)
	}
	m.Name = MeshName(path)

	res := &Result{
		Path:    path,
		Mesh:    m,
		Rows:    decoded.Rows,
		Dropped: decoded.Dropped,
		Elapsed: time.Since(start),
	}
	im.log.Debug("imported",
		zap.String("file", path),
		zap.String("mesh", m.Name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("faces", m.FaceCount()),
		zap.Strings("layers", m.LayerNames()),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// ImportAll imports paths concurrently with at most workers in flight
// (0 means one per CPU). Results keep the order of paths. The first error
// stops any imports that have not started yet.
func (im *Importer) ImportAll(ctx context.Context, paths []string, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := im.Import(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// MeshName derives a mesh name from a file path.
func MeshName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath returns where the OBJ for path is written inside dir.
func OutputPath(dir, path string) string {
	return filepath.Join(dir, MeshName(path)+".obj")
}

// CheckOutputs reports an error if any two paths share an output file in dir.
func CheckOutputs(dir string, paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		out := OutputPath(dir, path)
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrOutputCollision, prev, path, out)
		}
		seen[out] = path
	}
	return nil
}

// Export writes res as OBJ into dir, enabling smooth shading when the plan
// requests cleanup.
func (im *Importer) Export(res *Result, dir string) (string, error) {
	out := OutputPath(dir, res.Path)
	opts := formats.OBJOptions{
		Smooth:    im.plan.Cleanup,
		VertexRGB: len(res.Mesh.RGBLayers) > 0,
	}
	if err := formats.WriteOBJFile(out, res.Mesh, opts); err != nil {
		return "", err
	}
	im.log.Info("wrote mesh",
		zap.String("output", out),
		zap.Int("vertices", res.Mesh.VertexCount()),
		zap.Int("faces", res.Mesh.FaceCount()))
	return out, nil
}
