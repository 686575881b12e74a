package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/csvmesh/internal/config"
	"github.com/Faultbox/csvmesh/pkg/formats"
	"github.com/Faultbox/csvmesh/pkg/math"
	"github.com/Faultbox/csvmesh/pkg/mesh"
)

// testConfig maps position to columns 0-2, normal to 3-5 and the first UV
// slot to 6-7, with every transformation disabled.
func testConfig() config.ImportConfig {
	cfg := config.Default().Import
	cfg.MirrorX = false
	cfg.MirrorUV = false
	cfg.AxisForward, cfg.AxisUp = "Y", "Z"
	cfg.PositionColumns = [3]int{0, 1, 2}
	cfg.NormalColumns = [3]int{3, 4, 5}
	cfg.UV[0].Columns = [2]int{6, 7}
	return cfg
}

// writeCSV writes a header and n rows of 8 columns and returns the path.
func writeCSV(t *testing.T, dir, name string, n int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("x,y,z,nx,ny,nz,u,v\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%d,0,0,0,0,1,%d,512\n", i, i*2)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestResolve_Defaults(t *testing.T) {
	p, err := Resolve(config.Default().Import)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if p.Mapping.Position != [3]int{2, 3, 4} || p.Mapping.Normal != [3]int{6, 7, 8} {
		t.Errorf("unexpected mapping: %+v", p.Mapping)
	}
	if len(p.Mapping.UV) != 1 || p.Mapping.UV[0] != [2]int{14, 15} {
		t.Errorf("expected one UV map at [14 15], got %v", p.Mapping.UV)
	}
	if p.Mapping.RGB != nil || p.Mapping.Alpha != nil {
		t.Errorf("expected no color sets, got rgb=%v alpha=%v", p.Mapping.RGB, p.Mapping.Alpha)
	}
	if p.Options != formats.DefaultDecodeOptions() {
		t.Errorf("expected default decode options, got %+v", p.Options)
	}
	if !p.Cleanup {
		t.Error("expected cleanup to be requested by default")
	}

	want, _ := math.AxisConversion(math.AxisZ, math.AxisY, math.AxisY, math.AxisZ)
	if p.Transform != want {
		t.Errorf("unexpected transform: %v", p.Transform)
	}
}

func TestResolve_CountLimitsSlots(t *testing.T) {
	cfg := testConfig()
	cfg.UV[1].Columns = [2]int{99, 100}
	cfg.UVCount = 1

	p, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(p.Mapping.UV) != 1 {
		t.Fatalf("expected 1 UV map, got %d", len(p.Mapping.UV))
	}

	// The second slot points past the row and must never be read.
	im, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := im.Import(writeCSV(t, t.TempDir(), "two_uv.csv", 3))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(res.Mesh.UVLayers) != 1 || res.Mesh.UVLayers[0].Name != "UV0" {
		t.Errorf("expected only UV0, got %v", res.Mesh.LayerNames())
	}
}

func TestResolve_Normalization(t *testing.T) {
	cfg := testConfig()
	cfg.UV[0].Divisor = 1024
	cfg.NormalDivisor = 2

	p, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p.Normalization.Normal != 1 || len(p.Normalization.UV) != 0 {
		t.Errorf("show_normalize off should ignore divisors, got %+v", p.Normalization)
	}

	cfg.ShowNormalize = true
	p, err = Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p.Normalization.Normal != 2 || len(p.Normalization.UV) != 1 || p.Normalization.UV[0] != 1024 {
		t.Errorf("unexpected normalization: %+v", p.Normalization)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.ImportConfig)
	}{
		{"uv count too high", func(c *config.ImportConfig) { c.UVCount = 6 }},
		{"negative column", func(c *config.ImportConfig) { c.NormalColumns[1] = -1 }},
		{"zero divisor with normalize", func(c *config.ImportConfig) {
			c.ShowNormalize = true
			c.UV[0].Divisor = 0
		}},
		{"zero normal divisor with normalize", func(c *config.ImportConfig) {
			c.ShowNormalize = true
			c.NormalDivisor = 0
		}},
		{"bad axis", func(c *config.ImportConfig) { c.AxisUp = "W" }},
		{"parallel axes", func(c *config.ImportConfig) { c.AxisForward, c.AxisUp = "Y", "-Y" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			_, err := Resolve(cfg)
			if !errors.Is(err, mesh.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestResolve_ZeroDivisorIgnoredWithoutNormalize(t *testing.T) {
	cfg := testConfig()
	cfg.UV[0].Divisor = 0
	if _, err := Resolve(cfg); err != nil {
		t.Errorf("divisors should be ignored when show_normalize is off: %v", err)
	}
}

func TestImport(t *testing.T) {
	cfg := testConfig()
	cfg.ShowNormalize = true
	cfg.UV[0].Divisor = 1024

	im, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, err := im.Import(writeCSV(t, t.TempDir(), "crate.csv", 7))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	m := res.Mesh
	if m.Name != "crate" {
		t.Errorf("expected mesh name 'crate', got %q", m.Name)
	}
	if m.VertexCount() != 7 || m.FaceCount() != 2 {
		t.Errorf("expected 7 vertices and 2 faces, got %d and %d", m.VertexCount(), m.FaceCount())
	}
	if res.Rows != 7 || res.Dropped != 1 {
		t.Errorf("expected 7 rows and 1 dropped, got %d and %d", res.Rows, res.Dropped)
	}
	if got := m.UVLayers[0].Data[3]; got != ([2]float32{6.0 / 1024, 0.5}) {
		t.Errorf("UV0[3] = %v, want [%v 0.5]", got, float32(6.0/1024))
	}
}

func TestImport_RowError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv")
	if err := os.WriteFile(path, []byte("h\n0,0,0,0,0,1,0,0\n0,0\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	im, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := im.Import(path)
	if res != nil {
		t.Error("expected no result on error")
	}
	if !errors.Is(err, formats.ErrMalformedRow) {
		t.Errorf("expected ErrMalformedRow, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken.csv") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestImportAll(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 1; i <= 6; i++ {
		paths = append(paths, writeCSV(t, dir, fmt.Sprintf("part%d.csv", i), i*3))
	}

	im, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	results, err := im.ImportAll(context.Background(), paths, 3)
	if err != nil {
		t.Fatalf("ImportAll failed: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("result %d: got path %s, want %s", i, res.Path, paths[i])
		}
		if res.Mesh.FaceCount() != i+1 {
			t.Errorf("result %d: expected %d faces, got %d", i, i+1, res.Mesh.FaceCount())
		}
	}
}

func TestImportAll_Error(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeCSV(t, dir, "ok.csv", 3),
		filepath.Join(dir, "missing.csv"),
	}

	im, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	results, err := im.ImportAll(context.Background(), paths, 1)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if results != nil {
		t.Error("expected no results on error")
	}
}

func TestImportAll_Cancelled(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeCSV(t, dir, "a.csv", 3), writeCSV(t, dir, "b.csv", 3)}

	im, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := im.ImportAll(ctx, paths, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	im, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := im.Import(writeCSV(t, dir, "wall.csv", 3))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	out, err := im.Export(res, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out != filepath.Join(dir, "out", "wall.obj") {
		t.Errorf("unexpected output path %s", out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "s 1\n") {
		t.Error("expected smooth shading when cleanup is enabled")
	}
	if !strings.Contains(string(data), "f 1/1/1 2/2/2 3/3/3\n") {
		t.Errorf("unexpected face output:\n%s", data)
	}
}

func TestMeshName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/dumps/body.csv", "body"},
		{"head.CSV", "head"},
		{"noext", "noext"},
		{"archive.tar.csv", "archive.tar"},
	}
	for _, tt := range tests {
		if got := MeshName(tt.path); got != tt.want {
			t.Errorf("MeshName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckOutputs(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		wantErr bool
	}{
		{"distinct", []string{"a/body.csv", "a/head.csv"}, false},
		{"same base in different dirs", []string{"a/x.csv", "b/x.csv"}, true},
		{"same name different ext", []string{"x.csv", "x.txt"}, true},
		{"single", []string{"x.csv"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOutputs("out", tt.paths)
			if tt.wantErr && !errors.Is(err, ErrOutputCollision) {
				t.Errorf("expected ErrOutputCollision, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestImporter_Plan(t *testing.T) {
	im, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p := im.Plan()
	if p.Mapping.Position != [3]int{0, 1, 2} || !p.Transform.IsIdentity() || !p.Cleanup {
		t.Errorf("unexpected plan: %+v", p)
	}
}
