package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Faultbox/csvmesh/pkg/mesh"
)

// OBJOptions controls Wavefront OBJ output.
type OBJOptions struct {
	Smooth     bool // emit "s 1" so shading is interpolated across faces
	VertexRGB  bool // append the first RGB layer to each "v" line
	SkipUV     bool
	SkipNormal bool
}

// WriteOBJ writes m as Wavefront OBJ. Only the first UV layer and the first
// RGB layer can be expressed; other layers are omitted.
func WriteOBJ(w io.Writer, m *mesh.Mesh, opts OBJOptions) error {
	bw := bufio.NewWriter(w)

	name := m.Name
	if name == "" {
		name = m.ID.String()
	}
	fmt.Fprintf(bw, "# csvmesh: %d vertices, %d faces\n", m.VertexCount(), m.FaceCount())
	fmt.Fprintf(bw, "o %s\n", name)

	var rgb [][4]float32
	if opts.VertexRGB && len(m.RGBLayers) > 0 {
		rgb = m.RGBLayers[0].Data
	}
	for i, p := range m.Positions {
		bw.WriteString("v ")
		writeFloats(bw, p[:]...)
		if rgb != nil {
			bw.WriteByte(' ')
			writeFloats(bw, rgb[i][:3]...)
		}
		bw.WriteByte('\n')
	}

	hasUV := !opts.SkipUV && len(m.UVLayers) > 0
	if hasUV {
		for _, uv := range m.UVLayers[0].Data {
			bw.WriteString("vt ")
			writeFloats(bw, uv[:]...)
			bw.WriteByte('\n')
		}
	}

	hasNormal := !opts.SkipNormal && len(m.Normals) > 0
	if hasNormal {
		for _, n := range m.Normals {
			bw.WriteString("vn ")
			writeFloats(bw, n[:]...)
			bw.WriteByte('\n')
		}
	}

	if opts.Smooth {
		bw.WriteString("s 1\n")
	} else {
		bw.WriteString("s off\n")
	}

	for _, f := range m.Faces {
		bw.WriteString("f")
		for _, idx := range f {
			// OBJ indices are 1-based and attributes share the vertex index.
			ref := strconv.Itoa(idx + 1)
			bw.WriteByte(' ')
			bw.WriteString(ref)
			switch {
			case hasUV && hasNormal:
				bw.WriteString("/" + ref + "/" + ref)
			case hasUV:
				bw.WriteString("/" + ref)
			case hasNormal:
				bw.WriteString("//" + ref)
			}
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// WriteOBJFile writes m to path, creating parent directories as needed.
func WriteOBJFile(path string, m *mesh.Mesh, opts OBJOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating OBJ file: %w", err)
	}
	if err := WriteOBJ(f, m, opts); err != nil {
		f.Close()
		return fmt.Errorf("writing OBJ file: %w", err)
	}
	return f.Close()
}

func writeFloats(bw *bufio.Writer, vals ...float32) {
	for i, v := range vals {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
}
