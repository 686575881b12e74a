package mesh

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Faultbox/csvmesh/pkg/math"
)

// Input is the set of parallel per-vertex arrays produced by a decoder.
// Index i in every array refers to the same vertex.
type Input struct {
	Positions [][3]float32
	Normals   [][3]float32
	Faces     []Face
	UVSets    [][][2]float32
	RGBSets   [][][3]float32
	AlphaSets [][]float32
}

// Assemble builds a mesh from decoded arrays, dividing attribute values by
// the normalization table and moving positions and normals through transform.
func Assemble(in Input, norm Normalization, transform math.Mat4) (*Mesh, error) {
	if err := norm.Validate(len(in.UVSets), len(in.RGBSets), len(in.AlphaSets)); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	n := len(in.Positions)
	m := &Mesh{
		ID:        uuid.New(),
		Positions: make([][3]float32, n),
		Normals:   make([][3]float32, n),
		Faces:     make([]Face, len(in.Faces)),
		Transform: transform,
	}
	copy(m.Faces, in.Faces)

	identity := transform.IsIdentity()
	nd := norm.normalDivisor()
	for i := 0; i < n; i++ {
		p := in.Positions[i]
		nrm := [3]float32{in.Normals[i][0] / nd, in.Normals[i][1] / nd, in.Normals[i][2] / nd}
		if !identity {
			p = transform.TransformPoint(p)
			nrm = transform.TransformDirection(nrm)
		}
		m.Positions[i] = p
		m.Normals[i] = nrm
	}

	for i, set := range in.UVSets {
		d := divisor(norm.UV, i)
		layer := UVLayer{Name: UVLayerName(i), Data: make([][2]float32, n)}
		for v, uv := range set {
			layer.Data[v] = [2]float32{uv[0] / d, uv[1] / d}
		}
		m.UVLayers = append(m.UVLayers, layer)
	}

	// The fourth channel stays 0 to match what the dumps are composited with.
	for i, set := range in.RGBSets {
		d := divisor(norm.RGB, i)
		layer := ColorLayer{Name: RGBLayerName(i), Data: make([][4]float32, n)}
		for v, c := range set {
			layer.Data[v] = [4]float32{c[0] / d, c[1] / d, c[2] / d, 0}
		}
		m.RGBLayers = append(m.RGBLayers, layer)
	}

	for i, set := range in.AlphaSets {
		d := divisor(norm.Alpha, i)
		layer := ColorLayer{Name: AlphaLayerName(i), Data: make([][4]float32, n)}
		for v, a := range set {
			a /= d
			layer.Data[v] = [4]float32{a, a, a, 0}
		}
		m.AlphaLayers = append(m.AlphaLayers, layer)
	}

	return m, nil
}

// validateInput checks that every array is parallel to Positions and that
// faces only reference existing vertices.
func validateInput(in Input) error {
	n := len(in.Positions)
	if len(in.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrStructural, len(in.Normals), n)
	}
	for i, set := range in.UVSets {
		if len(set) != n {
			return fmt.Errorf("%w: %s has %d entries for %d vertices", ErrStructural, UVLayerName(i), len(set), n)
		}
	}
	for i, set := range in.RGBSets {
		if len(set) != n {
			return fmt.Errorf("%w: %s has %d entries for %d vertices", ErrStructural, RGBLayerName(i), len(set), n)
		}
	}
	for i, set := range in.AlphaSets {
		if len(set) != n {
			return fmt.Errorf("%w: %s has %d entries for %d vertices", ErrStructural, AlphaLayerName(i), len(set), n)
		}
	}
	for fi, f := range in.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: face %d references vertex %d (have %d)", ErrStructural, fi, idx, n)
			}
		}
	}
	return nil
}
