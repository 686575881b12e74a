// Package mesh assembles decoded vertex attribute arrays into a
// host-agnostic indexed triangle mesh.
package mesh

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Faultbox/csvmesh/pkg/math"
)

// Mesh errors.
var (
	ErrConfiguration = errors.New("invalid import configuration")
	ErrStructural    = errors.New("inconsistent mesh data")
)

// Face is a triangle given as three vertex indices.
type Face [3]int

// Flipped returns the face with reversed winding (c, b, a).
func (f Face) Flipped() Face {
	return Face{f[2], f[1], f[0]}
}

// UVLayer is a named per-vertex texture coordinate layer.
type UVLayer struct {
	Name string
	Data [][2]float32
}

// ColorLayer is a named per-vertex RGBA color layer.
type ColorLayer struct {
	Name string
	Data [][4]float32
}

// Mesh is an assembled triangle mesh, ready to be handed to a host.
type Mesh struct {
	ID        uuid.UUID
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	Faces     []Face

	UVLayers    []UVLayer
	RGBLayers   []ColorLayer
	AlphaLayers []ColorLayer

	// Transform has already been applied to Positions and Normals.
	Transform math.Mat4
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// LayerNames returns the names of all attribute layers in creation order.
func (m *Mesh) LayerNames() []string {
	names := make([]string, 0, len(m.UVLayers)+len(m.RGBLayers)+len(m.AlphaLayers))
	for _, l := range m.UVLayers {
		names = append(names, l.Name)
	}
	for _, l := range m.RGBLayers {
		names = append(names, l.Name)
	}
	for _, l := range m.AlphaLayers {
		names = append(names, l.Name)
	}
	return names
}

// Bounds returns the axis-aligned bounding box of the vertex positions.
// Both corners are zero for an empty mesh.
func (m *Mesh) Bounds() (lo, hi [3]float32) {
	if len(m.Positions) == 0 {
		return lo, hi
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < lo[i] {
				lo[i] = p[i]
			}
			if p[i] > hi[i] {
				hi[i] = p[i]
			}
		}
	}
	return lo, hi
}

// UVLayerName returns the deterministic name of UV instance i.
func UVLayerName(i int) string { return fmt.Sprintf("UV%d", i) }

// RGBLayerName returns the deterministic name of RGB instance i.
func RGBLayerName(i int) string { return fmt.Sprintf("rgb%d", i) }

// AlphaLayerName returns the deterministic name of alpha instance i.
func AlphaLayerName(i int) string { return fmt.Sprintf("alpha%d", i) }
