package formats

import (
	"fmt"

	"github.com/Faultbox/csvmesh/pkg/mesh"
)

// MaxInstances is the maximum number of UV, RGB or alpha instances.
const MaxInstances = 5

// ColumnMapping tells the CSV decoder which 0-indexed columns supply each
// vertex attribute. Only the listed UV, RGB and alpha instances are read.
type ColumnMapping struct {
	Position [3]int
	Normal   [3]int
	UV       [][2]int
	RGB      [][3]int
	Alpha    []int
}

// DefaultMapping returns the column layout of a typical GPU capture dump.
func DefaultMapping() ColumnMapping {
	return ColumnMapping{
		Position: [3]int{2, 3, 4},
		Normal:   [3]int{6, 7, 8},
		UV:       [][2]int{{14, 15}},
	}
}

// Validate checks instance counts and column indices. The returned error
// wraps mesh.ErrConfiguration.
func (m ColumnMapping) Validate() error {
	if len(m.UV) > MaxInstances {
		return fmt.Errorf("%w: %d UV maps (max %d)", mesh.ErrConfiguration, len(m.UV), MaxInstances)
	}
	if len(m.RGB) > MaxInstances {
		return fmt.Errorf("%w: %d RGB color sets (max %d)", mesh.ErrConfiguration, len(m.RGB), MaxInstances)
	}
	if len(m.Alpha) > MaxInstances {
		return fmt.Errorf("%w: %d alpha color sets (max %d)", mesh.ErrConfiguration, len(m.Alpha), MaxInstances)
	}

	check := func(name string, cols ...int) error {
		for _, c := range cols {
			if c < 0 {
				return fmt.Errorf("%w: %s column %d is negative", mesh.ErrConfiguration, name, c)
			}
		}
		return nil
	}
	if err := check("position", m.Position[:]...); err != nil {
		return err
	}
	if err := check("normal", m.Normal[:]...); err != nil {
		return err
	}
	for i, uv := range m.UV {
		if err := check(mesh.UVLayerName(i), uv[:]...); err != nil {
			return err
		}
	}
	for i, rgb := range m.RGB {
		if err := check(mesh.RGBLayerName(i), rgb[:]...); err != nil {
			return err
		}
	}
	for i, a := range m.Alpha {
		if err := check(mesh.AlphaLayerName(i), a); err != nil {
			return err
		}
	}
	return nil
}

// MaxColumn returns the highest column index the mapping reads. A row needs
// at least MaxColumn()+1 fields.
func (m ColumnMapping) MaxColumn() int {
	highest := 0
	for _, c := range m.columns() {
		if c > highest {
			highest = c
		}
	}
	return highest
}

// missingColumn returns the first column, in decode order, that a row of
// n fields does not have, or -1.
func (m ColumnMapping) missingColumn(n int) int {
	for _, c := range m.columns() {
		if c >= n {
			return c
		}
	}
	return -1
}

// columns lists every mapped column in the order the decoder reads them.
func (m ColumnMapping) columns() []int {
	cols := make([]int, 0, 6+2*len(m.UV)+3*len(m.RGB)+len(m.Alpha))
	cols = append(cols, m.Position[:]...)
	cols = append(cols, m.Normal[:]...)
	for _, uv := range m.UV {
		cols = append(cols, uv[:]...)
	}
	for _, rgb := range m.RGB {
		cols = append(cols, rgb[:]...)
	}
	return append(cols, m.Alpha...)
}
