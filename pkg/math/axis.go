package math

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAxis is returned for unknown axis labels or a forward/up pair
// that shares an axis.
var ErrInvalidAxis = errors.New("invalid axis")

// Axis is a signed coordinate axis label such as "Z" or "-Y".
type Axis string

// Axis labels.
const (
	AxisX    Axis = "X"
	AxisY    Axis = "Y"
	AxisZ    Axis = "Z"
	AxisNegX Axis = "-X"
	AxisNegY Axis = "-Y"
	AxisNegZ Axis = "-Z"
)

// Default source and target conventions. CSV dumps are usually Y-up with Z
// forward; the target is Z-up with Y forward.
const (
	DefaultSourceForward = AxisZ
	DefaultSourceUp      = AxisY
	DefaultTargetForward = AxisY
	DefaultTargetUp      = AxisZ
)

// ParseAxis parses an axis label (case-insensitive, optional leading '-').
func ParseAxis(s string) (Axis, error) {
	a := Axis(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := a.vector(); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidAxis, s)
	}
	return a, nil
}

// String returns the axis label.
func (a Axis) String() string {
	return string(a)
}

// Vector returns the unit vector for the axis, or the zero vector if the
// label is unknown.
func (a Axis) Vector() Vec3 {
	v, _ := a.vector()
	return v
}

func (a Axis) vector() (Vec3, bool) {
	switch a {
	case AxisX:
		return Vec3{1, 0, 0}, true
	case AxisY:
		return Vec3{0, 1, 0}, true
	case AxisZ:
		return Vec3{0, 0, 1}, true
	case AxisNegX:
		return Vec3{-1, 0, 0}, true
	case AxisNegY:
		return Vec3{0, -1, 0}, true
	case AxisNegZ:
		return Vec3{0, 0, -1}, true
	default:
		return Vec3{}, false
	}
}

// basis returns the right-handed frame (forward, up, forward x up).
func basis(forward, up Axis) ([3]Vec3, error) {
	f, ok := forward.vector()
	if !ok {
		return [3]Vec3{}, fmt.Errorf("%w: %q", ErrInvalidAxis, string(forward))
	}
	u, ok := up.vector()
	if !ok {
		return [3]Vec3{}, fmt.Errorf("%w: %q", ErrInvalidAxis, string(up))
	}
	if f.Dot(u) != 0 {
		return [3]Vec3{}, fmt.Errorf("%w: forward %s and up %s share an axis", ErrInvalidAxis, forward, up)
	}
	return [3]Vec3{f, u, f.Cross(u)}, nil
}

// AxisConversion returns the rotation that carries geometry authored with
// (fromForward, fromUp) into the (toForward, toUp) convention.
func AxisConversion(fromForward, fromUp, toForward, toUp Axis) (Mat4, error) {
	src, err := basis(fromForward, fromUp)
	if err != nil {
		return Identity(), fmt.Errorf("source axes: %w", err)
	}
	dst, err := basis(toForward, toUp)
	if err != nil {
		return Identity(), fmt.Errorf("target axes: %w", err)
	}
	if src == dst {
		return Identity(), nil
	}

	// M = dst * transpose(src); column j is sum_k src[k][j] * dst[k].
	var cols [3]Vec3
	for j := 0; j < 3; j++ {
		for k := 0; k < 3; k++ {
			cols[j] = cols[j].Add(dst[k].Scale(src[k].Component(j)))
		}
	}
	return FromColumns(cols[0], cols[1], cols[2]), nil
}
