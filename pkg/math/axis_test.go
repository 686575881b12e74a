package math

import (
	"errors"
	"testing"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    Axis
		wantErr bool
	}{
		{"X", AxisX, false},
		{"y", AxisY, false},
		{" -z ", AxisNegZ, false},
		{"-X", AxisNegX, false},
		{"W", "", true},
		{"", "", true},
		{"+Z", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAxis(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAxis(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAxis) {
				t.Errorf("expected ErrInvalidAxis, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseAxis(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAxisConversion_Same(t *testing.T) {
	m, err := AxisConversion(AxisY, AxisZ, AxisY, AxisZ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsIdentity() {
		t.Errorf("expected identity, got %v", m)
	}
}

func TestAxisConversion_YUpToZUp(t *testing.T) {
	m, err := AxisConversion(DefaultSourceForward, DefaultSourceUp, DefaultTargetForward, DefaultTargetUp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		in   [3]float32
		want [3]float32
	}{
		{"x flips", [3]float32{1, 0, 0}, [3]float32{-1, 0, 0}},
		{"up becomes z", [3]float32{0, 1, 0}, [3]float32{0, 0, 1}},
		{"forward becomes y", [3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
		{"mixed", [3]float32{1, 2, 3}, [3]float32{-1, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.TransformPoint(tt.in); got != tt.want {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAxisConversion_MapsForwardAndUp(t *testing.T) {
	pairs := [][2]Axis{
		{AxisNegZ, AxisY},
		{AxisX, AxisNegY},
		{AxisNegY, AxisNegX},
		{AxisZ, AxisX},
	}
	for _, src := range pairs {
		for _, dst := range pairs {
			m, err := AxisConversion(src[0], src[1], dst[0], dst[1])
			if err != nil {
				t.Fatalf("%v -> %v: %v", src, dst, err)
			}
			if got := m.TransformDirection(arr(src[0].Vector())); got != arr(dst[0].Vector()) {
				t.Errorf("%v -> %v: forward mapped to %v", src, dst, got)
			}
			if got := m.TransformDirection(arr(src[1].Vector())); got != arr(dst[1].Vector()) {
				t.Errorf("%v -> %v: up mapped to %v", src, dst, got)
			}
		}
	}
}

func TestAxisConversion_Invalid(t *testing.T) {
	tests := []struct {
		name                   string
		fromF, fromU, toF, toU Axis
	}{
		{"same source axis", AxisZ, AxisNegZ, AxisY, AxisZ},
		{"same target axis", AxisZ, AxisY, AxisY, AxisY},
		{"unknown label", Axis("Q"), AxisY, AxisY, AxisZ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AxisConversion(tt.fromF, tt.fromU, tt.toF, tt.toU)
			if !errors.Is(err, ErrInvalidAxis) {
				t.Errorf("expected ErrInvalidAxis, got %v", err)
			}
		})
	}
}

func arr(v Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
