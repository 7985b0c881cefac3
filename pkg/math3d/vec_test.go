package math3d

import (
	"image/color"
	"math"
	"testing"
)

func TestVec3CrossDot(t *testing.T) {
	x, y := V3(1, 0, 0), V3(0, 1, 0)
	if got := x.Cross(y); got != V3(0, 0, 1) {
		t.Errorf("x × y = %v, want (0, 0, 1)", got)
	}
	if got := x.Dot(y); got != 0 {
		t.Errorf("x · y = %v, want 0", got)
	}
	if got := V3(1, 2, 3).Dot(V3(4, 5, 6)); got != 32 {
		t.Errorf("dot = %v, want 32", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := V3(3, 0, 4).Normalize()
	if math.Abs(n.Len()-1) > eps {
		t.Errorf("len = %v, want 1", n.Len())
	}
	if got := Zero3().Normalize(); got != Zero3() {
		t.Errorf("zero normalize = %v, want zero", got)
	}
}

func TestVec3Radians(t *testing.T) {
	got := V3(180, 90, -45).Radians()
	want := V3(math.Pi, math.Pi/2, -math.Pi/4)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("Radians() = %v, want %v", got, want)
	}
}

func TestVec2Cross(t *testing.T) {
	a, b := V2(1, 0), V2(0, 1)
	if got := a.Cross(b); got != 1 {
		t.Errorf("a × b = %v, want 1", got)
	}
	if got := b.Cross(a); got != -1 {
		t.Errorf("b × a = %v, want -1", got)
	}
}

func TestColorRGBA8(t *testing.T) {
	tests := []struct {
		name string
		in   Color
		want color.RGBA
	}{
		{"white", White, color.RGBA{255, 255, 255, 255}},
		{"overbright clamps", RGB(2, -1, 0.5), color.RGBA{255, 0, 128, 255}},
		{"nan is black", Color{math.NaN(), 0, 0, 1}, color.RGBA{0, 0, 0, 255}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.RGBA8(); got != tc.want {
				t.Errorf("RGBA8() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestColorBlend(t *testing.T) {
	c := Red.Scale(0.25).Add(Blue.Scale(0.75))
	want := Color{0.25, 0, 0.75, 1}
	if c != want {
		t.Errorf("blend = %v, want %v", c, want)
	}
	if got := FromRGBA8(color.RGBA{255, 0, 0, 255}); got != Red {
		t.Errorf("FromRGBA8 = %v, want red", got)
	}
}
