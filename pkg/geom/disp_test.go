package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var fullQuad = [4]mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

func TestDispSizes(t *testing.T) {
	for _, test := range []struct {
		power, size, tris int
	}{
		{2, 5, 32},
		{3, 9, 128},
		{4, 17, 512},
	} {
		if got := DispSize(test.power); got != test.size {
			t.Errorf("DispSize(%d): got %v, want %v", test.power, got, test.size)
		}
		if got := DispTriCount(test.power); got != test.tris {
			t.Errorf("DispTriCount(%d): got %v, want %v", test.power, got, test.tris)
		}
	}
}

func TestDisplaceFlat(t *testing.T) {
	for power := 2; power <= 4; power++ {
		s := Displace(gridPatch(0), fullQuad, power)
		if got, want := len(s), DispSize(power)*DispSize(power); got != want {
			t.Fatalf("power %d: got %d samples, want %d", power, got, want)
		}
		for i, d := range s {
			if d.Dist > 1e-3 {
				t.Errorf("power %d sample %d: got dist %v, want 0", power, i, d.Dist)
			}
		}
	}
}

func TestDisplaceBump(t *testing.T) {
	s := Displace(gridPatch(64), fullQuad, 2)
	center := s[2*5+2]
	if diff := center.Dist - 16; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("center dist: got %v, want 16", center.Dist)
	}
	if !center.Dir.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("center dir: got %v, want up", center.Dir)
	}
	for _, i := range []int{0, 4, 20, 24} {
		if s[i].Dist != 0 {
			t.Errorf("corner %d: got dist %v, want 0", i, s[i].Dist)
		}
	}
}

func TestBilerp(t *testing.T) {
	c := [4]mgl32.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0}}
	for _, test := range []struct {
		s, t float32
		want mgl32.Vec3
	}{
		{0, 0, c[0]},
		{1, 0, c[1]},
		{1, 1, c[2]},
		{0, 1, c[3]},
		{0.5, 0.5, mgl32.Vec3{5, 5, 0}},
	} {
		if got := Bilerp3(c, test.s, test.t); !got.ApproxEqual(test.want) {
			t.Errorf("Bilerp3(%v,%v): got %v, want %v", test.s, test.t, got, test.want)
		}
	}
}
