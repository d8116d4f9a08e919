package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// gridPatch returns a flat 128x128 patch with an optional bump on the
// center control point.
func gridPatch(bump float32) *Patch {
	var p Patch
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			p[i+j*3] = mgl32.Vec3{float32(i) * 64, float32(j) * 64, 0}
		}
	}
	p[4][2] = bump
	return &p
}

func TestPatchCorners(t *testing.T) {
	p := gridPatch(100)
	p[0][2] = 1
	p[2][2] = 2
	p[6][2] = 3
	p[8][2] = 4
	for _, test := range []struct {
		u, v float32
		want int
	}{
		{0, 0, 0},
		{1, 0, 2},
		{0, 1, 6},
		{1, 1, 8},
	} {
		if got := p.Point(test.u, test.v); !got.ApproxEqual(p[test.want]) {
			t.Errorf("Point(%v,%v): got %v, want %v", test.u, test.v, got, p[test.want])
		}
	}
}

func TestPatchCenter(t *testing.T) {
	p := gridPatch(64)
	want := mgl32.Vec3{64, 64, 16}
	if got := p.Point(0.5, 0.5); !got.ApproxEqual(want) {
		t.Errorf("Point(0.5,0.5): got %v, want %v", got, want)
	}
}

func TestNewPatch(t *testing.T) {
	if _, err := NewPatch(make([]mgl32.Vec3, 8)); err == nil {
		t.Errorf("NewPatch(8 points): got nil error")
	}
	p, err := NewPatch(gridPatch(0)[:])
	if err != nil {
		t.Fatalf("NewPatch(9 points): %v", err)
	}
	if got, want := p[8], (mgl32.Vec3{128, 128, 0}); got != want {
		t.Errorf("control point 8: got %v, want %v", got, want)
	}
}
