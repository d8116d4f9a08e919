package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestClassifyAxis(t *testing.T) {
	for _, test := range []struct {
		n    mgl32.Vec3
		want Axis
	}{
		{mgl32.Vec3{1, 0, 0}, PlaneX},
		{mgl32.Vec3{-1, 0, 0}, PlaneX},
		{mgl32.Vec3{0, -1, 0}, PlaneY},
		{mgl32.Vec3{0, 0, 1}, PlaneZ},
		{mgl32.Vec3{0.8, 0.6, 0}, PlaneAnyX},
		{mgl32.Vec3{0.6, -0.8, 0}, PlaneAnyY},
		{mgl32.Vec3{0, 0.6, -0.8}, PlaneAnyZ},
		// Ties go to X, then Y.
		{mgl32.Vec3{0.5, 0.5, 0.5}, PlaneAnyX},
		{mgl32.Vec3{0.1, 0.7, -0.7}, PlaneAnyY},
	} {
		if got := ClassifyAxis(test.n); got != test.want {
			t.Errorf("ClassifyAxis(%v): got %v, want %v", test.n, got, test.want)
		}
	}
}

func TestDefaultTextureAxes(t *testing.T) {
	for _, test := range []struct {
		n    mgl32.Vec3
		u, v mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 4, 0}, mgl32.Vec3{0, 0, -4}},
		{mgl32.Vec3{0.2, -0.9, 0.1}, mgl32.Vec3{4, 0, 0}, mgl32.Vec3{0, 0, -4}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{4, 0, 0}, mgl32.Vec3{0, -4, 0}},
	} {
		u, v := DefaultTextureAxes(test.n)
		if u != test.u || v != test.v {
			t.Errorf("DefaultTextureAxes(%v): got %v %v, want %v %v", test.n, u, v, test.u, test.v)
		}
	}
}
