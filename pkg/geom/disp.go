package geom

// QPov
//
// Copyright (C) Thomas Habets <thomas@habets.se> 2015
// https://github.com/ThomasHabets/qpov
//
//   This program is free software; you can redistribute it and/or modify
//   it under the terms of the GNU General Public License as published by
//   the Free Software Foundation; either version 2 of the License, or
//   (at your option) any later version.
//
//   This program is distributed in the hope that it will be useful,
//   but WITHOUT ANY WARRANTY; without even the implied warranty of
//   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//   GNU General Public License for more details.
//
//   You should have received a copy of the GNU General Public License along
//   with this program; if not, write to the Free Software Foundation, Inc.,
//   51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.

import (
	"github.com/go-gl/mathgl/mgl32"
)

// A DispSample is one displacement vertex, stored as an offset from the flat
// base quad: unit direction and distance.
type DispSample struct {
	Dir  mgl32.Vec3
	Dist float32
}

// DispSize returns the number of vertices along one side of a displacement.
func DispSize(power int) int {
	return 1<<uint(power) + 1
}

// DispTriCount returns the number of triangle flag entries of a displacement.
func DispTriCount(power int) int {
	n := 1 << uint(power)
	return 2 * n * n
}

// Displace samples the patch on a DispSize(power)² grid.
//
// corners are the (u, v) patch coordinates of the base quad's four corners in
// face loop order. Rows run from corner 0 towards corner 1, columns from corner
// 0 towards corner 3, which is how the target engine walks a displacement.
// Each sample is the patch point minus the bilinear blend of the corner
// positions at the same grid spot.
func Displace(p *Patch, corners [4]mgl32.Vec2, power int) []DispSample {
	size := DispSize(power)
	steps := float32(size - 1)

	var pos [4]mgl32.Vec3
	for i, c := range corners {
		pos[i] = p.Point(c[0], c[1])
	}

	ret := make([]DispSample, 0, size*size)
	for r := 0; r < size; r++ {
		s := float32(r) / steps
		for c := 0; c < size; c++ {
			t := float32(c) / steps
			uv := Bilerp2(corners, s, t)
			d := p.Point(uv[0], uv[1]).Sub(Bilerp3(pos, s, t))
			l := d.Len()
			if l == 0 {
				ret = append(ret, DispSample{})
				continue
			}
			ret = append(ret, DispSample{Dir: d.Mul(1 / l), Dist: l})
		}
	}
	return ret
}

// Bilerp3 blends four quad corners: s moves from corner 0 to 1 (and 3 to 2),
// t from the 0-1 edge to the 3-2 edge.
func Bilerp3(c [4]mgl32.Vec3, s, t float32) mgl32.Vec3 {
	a := lerp3(c[0], c[1], s)
	b := lerp3(c[3], c[2], s)
	return lerp3(a, b, t)
}

// Bilerp2 is Bilerp3 for 2D coordinates.
func Bilerp2(c [4]mgl32.Vec2, s, t float32) mgl32.Vec2 {
	a := c[0].Add(c[1].Sub(c[0]).Mul(s))
	b := c[3].Add(c[2].Sub(c[3]).Mul(s))
	return a.Add(b.Sub(a).Mul(t))
}

func lerp3(a, b mgl32.Vec3, f float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(f))
}
