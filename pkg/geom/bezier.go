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
	"github.com/pkg/errors"
)

// Patch is a biquadratic Bezier patch. Control point (i, j) is at index
// i+j*3, with i running along u and j along v.
type Patch [9]mgl32.Vec3

// NewPatch makes a patch out of exactly nine control points.
func NewPatch(points []mgl32.Vec3) (*Patch, error) {
	if len(points) != 9 {
		return nil, errors.Errorf("invalid patch control point count %d, want 9", len(points))
	}
	p := &Patch{}
	copy(p[:], points)
	return p, nil
}

// Point evaluates the patch at (u, v) in [0,1]².
func (p *Patch) Point(u, v float32) mgl32.Vec3 {
	bi := quadraticBezier(u)
	bj := quadraticBezier(v)
	var ret mgl32.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ret = ret.Add(p[i+j*3].Mul(bi[i] * bj[j]))
		}
	}
	return ret
}

func quadraticBezier(t float32) [3]float32 {
	return [3]float32{
		(1 - t) * (1 - t),
		2 * t * (1 - t),
		t * t,
	}
}
