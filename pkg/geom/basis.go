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
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BasisEpsilon is the smallest UV determinant a triangle may have and still
// define a texture basis.
const BasisEpsilon = 1e-6

// SolveTangents solves
//   [Δpos1; Δpos2] = [Δu1 Δv1; Δu2 Δv2] · [tangent; bitangent]
// for the first triangle of a face. ok is false if the UV determinant is too
// small to solve.
func SolveTangents(p [3]mgl32.Vec3, uv [3]mgl32.Vec2) (tangent, bitangent mgl32.Vec3, ok bool) {
	e1 := p[1].Sub(p[0])
	e2 := p[2].Sub(p[0])
	d1 := uv[1].Sub(uv[0])
	d2 := uv[2].Sub(uv[0])

	det := d1[0]*d2[1] - d2[0]*d1[1]
	if math32.Abs(det) < BasisEpsilon {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	r := 1 / det
	tangent = e1.Mul(d2[1]).Sub(e2.Mul(d1[1])).Mul(r)
	bitangent = e2.Mul(d1[0]).Sub(e1.Mul(d2[0])).Mul(r)
	return tangent, bitangent, true
}

// Projection turns a tangent/bitangent pair into the two vectors that map a
// position back to (u, v): u = dot(pos, s) + k, v = dot(pos, q) + k'.
func Projection(tangent, bitangent mgl32.Vec3) (s, q mgl32.Vec3, ok bool) {
	n := tangent.Cross(bitangent)
	nn := n.Dot(n)
	if nn == 0 || math32.IsInf(nn, 0) || math32.IsNaN(nn) {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	s = bitangent.Cross(n).Mul(1 / nn)
	q = n.Cross(tangent).Mul(1 / nn)
	return s, q, true
}
