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

// ConvexHull orders a set of coplanar points into a boundary loop using gift
// wrapping, and returns the loop as indices into points.
//
// The walk starts at the point farthest from the centroid (first one wins
// ties). It stops when it gets back to a point at the starting position, or
// after len(points) points have been emitted. Concave input gives a wrong
// boundary; that is accepted.
func ConvexHull(points []mgl32.Vec3, normal mgl32.Vec3) []int {
	if len(points) == 0 {
		return nil
	}
	var hull []int
	cur := farthestFromCenter(points)
	for {
		hull = append(hull, cur)
		end := 0
		for j := 1; j < len(points); j++ {
			if points[end] == points[cur] || leftOfLine(points[cur], points[end], points[j], normal) {
				end = j
			}
		}
		cur = end
		if points[end] == points[hull[0]] || len(hull) >= len(points) {
			break
		}
	}
	return hull
}

func farthestFromCenter(points []mgl32.Vec3) int {
	var center mgl32.Vec3
	for _, p := range points {
		center = center.Add(p)
	}
	center = center.Mul(1 / float32(len(points)))

	best := 0
	bestDist := points[0].Sub(center).Len()
	for i := 1; i < len(points); i++ {
		if d := points[i].Sub(center).Len(); d > bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// leftOfLine reports whether p is on the left of the line from a to b, as seen
// looking down the normal.
func leftOfLine(a, b, p, normal mgl32.Vec3) bool {
	return b.Sub(a).Cross(p.Sub(a)).Dot(normal) > 0
}
