// Package geom holds the engine-neutral geometry used when moving levels
// between BSP formats: plane axis classification, polygon boundary
// reconstruction, quadratic Bezier patches and displacement sampling.
//
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
//
package geom

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Axis is the plane type as stored in the target plane lump.
type Axis int32

const (
	PlaneX Axis = iota
	PlaneY
	PlaneZ
	PlaneAnyX
	PlaneAnyY
	PlaneAnyZ
)

func (a Axis) String() string {
	switch a {
	case PlaneX:
		return "X"
	case PlaneY:
		return "Y"
	case PlaneZ:
		return "Z"
	case PlaneAnyX:
		return "AnyX"
	case PlaneAnyY:
		return "AnyY"
	case PlaneAnyZ:
		return "AnyZ"
	}
	return fmt.Sprintf("Axis(%d)", int32(a))
}

// Major returns the component index (0, 1 or 2) the axis is aligned with.
func (a Axis) Major() int {
	return int(a) % 3
}

// ClassifyAxis returns the axis type of a plane normal.
//
// An exact ±1 component wins, checked X, Y, Z in that order. Otherwise the
// largest absolute component wins, ties going to X, then Y.
func ClassifyAxis(n mgl32.Vec3) Axis {
	if n[0] == 1 || n[0] == -1 {
		return PlaneX
	}
	if n[1] == 1 || n[1] == -1 {
		return PlaneY
	}
	if n[2] == 1 || n[2] == -1 {
		return PlaneZ
	}

	ax := math32.Abs(n[0])
	ay := math32.Abs(n[1])
	az := math32.Abs(n[2])
	if ax >= ay && ax >= az {
		return PlaneAnyX
	}
	if ay >= ax && ay >= az {
		return PlaneAnyY
	}
	return PlaneAnyZ
}

// DefaultTextureAxes returns the axis-aligned texture basis used when a
// face's UVs don't define one.
func DefaultTextureAxes(n mgl32.Vec3) (u, v mgl32.Vec3) {
	switch ClassifyAxis(n).Major() {
	case 0:
		return mgl32.Vec3{0, 4, 0}, mgl32.Vec3{0, 0, -4}
	case 1:
		return mgl32.Vec3{4, 0, 0}, mgl32.Vec3{0, 0, -4}
	default:
		return mgl32.Vec3{4, 0, 0}, mgl32.Vec3{0, -4, 0}
	}
}
