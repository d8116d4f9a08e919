package convert

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
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/ThomasHabets/bspconv/pkg/geom"
	"github.com/ThomasHabets/bspconv/pkg/q3bsp"
	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

const noNeighbor = 0xFFFF

// Patch coordinates of the base quad corners, in face loop order.
var dispCorners = [4]mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// convertPatch splits a W×H control grid into 3×3 sub-patches, each becoming
// one displacement.
func (c *Converter) convertPatch(n int, f *q3bsp.Face) error {
	w, h := int(f.Size[0]), int(f.Size[1])
	verts := c.raw.FaceVertexes(f)
	if w < 3 || h < 3 || w%2 == 0 || h%2 == 0 || w*h != len(verts) {
		c.skipFace(n, "malformed patch dimensions %dx%d with %d vertices", w, h, len(verts))
		return nil
	}

	ti, err := c.faceTexInfo(f, verts, [3]int{0, 1, w}, c.light[n].ok())
	if err != nil {
		return err
	}
	for py := 0; py < (h-1)/2; py++ {
		for px := 0; px < (w-1)/2; px++ {
			var pts [9]mgl32.Vec3
			var normal mgl32.Vec3
			for j := 0; j < 3; j++ {
				for i := 0; i < 3; i++ {
					v := verts[(py*2+j)*w+px*2+i]
					pts[i+j*3] = v.Pos
					normal = normal.Add(v.Normal)
				}
			}
			p, err := geom.NewPatch(pts[:])
			if err != nil {
				return err
			}
			if err := c.addDisplacement(n, p, normal, ti); err != nil {
				return errors.Wrapf(err, "sub-patch %d,%d", px, py)
			}
		}
	}
	return nil
}

// addDisplacement adds the base quad face of one sub-patch, and the
// displacement bending it into shape.
func (c *Converter) addDisplacement(n int, p *geom.Patch, normal mgl32.Vec3, ti int16) error {
	if len(c.doc.DispInfo) >= math.MaxInt16 {
		return errors.Errorf("more than %d displacements", math.MaxInt16)
	}
	power := c.opts.DisplacementPower

	loop := make([]mgl32.Vec3, len(dispCorners))
	for i, uv := range dispCorners {
		loop[i] = p.Point(uv[0], uv[1])
	}
	plane, err := c.addPlane(quadNormal(normal, loop), loop[0])
	if err != nil {
		return err
	}
	fi, err := c.addLoopFace(n, plane, ti, loop)
	if err != nil {
		return err
	}

	info := vbsp.DispInfo{
		StartPosition: loop[0],
		DispVertStart: int32(len(c.doc.DispVerts)),
		DispTriStart:  int32(len(c.doc.DispTris)),
		Power:         int32(power),
		Contents:      vbsp.ContentsSolid,
		MapFace:       uint16(fi),
	}
	for i := range info.EdgeNeighbors {
		for j := range info.EdgeNeighbors[i] {
			info.EdgeNeighbors[i][j].Neighbor = noNeighbor
		}
	}
	for i := range info.CornerNeighbors {
		for j := range info.CornerNeighbors[i].Neighbors {
			info.CornerNeighbors[i].Neighbors[j] = noNeighbor
		}
	}
	for _, s := range geom.Displace(p, dispCorners, power) {
		c.doc.DispVerts = append(c.doc.DispVerts, vbsp.DispVert{Vec: s.Dir, Dist: s.Dist})
	}
	c.doc.DispTris = append(c.doc.DispTris, make([]uint16, geom.DispTriCount(power))...)

	c.doc.Faces[fi].DispInfo = int16(len(c.doc.DispInfo))
	c.doc.DispInfo = append(c.doc.DispInfo, info)
	return nil
}

// quadNormal returns the normalized sum of the control point normals, or
// failing that the normal of the base quad.
func quadNormal(sum mgl32.Vec3, quad []mgl32.Vec3) mgl32.Vec3 {
	if l := sum.Len(); l > 0 {
		return sum.Mul(1 / l)
	}
	n := quad[1].Sub(quad[0]).Cross(quad[3].Sub(quad[0]))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{0, 0, 1}
}
