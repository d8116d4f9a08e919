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

var noStyles = [4]uint8{vbsp.NoStyle, vbsp.NoStyle, vbsp.NoStyle, vbsp.NoStyle}

func (c *Converter) convertPlanes() error {
	for _, p := range c.raw.Planes {
		c.doc.Planes = append(c.doc.Planes, vbsp.Plane{
			Normal: p.Normal,
			Dist:   p.Dist,
			Type:   int32(geom.ClassifyAxis(p.Normal)),
		})
	}
	return nil
}

// convertFaces turns every source face into zero or more target faces, and
// records the result in the split map.
func (c *Converter) convertFaces() error {
	c.split = make([][]int, len(c.raw.Faces))
	c.faceStart = make([]int, len(c.raw.Faces)+1)
	c.light = make([]lightSource, len(c.raw.Faces))
	for n := range c.raw.Faces {
		c.faceStart[n] = len(c.doc.Faces)
		f := &c.raw.Faces[n]
		c.light[n] = c.faceLight(f)
		var err error
		switch f.Type {
		case q3bsp.FacePolygon, q3bsp.FaceMesh, q3bsp.FaceBillboard:
			err = c.convertPolygon(n, f)
		case q3bsp.FacePatch:
			err = c.convertPatch(n, f)
		default:
			c.skipFace(n, "unknown face type %d", f.Type)
		}
		if err != nil {
			return errors.Wrapf(err, "face %d", n)
		}
	}
	c.faceStart[len(c.raw.Faces)] = len(c.doc.Faces)
	return nil
}

func (c *Converter) skipFace(n int, s string, args ...interface{}) {
	args = append([]interface{}{n}, args...)
	c.logf("Skipping face %d: "+s, args...)
	c.report.SkippedFaces = append(c.report.SkippedFaces, n)
}

// convertPolygon converts a face made of a triangle list.
func (c *Converter) convertPolygon(n int, f *q3bsp.Face) error {
	verts := c.raw.FaceVertexes(f)
	idx := c.raw.FaceMeshVerts(f)
	if len(idx) < 3 {
		c.skipFace(n, "no triangles")
		return nil
	}
	for _, i := range idx {
		if i < 0 || int(i) >= len(verts) {
			c.skipFace(n, "mesh vertex %d outside [0,%d)", i, len(verts))
			return nil
		}
	}

	ti, err := c.faceTexInfo(f, verts, [3]int{int(idx[0]), int(idx[1]), int(idx[2])}, c.light[n].ok())
	if err != nil {
		return err
	}
	plane, err := c.addPlane(f.Normal, verts[0].Pos)
	if err != nil {
		return err
	}

	if c.opts.usePrimitives() {
		done, err := c.addPrimitiveFace(n, plane, ti, verts, idx)
		if err != nil || done {
			return err
		}
	}

	if f.Type == q3bsp.FacePolygon {
		pts := positions(verts)
		if hull := geom.ConvexHull(pts, f.Normal); len(hull) >= 3 {
			loop := make([]mgl32.Vec3, len(hull))
			for k, i := range hull {
				loop[k] = pts[i]
			}
			_, err := c.addLoopFace(n, plane, ti, loop)
			return err
		}
	}
	for i := 0; i+2 < len(idx); i += 3 {
		tri := []mgl32.Vec3{verts[idx[i]].Pos, verts[idx[i+1]].Pos, verts[idx[i+2]].Pos}
		if _, err := c.addLoopFace(n, plane, ti, tri); err != nil {
			return err
		}
	}
	return nil
}

// addPrimitiveFace adds one face whose edge loop runs over the vertices in
// stored order, and which is drawn by a triangle list primitive. It returns
// false without adding anything if the primitive lumps would overflow.
func (c *Converter) addPrimitiveFace(n int, plane uint16, ti int16, verts []q3bsp.Vertex, idx []int32) (bool, error) {
	firstVert := len(c.doc.PrimVerts)
	firstIndex := len(c.doc.PrimIndices)
	if firstVert+len(verts) > math.MaxUint16 || firstIndex+len(idx) > math.MaxUint16 || len(c.doc.Primitives) >= math.MaxUint16 || len(verts) > math.MaxInt16 {
		c.logf("Face %d: primitive lumps full, using triangle faces", n)
		return false, nil
	}

	pts := positions(verts)
	fi, err := c.addLoopFace(n, plane, ti, pts)
	if err != nil {
		return false, err
	}
	c.doc.PrimVerts = append(c.doc.PrimVerts, pts...)
	area := float32(0)
	for k, i := range idx {
		c.doc.PrimIndices = append(c.doc.PrimIndices, uint16(int(i)+firstVert))
		if k%3 == 2 {
			area += triangleArea(pts[idx[k-2]], pts[idx[k-1]], pts[i])
		}
	}

	face := &c.doc.Faces[fi]
	face.FirstPrimID = uint16(len(c.doc.Primitives))
	face.NumPrims = 1
	face.Area = area
	c.doc.Primitives = append(c.doc.Primitives, vbsp.Primitive{
		Type:       vbsp.PrimTriList,
		FirstIndex: uint16(firstIndex),
		IndexCount: uint16(len(idx)),
		FirstVert:  uint16(firstVert),
		VertCount:  uint16(len(verts)),
	})
	return true, nil
}

// addLoopFace adds a face bounded by loop, creating one new edge per side.
// Edges run from each point back to the previous one.
func (c *Converter) addLoopFace(n int, plane uint16, ti int16, loop []mgl32.Vec3) (int, error) {
	first := len(c.doc.SurfEdges)
	for k := range loop {
		a, err := c.vertex(loop[(k+1)%len(loop)])
		if err != nil {
			return 0, err
		}
		b, err := c.vertex(loop[k])
		if err != nil {
			return 0, err
		}
		c.doc.Edges = append(c.doc.Edges, vbsp.Edge{a, b})
		c.doc.SurfEdges = append(c.doc.SurfEdges, int32(len(c.doc.Edges)-1))
	}
	return c.addFace(n, vbsp.Face{
		PlaneNum:           plane,
		Side:               1,
		FirstEdge:          int32(first),
		NumEdges:           int16(len(loop)),
		TexInfo:            ti,
		DispInfo:           vbsp.NoDispInfo,
		SurfaceFogVolumeID: vbsp.NoFogVolume,
		Styles:             noStyles,
		LightOfs:           vbsp.NoLightmap,
		Area:               polygonArea(loop),
		OrigFace:           vbsp.NoOrigFace,
	})
}

// addFace appends a face made from source face n.
func (c *Converter) addFace(n int, f vbsp.Face) (int, error) {
	if len(c.doc.Faces) >= math.MaxUint16 {
		return 0, errors.Errorf("more than %d faces", math.MaxUint16)
	}
	c.doc.Faces = append(c.doc.Faces, f)
	i := len(c.doc.Faces) - 1
	c.split[n] = append(c.split[n], i)
	return i, nil
}

// vertex returns the index of the vertex at p, adding it if it's new.
func (c *Converter) vertex(p mgl32.Vec3) (uint16, error) {
	if i, ok := c.vertexes[p]; ok {
		return i, nil
	}
	if len(c.doc.Vertexes) > math.MaxUint16 {
		return 0, errors.Errorf("more than %d vertices", math.MaxUint16+1)
	}
	i := uint16(len(c.doc.Vertexes))
	c.doc.Vertexes = append(c.doc.Vertexes, p)
	c.vertexes[p] = i
	return i, nil
}

// addPlane adds the plane through p with the normal n.
func (c *Converter) addPlane(n, p mgl32.Vec3) (uint16, error) {
	if len(c.doc.Planes) > math.MaxUint16 {
		return 0, errors.Errorf("more than %d planes", math.MaxUint16+1)
	}
	c.doc.Planes = append(c.doc.Planes, vbsp.Plane{
		Normal: n,
		Dist:   n.Dot(p),
		Type:   int32(geom.ClassifyAxis(n)),
	})
	return uint16(len(c.doc.Planes) - 1), nil
}

func positions(verts []q3bsp.Vertex) []mgl32.Vec3 {
	ret := make([]mgl32.Vec3, len(verts))
	for i, v := range verts {
		ret[i] = v.Pos
	}
	return ret
}

func triangleArea(a, b, c mgl32.Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Len() / 2
}

// polygonArea returns the area of a convex loop, as a triangle fan.
func polygonArea(loop []mgl32.Vec3) float32 {
	var a float32
	for k := 2; k < len(loop); k++ {
		a += triangleArea(loop[0], loop[k-1], loop[k])
	}
	return a
}
