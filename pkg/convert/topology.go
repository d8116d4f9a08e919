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

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

// convertNodes copies the tree. Nodes don't own faces; leaves do.
func (c *Converter) convertNodes() error {
	for _, n := range c.raw.Nodes {
		c.doc.Nodes = append(c.doc.Nodes, vbsp.Node{
			PlaneNum: n.Plane,
			Children: n.Children,
			Mins:     clampInt16(n.Mins),
			Maxs:     clampInt16(n.Maxs),
		})
	}
	return nil
}

// convertLeafs copies leaves, with the face lists rebuilt through the split
// map. Leaf 0 is the solid leaf.
func (c *Converter) convertLeafs() error {
	for n, l := range c.raw.Leafs {
		if l.Cluster > math.MaxInt16 {
			return errors.Errorf("leaf %d: cluster %d out of range", n, l.Cluster)
		}
		if l.LeafFace < 0 || l.NumLeafFaces < 0 || int(l.LeafFace+l.NumLeafFaces) > len(c.raw.LeafFaces) {
			return errors.Errorf("leaf %d: bad leafface range %d+%d", n, l.LeafFace, l.NumLeafFaces)
		}
		first := len(c.doc.LeafFaces)
		for _, sf := range c.raw.LeafFaces[l.LeafFace : l.LeafFace+l.NumLeafFaces] {
			if sf < 0 || int(sf) >= len(c.split) {
				return errors.Errorf("leaf %d: bad face %d", n, sf)
			}
			for _, tf := range c.split[sf] {
				c.doc.LeafFaces = append(c.doc.LeafFaces, uint16(tf))
			}
		}
		if len(c.doc.LeafFaces) > math.MaxUint16 {
			return errors.Errorf("more than %d leaf faces", math.MaxUint16)
		}

		leaf := vbsp.Leaf{
			Contents:        vbsp.ContentsEmpty,
			Cluster:         int16(l.Cluster),
			Mins:            clampInt16(l.Mins),
			Maxs:            clampInt16(l.Maxs),
			FirstLeafFace:   uint16(first),
			NumLeafFaces:    uint16(len(c.doc.LeafFaces) - first),
			FirstLeafBrush:  uint16(l.LeafBrush),
			NumLeafBrushes:  uint16(l.NumLeafBrushes),
			LeafWaterDataID: vbsp.NoWaterData,
		}
		switch {
		case n == 0:
			leaf.Contents = vbsp.ContentsSolid
			leaf.SetAreaFlags(0, 0)
		case l.Area < 0:
			leaf.Contents = vbsp.ContentsSolid
			leaf.SetAreaFlags(0, vbsp.LeafFlagsRadial)
		default:
			leaf.SetAreaFlags(0, vbsp.LeafFlagsRadial)
		}
		c.doc.Leafs = append(c.doc.Leafs, leaf)
	}
	return nil
}

// convertBrushes copies brushes, their sides and the leaf brush lists.
func (c *Converter) convertBrushes() error {
	if len(c.raw.LeafBrushes) > math.MaxUint16 {
		return errors.Errorf("more than %d leaf brushes", math.MaxUint16)
	}
	for _, lb := range c.raw.LeafBrushes {
		if lb < 0 || lb > math.MaxUint16 {
			return errors.Errorf("leaf brush %d out of range", lb)
		}
		c.doc.LeafBrushes = append(c.doc.LeafBrushes, uint16(lb))
	}
	for _, b := range c.raw.Brushes {
		var contents int32
		if s := c.shader(b.Shader); s != nil {
			contents = brushContents(s.ContentFlags)
		}
		c.doc.Brushes = append(c.doc.Brushes, vbsp.Brush{
			FirstSide: b.Side,
			NumSides:  b.NumSides,
			Contents:  contents,
		})
	}
	for n, s := range c.raw.BrushSides {
		if s.Plane < 0 || int(s.Plane) >= len(c.raw.Planes) {
			return errors.Errorf("brush side %d: bad plane %d", n, s.Plane)
		}
		ti, err := c.sideTexInfo(s.Shader, c.raw.Planes[s.Plane].Normal)
		if err != nil {
			return err
		}
		c.doc.BrushSides = append(c.doc.BrushSides, vbsp.BrushSide{
			PlaneNum: uint16(s.Plane),
			TexInfo:  ti,
			DispInfo: vbsp.NoDispInfo,
		})
	}
	return nil
}

// convertModels copies models. Models other than the world get a head node
// of their own, pointing at a leaf that holds their first brush. Models
// without such a leaf are dropped.
func (c *Converter) convertModels() error {
	limit := c.opts.CoordLimit()
	for n, m := range c.raw.Models {
		if outside(m.Mins, limit) || outside(m.Maxs, limit) {
			return errors.Errorf("model %d: extents %v to %v exceed ±%v", n, m.Mins, m.Maxs, limit)
		}
		if m.Face < 0 || m.NumFaces < 0 || int(m.Face+m.NumFaces) > len(c.raw.Faces) {
			return errors.Errorf("model %d: bad face range %d+%d", n, m.Face, m.NumFaces)
		}
	}
	if len(c.raw.Models) > 0 && len(c.doc.Nodes) == 0 {
		return errors.New("level has no nodes")
	}

	for n, m := range c.raw.Models {
		var head int32
		if n > 0 {
			leaf, ok := c.brushLeaf(m.Brush, m.NumBrushes)
			if !ok || len(c.doc.Planes) == 0 {
				c.logf("Dropping model %d: no leaf holds its brushes", n)
				c.report.DroppedModels = append(c.report.DroppedModels, n)
				continue
			}
			head = int32(len(c.doc.Nodes))
			c.doc.Nodes = append(c.doc.Nodes, vbsp.Node{
				Children: [2]int32{int32(-leaf - 1), int32(-leaf - 1)},
				Mins:     floorInt16(m.Mins),
				Maxs:     ceilInt16(m.Maxs),
			})
		}
		first := c.faceStart[m.Face]
		c.modelRemap[n] = len(c.doc.Models)
		c.doc.Models = append(c.doc.Models, vbsp.Model{
			Mins:      m.Mins,
			Maxs:      m.Maxs,
			Origin:    mgl32.Vec3{},
			HeadNode:  head,
			FirstFace: int32(first),
			NumFaces:  int32(c.faceStart[m.Face+m.NumFaces] - first),
		})
	}
	return nil
}

// brushLeaf returns a leaf whose brush list holds the brush first. Models
// with no brushes have none.
func (c *Converter) brushLeaf(first, num int32) (int, bool) {
	if num <= 0 {
		return 0, false
	}
	for n, l := range c.raw.Leafs {
		if l.LeafBrush < 0 || int(l.LeafBrush+l.NumLeafBrushes) > len(c.raw.LeafBrushes) {
			continue
		}
		for _, b := range c.raw.LeafBrushes[l.LeafBrush : l.LeafBrush+l.NumLeafBrushes] {
			if b == first {
				return n, true
			}
		}
	}
	return 0, false
}

// convertAreas adds the single area everything is in.
func (c *Converter) convertAreas() error {
	c.doc.Areas = append(c.doc.Areas, vbsp.Area{})
	c.doc.AreaPortals = append(c.doc.AreaPortals, vbsp.AreaPortal{})
	return nil
}

func outside(v mgl32.Vec3, limit float32) bool {
	for _, f := range v {
		if f < -limit || f > limit {
			return true
		}
	}
	return false
}

func toInt16(v int32) int16 {
	if v < math.MinInt16 {
		return math.MinInt16
	}
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(v)
}

func clampInt16(v [3]int32) [3]int16 {
	return [3]int16{toInt16(v[0]), toInt16(v[1]), toInt16(v[2])}
}

func floorInt16(v mgl32.Vec3) [3]int16 {
	return clampInt16([3]int32{int32(math32.Floor(v[0])), int32(math32.Floor(v[1])), int32(math32.Floor(v[2]))})
}

func ceilInt16(v mgl32.Vec3) [3]int16 {
	return clampInt16([3]int32{int32(math32.Ceil(v[0])), int32(math32.Ceil(v[1])), int32(math32.Ceil(v[2]))})
}
