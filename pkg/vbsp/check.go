package vbsp

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
	"github.com/pkg/errors"
)

func checkIndex(what string, i, size int) error {
	if i < 0 || i >= size {
		return errors.Errorf("%s %d outside [0,%d)", what, i, size)
	}
	return nil
}

func checkRange(what string, first, num, size int) error {
	if first < 0 || num < 0 || first+num > size {
		return errors.Errorf("%s range [%d,+%d) outside [0,%d)", what, first, num, size)
	}
	return nil
}

// checkChild checks a node child, which is a node or -(leaf+1).
func (d *Document) checkChild(c int32) error {
	if c >= 0 {
		return checkIndex("child node", int(c), len(d.Nodes))
	}
	return checkIndex("child leaf", int(-c-1), len(d.Leafs))
}

// CheckReferences verifies that every cross reference in the document is in
// range for the lump it points into, or is a known sentinel. The engine
// doesn't check these at load time.
func (d *Document) CheckReferences() error {
	for n, p := range d.Planes {
		if p.Type < 0 || p.Type > 5 {
			return errors.Errorf("plane %d: bad type %d", n, p.Type)
		}
	}
	for n, td := range d.TexData {
		if err := checkIndex("string table entry", int(td.NameStringTableID), len(d.TexDataStringTable)); err != nil {
			return errors.Wrapf(err, "texdata %d", n)
		}
	}
	for n, o := range d.TexDataStringTable {
		if err := checkIndex("string data offset", int(o), len(d.TexDataStringData)); err != nil {
			return errors.Wrapf(err, "string table %d", n)
		}
	}
	for n, ti := range d.TexInfo {
		if ti.TexData != NoTexInfo {
			if err := checkIndex("texdata", int(ti.TexData), len(d.TexData)); err != nil {
				return errors.Wrapf(err, "texinfo %d", n)
			}
		}
	}
	for n, e := range d.Edges {
		for _, v := range e {
			if err := checkIndex("vertex", int(v), len(d.Vertexes)); err != nil && n != 0 {
				return errors.Wrapf(err, "edge %d", n)
			}
		}
	}
	for n, se := range d.SurfEdges {
		e := int(se)
		if e < 0 {
			e = -e
		}
		if e == 0 {
			return errors.Errorf("surfedge %d: uses reserved edge 0", n)
		}
		if err := checkIndex("edge", e, len(d.Edges)); err != nil {
			return errors.Wrapf(err, "surfedge %d", n)
		}
	}
	if err := d.checkFaces(); err != nil {
		return err
	}
	for n, p := range d.Primitives {
		if err := checkRange("primindex", int(p.FirstIndex), int(p.IndexCount), len(d.PrimIndices)); err != nil {
			return errors.Wrapf(err, "primitive %d", n)
		}
		if err := checkRange("primvert", int(p.FirstVert), int(p.VertCount), len(d.PrimVerts)); err != nil {
			return errors.Wrapf(err, "primitive %d", n)
		}
		for _, i := range d.PrimIndices[p.FirstIndex : p.FirstIndex+p.IndexCount] {
			if err := checkIndex("primvert", int(i), len(d.PrimVerts)); err != nil {
				return errors.Wrapf(err, "primitive %d", n)
			}
		}
	}
	for n, di := range d.DispInfo {
		size := 1<<uint(di.Power) + 1
		if err := checkRange("dispvert", int(di.DispVertStart), size*size, len(d.DispVerts)); err != nil {
			return errors.Wrapf(err, "dispinfo %d", n)
		}
		tris := 2 * (size - 1) * (size - 1)
		if err := checkRange("disptri", int(di.DispTriStart), tris, len(d.DispTris)); err != nil {
			return errors.Wrapf(err, "dispinfo %d", n)
		}
		if err := checkIndex("face", int(di.MapFace), len(d.Faces)); err != nil {
			return errors.Wrapf(err, "dispinfo %d", n)
		}
	}
	for n, node := range d.Nodes {
		if err := checkIndex("plane", int(node.PlaneNum), len(d.Planes)); err != nil {
			return errors.Wrapf(err, "node %d", n)
		}
		for _, c := range node.Children {
			if err := d.checkChild(c); err != nil {
				return errors.Wrapf(err, "node %d", n)
			}
		}
		if err := checkRange("face", int(node.FirstFace), int(node.NumFaces), len(d.Faces)); err != nil {
			return errors.Wrapf(err, "node %d", n)
		}
		if err := checkIndex("area", int(node.Area), len(d.Areas)); err != nil {
			return errors.Wrapf(err, "node %d", n)
		}
	}
	for n, l := range d.Leafs {
		if err := checkRange("leafface", int(l.FirstLeafFace), int(l.NumLeafFaces), len(d.LeafFaces)); err != nil {
			return errors.Wrapf(err, "leaf %d", n)
		}
		if err := checkRange("leafbrush", int(l.FirstLeafBrush), int(l.NumLeafBrushes), len(d.LeafBrushes)); err != nil {
			return errors.Wrapf(err, "leaf %d", n)
		}
		if err := checkIndex("area", l.Area(), len(d.Areas)); err != nil {
			return errors.Wrapf(err, "leaf %d", n)
		}
	}
	for n, lf := range d.LeafFaces {
		if err := checkIndex("face", int(lf), len(d.Faces)); err != nil {
			return errors.Wrapf(err, "leafface %d", n)
		}
	}
	for n, lb := range d.LeafBrushes {
		if err := checkIndex("brush", int(lb), len(d.Brushes)); err != nil {
			return errors.Wrapf(err, "leafbrush %d", n)
		}
	}
	for n, b := range d.Brushes {
		if err := checkRange("brushside", int(b.FirstSide), int(b.NumSides), len(d.BrushSides)); err != nil {
			return errors.Wrapf(err, "brush %d", n)
		}
	}
	for n, bs := range d.BrushSides {
		if err := checkIndex("plane", int(bs.PlaneNum), len(d.Planes)); err != nil {
			return errors.Wrapf(err, "brushside %d", n)
		}
		if bs.TexInfo != NoTexInfo {
			if err := checkIndex("texinfo", int(bs.TexInfo), len(d.TexInfo)); err != nil {
				return errors.Wrapf(err, "brushside %d", n)
			}
		}
		if bs.DispInfo != NoDispInfo {
			if err := checkIndex("dispinfo", int(bs.DispInfo), len(d.DispInfo)); err != nil {
				return errors.Wrapf(err, "brushside %d", n)
			}
		}
	}
	for n, m := range d.Models {
		if err := checkRange("face", int(m.FirstFace), int(m.NumFaces), len(d.Faces)); err != nil {
			return errors.Wrapf(err, "model %d", n)
		}
		if err := checkIndex("head node", int(m.HeadNode), len(d.Nodes)); err != nil {
			return errors.Wrapf(err, "model %d", n)
		}
	}
	for n, a := range d.Areas {
		if err := checkRange("areaportal", int(a.FirstAreaPortal), int(a.NumAreaPortals), len(d.AreaPortals)); err != nil {
			return errors.Wrapf(err, "area %d", n)
		}
	}
	for n, ap := range d.AreaPortals {
		if len(d.Areas) > 0 && ap.OtherArea != 0 {
			if err := checkIndex("area", int(ap.OtherArea), len(d.Areas)); err != nil {
				return errors.Wrapf(err, "areaportal %d", n)
			}
		}
	}
	return nil
}

func (d *Document) checkFaces() error {
	for n, f := range d.Faces {
		if err := checkIndex("plane", int(f.PlaneNum), len(d.Planes)); err != nil {
			return errors.Wrapf(err, "face %d", n)
		}
		if err := checkIndex("texinfo", int(f.TexInfo), len(d.TexInfo)); err != nil {
			return errors.Wrapf(err, "face %d", n)
		}
		if err := checkRange("surfedge", int(f.FirstEdge), int(f.NumEdges), len(d.SurfEdges)); err != nil {
			return errors.Wrapf(err, "face %d", n)
		}
		if f.DispInfo != NoDispInfo {
			if err := checkIndex("dispinfo", int(f.DispInfo), len(d.DispInfo)); err != nil {
				return errors.Wrapf(err, "face %d", n)
			}
		}
		if err := checkRange("primitive", int(f.FirstPrimID), int(f.NumPrims), len(d.Primitives)); err != nil {
			return errors.Wrapf(err, "face %d", n)
		}
		if f.OrigFace != NoOrigFace {
			return errors.Errorf("face %d: original faces not supported, got %d", n, f.OrigFace)
		}
		if f.LightOfs != NoLightmap {
			styles := 0
			for _, s := range f.Styles {
				if s != NoStyle {
					styles++
				}
			}
			luxels := int(f.LightmapTextureSizeInLuxels[0]+1) * int(f.LightmapTextureSizeInLuxels[1]+1)
			if f.LightOfs%fileColorSize != 0 {
				return errors.Errorf("face %d: unaligned light offset %d", n, f.LightOfs)
			}
			if err := checkRange("lighting", int(f.LightOfs)/fileColorSize, luxels*styles, len(d.Lighting)); err != nil {
				return errors.Wrapf(err, "face %d", n)
			}
		}
	}
	return nil
}
