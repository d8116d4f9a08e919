package q3bsp

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

func checkRange(what string, first, num int32, size int) error {
	if first < 0 || num < 0 || int64(first)+int64(num) > int64(size) {
		return errors.Errorf("%s range [%d,+%d) outside [0,%d)", what, first, num, size)
	}
	return nil
}

func checkIndex(what string, i int32, size int) error {
	if i < 0 || int(i) >= size {
		return errors.Errorf("%s %d outside [0,%d)", what, i, size)
	}
	return nil
}

// Validate checks that every cross reference in the file is in range, so
// that later stages can index without checking.
func (raw *Raw) Validate() error {
	for n, f := range raw.Faces {
		if err := checkIndex("shader", f.Shader, len(raw.Shaders)); err != nil {
			return errors.Wrapf(err, "face %d", n)
		}
		if err := checkRange("vertex", f.Vertex, f.NumVertices, len(raw.Vertexes)); err != nil {
			return errors.Wrapf(err, "face %d", n)
		}
		if err := checkRange("meshvert", f.MeshVert, f.NumMeshVerts, len(raw.MeshVerts)); err != nil {
			return errors.Wrapf(err, "face %d", n)
		}
		for _, mv := range raw.FaceMeshVerts(&f) {
			if err := checkIndex("meshvert offset", mv, int(f.NumVertices)); err != nil {
				return errors.Wrapf(err, "face %d", n)
			}
		}
		if f.LightmapIndex >= int32(len(raw.Lightmaps)) {
			return errors.Errorf("face %d: lightmap %d outside [0,%d)", n, f.LightmapIndex, len(raw.Lightmaps))
		}
	}
	for n, l := range raw.Leafs {
		if err := checkRange("leafface", l.LeafFace, l.NumLeafFaces, len(raw.LeafFaces)); err != nil {
			return errors.Wrapf(err, "leaf %d", n)
		}
		if err := checkRange("leafbrush", l.LeafBrush, l.NumLeafBrushes, len(raw.LeafBrushes)); err != nil {
			return errors.Wrapf(err, "leaf %d", n)
		}
	}
	for n, lf := range raw.LeafFaces {
		if err := checkIndex("face", lf, len(raw.Faces)); err != nil {
			return errors.Wrapf(err, "leafface %d", n)
		}
	}
	for n, lb := range raw.LeafBrushes {
		if err := checkIndex("brush", lb, len(raw.Brushes)); err != nil {
			return errors.Wrapf(err, "leafbrush %d", n)
		}
	}
	for n, node := range raw.Nodes {
		if err := checkIndex("plane", node.Plane, len(raw.Planes)); err != nil {
			return errors.Wrapf(err, "node %d", n)
		}
		for _, c := range node.Children {
			var err error
			if c >= 0 {
				err = checkIndex("child node", c, len(raw.Nodes))
			} else {
				err = checkIndex("child leaf", -c-1, len(raw.Leafs))
			}
			if err != nil {
				return errors.Wrapf(err, "node %d", n)
			}
		}
	}
	for n, b := range raw.Brushes {
		if err := checkRange("brushside", b.Side, b.NumSides, len(raw.BrushSides)); err != nil {
			return errors.Wrapf(err, "brush %d", n)
		}
		if err := checkIndex("shader", b.Shader, len(raw.Shaders)); err != nil {
			return errors.Wrapf(err, "brush %d", n)
		}
	}
	for n, s := range raw.BrushSides {
		if err := checkIndex("plane", s.Plane, len(raw.Planes)); err != nil {
			return errors.Wrapf(err, "brushside %d", n)
		}
		if err := checkIndex("shader", s.Shader, len(raw.Shaders)); err != nil {
			return errors.Wrapf(err, "brushside %d", n)
		}
	}
	for n, m := range raw.Models {
		if err := checkRange("face", m.Face, m.NumFaces, len(raw.Faces)); err != nil {
			return errors.Wrapf(err, "model %d", n)
		}
		if err := checkRange("brush", m.Brush, m.NumBrushes, len(raw.Brushes)); err != nil {
			return errors.Wrapf(err, "model %d", n)
		}
	}
	if len(raw.Models) == 0 {
		return errors.New("no world model")
	}
	return nil
}
