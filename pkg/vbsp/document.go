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
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Document is a level held as typed lumps. It does no validation; see
// CheckReferences.
type Document struct {
	Version     int32
	MapRevision int32

	Entities           string
	Planes             []Plane
	TexData            []TexData
	Vertexes           []mgl32.Vec3
	Visibility         []byte
	Nodes              []Node
	TexInfo            []TexInfo
	Faces              []Face
	Lighting           []ColorRGBExp32
	Occlusion          []byte
	Leafs              []Leaf
	Edges              []Edge
	SurfEdges          []int32 // Negative means the edge is walked backwards.
	Models             []Model
	LeafFaces          []uint16
	LeafBrushes        []uint16
	Brushes            []Brush
	BrushSides         []BrushSide
	Areas              []Area
	AreaPortals        []AreaPortal
	DispInfo           []DispInfo
	DispVerts          []DispVert
	GameLump           []byte
	Primitives         []Primitive
	PrimVerts          []mgl32.Vec3
	PrimIndices        []uint16
	PakFile            []byte // A zip file.
	TexDataStringData  []byte
	TexDataStringTable []int32 // Byte offsets into TexDataStringData.
	DispTris           []uint16

	// Raw holds lumps that aren't modelled, as found in the file.
	Raw map[LumpID][]byte

	// LumpVersions is the per-lump version written to the header.
	LumpVersions [NumLumps]int32
}

// emptyGameLump is a game lump directory with no entries.
var emptyGameLump = []byte{0, 0, 0, 0}

// emptyOcclusion is an occlusion lump (version 2) with no occluders, no
// polygons and no vertex indices.
var emptyOcclusion = make([]byte, 12)

// NewDocument returns a document with every modelled lump present and empty,
// edge 0 reserved, and an empty game and occlusion lump.
func NewDocument(version int32) *Document {
	d := &Document{
		Version:            version,
		Planes:             []Plane{},
		TexData:            []TexData{},
		Vertexes:           []mgl32.Vec3{},
		Visibility:         []byte{},
		Nodes:              []Node{},
		TexInfo:            []TexInfo{},
		Faces:              []Face{},
		Lighting:           []ColorRGBExp32{},
		Occlusion:          append([]byte{}, emptyOcclusion...),
		Leafs:              []Leaf{},
		Edges:              []Edge{{0, 0}},
		SurfEdges:          []int32{},
		Models:             []Model{},
		LeafFaces:          []uint16{},
		LeafBrushes:        []uint16{},
		Brushes:            []Brush{},
		BrushSides:         []BrushSide{},
		Areas:              []Area{},
		AreaPortals:        []AreaPortal{},
		DispInfo:           []DispInfo{},
		DispVerts:          []DispVert{},
		GameLump:           append([]byte{}, emptyGameLump...),
		Primitives:         []Primitive{},
		PrimVerts:          []mgl32.Vec3{},
		PrimIndices:        []uint16{},
		PakFile:            []byte{},
		TexDataStringData:  []byte{},
		TexDataStringTable: []int32{},
		DispTris:           []uint16{},
		Raw:                make(map[LumpID][]byte),
	}
	d.LumpVersions[LumpFaces] = 1
	d.LumpVersions[LumpLeafs] = 1
	d.LumpVersions[LumpLighting] = 1
	d.LumpVersions[LumpOcclusion] = 2
	return d
}

// slot returns a pointer to the field holding a lump, or nil if the lump
// isn't modelled.
func (d *Document) slot(id LumpID) interface{} {
	switch id {
	case LumpPlanes:
		return &d.Planes
	case LumpTexData:
		return &d.TexData
	case LumpVertexes:
		return &d.Vertexes
	case LumpVisibility:
		return &d.Visibility
	case LumpNodes:
		return &d.Nodes
	case LumpTexInfo:
		return &d.TexInfo
	case LumpFaces:
		return &d.Faces
	case LumpLighting:
		return &d.Lighting
	case LumpOcclusion:
		return &d.Occlusion
	case LumpLeafs:
		return &d.Leafs
	case LumpEdges:
		return &d.Edges
	case LumpSurfEdges:
		return &d.SurfEdges
	case LumpModels:
		return &d.Models
	case LumpLeafFaces:
		return &d.LeafFaces
	case LumpLeafBrushes:
		return &d.LeafBrushes
	case LumpBrushes:
		return &d.Brushes
	case LumpBrushSides:
		return &d.BrushSides
	case LumpAreas:
		return &d.Areas
	case LumpAreaPortals:
		return &d.AreaPortals
	case LumpDispInfo:
		return &d.DispInfo
	case LumpDispVerts:
		return &d.DispVerts
	case LumpGameLump:
		return &d.GameLump
	case LumpPrimitives:
		return &d.Primitives
	case LumpPrimVerts:
		return &d.PrimVerts
	case LumpPrimIndices:
		return &d.PrimIndices
	case LumpPakFile:
		return &d.PakFile
	case LumpTexDataStringData:
		return &d.TexDataStringData
	case LumpTexDataStringTable:
		return &d.TexDataStringTable
	case LumpDispTris:
		return &d.DispTris
	}
	return nil
}

// Lump returns the records of a lump: a typed slice for modelled lumps, the
// entity string for LumpEntities, or the raw bytes for anything else.
func (d *Document) Lump(id LumpID) interface{} {
	if id == LumpEntities {
		return d.Entities
	}
	if s := d.slot(id); s != nil {
		return reflect.ValueOf(s).Elem().Interface()
	}
	return d.Raw[id]
}

// SetLump replaces a lump. The value must have the type Lump returns for the
// same id.
func (d *Document) SetLump(id LumpID, v interface{}) error {
	if id < 0 || id >= NumLumps {
		return errors.Errorf("lump %d out of range", int(id))
	}
	if id == LumpEntities {
		s, ok := v.(string)
		if !ok {
			return errors.Errorf("entities lump is a string, got %T", v)
		}
		d.Entities = s
		return nil
	}
	s := d.slot(id)
	if s == nil {
		b, ok := v.([]byte)
		if !ok {
			return errors.Errorf("lump %v is raw bytes, got %T", id, v)
		}
		d.Raw[id] = b
		return nil
	}
	dst := reflect.ValueOf(s).Elem()
	src := reflect.ValueOf(v)
	if !src.IsValid() || src.Type() != dst.Type() {
		return errors.Errorf("lump %v is %v, got %T", id, dst.Type(), v)
	}
	dst.Set(src)
	return nil
}

// SetVersion sets the version recorded for a lump.
func (d *Document) SetVersion(id LumpID, v int32) error {
	if id < 0 || id >= NumLumps {
		return errors.Errorf("lump %d out of range", int(id))
	}
	d.LumpVersions[id] = v
	return nil
}

// Len returns the number of records in a lump.
func (d *Document) Len(id LumpID) int {
	if id == LumpEntities {
		return len(d.Entities)
	}
	if s := d.slot(id); s != nil {
		return reflect.ValueOf(s).Elem().Len()
	}
	return len(d.Raw[id])
}
