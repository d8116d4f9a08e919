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
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Sizes of various structs that are part of the file format.
	// This is to prevent accidentally adding fields to those structs.
	fileHeaderSize         = 4 + 4 + NumLumps*fileLumpSize + 4
	fileLumpSize           = 4 + 4 + 4 + 4
	filePlaneSize          = 3*4 + 4 + 4
	fileTexDataSize        = 3*4 + 5*4
	fileVertexSize         = 3 * 4
	fileNodeSize           = 4 + 2*4 + 2*3*2 + 2 + 2 + 2 + 2
	fileTexInfoSize        = 2*4*4 + 2*4*4 + 4 + 4
	fileFaceSize           = 2 + 1 + 1 + 4 + 2 + 2 + 2 + 2 + 4 + 4 + 4 + 2*4 + 2*4 + 4 + 2 + 2 + 4
	fileLeafV0Size         = fileLeafV1Size + 6*fileColorSize
	fileLeafV1Size         = 4 + 2 + 2 + 2*3*2 + 4*2 + 2 + 2
	fileEdgeSize           = 2 * 2
	fileModelSize          = 3*3*4 + 3*4
	fileBrushSize          = 3 * 4
	fileBrushSideSize      = 2 + 2 + 2 + 2
	fileAreaSize           = 2 * 4
	fileAreaPortalSize     = 4*2 + 4
	fileDispSubNeighbor    = 2 + 1 + 1 + 1 + 1
	fileDispCornerNeighbor = 4*2 + 1 + 1
	fileDispInfoSize       = 3*4 + 4*4 + 4 + 4 + 2 + 2 + 4 + 4 + 4*2*fileDispSubNeighbor + 4*fileDispCornerNeighbor + 10*4
	fileDispVertSize       = 3*4 + 4 + 4
	filePrimitiveSize      = 1 + 1 + 4*2
	fileColorSize          = 4
)

// Header is the first thing in the file.
type Header struct {
	Magic       [4]byte // "VBSP"
	Version     int32
	Lumps       [NumLumps]LumpEntry
	MapRevision int32
}

// A LumpEntry locates one lump in the file.
type LumpEntry struct {
	Offset  int32
	Length  int32
	Version int32
	FourCC  [4]byte // Uncompressed size for compressed lumps, else zero.
}

// A Plane is a normal and distance, plus an axis classification.
type Plane struct {
	Normal mgl32.Vec3
	Dist   float32
	Type   int32 // See geom.Axis.
}

// TexData describes a material: its name and size.
type TexData struct {
	Reflectivity      mgl32.Vec3
	NameStringTableID int32 // Index into the string table.
	Width             int32
	Height            int32
	ViewWidth         int32
	ViewHeight        int32
}

// A Node is an interior BSP node. Negative children are leaves, -(leaf+1).
type Node struct {
	PlaneNum  int32
	Children  [2]int32
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	NumFaces  uint16
	Area      int16
	Padding   int16
}

// TexInfo maps world positions to texture and lightmap coordinates:
//   u = dot(pos, vec[0].xyz) + vec[0].w
type TexInfo struct {
	TextureVecs  [2][4]float32
	LightmapVecs [2][4]float32
	Flags        int32
	TexData      int32
}

// A Face is a renderable polygon, displacement base quad, or primitive
// carrier.
type Face struct {
	PlaneNum                    uint16
	Side                        uint8
	OnNode                      uint8
	FirstEdge                   int32 // Into SurfEdges.
	NumEdges                    int16
	TexInfo                     int16
	DispInfo                    int16
	SurfaceFogVolumeID          int16
	Styles                      [4]uint8
	LightOfs                    int32 // Byte offset into the lighting lump, or -1.
	Area                        float32
	LightmapTextureMinsInLuxels [2]int32
	LightmapTextureSizeInLuxels [2]int32 // Luxels minus one.
	OrigFace                    int32
	NumPrims                    uint16
	FirstPrimID                 uint16
	SmoothingGroups             uint32
}

// A Leaf is a convex region at the bottom of the tree. This is the lump
// version 1 layout, which is also the in-memory representation.
type Leaf struct {
	Contents        int32
	Cluster         int16
	AreaFlags       uint16 // Area in the low 9 bits, flags above.
	Mins            [3]int16
	Maxs            [3]int16
	FirstLeafFace   uint16
	NumLeafFaces    uint16
	FirstLeafBrush  uint16
	NumLeafBrushes  uint16
	LeafWaterDataID int16
	Padding         int16
}

// Area returns the area of the leaf.
func (l *Leaf) Area() int {
	return int(l.AreaFlags & 0x1ff)
}

// Flags returns the leaf flags.
func (l *Leaf) Flags() int {
	return int(l.AreaFlags >> 9)
}

// SetAreaFlags sets area and flags.
func (l *Leaf) SetAreaFlags(area, flags int) {
	l.AreaFlags = uint16(area&0x1ff | flags<<9)
}

// leafV0 is the lump version 0 layout, with a compressed ambient cube.
type leafV0 struct {
	Contents        int32
	Cluster         int16
	AreaFlags       uint16
	Mins            [3]int16
	Maxs            [3]int16
	FirstLeafFace   uint16
	NumLeafFaces    uint16
	FirstLeafBrush  uint16
	NumLeafBrushes  uint16
	LeafWaterDataID int16
	AmbientLighting [6]ColorRGBExp32
	Padding         int16
}

func (l *leafV0) leaf() Leaf {
	return Leaf{
		Contents:        l.Contents,
		Cluster:         l.Cluster,
		AreaFlags:       l.AreaFlags,
		Mins:            l.Mins,
		Maxs:            l.Maxs,
		FirstLeafFace:   l.FirstLeafFace,
		NumLeafFaces:    l.NumLeafFaces,
		FirstLeafBrush:  l.FirstLeafBrush,
		NumLeafBrushes:  l.NumLeafBrushes,
		LeafWaterDataID: l.LeafWaterDataID,
	}
}

func leafToV0(l *Leaf) leafV0 {
	return leafV0{
		Contents:        l.Contents,
		Cluster:         l.Cluster,
		AreaFlags:       l.AreaFlags,
		Mins:            l.Mins,
		Maxs:            l.Maxs,
		FirstLeafFace:   l.FirstLeafFace,
		NumLeafFaces:    l.NumLeafFaces,
		FirstLeafBrush:  l.FirstLeafBrush,
		NumLeafBrushes:  l.NumLeafBrushes,
		LeafWaterDataID: l.LeafWaterDataID,
	}
}

// An Edge joins two vertices.
type Edge [2]uint16

// A Model is the world (model 0) or a brush entity.
type Model struct {
	Mins      mgl32.Vec3
	Maxs      mgl32.Vec3
	Origin    mgl32.Vec3
	HeadNode  int32
	FirstFace int32
	NumFaces  int32
}

// A Brush is a convex collision volume.
type Brush struct {
	FirstSide int32
	NumSides  int32
	Contents  int32
}

// A BrushSide is one bounding plane of a brush.
type BrushSide struct {
	PlaneNum uint16
	TexInfo  int16
	DispInfo int16
	Bevel    int16
}

// An Area is a group of leaves connected by area portals.
type Area struct {
	NumAreaPortals  int32
	FirstAreaPortal int32
}

// An AreaPortal connects two areas.
type AreaPortal struct {
	PortalKey           uint16
	OtherArea           uint16
	FirstClipPortalVert uint16
	ClipPortalVerts     uint16
	PlaneNum            int32
}

// DispSubNeighbor is half of an edge neighbor.
type DispSubNeighbor struct {
	Neighbor     uint16 // 0xFFFF if none.
	Orientation  uint8
	Span         uint8
	NeighborSpan uint8
	Padding      uint8
}

// DispCornerNeighbors lists displacements touching a corner.
type DispCornerNeighbors struct {
	Neighbors    [4]uint16
	NumNeighbors uint8
	Padding      uint8
}

// DispInfo describes a displacement built on a four sided face.
type DispInfo struct {
	StartPosition               mgl32.Vec3
	DispVertStart               int32
	DispTriStart                int32
	Power                       int32
	MinTess                     int32
	SmoothingAngle              float32
	Contents                    int32
	MapFace                     uint16
	Padding                     uint16
	LightmapAlphaStart          int32
	LightmapSamplePositionStart int32
	EdgeNeighbors               [4][2]DispSubNeighbor
	CornerNeighbors             [4]DispCornerNeighbors
	AllowedVerts                [10]uint32
}

// A DispVert is one displacement sample.
type DispVert struct {
	Vec   mgl32.Vec3
	Dist  float32
	Alpha float32
}

// A Primitive is a triangle list or strip attached to a face.
type Primitive struct {
	Type       uint8
	Padding    uint8
	FirstIndex uint16
	IndexCount uint16
	FirstVert  uint16
	VertCount  uint16
}

// ColorRGBExp32 is a color with a shared power of two exponent:
//   linear = byte * 2^exponent
type ColorRGBExp32 struct {
	R, G, B  uint8
	Exponent int8
}

// RecordSize returns the on-disk size of one record of a lump at a given lump
// version. Byte lumps return 1. Lumps that aren't modelled return 0.
func RecordSize(id LumpID, version int32) int {
	switch id {
	case LumpEntities, LumpVisibility, LumpOcclusion, LumpGameLump, LumpPakFile, LumpTexDataStringData:
		return 1
	case LumpPlanes:
		return filePlaneSize
	case LumpTexData:
		return fileTexDataSize
	case LumpVertexes, LumpPrimVerts:
		return fileVertexSize
	case LumpNodes:
		return fileNodeSize
	case LumpTexInfo:
		return fileTexInfoSize
	case LumpFaces:
		return fileFaceSize
	case LumpLighting:
		return fileColorSize
	case LumpLeafs:
		if version == 0 {
			return fileLeafV0Size
		}
		return fileLeafV1Size
	case LumpEdges:
		return fileEdgeSize
	case LumpSurfEdges, LumpTexDataStringTable:
		return 4
	case LumpModels:
		return fileModelSize
	case LumpLeafFaces, LumpLeafBrushes, LumpPrimIndices, LumpDispTris:
		return 2
	case LumpBrushes:
		return fileBrushSize
	case LumpBrushSides:
		return fileBrushSideSize
	case LumpAreas:
		return fileAreaSize
	case LumpAreaPortals:
		return fileAreaPortalSize
	case LumpDispInfo:
		return fileDispInfoSize
	case LumpDispVerts:
		return fileDispVertSize
	case LumpPrimitives:
		return filePrimitiveSize
	}
	return 0
}
