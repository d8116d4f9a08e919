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
//

// The file contains the raw file loading code.

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	// Sizes of various structs that are part of the file format.
	// This is to prevent accidentally adding fields to those structs.
	fileHeaderSize    = 4 + 4 + NumLumps*8
	fileShaderSize    = 64 + 4 + 4
	filePlaneSize     = 3*4 + 4
	fileNodeSize      = 4 + 2*4 + 2*3*4
	fileLeafSize      = 4 + 4 + 2*3*4 + 4*4
	fileModelSize     = 2*3*4 + 4*4
	fileBrushSize     = 3 * 4
	fileBrushSideSize = 2 * 4
	fileVertexSize    = 3*4 + 2*4 + 2*4 + 3*4 + 4
	fileFogSize       = 64 + 4 + 4
	fileFaceSize      = 8*4 + 2*4 + 2*4 + 3*4 + 2*3*4 + 3*4 + 2*4
	fileLightmapSize  = LightmapSize * LightmapSize * 3
	fileLightVolSize  = 3 + 3 + 2

	// Magic is the first four bytes of the file.
	Magic = "IBSP"

	// BSP file version.
	Version = 46
)

type dentry struct {
	Offset uint32
	Size   uint32
}

// RawHeader is the first thing in the file.
type RawHeader struct {
	Magic   [4]byte // "IBSP"
	Version int32   // 46 (const Version)
	Lumps   [NumLumps]dentry
}

// A Shader is a surface material reference. Faces and brushes point at these.
type Shader struct {
	NameBytes    [64]byte
	SurfaceFlags uint32
	ContentFlags uint32
}

// A Plane is a normal and a distance from the origin.
type Plane struct {
	Normal mgl32.Vec3
	Dist   float32
}

// A Node is an interior BSP node.
// Children that are negative are leaves, encoded as -(leaf+1).
type Node struct {
	Plane    int32
	Children [2]int32
	Mins     [3]int32
	Maxs     [3]int32
}

// A Leaf is a convex region at the bottom of the tree.
type Leaf struct {
	Cluster        int32 // Visdata cluster. Negative means outside the map.
	Area           int32
	Mins           [3]int32
	Maxs           [3]int32
	LeafFace       int32 // First entry in LeafFaces.
	NumLeafFaces   int32
	LeafBrush      int32 // First entry in LeafBrushes.
	NumLeafBrushes int32
}

// A Model is a set of faces and brushes. Model 0 is the world, the rest are
// brush entities referring to it as "*N".
type Model struct {
	Mins       mgl32.Vec3
	Maxs       mgl32.Vec3
	Face       int32
	NumFaces   int32
	Brush      int32
	NumBrushes int32
}

// A Brush is a convex volume used for collision.
type Brush struct {
	Side     int32
	NumSides int32
	Shader   int32
}

// A BrushSide is one bounding plane of a brush.
type BrushSide struct {
	Plane  int32
	Shader int32
}

// A Vertex carries everything a face needs per corner.
type Vertex struct {
	Pos           mgl32.Vec3
	TexCoord      mgl32.Vec2 // Surface texture coordinates.
	LightmapCoord mgl32.Vec2 // Lightmap page coordinates, [0,1].
	Normal        mgl32.Vec3
	Color         [4]uint8
}

// A Fog volume.
type Fog struct {
	NameBytes   [64]byte
	Brush       int32
	VisibleSide int32
}

// A Face is a renderable surface.
//
// For polygons and meshes Vertex/MeshVert describe a triangle list. For
// patches the vertices are a Size[0] x Size[1] control point grid.
type Face struct {
	Shader         int32
	Fog            int32
	Type           int32 // FacePolygon, FacePatch, ...
	Vertex         int32
	NumVertices    int32
	MeshVert       int32
	NumMeshVerts   int32
	LightmapIndex  int32 // Negative if the face has no lightmap.
	LightmapStart  [2]int32
	LightmapSize   [2]int32
	LightmapOrigin mgl32.Vec3
	LightmapVecs   [2]mgl32.Vec3
	Normal         mgl32.Vec3
	Size           [2]int32 // Patch dimensions.
}

// A Lightmap is one 128x128 RGB page, row major.
type Lightmap [LightmapSize][LightmapSize][3]uint8

// A LightVol is a sample of the volumetric light grid.
type LightVol struct {
	Ambient     [3]uint8
	Directional [3]uint8
	Dir         [2]uint8 // Phi, theta.
}

// Visdata is the uncompressed PVS: NumVecs vectors of VecSize bytes.
type Visdata struct {
	NumVecs int32
	VecSize int32
	Vecs    []byte
}

// Raw is the raw BSP file data. Cross references are left as indices.
type Raw struct {
	Header      RawHeader
	Entities    string
	Shaders     []Shader
	Planes      []Plane
	Nodes       []Node
	Leafs       []Leaf
	LeafFaces   []int32
	LeafBrushes []int32
	Models      []Model
	Brushes     []Brush
	BrushSides  []BrushSide
	Vertexes    []Vertex
	MeshVerts   []int32
	Fogs        []Fog
	Faces       []Face
	Lightmaps   []Lightmap
	LightVols   []LightVol
	Vis         Visdata
}

type myReader interface {
	io.Reader
	io.Seeker
}

// lumps returns the record slices in header order. Entities and visdata are
// not fixed-size records and are nil here.
func (raw *Raw) lumps() [NumLumps]interface{} {
	return [NumLumps]interface{}{
		LumpShaders:     &raw.Shaders,
		LumpPlanes:      &raw.Planes,
		LumpNodes:       &raw.Nodes,
		LumpLeafs:       &raw.Leafs,
		LumpLeafFaces:   &raw.LeafFaces,
		LumpLeafBrushes: &raw.LeafBrushes,
		LumpModels:      &raw.Models,
		LumpBrushes:     &raw.Brushes,
		LumpBrushSides:  &raw.BrushSides,
		LumpVertexes:    &raw.Vertexes,
		LumpMeshVerts:   &raw.MeshVerts,
		LumpFogs:        &raw.Fogs,
		LumpFaces:       &raw.Faces,
		LumpLightmaps:   &raw.Lightmaps,
		LumpLightVols:   &raw.LightVols,
	}
}

var recordSizes = [NumLumps]uint32{
	LumpShaders:     fileShaderSize,
	LumpPlanes:      filePlaneSize,
	LumpNodes:       fileNodeSize,
	LumpLeafs:       fileLeafSize,
	LumpLeafFaces:   4,
	LumpLeafBrushes: 4,
	LumpModels:      fileModelSize,
	LumpBrushes:     fileBrushSize,
	LumpBrushSides:  fileBrushSideSize,
	LumpVertexes:    fileVertexSize,
	LumpMeshVerts:   4,
	LumpFogs:        fileFogSize,
	LumpFaces:       fileFaceSize,
	LumpLightmaps:   fileLightmapSize,
	LumpLightVols:   fileLightVolSize,
}

// makeSlice sets *dst (a pointer to a slice) to a slice of n elements.
func makeSlice(dst interface{}, n int) {
	switch d := dst.(type) {
	case *[]Shader:
		*d = make([]Shader, n)
	case *[]Plane:
		*d = make([]Plane, n)
	case *[]Node:
		*d = make([]Node, n)
	case *[]Leaf:
		*d = make([]Leaf, n)
	case *[]int32:
		*d = make([]int32, n)
	case *[]Model:
		*d = make([]Model, n)
	case *[]Brush:
		*d = make([]Brush, n)
	case *[]BrushSide:
		*d = make([]BrushSide, n)
	case *[]Vertex:
		*d = make([]Vertex, n)
	case *[]Fog:
		*d = make([]Fog, n)
	case *[]Face:
		*d = make([]Face, n)
	case *[]Lightmap:
		*d = make([]Lightmap, n)
	case *[]LightVol:
		*d = make([]LightVol, n)
	default:
		panic(errors.Errorf("makeSlice: unknown type %T", dst))
	}
}

// LoadRaw loads a BSP file, doing minimal parsing.
func LoadRaw(r myReader) (*Raw, error) {
	raw := &Raw{}

	// Load file header.
	if err := binary.Read(r, binary.LittleEndian, &raw.Header); err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	if string(raw.Header.Magic[:]) != Magic {
		return nil, errors.Errorf("bad magic %q, want %q", raw.Header.Magic[:], Magic)
	}
	if raw.Header.Version != Version {
		return nil, errors.Errorf("wrong version %d, only %d supported", raw.Header.Version, Version)
	}

	// Load entities.
	{
		e := raw.Header.Lumps[LumpEntities]
		b := make([]byte, e.Size)
		if _, err := r.Seek(int64(e.Offset), io.SeekStart); err != nil {
			return nil, errors.Wrapf(err, "seeking to entities at %v", e.Offset)
		}
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, errors.Wrap(err, "reading entities data")
		}
		raw.Entities = cstring(b)
	}

	// Load fixed size records.
	for n, dst := range raw.lumps() {
		if dst == nil {
			continue
		}
		e := raw.Header.Lumps[n]
		if e.Size%recordSizes[n] != 0 {
			return nil, errors.Errorf("%s size %v not divisible by %v", LumpName(n), e.Size, recordSizes[n])
		}
		makeSlice(dst, int(e.Size/recordSizes[n]))
		if _, err := r.Seek(int64(e.Offset), io.SeekStart); err != nil {
			return nil, errors.Wrapf(err, "seeking to %s at %v", LumpName(n), e.Offset)
		}
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, errors.Wrapf(err, "reading %s data", LumpName(n))
		}
	}

	// Load visdata.
	if e := raw.Header.Lumps[LumpVisdata]; e.Size > 0 {
		if _, err := r.Seek(int64(e.Offset), io.SeekStart); err != nil {
			return nil, errors.Wrapf(err, "seeking to visdata at %v", e.Offset)
		}
		var hdr [2]int32
		if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
			return nil, errors.Wrap(err, "reading visdata header")
		}
		raw.Vis.NumVecs, raw.Vis.VecSize = hdr[0], hdr[1]
		n := int64(hdr[0]) * int64(hdr[1])
		if n < 0 || n+8 > int64(e.Size) {
			return nil, errors.Errorf("visdata %dx%d doesn't fit in lump of %d bytes", hdr[0], hdr[1], e.Size)
		}
		raw.Vis.Vecs = make([]byte, n)
		if _, err := io.ReadFull(r, raw.Vis.Vecs); err != nil {
			return nil, errors.Wrap(err, "reading visdata")
		}
	}
	return raw, nil
}

// Write serializes the level. Lumps are written in header order, 4 byte
// aligned, and the header is recomputed.
func (raw *Raw) Write(w io.Writer) error {
	var body bytes.Buffer
	var hdr RawHeader
	copy(hdr.Magic[:], Magic)
	hdr.Version = Version

	align := func() {
		for body.Len()%4 != 0 {
			body.WriteByte(0)
		}
	}
	lumps := raw.lumps()
	for n := 0; n < NumLumps; n++ {
		align()
		start := body.Len()
		switch n {
		case LumpEntities:
			body.WriteString(raw.Entities)
			body.WriteByte(0)
		case LumpVisdata:
			if len(raw.Vis.Vecs) > 0 {
				binary.Write(&body, binary.LittleEndian, [2]int32{raw.Vis.NumVecs, raw.Vis.VecSize})
				body.Write(raw.Vis.Vecs)
			}
		default:
			if err := binary.Write(&body, binary.LittleEndian, lumps[n]); err != nil {
				return errors.Wrapf(err, "encoding %s", LumpName(n))
			}
		}
		hdr.Lumps[n] = dentry{
			Offset: uint32(fileHeaderSize + start),
			Size:   uint32(body.Len() - start),
		}
	}
	raw.Header = hdr
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return errors.Wrap(err, "writing header")
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return errors.Wrap(err, "writing lumps")
	}
	return nil
}
