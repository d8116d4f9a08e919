// Package q3bsp reads Quake 3 IBSP (version 46) level files.
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
package q3bsp

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
)

// Lump indices in the file header.
const (
	LumpEntities = iota
	LumpShaders
	LumpPlanes
	LumpNodes
	LumpLeafs
	LumpLeafFaces
	LumpLeafBrushes
	LumpModels
	LumpBrushes
	LumpBrushSides
	LumpVertexes
	LumpMeshVerts
	LumpFogs
	LumpFaces
	LumpLightmaps
	LumpLightVols
	LumpVisdata

	NumLumps
)

var lumpNames = [NumLumps]string{
	"entities", "shaders", "planes", "nodes", "leafs", "leaffaces",
	"leafbrushes", "models", "brushes", "brushsides", "vertexes",
	"meshverts", "fogs", "faces", "lightmaps", "lightvols", "visdata",
}

// LumpName returns a human readable name of a lump index.
func LumpName(n int) string {
	if n < 0 || n >= NumLumps {
		return "unknown"
	}
	return lumpNames[n]
}

// Face types.
const (
	FacePolygon   = 1
	FacePatch     = 2
	FaceMesh      = 3
	FaceBillboard = 4
)

// Surface flags as set by the map compiler on shaders.
const (
	SurfNoDamage    = 0x1
	SurfSlick       = 0x2
	SurfSky         = 0x4
	SurfLadder      = 0x8
	SurfNoImpact    = 0x10
	SurfNoMarks     = 0x20
	SurfFlesh       = 0x40
	SurfNoDraw      = 0x80
	SurfHint        = 0x100
	SurfSkip        = 0x200
	SurfNoLightmap  = 0x400
	SurfPointLight  = 0x800
	SurfMetalSteps  = 0x1000
	SurfNoSteps     = 0x2000
	SurfNonSolid    = 0x4000
	SurfLightFilter = 0x8000
	SurfAlphaShadow = 0x10000
	SurfNoDLight    = 0x20000
)

// Content flags.
const (
	ContentsSolid         = 0x1
	ContentsLava          = 0x8
	ContentsSlime         = 0x10
	ContentsWater         = 0x20
	ContentsFog           = 0x40
	ContentsAreaPortal    = 0x8000
	ContentsPlayerClip    = 0x10000
	ContentsMonsterClip   = 0x20000
	ContentsTeleporter    = 0x40000
	ContentsJumpPad       = 0x80000
	ContentsClusterPortal = 0x100000
	ContentsDoNotEnter    = 0x200000
	ContentsOrigin        = 0x1000000
	ContentsBody          = 0x2000000
	ContentsCorpse        = 0x4000000
	ContentsDetail        = 0x8000000
	ContentsStructural    = 0x10000000
	ContentsTranslucent   = 0x20000000
	ContentsTrigger       = 0x40000000
	ContentsNoDrop        = 0x80000000
)

// LightmapSize is the width and height of one lightmap page.
const LightmapSize = 128

// Name returns the shader name, up to the first NUL.
func (s *Shader) Name() string {
	return cstring(s.NameBytes[:])
}

// Name returns the fog shader name.
func (f *Fog) Name() string {
	return cstring(f.NameBytes[:])
}

func cstring(b []byte) string {
	if n := bytes.IndexByte(b, 0); n >= 0 {
		b = b[:n]
	}
	return string(b)
}

// SetName sets a shader name. Names longer than the field are truncated.
func (s *Shader) SetName(n string) {
	s.NameBytes = [64]byte{}
	copy(s.NameBytes[:len(s.NameBytes)-1], n)
}

// FaceVertexes returns the vertices of a face.
func (r *Raw) FaceVertexes(f *Face) []Vertex {
	return r.Vertexes[f.Vertex : f.Vertex+f.NumVertices]
}

// FaceMeshVerts returns the triangle list of a face. Entries index into
// FaceVertexes(f).
func (r *Raw) FaceMeshVerts(f *Face) []int32 {
	return r.MeshVerts[f.MeshVert : f.MeshVert+f.NumMeshVerts]
}

// Pixel returns the RGB value of a lightmap texel.
func (l *Lightmap) Pixel(x, y int) [3]uint8 {
	return l[y][x]
}

// Open loads and validates a level file.
func Open(fn string) (*Raw, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := LoadRaw(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %q", fn)
	}
	if err := raw.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating %q", fn)
	}
	return raw, nil
}
