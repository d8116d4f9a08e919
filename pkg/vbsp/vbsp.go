// Package vbsp models Source engine VBSP level files (versions 20 and 21)
// as typed lumps, and reads and writes them.
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
package vbsp

import (
	"fmt"
)

// A LumpID is the index of a lump in the header. The numbering is stable
// across file versions.
type LumpID int

const (
	LumpEntities LumpID = iota
	LumpPlanes
	LumpTexData
	LumpVertexes
	LumpVisibility
	LumpNodes
	LumpTexInfo
	LumpFaces
	LumpLighting
	LumpOcclusion
	LumpLeafs
	LumpFaceIDs
	LumpEdges
	LumpSurfEdges
	LumpModels
	LumpWorldLights
	LumpLeafFaces
	LumpLeafBrushes
	LumpBrushes
	LumpBrushSides
	LumpAreas
	LumpAreaPortals
	LumpPortals
	LumpClusters
	LumpPortalVerts
	LumpClusterPortals
	LumpDispInfo
	LumpOriginalFaces
	LumpPhysDisp
	LumpPhysCollide
	LumpVertNormals
	LumpVertNormalIndices
	LumpDispLightmapAlphas
	LumpDispVerts
	LumpDispLightmapSamplePositions
	LumpGameLump
	LumpLeafWaterData
	LumpPrimitives
	LumpPrimVerts
	LumpPrimIndices
	LumpPakFile
	LumpClipPortalVerts
	LumpCubemaps
	LumpTexDataStringData
	LumpTexDataStringTable
	LumpOverlays
	LumpLeafMinDistToWater
	LumpFaceMacroTextureInfo
	LumpDispTris
	LumpPhysCollideSurface
	LumpWaterOverlays
	LumpLeafAmbientIndexHDR
	LumpLeafAmbientIndex
	LumpLightingHDR
	LumpWorldLightsHDR
	LumpLeafAmbientLightingHDR
	LumpLeafAmbientLighting
	LumpXZipPakFile
	LumpFacesHDR
	LumpMapFlags
	LumpOverlayFades

	// NumLumps is the size of the lump directory, including the unused
	// trailing entries.
	NumLumps = 64
)

var lumpNames = map[LumpID]string{
	LumpEntities:                    "entities",
	LumpPlanes:                      "planes",
	LumpTexData:                     "texdata",
	LumpVertexes:                    "vertexes",
	LumpVisibility:                  "visibility",
	LumpNodes:                       "nodes",
	LumpTexInfo:                     "texinfo",
	LumpFaces:                       "faces",
	LumpLighting:                    "lighting",
	LumpOcclusion:                   "occlusion",
	LumpLeafs:                       "leafs",
	LumpFaceIDs:                     "faceids",
	LumpEdges:                       "edges",
	LumpSurfEdges:                   "surfedges",
	LumpModels:                      "models",
	LumpWorldLights:                 "worldlights",
	LumpLeafFaces:                   "leaffaces",
	LumpLeafBrushes:                 "leafbrushes",
	LumpBrushes:                     "brushes",
	LumpBrushSides:                  "brushsides",
	LumpAreas:                       "areas",
	LumpAreaPortals:                 "areaportals",
	LumpPortals:                     "portals",
	LumpClusters:                    "clusters",
	LumpPortalVerts:                 "portalverts",
	LumpClusterPortals:              "clusterportals",
	LumpDispInfo:                    "dispinfo",
	LumpOriginalFaces:               "originalfaces",
	LumpPhysDisp:                    "physdisp",
	LumpPhysCollide:                 "physcollide",
	LumpVertNormals:                 "vertnormals",
	LumpVertNormalIndices:           "vertnormalindices",
	LumpDispLightmapAlphas:          "displightmapalphas",
	LumpDispVerts:                   "dispverts",
	LumpDispLightmapSamplePositions: "displightmapsamplepositions",
	LumpGameLump:                    "gamelump",
	LumpLeafWaterData:               "leafwaterdata",
	LumpPrimitives:                  "primitives",
	LumpPrimVerts:                   "primverts",
	LumpPrimIndices:                 "primindices",
	LumpPakFile:                     "pakfile",
	LumpClipPortalVerts:             "clipportalverts",
	LumpCubemaps:                    "cubemaps",
	LumpTexDataStringData:           "texdatastringdata",
	LumpTexDataStringTable:          "texdatastringtable",
	LumpOverlays:                    "overlays",
	LumpLeafMinDistToWater:          "leafmindisttowater",
	LumpFaceMacroTextureInfo:        "facemacrotextureinfo",
	LumpDispTris:                    "disptris",
	LumpPhysCollideSurface:          "physcollidesurface",
	LumpWaterOverlays:               "wateroverlays",
	LumpLeafAmbientIndexHDR:         "leafambientindexhdr",
	LumpLeafAmbientIndex:            "leafambientindex",
	LumpLightingHDR:                 "lightinghdr",
	LumpWorldLightsHDR:              "worldlightshdr",
	LumpLeafAmbientLightingHDR:      "leafambientlightinghdr",
	LumpLeafAmbientLighting:         "leafambientlighting",
	LumpXZipPakFile:                 "xzippakfile",
	LumpFacesHDR:                    "faceshdr",
	LumpMapFlags:                    "mapflags",
	LumpOverlayFades:                "overlayfades",
}

func (l LumpID) String() string {
	if n, ok := lumpNames[l]; ok {
		return n
	}
	return fmt.Sprintf("lump%d", int(l))
}

const (
	// Magic is the first four bytes of the file.
	Magic = "VBSP"

	// VersionOld is the older supported file version. Faces are edge loops.
	VersionOld = 20

	// VersionNew is the newer supported file version. Faces may carry
	// primitives.
	VersionNew = 21
)

// CoordLimit returns the largest absolute world coordinate the engine
// accepts for a file version.
func CoordLimit(version int32) float32 {
	if version <= VersionOld {
		return 16384
	}
	return 65536
}

// Brush and leaf contents.
const (
	ContentsEmpty       = 0
	ContentsSolid       = 0x1
	ContentsWindow      = 0x2
	ContentsGrate       = 0x8
	ContentsSlime       = 0x10
	ContentsWater       = 0x20
	ContentsOpaque      = 0x80
	ContentsPlayerClip  = 0x10000
	ContentsMonsterClip = 0x20000
	ContentsOrigin      = 0x1000000
	ContentsMonster     = 0x2000000
	ContentsDebris      = 0x4000000
	ContentsDetail      = 0x8000000
	ContentsTranslucent = 0x10000000
	ContentsLadder      = 0x20000000
)

// Texinfo surface flags.
const (
	SurfLight     = 0x1
	SurfSky2D     = 0x2
	SurfSky       = 0x4
	SurfWarp      = 0x8
	SurfTrans     = 0x10
	SurfNoPortal  = 0x20
	SurfTrigger   = 0x40
	SurfNoDraw    = 0x80
	SurfHint      = 0x100
	SurfSkip      = 0x200
	SurfNoLight   = 0x400
	SurfBumpLight = 0x800
	SurfNoShadows = 0x1000
	SurfNoDecals  = 0x2000
	SurfNoChop    = 0x4000
	SurfHitbox    = 0x8000
)

// Leaf flags, stored above the area bits.
const (
	LeafFlagsSky    = 0x1
	LeafFlagsRadial = 0x2
	LeafFlagsSky2D  = 0x4
)

// Primitive types.
const (
	PrimTriList  = 0
	PrimTriStrip = 1
)

// Sentinels.
const (
	NoDispInfo  = -1
	NoLightmap  = -1
	NoOrigFace  = -1
	NoFogVolume = -1
	NoTexInfo   = -1
	NoWaterData = -1
	NoStyle     = 255
)
