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
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

// Report summarizes a conversion.
type Report struct {
	RunID   string
	Input   string
	Output  string
	Version int32

	// Lumps holds record counts of the written lumps.
	Lumps map[string]int

	SourceFaces     int
	SkippedFaces    []int
	DroppedModels   []int
	DroppedEntities int
	Sounds          []string
}

var reportLumps = []vbsp.LumpID{
	vbsp.LumpPlanes,
	vbsp.LumpTexData,
	vbsp.LumpVertexes,
	vbsp.LumpNodes,
	vbsp.LumpTexInfo,
	vbsp.LumpFaces,
	vbsp.LumpLighting,
	vbsp.LumpLeafs,
	vbsp.LumpEdges,
	vbsp.LumpSurfEdges,
	vbsp.LumpModels,
	vbsp.LumpLeafFaces,
	vbsp.LumpLeafBrushes,
	vbsp.LumpBrushes,
	vbsp.LumpBrushSides,
	vbsp.LumpDispInfo,
	vbsp.LumpDispVerts,
	vbsp.LumpPrimitives,
	vbsp.LumpPrimVerts,
	vbsp.LumpPrimIndices,
}

func (c *Converter) fillReport() {
	r := &c.report
	r.Version = c.doc.Version
	r.SourceFaces = len(c.raw.Faces)
	r.Lumps = make(map[string]int)
	for _, id := range reportLumps {
		r.Lumps[id.String()] = c.doc.Len(id)
	}
	r.Sounds = c.Sounds()
}

// Struct returns the report as a protobuf Struct.
func (r *Report) Struct() (*structpb.Struct, error) {
	lumps := make(map[string]interface{})
	for k, v := range r.Lumps {
		lumps[k] = v
	}
	return structpb.NewStruct(map[string]interface{}{
		"run_id":           r.RunID,
		"input":            r.Input,
		"output":           r.Output,
		"version":          r.Version,
		"lumps":            lumps,
		"source_faces":     r.SourceFaces,
		"skipped_faces":    intList(r.SkippedFaces),
		"dropped_models":   intList(r.DroppedModels),
		"dropped_entities": r.DroppedEntities,
		"sounds":           stringList(r.Sounds),
	})
}

// JSON returns the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	s, err := r.Struct()
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}

func intList(l []int) []interface{} {
	ret := make([]interface{}, len(l))
	for i, v := range l {
		ret[i] = v
	}
	return ret
}

func stringList(l []string) []interface{} {
	ret := make([]interface{}, len(l))
	for i, v := range l {
		ret[i] = v
	}
	return ret
}
