// Package convert turns a Quake 3 level into a Source level.
//
// A Converter does one conversion. It owns every lookup table the
// conversion builds, and stages run in a fixed order, each one appending to
// the target document: textures, planes, faces, nodes, leafs, brushes,
// models, areas, visibility, lighting and entities.
//
// The split map ties the stages together. Entry N lists the target faces
// that source face N became.
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
package convert

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/ThomasHabets/bspconv/pkg/entity"
	"github.com/ThomasHabets/bspconv/pkg/q3bsp"
	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

// Converter converts one level. It must not be reused.
type Converter struct {
	raw  *q3bsp.Raw
	opts Options
	log  Logger
	mats Materials

	// External lightmap images by material lightmap name.
	extLightmaps map[string]image.Image

	doc *vbsp.Document

	// split[n] is the target faces of source face n. faceStart[n] is the
	// first target face made for source face n, with one extra entry at the
	// end.
	split     [][]int
	faceStart []int

	// light[n] is where the lightmap of source face n comes from.
	light []lightSource

	shaderTexData []int32
	texData       map[string]int32
	texInfos      map[vbsp.TexInfo]int16
	vertexes      map[mgl32.Vec3]uint16
	modelRemap    map[int]int

	entities []*entity.Entity
	report   Report
}

// New returns a converter of raw. Materials start out as derived from the
// shader lump.
func New(raw *q3bsp.Raw, opts Options, log Logger) *Converter {
	opts.Clamp()
	if log == nil {
		log = nopLogger{}
	}
	return &Converter{
		raw:          raw,
		opts:         opts,
		log:          log,
		mats:         MaterialsFromShaders(raw.Shaders),
		extLightmaps: make(map[string]image.Image),
		texData:      make(map[string]int32),
		texInfos:     make(map[vbsp.TexInfo]int16),
		vertexes:     make(map[mgl32.Vec3]uint16),
		modelRemap:   make(map[int]int),
	}
}

// SetMaterials overlays materials onto the ones from the shader lump.
func (c *Converter) SetMaterials(m Materials) {
	c.mats.Merge(m)
}

// Materials returns the material table in use.
func (c *Converter) Materials() Materials {
	return c.mats
}

// SetExternalLightmaps sets the images that materials with an external
// lightmap sample from.
func (c *Converter) SetExternalLightmaps(imgs map[string]image.Image) {
	for k, v := range imgs {
		c.extLightmaps[k] = v
	}
}

func (c *Converter) logf(s string, args ...interface{}) {
	c.log.Log(fmt.Sprintf(s, args...))
}

// Convert runs every stage and returns the finished document. On error
// nothing is returned.
func (c *Converter) Convert() (*vbsp.Document, error) {
	if c.doc != nil {
		return nil, errors.New("converter already used")
	}
	c.doc = vbsp.NewDocument(c.opts.Version())
	for _, st := range []struct {
		name string
		f    func() error
	}{
		{"textures", c.convertTextures},
		{"planes", c.convertPlanes},
		{"faces", c.convertFaces},
		{"nodes", c.convertNodes},
		{"leafs", c.convertLeafs},
		{"brushes", c.convertBrushes},
		{"models", c.convertModels},
		{"areas", c.convertAreas},
		{"visibility", c.convertVisibility},
		{"lighting", c.convertLighting},
		{"entities", c.convertEntities},
	} {
		if err := st.f(); err != nil {
			return nil, errors.Wrapf(err, "converting %s", st.name)
		}
	}
	if err := c.doc.CheckReferences(); err != nil {
		return nil, errors.Wrap(err, "converted level is inconsistent")
	}
	c.fillReport()
	return c.doc, nil
}

// SplitMap returns, per source face, the target faces it became. Faces
// that were skipped have no entries.
func (c *Converter) SplitMap() [][]int {
	return c.split
}

// Entities returns the converted entities.
func (c *Converter) Entities() []*entity.Entity {
	return c.entities
}

// Sounds returns the sound files the converted entities play, relative to
// sound/.
func (c *Converter) Sounds() []string {
	return entity.Sounds(c.entities)
}

// Report returns statistics of the conversion.
func (c *Converter) Report() *Report {
	return &c.report
}
