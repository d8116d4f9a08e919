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
	"io/ioutil"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ThomasHabets/bspconv/pkg/q3bsp"
	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

// A Material is what the converter needs to know about a shader.
type Material struct {
	Name       string `yaml:"name"`
	Sky        bool   `yaml:"sky"`
	SkyName    string `yaml:"skyname"`
	NoLightmap bool   `yaml:"nolightmap"`
	NoDraw     bool   `yaml:"nodraw"`

	// Lightmap names an external lightmap image, without extension,
	// relative to the content directory.
	Lightmap string `yaml:"lightmap"`
}

// SurfFlags returns the texinfo flags of the material.
func (m *Material) SurfFlags() int32 {
	var f int32
	if m.Sky {
		f |= vbsp.SurfSky | vbsp.SurfNoLight
	}
	if m.NoLightmap {
		f |= vbsp.SurfNoLight
	}
	if m.NoDraw {
		f |= vbsp.SurfNoDraw
	}
	return f
}

// Materials maps lower case shader names to materials.
type Materials map[string]*Material

func materialKey(name string) string {
	return strings.ToLower(name)
}

// MaterialsFromShaders derives materials from the compiled shader flags.
func MaterialsFromShaders(shaders []q3bsp.Shader) Materials {
	m := make(Materials)
	for n := range shaders {
		s := &shaders[n]
		name := s.Name()
		m[materialKey(name)] = &Material{
			Name:       name,
			Sky:        s.SurfaceFlags&q3bsp.SurfSky != 0,
			NoLightmap: s.SurfaceFlags&q3bsp.SurfNoLightmap != 0,
			NoDraw:     s.SurfaceFlags&q3bsp.SurfNoDraw != 0,
		}
	}
	return m
}

// LoadMaterials reads a YAML list of materials.
//
// E.g.:
//   - name: textures/skies/space
//     sky: true
//     skyname: space
//   - name: textures/base/lamp
//     lightmap: maps/mymap/lm_0000
func LoadMaterials(fn string) (Materials, error) {
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	var list []*Material
	if err := yaml.Unmarshal(b, &list); err != nil {
		return nil, errors.Wrapf(err, "parsing %q", fn)
	}
	m := make(Materials)
	for n, mat := range list {
		if mat == nil || mat.Name == "" {
			return nil, errors.Errorf("%q: material %d has no name", fn, n)
		}
		m[materialKey(mat.Name)] = mat
	}
	return m, nil
}

// Merge overlays o onto m. Materials in o replace those in m.
func (m Materials) Merge(o Materials) {
	for k, v := range o {
		m[k] = v
	}
}

// Lookup returns the material of a shader, or a plain one if unknown.
func (m Materials) Lookup(name string) *Material {
	if mat, ok := m[materialKey(name)]; ok {
		return mat
	}
	return &Material{Name: name}
}

// SkyName returns the sky box name, taken from the sky material that sorts
// first. Empty if there is none.
func (m Materials) SkyName() string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if mat := m[k]; mat.Sky && mat.SkyName != "" {
			return mat.SkyName
		}
	}
	return ""
}

// ExternalLightmaps returns the sorted external lightmap names in use.
func (m Materials) ExternalLightmaps() []string {
	seen := make(map[string]bool)
	for _, mat := range m {
		if mat.Lightmap != "" {
			seen[mat.Lightmap] = true
		}
	}
	var ret []string
	for k := range seen {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// brushContents maps source content flags to target brush contents.
func brushContents(c uint32) int32 {
	var ret int32
	for _, m := range []struct {
		from uint32
		to   int32
	}{
		{q3bsp.ContentsSolid, vbsp.ContentsSolid},
		{q3bsp.ContentsWater, vbsp.ContentsWater},
		{q3bsp.ContentsSlime, vbsp.ContentsSlime},
		{q3bsp.ContentsLava, vbsp.ContentsSlime},
		{q3bsp.ContentsPlayerClip, vbsp.ContentsPlayerClip},
		{q3bsp.ContentsMonsterClip, vbsp.ContentsMonsterClip},
		{q3bsp.ContentsDetail, vbsp.ContentsDetail},
		{q3bsp.ContentsTranslucent, vbsp.ContentsTranslucent},
	} {
		if c&m.from != 0 {
			ret |= m.to
		}
	}
	return ret
}
