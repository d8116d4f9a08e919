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
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/ThomasHabets/bspconv/pkg/geom"
	"github.com/ThomasHabets/bspconv/pkg/q3bsp"
	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

const (
	// Nominal size of every material. The real size is only known to the
	// game.
	textureSize = 128

	// Luxels per world unit along the default lightmap axes, relative to
	// the texture axes.
	defaultLightmapScale = 0.25
)

// textureName turns a shader name into a material name.
func textureName(shader string) string {
	return strings.TrimPrefix(shader, "textures/")
}

// convertTextures adds one texdata per distinct material name. Names differing
// only in case share one.
func (c *Converter) convertTextures() error {
	c.shaderTexData = make([]int32, len(c.raw.Shaders))
	for n := range c.raw.Shaders {
		name := textureName(c.raw.Shaders[n].Name())
		key := strings.ToLower(name)
		idx, ok := c.texData[key]
		if !ok {
			idx = int32(len(c.doc.TexData))
			c.texData[key] = idx
			c.doc.TexDataStringTable = append(c.doc.TexDataStringTable, int32(len(c.doc.TexDataStringData)))
			c.doc.TexDataStringData = append(c.doc.TexDataStringData, name...)
			c.doc.TexDataStringData = append(c.doc.TexDataStringData, 0)
			c.doc.TexData = append(c.doc.TexData, vbsp.TexData{
				NameStringTableID: int32(len(c.doc.TexDataStringTable) - 1),
				Width:             textureSize,
				Height:            textureSize,
				ViewWidth:         textureSize,
				ViewHeight:        textureSize,
			})
		}
		c.shaderTexData[n] = idx
	}
	return nil
}

// shader returns the shader of a face, or nil if its index is bad.
func (c *Converter) shader(n int32) *q3bsp.Shader {
	if n < 0 || int(n) >= len(c.raw.Shaders) {
		return nil
	}
	return &c.raw.Shaders[n]
}

// material returns the material of a shader index.
func (c *Converter) material(n int32) *Material {
	s := c.shader(n)
	if s == nil {
		return &Material{}
	}
	return c.mats.Lookup(s.Name())
}

// addTexInfo returns the index of ti, adding it if it's new.
func (c *Converter) addTexInfo(ti vbsp.TexInfo) (int16, error) {
	if n, ok := c.texInfos[ti]; ok {
		return n, nil
	}
	if len(c.doc.TexInfo) >= math.MaxInt16 {
		return 0, errors.Errorf("more than %d texinfos", math.MaxInt16)
	}
	n := int16(len(c.doc.TexInfo))
	c.doc.TexInfo = append(c.doc.TexInfo, ti)
	c.texInfos[ti] = n
	return n, nil
}

// faceTexInfo builds the texinfo of a face from the triangle tri of its
// vertices. Texture vectors reproduce the source UVs, scaled to texels.
// Lightmap vectors map onto the lightmap page in texels, so that luxel
// coordinates are page coordinates.
func (c *Converter) faceTexInfo(f *q3bsp.Face, verts []q3bsp.Vertex, tri [3]int, lit bool) (int16, error) {
	mat := c.material(f.Shader)
	ti := vbsp.TexInfo{
		Flags:   mat.SurfFlags(),
		TexData: vbsp.NoTexInfo,
	}
	if c.shader(f.Shader) != nil {
		ti.TexData = c.shaderTexData[f.Shader]
	}
	if !lit {
		ti.Flags |= vbsp.SurfNoLight
	}

	var p [3]mgl32.Vec3
	var tex, lm [3]mgl32.Vec2
	for i, v := range tri {
		p[i] = verts[v].Pos
		tex[i] = verts[v].TexCoord.Mul(textureSize)
		lm[i] = verts[v].LightmapCoord.Mul(q3bsp.LightmapSize)
	}
	var ok bool
	if ti.TextureVecs, ok = projectionVecs(p, tex); !ok {
		ti.TextureVecs = defaultVecs(f.Normal, 1)
	}
	if !lit {
		ti.LightmapVecs = defaultVecs(f.Normal, defaultLightmapScale)
	} else if ti.LightmapVecs, ok = projectionVecs(p, lm); !ok {
		ti.LightmapVecs = defaultVecs(f.Normal, defaultLightmapScale)
	}
	return c.addTexInfo(ti)
}

// sideTexInfo returns the texinfo of a brush side, or NoTexInfo if the
// shader is unknown. Brush sides are never drawn, so axis aligned vectors
// do.
func (c *Converter) sideTexInfo(shader int32, normal mgl32.Vec3) (int16, error) {
	if c.shader(shader) == nil {
		return vbsp.NoTexInfo, nil
	}
	return c.addTexInfo(vbsp.TexInfo{
		TextureVecs:  defaultVecs(normal, 1),
		LightmapVecs: defaultVecs(normal, defaultLightmapScale),
		Flags:        c.material(shader).SurfFlags() | vbsp.SurfNoLight,
		TexData:      c.shaderTexData[shader],
	})
}

// projectionVecs returns texinfo vectors that map the triangle p onto the
// coordinates uv, and linearly beyond it.
func projectionVecs(p [3]mgl32.Vec3, uv [3]mgl32.Vec2) ([2][4]float32, bool) {
	t, b, ok := geom.SolveTangents(p, uv)
	if !ok {
		return [2][4]float32{}, false
	}
	s, q, ok := geom.Projection(t, b)
	if !ok {
		return [2][4]float32{}, false
	}
	return [2][4]float32{
		{s[0], s[1], s[2], uv[0][0] - s.Dot(p[0])},
		{q[0], q[1], q[2], uv[0][1] - q.Dot(p[0])},
	}, true
}

// defaultVecs returns axis aligned texinfo vectors for a plane normal.
func defaultVecs(n mgl32.Vec3, scale float32) [2][4]float32 {
	u, v := geom.DefaultTextureAxes(n)
	u = u.Mul(scale)
	v = v.Mul(scale)
	return [2][4]float32{
		{u[0], u[1], u[2], 0},
		{v[0], v[1], v[2], 0},
	}
}
