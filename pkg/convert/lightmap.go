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
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/ThomasHabets/bspconv/pkg/q3bsp"
	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

// lightSource is where a face's lightmap texels come from: a lightmap page
// in the level, or an external image. The zero value means unlit.
type lightSource struct {
	page *q3bsp.Lightmap
	img  image.Image
}

func (l lightSource) ok() bool {
	return l.page != nil || l.img != nil
}

// sample returns the texel at page coordinates (x, y), both in
// [0,LightmapSize). External images are scaled to the page size.
func (l lightSource) sample(x, y int) [3]uint8 {
	if l.img == nil {
		return l.page.Pixel(x, y)
	}
	b := l.img.Bounds()
	px := b.Min.X + x*b.Dx()/q3bsp.LightmapSize
	py := b.Min.Y + y*b.Dy()/q3bsp.LightmapSize
	c := color.RGBAModel.Convert(l.img.At(px, py)).(color.RGBA)
	return [3]uint8{c.R, c.G, c.B}
}

// faceLight decides where the lightmap of a face comes from. Sky and
// materials without lightmaps are unlit. An external lightmap wins over the
// level's own.
func (c *Converter) faceLight(f *q3bsp.Face) lightSource {
	mat := c.material(f.Shader)
	if mat.Sky || mat.NoLightmap {
		return lightSource{}
	}
	if mat.Lightmap != "" {
		if img := c.extLightmaps[mat.Lightmap]; img != nil {
			return lightSource{img: img}
		}
	}
	if f.LightmapIndex >= 0 && int(f.LightmapIndex) < len(c.raw.Lightmaps) {
		return lightSource{page: &c.raw.Lightmaps[f.LightmapIndex]}
	}
	return lightSource{}
}

// luxelRect is the lightmap rectangle of a face in page texels. It's the
// texels the face's vertices cover, plus one texel of padding on every side.
// Padding repeats the nearest covered texel.
type luxelRect struct {
	x0, y0 int // Padded origin.
	w, h   int // Padded size.

	// Covered texels, inclusive.
	minX, minY, maxX, maxY int
}

func lightmapRect(verts []q3bsp.Vertex) luxelRect {
	lo := [2]float32{math32.Inf(1), math32.Inf(1)}
	hi := [2]float32{math32.Inf(-1), math32.Inf(-1)}
	for _, v := range verts {
		for i := range lo {
			t := v.LightmapCoord[i] * q3bsp.LightmapSize
			lo[i] = math32.Min(lo[i], t)
			hi[i] = math32.Max(hi[i], t)
		}
	}
	x0, x1 := int(math32.Floor(lo[0])), int(math32.Ceil(hi[0]))
	y0, y1 := int(math32.Floor(lo[1])), int(math32.Ceil(hi[1]))
	r := luxelRect{
		x0:   x0 - 1,
		y0:   y0 - 1,
		w:    x1 - x0 + 2,
		h:    y1 - y0 + 2,
		minX: x0,
		minY: y0,
		maxX: x1 - 1,
		maxY: y1 - 1,
	}
	if r.maxX < r.minX {
		r.maxX = r.minX
	}
	if r.maxY < r.minY {
		r.maxY = r.minY
	}
	return r
}

// texel returns the page texel a luxel of the rectangle samples.
func (r *luxelRect) texel(x, y int) (int, int) {
	return clampInt(clampInt(x, r.minX, r.maxX), 0, q3bsp.LightmapSize-1),
		clampInt(clampInt(y, r.minY, r.maxY), 0, q3bsp.LightmapSize-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// convertLighting copies the lightmap of every lit source face into the
// lighting lump, once, and points all its target faces at it.
func (c *Converter) convertLighting() error {
	for n := range c.raw.Faces {
		src := c.light[n]
		if !src.ok() || len(c.split[n]) == 0 {
			continue
		}
		r := lightmapRect(c.raw.FaceVertexes(&c.raw.Faces[n]))
		ofs := int32(len(c.doc.Lighting) * 4)
		for y := r.y0; y < r.y0+r.h; y++ {
			for x := r.x0; x < r.x0+r.w; x++ {
				c.doc.Lighting = append(c.doc.Lighting, vbsp.EncodeRGBExp32(src.sample(r.texel(x, y))))
			}
		}
		for _, t := range c.split[n] {
			f := &c.doc.Faces[t]
			f.LightOfs = ofs
			f.Styles = [4]uint8{0, vbsp.NoStyle, vbsp.NoStyle, vbsp.NoStyle}
			f.LightmapTextureMinsInLuxels = [2]int32{int32(r.x0), int32(r.y0)}
			f.LightmapTextureSizeInLuxels = [2]int32{int32(r.w - 1), int32(r.h - 1)}
		}
	}
	return nil
}
