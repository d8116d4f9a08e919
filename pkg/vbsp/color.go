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
	"github.com/chewxy/math32"
)

// gammaToLinear undoes the 2.2 gamma of an 8 bit channel, keeping the 0-255
// scale.
func gammaToLinear(c uint8) float32 {
	return 255 * math32.Pow(float32(c)/255, 2.2)
}

// rgbExponent returns the shared exponent for a channel maximum. The
// exponent is chosen so that the maximum scales to [128,256).
func rgbExponent(hi float32) int32 {
	if hi == 0 {
		return 0
	}
	bits := math32.Float32bits(hi)
	return int32((bits&0x7F800000)>>23) - (127 + 7)
}

// EncodeRGBExp32 converts an 8 bit gamma encoded lightmap texel to the
// linear shared exponent color the engine expects. Channels are scaled into
// the engine's 0-4 range first.
func EncodeRGBExp32(rgb [3]uint8) ColorRGBExp32 {
	r := gammaToLinear(rgb[0]) * 4
	g := gammaToLinear(rgb[1]) * 4
	b := gammaToLinear(rgb[2]) * 4

	hi := r
	if g > hi {
		hi = g
	}
	if b > hi {
		hi = b
	}
	exp := rgbExponent(hi)
	scalar := math32.Float32frombits(uint32(127-exp) << 23)
	return ColorRGBExp32{
		R:        uint8(r * scalar),
		G:        uint8(g * scalar),
		B:        uint8(b * scalar),
		Exponent: int8(exp),
	}
}

// Linear returns the color as linear floats.
func (c ColorRGBExp32) Linear() [3]float32 {
	s := math32.Pow(2, float32(c.Exponent))
	return [3]float32{float32(c.R) * s, float32(c.G) * s, float32(c.B) * s}
}
