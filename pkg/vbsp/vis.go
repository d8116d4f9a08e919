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
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// CompressVis run length encodes a visibility bit vector. A zero byte is
// followed by the number of zero bytes it stands for (at most 255). Other
// bytes are literal.
func CompressVis(vis []byte) []byte {
	out := make([]byte, 0, len(vis))
	for j := 0; j < len(vis); j++ {
		out = append(out, vis[j])
		if vis[j] != 0 {
			continue
		}
		rep := 1
		for j++; j < len(vis); j++ {
			if vis[j] != 0 || rep == 255 {
				break
			}
			rep++
		}
		out = append(out, byte(rep))
		j--
	}
	return out
}

// DecompressVis expands a run length encoded bit vector to n bytes. in may
// run past the vector; decoding stops after n bytes.
func DecompressVis(in []byte, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for i := 0; len(out) < n; i++ {
		if i >= len(in) {
			return nil, errors.Errorf("vis data ends after %d of %d bytes", len(out), n)
		}
		if in[i] != 0 {
			out = append(out, in[i])
			continue
		}
		i++
		if i >= len(in) {
			return nil, errors.New("vis data ends in a zero run")
		}
		rep := int(in[i])
		if len(out)+rep > n {
			return nil, errors.Errorf("zero run of %d overflows %d byte vector", rep, n)
		}
		out = append(out, make([]byte, rep)...)
	}
	return out, nil
}

// VisRowSize returns the number of bytes in one uncompressed cluster bit
// vector.
func VisRowSize(numClusters int) int {
	return (numClusters + 7) / 8
}

// BuildVisibility encodes the visibility lump from one uncompressed bit
// vector per cluster. Each row must be at least VisRowSize(len(rows)) bytes;
// anything past that is ignored. The PAS is set equal to the PVS.
//
// Layout: numclusters, then per cluster {pvs offset, pas offset}, then the
// compressed vectors. Offsets are from the start of the lump.
func BuildVisibility(rows [][]byte) ([]byte, error) {
	n := len(rows)
	if n == 0 {
		return []byte{}, nil
	}
	rowSize := VisRowSize(n)
	offsets := make([][2]int32, n)
	var data bytes.Buffer
	base := 4 + 8*n
	for c, row := range rows {
		if len(row) < rowSize {
			return nil, errors.Errorf("cluster %d: vis row is %d bytes, want %d", c, len(row), rowSize)
		}
		ofs := int32(base + data.Len())
		offsets[c] = [2]int32{ofs, ofs}
		data.Write(CompressVis(row[:rowSize]))
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(n))
	binary.Write(&buf, binary.LittleEndian, offsets)
	buf.Write(data.Bytes())
	return buf.Bytes(), nil
}

// ClusterVis decodes the PVS of one cluster from a visibility lump.
func ClusterVis(lump []byte, cluster int) ([]byte, error) {
	if len(lump) < 4 {
		return nil, errors.New("visibility lump too short")
	}
	n := int(int32(binary.LittleEndian.Uint32(lump)))
	if cluster < 0 || cluster >= n {
		return nil, errors.Errorf("cluster %d outside [0,%d)", cluster, n)
	}
	if len(lump) < 4+8*n {
		return nil, errors.Errorf("visibility lump too short for %d clusters", n)
	}
	ofs := int(int32(binary.LittleEndian.Uint32(lump[4+8*cluster:])))
	if ofs < 4+8*n || ofs > len(lump) {
		return nil, errors.Errorf("cluster %d: offset %d out of range", cluster, ofs)
	}
	return DecompressVis(lump[ofs:], VisRowSize(n))
}
