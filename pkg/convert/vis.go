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
	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

// convertVisibility re-encodes the cluster visibility. Without usable vis
// data every cluster sees every other.
func (c *Converter) convertVisibility() error {
	n := 0
	for _, l := range c.raw.Leafs {
		if int(l.Cluster)+1 > n {
			n = int(l.Cluster) + 1
		}
	}
	if n == 0 {
		return nil
	}

	rowSize := vbsp.VisRowSize(n)
	rows := make([][]byte, n)
	vis := &c.raw.Vis
	size := int(vis.VecSize)
	if int(vis.NumVecs) >= n && size >= rowSize && len(vis.Vecs) >= n*size {
		for i := range rows {
			rows[i] = vis.Vecs[i*size : i*size+rowSize]
		}
	} else {
		if vis.NumVecs > 0 {
			c.logf("Vis data has %d clusters of %d bytes, need %d. Making everything visible", vis.NumVecs, vis.VecSize, n)
		}
		all := allVisible(n)
		for i := range rows {
			rows[i] = all
		}
	}
	var err error
	c.doc.Visibility, err = vbsp.BuildVisibility(rows)
	return err
}

// allVisible returns a vis row with the first n bits set.
func allVisible(n int) []byte {
	row := make([]byte, vbsp.VisRowSize(n))
	for i := 0; i < n; i++ {
		row[i/8] |= 1 << uint(i%8)
	}
	return row
}
