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
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// pakTime is the modification time stored for every pakfile entry, so that
// the same input gives the same file.
var pakTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// BuildPakFile makes a pakfile lump out of named files. The engine can only
// read uncompressed entries.
func BuildPakFile(files map[string][]byte) ([]byte, error) {
	var names []string
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, n := range names {
		fw, err := w.CreateHeader(&zip.FileHeader{
			Name:     n,
			Method:   zip.Store,
			Modified: pakTime,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "adding %q to pakfile", n)
		}
		if _, err := fw.Write(files[n]); err != nil {
			return nil, errors.Wrapf(err, "writing %q to pakfile", n)
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "closing pakfile")
	}
	return buf.Bytes(), nil
}

// ReadPakFile returns the contents of a pakfile lump.
func ReadPakFile(b []byte) (map[string][]byte, error) {
	ret := make(map[string][]byte)
	if len(b) == 0 {
		return ret, nil
	}
	r, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, errors.Wrap(err, "opening pakfile")
	}
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "opening %q in pakfile", f.Name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q in pakfile", f.Name)
		}
		ret[f.Name] = data
	}
	return ret, nil
}
