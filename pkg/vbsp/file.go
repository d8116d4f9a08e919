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
//

// The file contains the file reading and writing code.

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"reflect"

	"github.com/pkg/errors"
)

type myReader interface {
	io.Reader
	io.Seeker
}

// encodeLump returns the on-disk bytes of a lump.
func (d *Document) encodeLump(id LumpID) ([]byte, error) {
	if id == LumpEntities {
		if d.Entities == "" {
			return nil, nil
		}
		return append([]byte(d.Entities), 0), nil
	}
	if id == LumpLeafs && d.LumpVersions[LumpLeafs] == 0 {
		old := make([]leafV0, len(d.Leafs))
		for n := range d.Leafs {
			old[n] = leafToV0(&d.Leafs[n])
		}
		var buf bytes.Buffer
		if err := binary.Write(&buf, binary.LittleEndian, old); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	s := d.slot(id)
	if s == nil {
		return d.Raw[id], nil
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes the document. Lumps are stored in id order, each 4 byte
// aligned.
func (d *Document) Write(w io.Writer) error {
	hdr := Header{
		Version:     d.Version,
		MapRevision: d.MapRevision,
	}
	copy(hdr.Magic[:], Magic)

	var body bytes.Buffer
	for id := LumpID(0); id < NumLumps; id++ {
		b, err := d.encodeLump(id)
		if err != nil {
			return errors.Wrapf(err, "encoding %v", id)
		}
		for body.Len()%4 != 0 {
			body.WriteByte(0)
		}
		hdr.Lumps[id] = LumpEntry{
			Offset:  int32(fileHeaderSize + body.Len()),
			Length:  int32(len(b)),
			Version: d.LumpVersions[id],
		}
		if len(b) == 0 {
			hdr.Lumps[id].Offset = 0
		}
		body.Write(b)
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return errors.Wrap(err, "writing header")
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return errors.Wrap(err, "writing lumps")
	}
	return nil
}

// WriteFile writes the document to a file.
func (d *Document) WriteFile(fn string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	return os.WriteFile(fn, buf.Bytes(), 0644)
}

// Load reads a VBSP file.
func Load(r myReader) (*Document, error) {
	var hdr Header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	if string(hdr.Magic[:]) != Magic {
		return nil, errors.Errorf("bad magic %q, want %q", hdr.Magic[:], Magic)
	}
	if hdr.Version < 19 || hdr.Version > VersionNew {
		return nil, errors.Errorf("unsupported version %d", hdr.Version)
	}

	d := NewDocument(hdr.Version)
	d.MapRevision = hdr.MapRevision
	for id := LumpID(0); id < NumLumps; id++ {
		e := hdr.Lumps[id]
		d.LumpVersions[id] = e.Version
		if e.Offset < 0 || e.Length < 0 {
			return nil, errors.Errorf("%v: bad offset %d length %d", id, e.Offset, e.Length)
		}
		if e.FourCC != [4]byte{} {
			return nil, errors.Errorf("%v: compressed lumps not supported", id)
		}
		b := make([]byte, e.Length)
		if e.Length > 0 {
			if _, err := r.Seek(int64(e.Offset), io.SeekStart); err != nil {
				return nil, errors.Wrapf(err, "seeking to %v at %v", id, e.Offset)
			}
			if _, err := io.ReadFull(r, b); err != nil {
				return nil, errors.Wrapf(err, "reading %v data", id)
			}
		}
		if err := d.decodeLump(id, b); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Open loads a VBSP file from disk.
func Open(fn string) (*Document, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %q", fn)
	}
	return d, nil
}

func (d *Document) decodeLump(id LumpID, b []byte) error {
	if id == LumpEntities {
		if n := bytes.IndexByte(b, 0); n >= 0 {
			b = b[:n]
		}
		d.Entities = string(b)
		return nil
	}
	s := d.slot(id)
	if s == nil {
		if len(b) > 0 {
			d.Raw[id] = b
		}
		return nil
	}
	size := RecordSize(id, d.LumpVersions[id])
	if len(b)%size != 0 {
		return errors.Errorf("%v size %v not divisible by %v", id, len(b), size)
	}
	if id == LumpLeafs && d.LumpVersions[id] == 0 {
		old := make([]leafV0, len(b)/size)
		if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, old); err != nil {
			return errors.Wrapf(err, "reading %v data", id)
		}
		d.Leafs = make([]Leaf, len(old))
		for n := range old {
			d.Leafs[n] = old[n].leaf()
		}
		return nil
	}
	v := reflect.ValueOf(s).Elem()
	v.Set(reflect.MakeSlice(v.Type(), len(b)/size, len(b)/size))
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, v.Interface()); err != nil {
		return errors.Wrapf(err, "reading %v data", id)
	}
	return nil
}
