// Package pak reads pk3 archives, the zip files game content ships in.
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
package pak

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Pak is one open archive.
type Pak struct {
	File    *os.File
	Entries map[string]*zip.File
}

// Open reads the directory of an archive. The file must stay open while the
// Pak is used.
func Open(f *os.File) (*Pak, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	// Insecure names are kept, Extract refuses them.
	z, err := zip.NewReader(f, st.Size())
	if err != nil && err != zip.ErrInsecurePath {
		return nil, errors.Wrapf(err, "reading %q", f.Name())
	}
	ret := &Pak{
		File:    f,
		Entries: make(map[string]*zip.File),
	}
	for _, e := range z.File {
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		ret.Entries[e.Name] = e
	}
	return ret, nil
}

// Get opens one file in the archive.
func (p *Pak) Get(fn string) (io.ReadCloser, error) {
	e, found := p.Entries[fn]
	if !found {
		return nil, os.ErrNotExist
	}
	return e.Open()
}

// List returns the sorted names of all files in the archive.
func (p *Pak) List() []string {
	var ret []string
	for fn := range p.Entries {
		ret = append(ret, fn)
	}
	sort.Strings(ret)
	return ret
}

// Extract writes one file to its path under dir, and returns that path.
func (p *Pak) Extract(fn, dir string) (string, error) {
	out, err := SafeJoin(dir, fn)
	if err != nil {
		return "", err
	}
	r, err := p.Get(fn)
	if err != nil {
		return "", errors.Wrapf(err, "getting %q", fn)
	}
	defer r.Close()
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", err
	}
	of, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(of, r); err != nil {
		of.Close()
		os.Remove(of.Name())
		return "", errors.Wrapf(err, "extracting %q", fn)
	}
	if err := of.Close(); err != nil {
		return "", err
	}
	return out, nil
}

// ExtractAll writes every file of the archive under dir.
func (p *Pak) ExtractAll(dir string) error {
	for _, fn := range p.List() {
		if _, err := p.Extract(fn, dir); err != nil {
			return err
		}
	}
	return nil
}

// SafeJoin returns dir/fn, refusing names that point outside dir.
func SafeJoin(dir, fn string) (string, error) {
	clean := filepath.Clean(dir)
	out := filepath.Join(clean, filepath.FromSlash(fn))
	rel, err := filepath.Rel(clean, out)
	if err != nil {
		return "", errors.Wrapf(err, "path %q", fn)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", errors.Errorf("path %q escapes %q", fn, dir)
	}
	return out, nil
}

// MultiPak is a stack of archives. Later archives override earlier ones.
type MultiPak []*Pak

// List returns the sorted names of all files in all archives.
func (m MultiPak) List() []string {
	seen := make(map[string]bool)
	var ret []string
	for _, p := range m {
		for fn := range p.Entries {
			if !seen[fn] {
				seen[fn] = true
				ret = append(ret, fn)
			}
		}
	}
	sort.Strings(ret)
	return ret
}

// MultiOpen opens archives in order. Empty names are skipped.
func MultiOpen(fns ...string) (MultiPak, error) {
	var ret MultiPak
	for _, fn := range fns {
		if fn == "" {
			continue
		}
		f, err := os.Open(fn)
		if err != nil {
			ret.Close()
			return nil, err
		}
		p, err := Open(f)
		if err != nil {
			f.Close()
			ret.Close()
			return nil, err
		}
		ret = append(ret, p)
	}
	return ret, nil
}

// Find returns the last archive holding fn.
func (m MultiPak) Find(fn string) (*Pak, bool) {
	for i := len(m); i > 0; i-- {
		if _, found := m[i-1].Entries[fn]; found {
			return m[i-1], true
		}
	}
	return nil, false
}

// Get opens fn from the last archive holding it.
func (m MultiPak) Get(fn string) (io.ReadCloser, error) {
	p, found := m.Find(fn)
	if !found {
		return nil, os.ErrNotExist
	}
	return p.Get(fn)
}

// Close closes all archive files.
func (m MultiPak) Close() {
	for _, p := range m {
		p.File.Close()
	}
}
