// Package content stages a level and the assets that go with it in a
// temporary directory, and loads assets from there.
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
package content

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/ThomasHabets/bspconv/pkg/pak"
	"github.com/ThomasHabets/bspconv/pkg/q3bsp"
)

// Logger receives diagnostics about missing or broken assets.
type Logger interface {
	Log(msg string)
}

// Dir is a staged input.
type Dir struct {
	// Root is the temporary content directory.
	Root string

	// Maps holds the level files to convert.
	Maps []string
}

// Stage prepares the input file fn. Levels are used where they are, archives
// are unpacked into the content directory.
func Stage(fn string) (*Dir, error) {
	if _, err := os.Stat(fn); err != nil {
		return nil, errors.Wrap(err, "input")
	}
	ext := strings.ToLower(filepath.Ext(fn))
	if ext != ".bsp" && ext != ".pk3" {
		return nil, errors.Errorf("%q: unsupported input type %q, want .bsp or .pk3", fn, ext)
	}
	root, err := ioutil.TempDir("", "bspconv")
	if err != nil {
		return nil, err
	}
	d := &Dir{Root: root}

	switch ext {
	case ".bsp":
		d.Maps = []string{fn}
	case ".pk3":
		if err := d.unpack(fn); err != nil {
			d.Close()
			return nil, err
		}
		if len(d.Maps) == 0 {
			d.Close()
			return nil, errors.Errorf("%q holds no levels", fn)
		}
	}
	return d, nil
}

func (d *Dir) unpack(fn string) error {
	m, err := pak.MultiOpen(fn)
	if err != nil {
		return err
	}
	defer m.Close()
	for _, name := range m.List() {
		out, err := m[0].Extract(name, d.Root)
		if err != nil {
			return err
		}
		if strings.EqualFold(path.Ext(name), ".bsp") {
			d.Maps = append(d.Maps, out)
		}
	}
	return nil
}

// Close removes the content directory.
func (d *Dir) Close() error {
	return os.RemoveAll(d.Root)
}

// Image types external lightmaps may have, in the order they are tried.
var lightmapDecoders = []struct {
	ext    string
	decode func(io.Reader) (image.Image, error)
}{
	{".tga", tga.Decode},
	{".jpg", jpeg.Decode},
	{".jpeg", jpeg.Decode},
	{".png", png.Decode},
	{".bmp", bmp.Decode},
}

// LoadLightmaps loads external lightmap images, named without extension
// relative to the content directory. Images are resampled to the size of a
// lightmap page. Missing and undecodable images are logged and left out.
func (d *Dir) LoadLightmaps(names []string, log Logger) map[string]image.Image {
	ret := make(map[string]image.Image)
	for _, name := range names {
		img, err := d.loadLightmap(name)
		if err != nil {
			log.Log(fmt.Sprintf("Lightmap image %q: %v", name, err))
			continue
		}
		ret[name] = img
	}
	return ret
}

func (d *Dir) loadLightmap(name string) (image.Image, error) {
	base := filepath.Join(d.Root, filepath.FromSlash(name))
	for _, dec := range lightmapDecoders {
		f, err := os.Open(base + dec.ext)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src, err := dec.decode(f)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %q", f.Name())
		}
		dst := image.NewRGBA(image.Rect(0, 0, q3bsp.LightmapSize, q3bsp.LightmapSize))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		return dst, nil
	}
	return nil, errors.New("not found")
}

// Gather collects sound files for the converted level, keyed by their path
// in the target game. That's every .wav in the content directory, moved
// under sound/ if it isn't already there. Referenced sounds, relative to
// sound/, that can't be found are logged.
func (d *Dir) Gather(sounds []string, log Logger) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.Walk(d.Root, func(fn string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(fn), ".wav") {
			return nil
		}
		rel, err := filepath.Rel(d.Root, fn)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !strings.HasPrefix(rel, "sound/") {
			rel = "sound/" + rel
		}
		b, err := ioutil.ReadFile(fn)
		if err != nil {
			return err
		}
		files[rel] = b
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "gathering sounds")
	}
	for _, s := range sounds {
		if _, found := files["sound/"+s]; !found {
			log.Log(fmt.Sprintf("Sound %q not in content, assuming the game has it", s))
		}
	}
	return files, nil
}

// Export writes files under dir.
func Export(files map[string][]byte, dir string) error {
	var names []string
	for fn := range files {
		names = append(names, fn)
	}
	sort.Strings(names)
	for _, fn := range names {
		out, err := pak.SafeJoin(dir, fn)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return err
		}
		if err := ioutil.WriteFile(out, files[fn], 0644); err != nil {
			return err
		}
	}
	return nil
}
