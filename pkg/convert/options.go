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
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

const (
	minDispPower = 2
	maxDispPower = 4
)

// Options controls a conversion.
type Options struct {
	// OutputDir gets the map under maps/, and exported assets when NoPak
	// is set.
	OutputDir string `yaml:"output_dir"`

	// NoPak exports custom assets next to the map instead of embedding
	// them in the pakfile lump.
	NoPak bool `yaml:"no_pak"`

	// DisplacementPower is the subdivision power of patch displacements.
	DisplacementPower int `yaml:"displacement_power"`

	// MinDamage is the smallest trigger_hurt damage turned into a teleport
	// back to the start.
	MinDamage int `yaml:"min_damage"`

	// OldBSP selects the older file version, with edge loop faces only.
	OldBSP bool `yaml:"old_bsp"`

	// Prefix is prepended to the output map name.
	Prefix string `yaml:"prefix"`

	// IgnoreZones skips timer zone entities.
	IgnoreZones bool `yaml:"ignore_zones"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		OutputDir:         ".",
		DisplacementPower: maxDispPower,
		MinDamage:         50,
		Prefix:            "df_",
	}
}

// Clamp forces out of range values into range.
func (o *Options) Clamp() {
	if o.DisplacementPower < minDispPower {
		o.DisplacementPower = minDispPower
	}
	if o.DisplacementPower > maxDispPower {
		o.DisplacementPower = maxDispPower
	}
}

// Version returns the file version to write.
func (o *Options) Version() int32 {
	if o.OldBSP {
		return vbsp.VersionOld
	}
	return vbsp.VersionNew
}

// CoordLimit returns the largest absolute coordinate a model may reach.
func (o *Options) CoordLimit() float32 {
	return vbsp.CoordLimit(o.Version())
}

// usePrimitives returns true if faces are written as primitives.
func (o *Options) usePrimitives() bool {
	return o.Version() >= vbsp.VersionNew
}

// OutputPath returns where the converted map of input fn goes.
func (o *Options) OutputPath(fn string) string {
	base := filepath.Base(fn)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(o.OutputDir, "maps", o.Prefix+base+".bsp")
}

// LoadOptions reads options from a YAML file. Keys not in the file keep their
// default.
func LoadOptions(fn string) (Options, error) {
	o := DefaultOptions()
	b, err := ioutil.ReadFile(fn)
	if err != nil {
		return o, err
	}
	if err := yaml.Unmarshal(b, &o); err != nil {
		return o, errors.Wrapf(err, "parsing %q", fn)
	}
	o.Clamp()
	return o, nil
}
