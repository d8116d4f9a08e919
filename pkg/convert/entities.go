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
	"github.com/pkg/errors"

	"github.com/ThomasHabets/bspconv/pkg/entity"
)

// convertEntities translates the entity lump. Entities using a dropped
// model go too.
func (c *Converter) convertEntities() error {
	ents, err := entity.Parse(c.raw.Entities)
	if err != nil {
		return errors.Wrap(err, "parsing entity lump")
	}
	bounds := make([]entity.Bounds, len(c.raw.Models))
	for n, m := range c.raw.Models {
		bounds[n] = entity.Bounds{Mins: m.Mins, Maxs: m.Maxs}
	}
	out := entity.NewTranslator(ents, bounds, entity.Options{
		MinDamage:   c.opts.MinDamage,
		IgnoreZones: c.opts.IgnoreZones,
		SkyName:     c.mats.SkyName(),
	}, c.log).Translate()

	kept, dropped := entity.RenumberModels(out, c.modelRemap)
	for _, e := range dropped {
		c.logf("Dropping %s %q: its model was dropped", e.ClassName(), e.Get("model"))
	}
	c.report.DroppedEntities = len(dropped)
	c.entities = kept
	c.doc.Entities = entity.Marshal(kept)
	return nil
}
