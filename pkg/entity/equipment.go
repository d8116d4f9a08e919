package entity

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
	"sort"
	"strconv"
	"strings"
)

var (
	weaponNames = map[string]string{
		"weapon_machinegun":      "weapon_momentum_machinegun",
		"weapon_gauntlet":        "weapon_knife",
		"weapon_grenadelauncher": "weapon_momentum_df_grenadelauncher",
		"weapon_rocketlauncher":  "weapon_momentum_df_rocketlauncher",
		"weapon_plasmagun":       "weapon_momentum_df_plasmagun",
		"weapon_bfg":             "weapon_momentum_df_bfg",
	}

	weaponAmmoDefaults = map[string]string{
		"weapon_machinegun":      "40",
		"weapon_grenadelauncher": "10",
		"weapon_rocketlauncher":  "10",
		"weapon_plasmagun":       "50",
		"weapon_lightning":       "100",
		"weapon_bfg":             "20",
	}

	weaponAmmoInputs = map[string]string{
		"weapon_machinegun":      "SetBullets",
		"weapon_grenadelauncher": "SetGrenades",
		"weapon_rocketlauncher":  "SetRockets",
		"weapon_plasmagun":       "SetCells",
		"weapon_bfg":             "SetBfgRockets",
	}

	ammoNames = map[string]string{
		"ammo_bfg":       "bfg_rockets",
		"ammo_bullets":   "bullets",
		"ammo_cells":     "cells",
		"ammo_grenades":  "grenades",
		"ammo_lightning": "lightning",
		"ammo_rockets":   "rockets",
		"ammo_shells":    "shells",
		"ammo_slugs":     "rails",
	}

	ammoDefaults = map[string]string{
		"ammo_bfg":       "15",
		"ammo_bullets":   "50",
		"ammo_cells":     "30",
		"ammo_grenades":  "5",
		"ammo_lightning": "60",
		"ammo_rockets":   "5",
		"ammo_shells":    "10",
		"ammo_slugs":     "10",
	}

	ammoInputs = map[string]string{
		"ammo_bfg":       "AddBfgRockets",
		"ammo_bullets":   "AddBullets",
		"ammo_cells":     "AddCells",
		"ammo_grenades":  "AddGrenades",
		"ammo_lightning": "AddLightning",
		"ammo_rockets":   "AddRockets",
		"ammo_shells":    "AddShells",
		"ammo_slugs":     "AddRails",
	}

	itemNames = map[string]string{
		"item_haste": "momentum_powerup_haste",
		"item_quad":  "momentum_powerup_damage_boost",
	}
)

func countOr(count, def string) string {
	if count != "" && count != "0" {
		return count
	}
	return def
}

func weaponAmmoCount(class, count string) string {
	def, ok := weaponAmmoDefaults[class]
	if !ok {
		def = "-1"
	}
	return countOr(count, def)
}

func ammoCount(class, count string) string {
	def, ok := ammoDefaults[class]
	if !ok {
		def = "0"
	}
	return countOr(count, def)
}

func powerupCount(count string) string {
	return countOr(count, "30")
}

// weaponName maps a weapon class. Unknown classes keep their own name.
func (t *Translator) weaponName(class string) string {
	if n, ok := weaponNames[class]; ok {
		return n
	}
	t.logf("Unknown weapon %q", class)
	return class
}

func (t *Translator) ammoName(class string) string {
	if n, ok := ammoNames[class]; ok {
		return n
	}
	t.logf("Unknown ammo %q", class)
	return class
}

func (t *Translator) itemName(class string) string {
	if n, ok := itemNames[class]; ok {
		return n
	}
	t.logf("Unknown item %q", class)
	return class
}

// respawnTime returns the "wait" key, or def if it's unset or zero.
func respawnTime(e *Entity, def string) string {
	if w, ok := e.Lookup("wait"); ok && w != "0" {
		return w
	}
	return def
}

// convertEquipment turns a weapon, ammo or item pickup into its spawner.
func (t *Translator) convertEquipment(e *Entity) {
	cls := e.ClassName()
	switch {
	case strings.HasPrefix(cls, "weapon_"):
		e.Set("resettime", respawnTime(e, "5"))
		e.Set("weaponname", t.weaponName(cls))
		e.Set("pickupammo", weaponAmmoCount(cls, e.Get("count")))
		e.SetClassName("momentum_weapon_spawner")
	case strings.HasPrefix(cls, "ammo_"):
		e.Set("resettime", respawnTime(e, "40"))
		e.Set("ammoname", t.ammoName(cls))
		e.Set("pickupammo", ammoCount(cls, e.Get("count")))
		e.SetClassName("momentum_pickup_ammo")
	case strings.HasPrefix(cls, "item_"):
		e.SetClassName(t.itemName(cls))
		e.Set("resettime", respawnTime(e, "120"))
		switch e.ClassName() {
		case "momentum_powerup_haste":
			e.Set("hastetime", powerupCount(e.Get("count")))
		case "momentum_powerup_damage_boost":
			e.Set("damageboosttime", powerupCount(e.Get("count")))
		}
	}
}

// ModelIndex returns N of a "*N" model key.
func ModelIndex(e *Entity) (int, bool) {
	m := e.Get("model")
	if !strings.HasPrefix(m, "*") {
		return 0, false
	}
	n, err := strconv.Atoi(m[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// RenumberModels rewrites "*N" model keys through remap, and drops entities
// whose model isn't in it. Model 0 is the world and is never remapped.
func RenumberModels(ents []*Entity, remap map[int]int) (kept []*Entity, dropped []*Entity) {
	for _, e := range ents {
		n, ok := ModelIndex(e)
		if !ok || n == 0 {
			kept = append(kept, e)
			continue
		}
		to, ok := remap[n]
		if !ok {
			dropped = append(dropped, e)
			continue
		}
		e.Set("model", "*"+strconv.Itoa(to))
		kept = append(kept, e)
	}
	return kept, dropped
}

// Sounds returns the sorted, unique sound files converted entities play,
// relative to the sound/ directory.
func Sounds(ents []*Entity) []string {
	seen := make(map[string]bool)
	for _, e := range ents {
		var s string
		switch e.ClassName() {
		case "trigger_jumppad":
			s = e.Get("launchsound")
		case "func_button":
			s = e.Get("customsound")
		case "ambient_generic":
			s = e.Get("message")
		}
		if s != "" {
			seen[s] = true
		}
	}
	ret := make([]string, 0, len(seen))
	for s := range seen {
		ret = append(ret, s)
	}
	sort.Strings(ret)
	return ret
}
