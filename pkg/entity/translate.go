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
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// StartName is the targetname given to every converted spawn point.
	StartName = "_momentum_player_start_"

	maxChaseDepth = 64

	// Gives happen this long after the rest of the chain so that any strip
	// done by an init helper in the same chain runs first.
	giveDelay = 0.008
)

// Spawnflags of Quake 3 entities.
const (
	initKeepWeapons      = 4
	initKeepPowerUps     = 8
	initRemoveMachineGun = 32

	teleportSpectator = 1
	teleportKeepSpeed = 2

	speakerLoopedOn  = 1
	speakerLoopedOff = 2
	speakerGlobal    = 4
	speakerActivator = 8
)

// Spawnflags of converted entities.
const (
	buttonDontMove        = 1
	buttonTouchActivates  = 256
	buttonDamageActivates = 512

	ambientInfiniteRange = 1
	ambientStartSilent   = 16
	ambientIsNotLooped   = 32
)

var colorCodeRE = regexp.MustCompile(`\^[1-9]`)

// Logger receives non-fatal diagnostics.
type Logger interface {
	Log(msg string)
}

// Options controls entity translation.
type Options struct {
	// MinDamage is the smallest trigger_hurt damage that turns the trigger
	// into a teleport back to the start.
	MinDamage int

	// IgnoreZones drops timer stop and checkpoint zones.
	IgnoreZones bool

	// SkyName, if set, becomes the worldspawn skyname.
	SkyName string
}

// Bounds is the bounding box of a source model.
type Bounds struct {
	Mins, Maxs mgl32.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Mins.Add(b.Maxs).Mul(0.5)
}

// A Translator rewrites one level's entities. It must not be reused.
type Translator struct {
	opts   Options
	log    Logger
	models []Bounds
	ents   []*Entity
	idx    Index

	out         []*Entity
	remove      map[*Entity]bool
	giveTargets map[string]bool
	checkpoint  int
}

// NewTranslator returns a translator for ents. models holds the bounds of
// the source models, indexed by model number.
func NewTranslator(ents []*Entity, models []Bounds, opts Options, log Logger) *Translator {
	return &Translator{
		opts:        opts,
		log:         log,
		models:      models,
		ents:        ents,
		idx:         NewIndex(ents),
		remove:      make(map[*Entity]bool),
		giveTargets: make(map[string]bool),
		checkpoint:  2,
	}
}

func (t *Translator) logf(s string, args ...interface{}) {
	if t.log != nil {
		t.log.Log(fmt.Sprintf(s, args...))
	}
}

// Translate converts all entities. Entities are modified in place; the
// returned list is in source order, with entities created for a source
// entity placed right before it.
func (t *Translator) Translate() []*Entity {
	for _, e := range t.ents {
		if e.ClassName() == "target_give" {
			if tg := e.Get("target"); tg != "" {
				t.giveTargets[tg] = true
			}
		}
	}

	for _, e := range t.ents {
		if t.dispatch(e) {
			continue
		}
		convertAngles(e)
		t.out = append(t.out, e)
	}

	ret := make([]*Entity, 0, len(t.out))
	for _, e := range t.out {
		if !t.remove[e] {
			ret = append(ret, e)
		}
	}
	return ret
}

// dispatch converts one entity according to its current classname, and
// returns true if the entity has no use in the target game.
func (t *Translator) dispatch(e *Entity) bool {
	switch e.ClassName() {
	case "worldspawn":
		if t.opts.SkyName != "" {
			e.Set("skyname", t.opts.SkyName)
		}
	case "info_player_start", "info_player_deathmatch":
		t.convertPlayerStart(e)
	case "trigger_hurt":
		t.convertTriggerHurt(e)
	case "trigger_multiple":
		t.chase(e, func(target *Entity, delay float32) float32 {
			return t.touchTarget(e, target, delay)
		})
		e.Set("spawnflags", "1")
	case "trigger_push", "trigger_push_velocity":
		t.convertTriggerPush(e)
	case "trigger_teleport":
		t.convertTriggerTeleport(e)
	case "misc_teleporter_dest":
		convertTeleportDestination(e)
	case "func_door":
		t.convertFuncDoor(e)
	case "func_button":
		t.convertFuncButton(e)
	case "func_rotating":
		speed, ok := parseFloat(e.Get("speed"))
		if !ok {
			speed = 100
		}
		e.Set("spawnflags", "1")
		e.Set("maxspeed", FormatFloat(speed))
	case "target_speaker",
		"target_startTimer",
		"target_stopTimer",
		"target_checkpoint",
		"target_give",
		"target_init":
		return true
	default:
		if !t.giveTargets[e.Name()] {
			t.convertEquipment(e)
		}
	}
	return false
}

// chase walks everything root targets, directly or through other
// entities, calling visit once per reached entity. visit returns the delay
// to use for the entity's own targets and for later siblings.
func (t *Translator) chase(root *Entity, visit func(target *Entity, delay float32) float32) {
	visited := map[*Entity]bool{root: true}
	t.chaseFrom(root, 0, 0, visited, visit)
}

func (t *Translator) chaseFrom(e *Entity, delay float32, depth int, visited map[*Entity]bool, visit func(*Entity, float32) float32) {
	if depth >= maxChaseDepth {
		t.logf("Target chain of %q deeper than %d, not following", e.Name(), maxChaseDepth)
		return
	}
	for _, target := range t.idx.Targets(e) {
		if visited[target] {
			continue
		}
		visited[target] = true
		delay = visit(target, delay)
		t.chaseFrom(target, delay, depth+1, visited, visit)
	}
}

func (t *Translator) addOutput(e *Entity, output, target, input, param string, delay float32) {
	e.AddConnection(Connection{
		Output:      output,
		Target:      target,
		Input:       input,
		Param:       param,
		Delay:       delay,
		TimesToFire: -1,
	})
}

func (t *Translator) spawn(e *Entity) {
	t.out = append(t.out, e)
}

func (t *Translator) convertPlayerStart(start *Entity) {
	start.SetClassName("info_player_start")
	start.SetName(StartName)

	for _, target := range t.idx.Targets(start) {
		switch target.ClassName() {
		case "target_give":
			t.startGive(start, target)
		case "target_init":
			for _, give := range t.idx.Targets(target) {
				if give.ClassName() == "target_give" {
					t.startGive(start, give)
				}
			}
		}
	}
}

// startGive places single-use pickups at the spawn point for everything
// a give helper hands out.
func (t *Translator) startGive(start, give *Entity) {
	origin := start.Origin()
	for _, target := range t.idx.Targets(give) {
		cls := target.ClassName()
		var p *Entity
		switch {
		case strings.HasPrefix(cls, "weapon_"):
			p = New("momentum_weapon_spawner")
			p.SetOrigin(origin)
			p.Set("weaponname", t.weaponName(cls))
			p.Set("pickupammo", weaponAmmoCount(cls, target.Get("count")))
		case strings.HasPrefix(cls, "ammo_"):
			p = New("momentum_pickup_ammo")
			p.SetOrigin(origin)
			p.Set("ammoname", t.ammoName(cls))
			p.Set("pickupammo", ammoCount(cls, target.Get("count")))
		case strings.HasPrefix(cls, "item_"):
			p = New(t.itemName(cls))
			p.SetOrigin(origin)
		}
		if p != nil {
			p.Set("resettime", "-1")
			p.Set("rendermode", "10")
			switch p.ClassName() {
			case "momentum_powerup_haste":
				p.Set("hastetime", powerupCount(target.Get("count")))
			case "momentum_powerup_damage_boost":
				p.Set("damageboosttime", powerupCount(target.Get("count")))
			}
			t.spawn(p)
		}
		t.remove[target] = true
	}
}

func (t *Translator) convertTriggerHurt(e *Entity) {
	dmg, err := strconv.Atoi(strings.TrimSpace(e.Get("dmg")))
	if err != nil || dmg < t.opts.MinDamage {
		return
	}
	e.SetClassName("trigger_teleport")
	e.Set("target", StartName)
	e.Set("spawnflags", "1")
	e.Set("mode", "1")
}

// touchTarget handles one entity reached from a trigger_multiple.
func (t *Translator) touchTarget(trigger, target *Entity, delay float32) float32 {
	const out = "OnStartTouch"
	switch target.ClassName() {
	case "target_stopTimer":
		t.timerZone(trigger, "trigger_momentum_timer_stop", 0)
	case "target_checkpoint":
		t.timerZone(trigger, "trigger_momentum_timer_checkpoint", t.checkpoint)
		t.checkpoint++
	case "target_delay":
		delay += targetDelay(target)
	case "target_give":
		t.giveOnOutput(trigger, target, out, delay)
	case "target_teleporter":
		t.teleporterTrigger(trigger, target)
	case "target_kill":
		trigger.SetClassName("trigger_teleport")
		trigger.Set("target", StartName)
		trigger.Set("mode", "1")
	case "target_init":
		t.initOnOutput(trigger, target, out, delay)
	case "target_speaker":
		t.addOutput(trigger, out, target.Name(), "PlaySound", "", delay)
		convertSpeaker(target)
	case "target_print", "target_smallprint":
		t.addOutput(trigger, out, target.Name(), "Display", "", delay)
		convertPrint(target)
	case "target_speed":
		t.speedOnOutput(trigger, target, out, delay)
	case "target_push":
		t.pushTrigger(trigger, target, delay)
	case "func_door":
		t.addOutput(trigger, out, target.Name(), "Open", "", delay)
	}
	return delay
}

// pressTarget handles one entity reached from a button.
func (t *Translator) pressTarget(button, target *Entity, delay float32) float32 {
	const out = "OnPressed"
	switch target.ClassName() {
	case "target_delay":
		delay += targetDelay(target)
	case "func_door":
		t.addOutput(button, out, target.Name(), "Open", "", delay)
	case "target_speed":
		t.speedOnOutput(button, target, out, delay)
	case "target_give":
		t.giveOnOutput(button, target, out, delay)
	case "target_init":
		t.initOnOutput(button, target, out, delay)
	}
	return delay
}

func targetDelay(e *Entity) float32 {
	if w, ok := parseFloat(e.Get("wait")); ok {
		return w
	}
	return 1
}

func (t *Translator) timerZone(trigger *Entity, class string, zone int) {
	if t.opts.IgnoreZones {
		return
	}
	z := New(class)
	z.Set("model", trigger.Get("model"))
	z.Set("spawnflags", "1")
	z.Set("zone_number", strconv.Itoa(zone))
	t.spawn(z)
}

func (t *Translator) speedOnOutput(e, speed *Entity, out string, delay float32) {
	t.addOutput(e, out, speed.Name(), "Fire", "", delay)
	if speed.Get("notcpm") == "1" {
		return
	}
	speed.SetClassName("player_speed")
	if _, ok := speed.Lookup("speed"); !ok {
		speed.Set("speed", "100")
	}
}

func (t *Translator) initOnOutput(e, ti *Entity, out string, delay float32) {
	flags := ti.Spawnflags()
	if flags&initKeepPowerUps == 0 {
		t.addOutput(e, out, "!activator", "SetHaste", "0", delay+giveDelay)
		t.addOutput(e, out, "!activator", "SetDamageBoost", "0", delay+giveDelay)
	}
	if flags&initKeepWeapons == 0 {
		for _, w := range []string{
			"weapon_knife",
			"weapon_momentum_df_grenadelauncher",
			"weapon_momentum_df_rocketlauncher",
			"weapon_momentum_df_plasmagun",
			"weapon_momentum_df_bfg",
		} {
			t.addOutput(e, out, "!activator", "RemoveWeapon", w, delay)
		}
	}
	if flags&initRemoveMachineGun != 0 {
		t.addOutput(e, out, "!activator", "RemoveWeapon", "weapon_momentum_machinegun", delay)
	}
}

func (t *Translator) giveOnOutput(e, give *Entity, out string, delay float32) {
	for _, target := range t.idx.Targets(give) {
		cls := target.ClassName()
		switch {
		case cls == "item_haste":
			t.addOutput(e, out, "!activator", "SetHaste", powerupCount(target.Get("count")), delay+giveDelay)
		case cls == "item_quad":
			t.addOutput(e, out, "!activator", "SetDamageBoost", powerupCount(target.Get("count")), delay+giveDelay)
		case cls == "item_enviro", cls == "item_flight":
			// No equivalent.
		case strings.HasPrefix(cls, "weapon_"):
			t.giveWeapon(e, target, out, delay)
		case strings.HasPrefix(cls, "ammo_"):
			t.giveAmmo(e, target, out, delay)
		}
		t.remove[target] = true
	}
}

func (t *Translator) giveWeapon(e, weapon *Entity, out string, delay float32) {
	cls := weapon.ClassName()
	name, ok := weaponNames[cls]
	if !ok {
		t.logf("Can't give unknown weapon %q", cls)
		return
	}
	t.addOutput(e, out, "!activator", "GiveWeapon", name, delay+giveDelay)

	count := weaponAmmoCount(cls, weapon.Get("count"))
	if n, ok := parseFloat(count); !ok || n < 0 {
		return
	}
	if input, ok := weaponAmmoInputs[cls]; ok {
		t.addOutput(e, out, "!activator", input, count, delay)
	}
}

func (t *Translator) giveAmmo(e, ammo *Entity, out string, delay float32) {
	if ammo.Get("notcpm") == "1" {
		return
	}
	cls := ammo.ClassName()
	input, ok := ammoInputs[cls]
	if !ok {
		t.logf("Can't give unknown ammo %q", cls)
		return
	}
	count := ammoCount(cls, ammo.Get("count"))
	if n, ok := parseFloat(count); ok && n < 0 {
		// Negative counts mean infinite ammo.
		input = strings.Replace(input, "Add", "Set", 1)
	}
	t.addOutput(e, out, "!activator", input, count, delay+giveDelay)
}

func (t *Translator) teleporterTrigger(trigger, tele *Entity) {
	if targets := t.idx.Targets(tele); len(targets) > 0 {
		dest := targets[0]
		trigger.SetClassName("trigger_teleport")
		trigger.Set("target", dest.Name())
		if dest.ClassName() != "info_teleport_destination" {
			convertTeleportDestination(dest)
		}
	}
	if tele.Get("spawnflags") == "1" {
		trigger.Set("mode", "3")
	} else {
		trigger.Set("mode", "5")
		trigger.Set("setspeed", "400")
	}
}

// pushTrigger turns a trigger firing a target_push into a jump pad aimed at
// the push's own target, or into a plain velocity change if it has none.
func (t *Translator) pushTrigger(trigger, push *Entity, delay float32) {
	targets := t.idx.Targets(push)
	if len(targets) == 0 {
		t.addOutput(trigger, "OnStartTouch", "player", "SetLocalVelocity", t.launchVector(push), delay)
		return
	}
	aim := targets[0]
	if b, ok := t.modelBounds(trigger); ok {
		aim.SetOrigin(b.Center().Add(aim.Origin().Sub(push.Origin())))
	}
	aim.SetClassName("info_target")
	convertJumppad(trigger, aim.Name())
}

func (t *Translator) modelBounds(e *Entity) (Bounds, bool) {
	n, ok := ModelIndex(e)
	if !ok || n >= len(t.models) {
		return Bounds{}, false
	}
	return t.models[n], true
}

// launchVector returns "x y z" velocity of a target_push without a target.
func (t *Translator) launchVector(push *Entity) string {
	angles := "0 0 0"
	if a := push.Get("angles"); a != "" {
		angles = a
	} else if a, ok := parseFloat(push.Get("angle")); ok {
		angles = "0 " + FormatFloat(a) + " 0"
	}
	var pitch, yaw float32
	if v, err := ParseVec3(angles); err != nil {
		t.logf("Bad push angles %q on %q: %v", angles, push.Name(), err)
	} else {
		pitch, yaw = v[0], v[1]
	}

	speed, ok := parseFloat(push.Get("speed"))
	if !ok {
		speed = 1000
	}
	return FormatVec3(launchDir(pitch, yaw).Mul(speed))
}

// launchDir returns the unit vector for pitch and yaw in degrees, pitch
// positive downwards.
func launchDir(pitch, yaw float32) mgl32.Vec3 {
	y := mgl32.DegToRad(yaw)
	p := mgl32.DegToRad(-pitch)
	return mgl32.Vec3{
		math32.Cos(y) * math32.Cos(p),
		math32.Sin(y) * math32.Cos(p),
		math32.Sin(p),
	}
}

func (t *Translator) convertTriggerPush(e *Entity) {
	targets := t.idx.Targets(e)
	if len(targets) == 0 {
		return
	}
	targets[0].SetClassName("info_target")
	convertJumppad(e, targets[0].Name())
}

func convertJumppad(e *Entity, target string) {
	e.SetClassName("trigger_jumppad")
	e.Set("launchtarget", target)
	e.Set("launchsound", "world/jumppad.wav")
	e.Set("spawnflags", "1")
}

func (t *Translator) convertTriggerTeleport(e *Entity) {
	flags := e.Spawnflags()
	if flags&teleportKeepSpeed != 0 {
		e.Set("mode", "3")
	} else {
		if flags&teleportSpectator != 0 {
			return
		}
		e.Set("mode", "5")
		e.Set("setspeed", "400")
	}
	e.Set("spawnflags", "1")

	for _, target := range t.idx.Targets(e) {
		if target.ClassName() != "info_teleport_destination" {
			convertTeleportDestination(target)
		}
	}
}

// convertTeleportDestination lowers the destination, since converted
// destinations end up 23 units too high.
func convertTeleportDestination(e *Entity) {
	o := e.Origin()
	o[2] -= 23
	e.SetOrigin(o)
	e.SetClassName("info_teleport_destination")
}

func (t *Translator) convertFuncDoor(e *Entity) {
	setMoveDir(e)
	if e.Get("wait") == "" {
		e.Set("wait", "2")
	}
	if _, ok := parseFloat(e.Get("health")); ok {
		// Shootable doors only exist as buttons.
		e.SetClassName("func_button")
		t.convertFuncButton(e)
	}
}

func (t *Translator) convertFuncButton(e *Entity) {
	setMoveDir(e)
	setButtonFlags(e)
	t.chase(e, func(target *Entity, delay float32) float32 {
		return t.pressTarget(e, target, delay)
	})

	// -1 means "never return" in the target game, so use the shortest wait.
	if e.Get("wait") == "-1" {
		e.Set("wait", "0.001")
	}
	e.Set("customsound", "movers/switches/butn2.wav")
}

func setMoveDir(e *Entity) {
	angle, ok := parseFloat(e.Get("angle"))
	if !ok {
		return
	}
	switch angle {
	case -1:
		e.Set("movedir", "-90 0 0")
	case -2:
		e.Set("movedir", "90 0 0")
	default:
		e.Set("movedir", "0 "+FormatFloat(angle)+" 0")
	}
	e.Delete("angle")
}

func setButtonFlags(e *Entity) {
	speed, ok := parseFloat(e.Get("speed"))
	if !ok {
		return
	}
	flags := 0
	if (speed == -1 || speed >= 9999) && e.Get("wait") == "-1" {
		flags |= buttonDontMove
	}
	if _, ok := parseFloat(e.Get("health")); !ok || e.Get("health") == "0" {
		flags |= buttonTouchActivates
	} else {
		flags |= buttonDamageActivates
	}
	e.Set("spawnflags", strconv.Itoa(flags))
}

func convertSpeaker(e *Entity) {
	e.SetClassName("ambient_generic")
	e.Set("message", strings.TrimPrefix(e.Get("noise"), "sound/"))
	e.Set("health", "10")
	e.Set("radius", "1250")
	e.Set("pitch", "100")

	q3 := e.Spawnflags()
	flags := 0
	if q3&speakerLoopedOff != 0 {
		flags |= ambientStartSilent
	} else if q3&speakerLoopedOn == 0 {
		flags |= ambientIsNotLooped
	}
	if q3&(speakerGlobal|speakerActivator) != 0 {
		flags |= ambientInfiniteRange
	}
	e.Set("spawnflags", strconv.Itoa(flags))
}

func convertPrint(e *Entity) {
	msg := strings.Replace(e.Get("message"), `\n`, "\n", -1)
	e.Set("message", colorCodeRE.ReplaceAllString(msg, ""))
	e.SetClassName("game_text")
	e.Set("color", "255 255 255")
	e.Set("color2", "255 255 255")
	e.Set("effect", "0")
	e.Set("fadein", "0.5")
	e.Set("fadeout", "0.5")
	e.Set("holdtime", "3")
	e.Set("x", "-1")
	e.Set("y", "0.2")
}

func convertAngles(e *Entity) {
	angle, ok := parseFloat(e.Get("angle"))
	if !ok {
		return
	}
	e.Set("angles", "0 "+FormatFloat(angle)+" 0")
	e.Delete("angle")
}
