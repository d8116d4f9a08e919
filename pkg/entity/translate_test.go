package entity

import (
	"reflect"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type recordLogger struct {
	msgs []string
}

func (l *recordLogger) Log(msg string) {
	l.msgs = append(l.msgs, msg)
}

// ent makes an entity out of key/value pairs.
func ent(kv ...string) *Entity {
	e := &Entity{}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Set(kv[i], kv[i+1])
	}
	return e
}

func translate(opts Options, models []Bounds, ents ...*Entity) []*Entity {
	return NewTranslator(ents, models, opts, &recordLogger{}).Translate()
}

func classNames(ents []*Entity) []string {
	var ret []string
	for _, e := range ents {
		ret = append(ret, e.ClassName())
	}
	return ret
}

func TestTriggerHurt(t *testing.T) {
	for _, test := range []struct {
		dmg       string
		wantClass string
	}{
		{"", "trigger_hurt"},
		{"10", "trigger_hurt"},
		{"49", "trigger_hurt"},
		{"50", "trigger_teleport"},
		{"1000", "trigger_teleport"},
	} {
		hurt := ent("classname", "trigger_hurt", "dmg", test.dmg)
		translate(Options{MinDamage: 50}, nil, hurt)
		if got, want := hurt.ClassName(), test.wantClass; got != want {
			t.Errorf("dmg %q: got %q, want %q", test.dmg, got, want)
			continue
		}
		if test.wantClass != "trigger_teleport" {
			if _, ok := hurt.Lookup("target"); ok {
				t.Errorf("dmg %q: unconverted trigger got a target", test.dmg)
			}
			continue
		}
		for k, want := range map[string]string{
			"target":     StartName,
			"spawnflags": "1",
			"mode":       "1",
		} {
			if got := hurt.Get(k); got != want {
				t.Errorf("dmg %q: %s: got %q, want %q", test.dmg, k, got, want)
			}
		}
	}
}

func TestTriggerDelayPrint(t *testing.T) {
	trig := ent("classname", "trigger_multiple", "target", "t1")
	delay := ent("classname", "target_delay", "targetname", "t1", "wait", "2", "target", "t2")
	msg := ent("classname", "target_print", "targetname", "t2", "message", `Hello\n^1World`)
	translate(Options{}, nil, trig, delay, msg)

	if got, want := trig.Connections, []Connection{{
		Output:      "OnStartTouch",
		Target:      "t2",
		Input:       "Display",
		Delay:       2,
		TimesToFire: -1,
	}}; !reflect.DeepEqual(got, want) {
		t.Errorf("connections: got %v, want %v", got, want)
	}
	if got, want := trig.Get("spawnflags"), "1"; got != want {
		t.Errorf("spawnflags: got %q, want %q", got, want)
	}
	if got, want := msg.ClassName(), "game_text"; got != want {
		t.Errorf("print class: got %q, want %q", got, want)
	}
	if got, want := msg.Get("message"), "Hello\nWorld"; got != want {
		t.Errorf("print message: got %q, want %q", got, want)
	}
}

func TestTriggerGive(t *testing.T) {
	trig := ent("classname", "trigger_multiple", "target", "g")
	give := ent("classname", "target_give", "targetname", "g", "target", "w")
	rl := ent("classname", "weapon_rocketlauncher", "targetname", "w")
	haste := ent("classname", "item_haste", "targetname", "w")
	cells := ent("classname", "ammo_cells", "targetname", "w", "count", "-1")
	out := translate(Options{}, nil, trig, give, rl, haste, cells)

	if got, want := out, []*Entity{trig}; !reflect.DeepEqual(got, want) {
		t.Errorf("entities: got %v, want %v", classNames(got), classNames(want))
	}
	want := []Connection{
		{"OnStartTouch", "!activator", "GiveWeapon", "weapon_momentum_df_rocketlauncher", giveDelay, -1},
		{"OnStartTouch", "!activator", "SetRockets", "10", 0, -1},
		{"OnStartTouch", "!activator", "SetHaste", "30", giveDelay, -1},
		{"OnStartTouch", "!activator", "SetCells", "-1", giveDelay, -1},
	}
	if got := trig.Connections; !reflect.DeepEqual(got, want) {
		t.Errorf("connections: got %v, want %v", got, want)
	}
}

func TestTriggerInit(t *testing.T) {
	for _, test := range []struct {
		flags string
		want  int
	}{
		{"0", 7},
		{"8", 5},
		{"4", 2},
		{"12", 0},
		{"32", 8},
	} {
		trig := ent("classname", "trigger_multiple", "target", "i")
		ti := ent("classname", "target_init", "targetname", "i", "spawnflags", test.flags)
		translate(Options{}, nil, trig, ti)
		if got := len(trig.Connections); got != test.want {
			t.Errorf("spawnflags %s: got %d connections, want %d", test.flags, got, test.want)
		}
	}
}

func TestTimerZones(t *testing.T) {
	for _, test := range []struct {
		ignore bool
		want   []string
	}{
		{false, []string{
			"trigger_momentum_timer_checkpoint",
			"trigger_multiple",
			"trigger_momentum_timer_checkpoint",
			"trigger_multiple",
			"trigger_momentum_timer_stop",
			"trigger_multiple",
		}},
		{true, []string{"trigger_multiple", "trigger_multiple", "trigger_multiple"}},
	} {
		out := translate(Options{IgnoreZones: test.ignore}, nil,
			ent("classname", "trigger_multiple", "model", "*1", "target", "cp1"),
			ent("classname", "trigger_multiple", "model", "*2", "target", "cp2"),
			ent("classname", "trigger_multiple", "model", "*3", "target", "stop"),
			ent("classname", "target_checkpoint", "targetname", "cp1"),
			ent("classname", "target_checkpoint", "targetname", "cp2"),
			ent("classname", "target_stopTimer", "targetname", "stop"),
		)
		if got := classNames(out); !reflect.DeepEqual(got, test.want) {
			t.Errorf("ignore %v: got %v, want %v", test.ignore, got, test.want)
			continue
		}
		if test.ignore {
			continue
		}
		for i, want := range []struct{ model, zone string }{
			{"*1", "2"},
			{"*2", "3"},
			{"*3", "0"},
		} {
			z := out[i*2]
			if got := z.Get("model"); got != want.model {
				t.Errorf("zone %d model: got %q, want %q", i, got, want.model)
			}
			if got := z.Get("zone_number"); got != want.zone {
				t.Errorf("zone %d number: got %q, want %q", i, got, want.zone)
			}
		}
	}
}

func TestTargetCycle(t *testing.T) {
	trig := ent("classname", "trigger_multiple", "targetname", "self", "target", "a")
	a := ent("classname", "target_delay", "targetname", "a", "wait", "1", "target", "b")
	b := ent("classname", "target_delay", "targetname", "b", "wait", "1", "target", "a")
	door := ent("classname", "func_door", "targetname", "b")
	self := ent("classname", "trigger_multiple", "targetname", "loop", "target", "loop")
	translate(Options{}, nil, trig, a, b, door, self)

	if got, want := trig.Connections, []Connection{
		{"OnStartTouch", "b", "Open", "", 2, -1},
	}; !reflect.DeepEqual(got, want) {
		t.Errorf("connections: got %v, want %v", got, want)
	}
	if got := len(self.Connections); got != 0 {
		t.Errorf("self-targeting trigger: got %d connections, want 0", got)
	}
}

func TestPlayerStartGive(t *testing.T) {
	start := ent("classname", "info_player_deathmatch", "origin", "10 20 30", "target", "g", "angle", "90")
	give := ent("classname", "target_give", "targetname", "g", "target", "i")
	rl := ent("classname", "weapon_rocketlauncher", "targetname", "i")
	ammo := ent("classname", "ammo_rockets", "targetname", "i", "count", "7")
	quad := ent("classname", "item_quad", "targetname", "i")
	out := translate(Options{}, nil, start, give, rl, ammo, quad)

	if got, want := classNames(out), []string{
		"momentum_weapon_spawner",
		"momentum_pickup_ammo",
		"momentum_powerup_damage_boost",
		"info_player_start",
	}; !reflect.DeepEqual(got, want) {
		t.Fatalf("entities: got %v, want %v", got, want)
	}
	for i, want := range []map[string]string{
		{"weaponname": "weapon_momentum_df_rocketlauncher", "pickupammo": "10"},
		{"ammoname": "rockets", "pickupammo": "7"},
		{"damageboosttime": "30"},
	} {
		want["origin"] = "10 20 30"
		want["resettime"] = "-1"
		want["rendermode"] = "10"
		for k, v := range want {
			if got := out[i].Get(k); got != v {
				t.Errorf("pickup %d %s: got %q, want %q", i, k, got, v)
			}
		}
	}
	if got, want := start.Name(), StartName; got != want {
		t.Errorf("start name: got %q, want %q", got, want)
	}
	if got, want := start.Get("angles"), "0 90 0"; got != want {
		t.Errorf("start angles: got %q, want %q", got, want)
	}
	if _, ok := start.Lookup("angle"); ok {
		t.Errorf("start still has angle")
	}
}

func TestSetButtonFlags(t *testing.T) {
	for _, test := range []struct {
		speed, wait, health string
		want                string
	}{
		{"", "-1", "", ""},
		{"9999", "-1", "", "257"},
		{"-1", "-1", "0", "257"},
		{"-1", "1", "5", "512"},
		{"40", "-1", "0", "256"},
		{"40", "2", "x", "256"},
	} {
		e := ent("classname", "func_button", "speed", test.speed, "wait", test.wait, "health", test.health)
		setButtonFlags(e)
		if got := e.Get("spawnflags"); got != test.want {
			t.Errorf("speed %q wait %q health %q: got %q, want %q", test.speed, test.wait, test.health, got, test.want)
		}
	}
}

func TestButton(t *testing.T) {
	button := ent("classname", "func_button", "angle", "-1", "wait", "-1", "speed", "10000", "target", "d")
	door := ent("classname", "func_door", "targetname", "d", "angle", "90")
	translate(Options{}, nil, button, door)

	for k, want := range map[string]string{
		"movedir":     "-90 0 0",
		"wait":        "0.001",
		"spawnflags":  "257",
		"customsound": "movers/switches/butn2.wav",
	} {
		if got := button.Get(k); got != want {
			t.Errorf("button %s: got %q, want %q", k, got, want)
		}
	}
	if got, want := button.Connections, []Connection{
		{"OnPressed", "d", "Open", "", 0, -1},
	}; !reflect.DeepEqual(got, want) {
		t.Errorf("button connections: got %v, want %v", got, want)
	}
	if got, want := door.Get("movedir"), "0 90 0"; got != want {
		t.Errorf("door movedir: got %q, want %q", got, want)
	}
	if got, want := door.Get("wait"), "2"; got != want {
		t.Errorf("door wait: got %q, want %q", got, want)
	}
}

func TestShootableDoor(t *testing.T) {
	door := ent("classname", "func_door", "health", "10", "speed", "100")
	translate(Options{}, nil, door)
	if got, want := door.ClassName(), "func_button"; got != want {
		t.Errorf("class: got %q, want %q", got, want)
	}
	if got, want := door.Get("spawnflags"), "512"; got != want {
		t.Errorf("spawnflags: got %q, want %q", got, want)
	}
}

func TestPushVelocity(t *testing.T) {
	trig := ent("classname", "trigger_multiple", "target", "p")
	push := ent("classname", "target_push", "targetname", "p", "angles", "-90 0 0", "speed", "500")
	translate(Options{}, nil, trig, push)

	if got, want := len(trig.Connections), 1; got != want {
		t.Fatalf("connections: got %d, want %d", got, want)
	}
	c := trig.Connections[0]
	if c.Target != "player" || c.Input != "SetLocalVelocity" {
		t.Errorf("connection: got %v", c)
	}
	v, err := ParseVec3(c.Param)
	if err != nil {
		t.Fatal(err)
	}
	if !v.ApproxEqualThreshold(mgl32.Vec3{0, 0, 500}, 1e-2) {
		t.Errorf("velocity: got %v, want %v", v, mgl32.Vec3{0, 0, 500})
	}
}

func TestLaunchDir(t *testing.T) {
	for _, test := range []struct {
		pitch, yaw float32
		want       mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{1, 0, 0}},
		{0, 90, mgl32.Vec3{0, 1, 0}},
		{-90, 0, mgl32.Vec3{0, 0, 1}},
		{45, 180, mgl32.Vec3{-math32.Sqrt2 / 2, 0, -math32.Sqrt2 / 2}},
	} {
		if got := launchDir(test.pitch, test.yaw); !got.ApproxEqualThreshold(test.want, 1e-5) {
			t.Errorf("launchDir(%v, %v): got %v, want %v", test.pitch, test.yaw, got, test.want)
		}
	}
}

func TestPushJumppad(t *testing.T) {
	trig := ent("classname", "trigger_multiple", "model", "*1", "target", "p")
	push := ent("classname", "target_push", "targetname", "p", "origin", "100 100 0", "target", "d")
	dest := ent("classname", "target_position", "targetname", "d", "origin", "100 100 200")
	models := []Bounds{{}, {Mins: mgl32.Vec3{0, 0, 0}, Maxs: mgl32.Vec3{64, 64, 64}}}
	translate(Options{}, models, trig, push, dest)

	if got, want := trig.ClassName(), "trigger_jumppad"; got != want {
		t.Errorf("trigger class: got %q, want %q", got, want)
	}
	if got, want := trig.Get("launchtarget"), "d"; got != want {
		t.Errorf("launchtarget: got %q, want %q", got, want)
	}
	if got, want := dest.ClassName(), "info_target"; got != want {
		t.Errorf("dest class: got %q, want %q", got, want)
	}
	if got, want := dest.Get("origin"), "32 32 232"; got != want {
		t.Errorf("dest origin: got %q, want %q", got, want)
	}
}

func TestTriggerPush(t *testing.T) {
	trig := ent("classname", "trigger_push", "target", "aim")
	aim := ent("classname", "target_position", "targetname", "aim")
	out := translate(Options{}, nil, trig, aim)
	if got, want := classNames(out), []string{"trigger_jumppad", "info_target"}; !reflect.DeepEqual(got, want) {
		t.Errorf("classes: got %v, want %v", got, want)
	}
	if got, want := Sounds(out), []string{"world/jumppad.wav"}; !reflect.DeepEqual(got, want) {
		t.Errorf("sounds: got %v, want %v", got, want)
	}
}

func TestTriggerTeleport(t *testing.T) {
	for _, test := range []struct {
		flags     string
		mode      string
		setspeed  string
		converted bool
	}{
		{"", "5", "400", true},
		{"2", "3", "", true},
		{"3", "3", "", true},
		{"1", "", "", false},
	} {
		tele := ent("classname", "trigger_teleport", "spawnflags", test.flags, "target", "dst")
		dst := ent("classname", "misc_teleporter_dest", "targetname", "dst", "origin", "0 0 100")
		translate(Options{}, nil, tele, dst)
		if got := tele.Get("mode"); got != test.mode {
			t.Errorf("flags %q mode: got %q, want %q", test.flags, got, test.mode)
		}
		if got := tele.Get("setspeed"); got != test.setspeed {
			t.Errorf("flags %q setspeed: got %q, want %q", test.flags, got, test.setspeed)
		}
		// The destination must be lowered exactly once, whichever converts it.
		if got, want := dst.Get("origin"), "0 0 77"; got != want {
			t.Errorf("flags %q dest origin: got %q, want %q", test.flags, got, want)
		}
		if got, want := dst.ClassName(), "info_teleport_destination"; got != want {
			t.Errorf("flags %q dest class: got %q, want %q", test.flags, got, want)
		}
	}
}

func TestSpeaker(t *testing.T) {
	for _, test := range []struct {
		flags string
		want  string
	}{
		{"0", "32"},
		{"1", "0"},
		{"2", "16"},
		{"4", "33"},
		{"9", "1"},
	} {
		trig := ent("classname", "trigger_multiple", "target", "s")
		spk := ent("classname", "target_speaker", "targetname", "s", "noise", "sound/world/bell.wav", "spawnflags", test.flags)
		out := translate(Options{}, nil, trig, spk)
		if got, want := classNames(out), []string{"trigger_multiple", "ambient_generic"}; !reflect.DeepEqual(got, want) {
			t.Errorf("flags %s: classes: got %v, want %v", test.flags, got, want)
		}
		if got := spk.Get("spawnflags"); got != test.want {
			t.Errorf("flags %s: got %q, want %q", test.flags, got, test.want)
		}
		if got, want := spk.Get("message"), "world/bell.wav"; got != want {
			t.Errorf("flags %s: message: got %q, want %q", test.flags, got, want)
		}
		if got, want := Sounds(out), []string{"world/bell.wav"}; !reflect.DeepEqual(got, want) {
			t.Errorf("flags %s: sounds: got %v, want %v", test.flags, got, want)
		}
	}
}

func TestUnusedSpeakerDropped(t *testing.T) {
	out := translate(Options{}, nil,
		ent("classname", "worldspawn"),
		ent("classname", "target_speaker", "noise", "sound/a.wav"),
	)
	if got, want := classNames(out), []string{"worldspawn"}; !reflect.DeepEqual(got, want) {
		t.Errorf("classes: got %v, want %v", got, want)
	}
}

func TestEquipment(t *testing.T) {
	for _, test := range []struct {
		in   []string
		want map[string]string
	}{
		{
			[]string{"classname", "weapon_plasmagun", "wait", "0"},
			map[string]string{"classname": "momentum_weapon_spawner", "weaponname": "weapon_momentum_df_plasmagun", "pickupammo": "50", "resettime": "5"},
		},
		{
			[]string{"classname", "ammo_cells", "count", "12", "wait", "3"},
			map[string]string{"classname": "momentum_pickup_ammo", "ammoname": "cells", "pickupammo": "12", "resettime": "3"},
		},
		{
			[]string{"classname", "item_haste"},
			map[string]string{"classname": "momentum_powerup_haste", "hastetime": "30", "resettime": "120"},
		},
		{
			[]string{"classname", "item_armor_body"},
			map[string]string{"classname": "item_armor_body", "resettime": "120"},
		},
	} {
		e := ent(test.in...)
		translate(Options{}, nil, e)
		for k, want := range test.want {
			if got := e.Get(k); got != want {
				t.Errorf("%v %s: got %q, want %q", test.in, k, got, want)
			}
		}
	}
}

func TestWorldspawnSky(t *testing.T) {
	w := ent("classname", "worldspawn")
	translate(Options{SkyName: "env/space"}, nil, w)
	if got, want := w.Get("skyname"), "env/space"; got != want {
		t.Errorf("skyname: got %q, want %q", got, want)
	}
}
