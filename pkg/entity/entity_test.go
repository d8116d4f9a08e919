package entity

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const testLump = `{
"classname" "worldspawn"
"message" "two
lines"
}
{
  "classname"   "trigger_multiple"
  "model" "*1"
  "OnStartTouch" "door1,Open,,0.5,-1"
  "Ontology" "not,a,connection"
}
` + "\x00"

func TestParse(t *testing.T) {
	ents, err := Parse(testLump)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(ents), 2; got != want {
		t.Fatalf("entity count: got %d, want %d", got, want)
	}
	if got, want := ents[0].Get("message"), "two\nlines"; got != want {
		t.Errorf("message: got %q, want %q", got, want)
	}
	trig := ents[1]
	if got, want := trig.KeyValues, []KeyValue{
		{"classname", "trigger_multiple"},
		{"model", "*1"},
		{"Ontology", "not,a,connection"},
	}; !reflect.DeepEqual(got, want) {
		t.Errorf("keyvalues: got %v, want %v", got, want)
	}
	if got, want := trig.Connections, []Connection{{
		Output:      "OnStartTouch",
		Target:      "door1",
		Input:       "Open",
		Delay:       0.5,
		TimesToFire: -1,
	}}; !reflect.DeepEqual(got, want) {
		t.Errorf("connections: got %v, want %v", got, want)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	ents, err := Parse(testLump)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Parse(Marshal(ents))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ents, again) {
		t.Errorf("round trip: got %v, want %v", again, ents)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		`"a" "b"`,
		`{ "a" }`,
		`{ "a" "b"`,
		`{ "abc`,
		`{ a "b" }`,
	} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestEntityKeys(t *testing.T) {
	e := New("light")
	e.Set("origin", "1 2 3")
	e.Set("light", "300")
	e.Set("origin", "4 5 6")
	if got, want := e.KeyValues, []KeyValue{
		{"classname", "light"},
		{"origin", "4 5 6"},
		{"light", "300"},
	}; !reflect.DeepEqual(got, want) {
		t.Errorf("keyvalues: got %v, want %v", got, want)
	}
	e.Delete("origin")
	if _, ok := e.Lookup("origin"); ok {
		t.Errorf("origin still set after Delete")
	}
	if got, want := e.Origin(), (mgl32.Vec3{}); got != want {
		t.Errorf("unset origin: got %v, want %v", got, want)
	}
	e.SetOrigin(mgl32.Vec3{1.5, -2, 0})
	if got, want := e.Get("origin"), "1.5 -2 0"; got != want {
		t.Errorf("origin: got %q, want %q", got, want)
	}
}

func TestParseVec3(t *testing.T) {
	for _, test := range []struct {
		in   string
		want mgl32.Vec3
		err  bool
	}{
		{"1 2 3", mgl32.Vec3{1, 2, 3}, false},
		{" -1.5  0 1e2 ", mgl32.Vec3{-1.5, 0, 100}, false},
		{"1 2", mgl32.Vec3{}, true},
		{"a b c", mgl32.Vec3{}, true},
	} {
		got, err := ParseVec3(test.in)
		if (err != nil) != test.err {
			t.Errorf("ParseVec3(%q) error: got %v, want error %v", test.in, err, test.err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseVec3(%q): got %v, want %v", test.in, got, test.want)
		}
	}
}

func TestRenumberModels(t *testing.T) {
	world := New("worldspawn")
	world.Set("model", "*0")
	door := New("func_door")
	door.Set("model", "*2")
	gone := New("func_button")
	gone.Set("model", "*3")
	light := New("light")

	kept, dropped := RenumberModels([]*Entity{world, door, gone, light}, map[int]int{1: 1, 2: 1})
	if got, want := kept, []*Entity{world, door, light}; !reflect.DeepEqual(got, want) {
		t.Errorf("kept: got %v, want %v", got, want)
	}
	if got, want := dropped, []*Entity{gone}; !reflect.DeepEqual(got, want) {
		t.Errorf("dropped: got %v, want %v", got, want)
	}
	if got, want := door.Get("model"), "*1"; got != want {
		t.Errorf("door model: got %q, want %q", got, want)
	}
}
