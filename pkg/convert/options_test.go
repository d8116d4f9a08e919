package convert

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ThomasHabets/bspconv/pkg/q3bsp"
	"github.com/ThomasHabets/bspconv/pkg/vbsp"
)

func TestClamp(t *testing.T) {
	for _, test := range []struct {
		in, want int
	}{
		{0, 2},
		{2, 2},
		{3, 3},
		{4, 4},
		{9, 4},
	} {
		o := Options{DisplacementPower: test.in}
		o.Clamp()
		if got := o.DisplacementPower; got != test.want {
			t.Errorf("%d: got %d, want %d", test.in, got, test.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	for _, test := range []struct {
		dir, prefix, in, want string
	}{
		{".", "df_", "/tmp/in/cpm1.bsp", "maps/df_cpm1.bsp"},
		{"out", "", "cpm1.pk3", "out/maps/cpm1.bsp"},
		{"/x", "df_", "a.b.bsp", "/x/maps/df_a.b.bsp"},
	} {
		o := Options{OutputDir: test.dir, Prefix: test.prefix}
		if got := o.OutputPath(test.in); got != test.want {
			t.Errorf("%q: got %q, want %q", test.in, got, test.want)
		}
	}
}

func TestVersion(t *testing.T) {
	o := DefaultOptions()
	if got, want := o.Version(), int32(vbsp.VersionNew); got != want {
		t.Errorf("version: got %d, want %d", got, want)
	}
	if !o.usePrimitives() {
		t.Errorf("new version doesn't use primitives")
	}
	o.OldBSP = true
	if got, want := o.Version(), int32(vbsp.VersionOld); got != want {
		t.Errorf("old version: got %d, want %d", got, want)
	}
	if got, want := o.CoordLimit(), float32(16384); got != want {
		t.Errorf("old limit: got %v, want %v", got, want)
	}
}

func TestLoadOptions(t *testing.T) {
	dir, err := ioutil.TempDir("", "bspconv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	fn := filepath.Join(dir, "opts.yaml")
	if err := ioutil.WriteFile(fn, []byte("old_bsp: true\nmin_damage: 20\nprefix: q3_\n"), 0644); err != nil {
		t.Fatal(err)
	}
	o, err := LoadOptions(fn)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	want := DefaultOptions()
	want.OldBSP = true
	want.MinDamage = 20
	want.Prefix = "q3_"
	if o != want {
		t.Errorf("got %+v, want %+v", o, want)
	}

	if err := ioutil.WriteFile(fn, []byte("old_bsp: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptions(fn); err == nil {
		t.Errorf("bad YAML accepted")
	}
}

func TestMaterialsFromShaders(t *testing.T) {
	shaders := make([]q3bsp.Shader, 3)
	shaders[0].SetName("textures/base/Floor")
	shaders[1].SetName("textures/skies/space")
	shaders[1].SurfaceFlags = q3bsp.SurfSky
	shaders[2].SetName("textures/common/caulk")
	shaders[2].SurfaceFlags = q3bsp.SurfNoDraw | q3bsp.SurfNoLightmap
	m := MaterialsFromShaders(shaders)

	for _, test := range []struct {
		name  string
		flags int32
	}{
		{"textures/base/floor", 0},
		{"TEXTURES/skies/space", vbsp.SurfSky | vbsp.SurfNoLight},
		{"textures/common/caulk", vbsp.SurfNoDraw | vbsp.SurfNoLight},
		{"textures/unknown", 0},
	} {
		if got := m.Lookup(test.name).SurfFlags(); got != test.flags {
			t.Errorf("%q: got %x, want %x", test.name, got, test.flags)
		}
	}
	if got := m.SkyName(); got != "" {
		t.Errorf("skyname: got %q, want none", got)
	}
}

func TestLoadMaterials(t *testing.T) {
	dir, err := ioutil.TempDir("", "bspconv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	fn := filepath.Join(dir, "mats.yaml")
	if err := ioutil.WriteFile(fn, []byte(`
- name: textures/skies/Space
  sky: true
  skyname: space
- name: textures/base/lamp
  lightmap: maps/test/lm_0001
- name: textures/base/wall
  lightmap: maps/test/lm_0001
  cull: none
`), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadMaterials(fn)
	if err != nil {
		t.Fatalf("LoadMaterials: %v", err)
	}
	if got, want := m.SkyName(), "space"; got != want {
		t.Errorf("skyname: got %q, want %q", got, want)
	}
	if got, want := m.ExternalLightmaps(), []string{"maps/test/lm_0001"}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("external lightmaps: got %q, want %q", got, want)
	}

	base := MaterialsFromShaders(nil)
	base.Merge(m)
	if !base.Lookup("textures/skies/space").Sky {
		t.Errorf("merged sky material lost")
	}

	if err := ioutil.WriteFile(fn, []byte("- sky: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMaterials(fn); err == nil {
		t.Errorf("material without name accepted")
	}
}

func TestBrushContents(t *testing.T) {
	for _, test := range []struct {
		in   uint32
		want int32
	}{
		{0, 0},
		{q3bsp.ContentsSolid, vbsp.ContentsSolid},
		{q3bsp.ContentsLava, vbsp.ContentsSlime},
		{q3bsp.ContentsWater | q3bsp.ContentsDetail, vbsp.ContentsWater | vbsp.ContentsDetail},
		{q3bsp.ContentsPlayerClip | q3bsp.ContentsTrigger, vbsp.ContentsPlayerClip},
	} {
		if got := brushContents(test.in); got != test.want {
			t.Errorf("%x: got %x, want %x", test.in, got, test.want)
		}
	}
}
