package pak

import (
	"archive/zip"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writePk3(t *testing.T, fn string, files map[string]string) {
	t.Helper()
	f, err := os.Create(fn)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	z := zip.NewWriter(f)
	for name, data := range files {
		w, err := z.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}
}

func read(t *testing.T, m MultiPak, fn string) string {
	t.Helper()
	r, err := m.Get(fn)
	if err != nil {
		t.Fatalf("Get(%q): %v", fn, err)
	}
	defer r.Close()
	b, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatalf("reading %q: %v", fn, err)
	}
	return string(b)
}

func TestMultiPak(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pk3")
	b := filepath.Join(dir, "b.pk3")
	writePk3(t, a, map[string]string{
		"maps/one.bsp":   "one",
		"sound/jump.wav": "old",
	})
	writePk3(t, b, map[string]string{
		"sound/jump.wav": "new",
	})

	m, err := MultiOpen(a, "", b)
	if err != nil {
		t.Fatalf("MultiOpen: %v", err)
	}
	defer m.Close()

	if got, want := m.List(), []string{"maps/one.bsp", "sound/jump.wav"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List: got %q, want %q", got, want)
	}
	for _, test := range []struct {
		fn, want string
	}{
		{"maps/one.bsp", "one"},
		{"sound/jump.wav", "new"},
	} {
		if got := read(t, m, test.fn); got != test.want {
			t.Errorf("%q: got %q, want %q", test.fn, got, test.want)
		}
	}
	if _, err := m.Get("missing"); !os.IsNotExist(err) {
		t.Errorf("missing file: got %v, want not exist", err)
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "x.pk3")
	writePk3(t, fn, map[string]string{
		"maps/x.bsp":    "bsp",
		"../escape.txt": "bad",
		"sound/a/b.wav": "wav",
	})
	m, err := MultiOpen(fn)
	if err != nil {
		t.Fatalf("MultiOpen: %v", err)
	}
	defer m.Close()
	p := m[0]

	out := filepath.Join(dir, "out")
	got, err := p.Extract("sound/a/b.wav", out)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if want := filepath.Join(out, "sound", "a", "b.wav"); got != want {
		t.Errorf("path: got %q, want %q", got, want)
	}
	b, err := ioutil.ReadFile(got)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "wav" {
		t.Errorf("content: got %q, want %q", b, "wav")
	}

	if _, err := p.Extract("../escape.txt", out); err == nil {
		t.Errorf("escaping path extracted")
	}
	if err := p.ExtractAll(out); err == nil {
		t.Errorf("ExtractAll with escaping path succeeded")
	}
}

func TestSafeJoin(t *testing.T) {
	for _, test := range []struct {
		dir, fn string
		want    string
		ok      bool
	}{
		{".", "maps/q3dm1.bsp", filepath.FromSlash("maps/q3dm1.bsp"), true},
		{"/", "maps/q3dm1.bsp", filepath.FromSlash("/maps/q3dm1.bsp"), true},
		{"out", "maps/q3dm1.bsp", filepath.FromSlash("out/maps/q3dm1.bsp"), true},
		{"out/", "sound/a/../b.wav", filepath.FromSlash("out/sound/b.wav"), true},
		{"out", "..foo/x", filepath.FromSlash("out/..foo/x"), true},
		{".", "../x", "", false},
		{"out", "../x", "", false},
		{"out", "sound/../../x", "", false},
		{"out", ".", "", false},
	} {
		got, err := SafeJoin(test.dir, test.fn)
		if (err == nil) != test.ok {
			t.Errorf("SafeJoin(%q, %q): got error %v, want ok %v", test.dir, test.fn, err, test.ok)
			continue
		}
		if got != test.want {
			t.Errorf("SafeJoin(%q, %q): got %q, want %q", test.dir, test.fn, got, test.want)
		}
	}
}

func TestExtractCurrentDir(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "x.pk3")
	writePk3(t, fn, map[string]string{
		"maps/x.bsp":    "bsp",
		"sound/a/b.wav": "wav",
	})
	m, err := MultiOpen(fn)
	if err != nil {
		t.Fatalf("MultiOpen: %v", err)
	}
	defer m.Close()

	t.Chdir(t.TempDir())
	got, err := m[0].Extract("maps/x.bsp", ".")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if want := filepath.Join("maps", "x.bsp"); got != want {
		t.Errorf("path: got %q, want %q", got, want)
	}
	if err := m[0].ExtractAll("."); err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	for fn, want := range map[string]string{
		"maps/x.bsp":    "bsp",
		"sound/a/b.wav": "wav",
	} {
		b, err := ioutil.ReadFile(filepath.FromSlash(fn))
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != want {
			t.Errorf("%q: got %q, want %q", fn, b, want)
		}
	}
}

func TestOpenNotZip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "bad.pk3")
	if err := ioutil.WriteFile(fn, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := MultiOpen(fn); err == nil {
		t.Errorf("opened non-zip file")
	}
}
