package content

import (
	"archive/zip"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

type recordLogger struct {
	lines []string
}

func (l *recordLogger) Log(s string) { l.lines = append(l.lines, s) }

func writeZip(t *testing.T, fn string, files map[string]string) {
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

func TestStageErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "level.txt")
	if err := ioutil.WriteFile(txt, nil, 0644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.pk3")
	writeZip(t, empty, map[string]string{"sound/a.wav": "a"})

	for _, fn := range []string{
		filepath.Join(dir, "missing.bsp"),
		txt,
		empty,
	} {
		if d, err := Stage(fn); err == nil {
			d.Close()
			t.Errorf("%q: staged", fn)
		}
	}
}

func TestStageBSP(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "a.bsp")
	if err := ioutil.WriteFile(fn, []byte("IBSP"), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := Stage(fn)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	root := d.Root
	if got, want := d.Maps, []string{fn}; !reflect.DeepEqual(got, want) {
		t.Errorf("maps: got %q, want %q", got, want)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("content dir left behind: %v", err)
	}
}

func TestStagePK3(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "pack.pk3")
	writeZip(t, fn, map[string]string{
		"maps/one.bsp":         "1",
		"maps/two.BSP":         "2",
		"sound/world/jump.wav": "jump",
		"music/song.wav":       "song",
		"levelshots/one.jpg":   "jpg",
	})
	d, err := Stage(fn)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	defer d.Close()

	want := []string{
		filepath.Join(d.Root, "maps", "one.bsp"),
		filepath.Join(d.Root, "maps", "two.BSP"),
	}
	if !reflect.DeepEqual(d.Maps, want) {
		t.Errorf("maps: got %q, want %q", d.Maps, want)
	}

	l := &recordLogger{}
	files, err := d.Gather([]string{"world/jump.wav", "world/other.wav"}, l)
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	wantFiles := map[string][]byte{
		"sound/world/jump.wav": []byte("jump"),
		"sound/music/song.wav": []byte("song"),
	}
	if !reflect.DeepEqual(files, wantFiles) {
		t.Errorf("files: got %q, want %q", files, wantFiles)
	}
	if len(l.lines) != 1 || !strings.Contains(l.lines[0], "world/other.wav") {
		t.Errorf("log: got %q", l.lines)
	}

	out := t.TempDir()
	if err := Export(files, out); err != nil {
		t.Fatalf("Export: %v", err)
	}
	b, err := ioutil.ReadFile(filepath.Join(out, "sound", "music", "song.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "song" {
		t.Errorf("exported: got %q, want %q", b, "song")
	}
}

func TestExportEscape(t *testing.T) {
	if err := Export(map[string][]byte{"../x": nil}, t.TempDir()); err == nil {
		t.Errorf("escaping path exported")
	}
}

func TestExportCurrentDir(t *testing.T) {
	t.Chdir(t.TempDir())
	files := map[string][]byte{
		"sound/world/jumppad.wav": []byte("jump"),
	}
	if err := Export(files, "."); err != nil {
		t.Fatalf("Export: %v", err)
	}
	b, err := ioutil.ReadFile(filepath.Join("sound", "world", "jumppad.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "jump" {
		t.Errorf("exported: got %q, want %q", b, "jump")
	}
}

func TestLoadLightmaps(t *testing.T) {
	root := t.TempDir()
	d := &Dir{Root: root}
	if err := os.MkdirAll(filepath.Join(root, "maps", "x"), 0755); err != nil {
		t.Fatal(err)
	}
	src := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	for _, test := range []struct {
		fn     string
		encode func(*os.File) error
	}{
		{"lm_0000.png", func(f *os.File) error { return png.Encode(f, src) }},
		{"lm_0001.bmp", func(f *os.File) error { return bmp.Encode(f, src) }},
	} {
		f, err := os.Create(filepath.Join(root, "maps", "x", test.fn))
		if err != nil {
			t.Fatal(err)
		}
		if err := test.encode(f); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	if err := ioutil.WriteFile(filepath.Join(root, "maps", "x", "lm_0002.png"), []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}

	l := &recordLogger{}
	imgs := d.LoadLightmaps([]string{"maps/x/lm_0000", "maps/x/lm_0001", "maps/x/lm_0002", "maps/x/lm_0003"}, l)
	if got, want := len(imgs), 2; got != want {
		t.Fatalf("images: got %d, want %d", got, want)
	}
	if got, want := len(l.lines), 2; got != want {
		t.Errorf("log: got %q, want %d lines", l.lines, want)
	}
	for name, img := range imgs {
		if got, want := img.Bounds(), image.Rect(0, 0, 128, 128); got != want {
			t.Errorf("%q bounds: got %v, want %v", name, got, want)
		}
		r, g, _, _ := img.At(10, 20).RGBA()
		if r>>8 != 21 || g>>8 != 41 {
			t.Errorf("%q (10,20): got %d,%d, want 21,41", name, r>>8, g>>8)
		}
	}
}
