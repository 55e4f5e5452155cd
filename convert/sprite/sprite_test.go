package sprite

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"

	"go.uber.org/zap/zaptest"

	"stylebridge/config"
)

const circleSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><circle cx="5" cy="5" r="5" fill="#ff0000"/></svg>`

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{G: 200, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(&config.SpriteConfig{IconSize: 16, CacheSize: 1 << 20}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"styles/icons/b.png":  {Data: pngData(t, 40, 20)},
		"styles/icons/a.svg":  {Data: []byte(circleSVG)},
		"styles/broken.png":   {Data: []byte("not an image")},
		"shared/icons/a.png":  {Data: pngData(t, 4, 4)},
		"styles/icons/10.svg": {Data: []byte(circleSVG)},
		"styles/icons/9.svg":  {Data: []byte(circleSVG)},
	}
}

func TestBuild(t *testing.T) {
	b := newBuilder(t)
	sheet, skipped, err := b.Build(testFS(t), "styles", []string{"icons/b.png", "icons/a.svg", "missing.svg", "broken.png"}, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !reflect.DeepEqual(skipped, []string{"broken.png", "missing.svg"}) {
		t.Errorf("skipped = %v", skipped)
	}
	want := map[string]Entry{
		"a": {X: 0, Y: 0, Width: 16, Height: 16, PixelRatio: 1},
		"b": {X: 16, Y: 0, Width: 16, Height: 8, PixelRatio: 1},
	}
	if !reflect.DeepEqual(sheet.Index, want) {
		t.Errorf("index = %+v, want %+v", sheet.Index, want)
	}
	if sheet.Image.Bounds() != image.Rect(0, 0, 32, 16) {
		t.Errorf("sheet bounds = %v", sheet.Image.Bounds())
	}
	if _, _, _, a := sheet.Image.At(8, 8).RGBA(); a == 0 {
		t.Error("svg icon is not drawn")
	}
	if _, g, _, _ := sheet.Image.At(20, 4).RGBA(); g == 0 {
		t.Error("png icon is not drawn")
	}
}

func TestBuild_HighDPI(t *testing.T) {
	b := newBuilder(t)
	sheet, _, err := b.Build(testFS(t), "styles", []string{"icons/a.svg"}, 2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := sheet.Index["a"]; got.Width != 32 || got.PixelRatio != 2 {
		t.Errorf("entry = %+v", got)
	}
}

func TestBuild_NaturalOrderAndCollisions(t *testing.T) {
	b := newBuilder(t)
	sheet, _, err := b.Build(testFS(t), "styles", []string{"icons/10.svg", "icons/9.svg", "icons/a.svg", "../shared/icons/a.png"}, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if sheet.Index["9"].X != 0 || sheet.Index["10"].X != 16 || sheet.Index["a"].X != 32 {
		t.Errorf("index = %+v", sheet.Index)
	}
	if sheet.Index["a"].Width != 16 {
		t.Errorf("first of colliding icons must win: %+v", sheet.Index["a"])
	}
}

func TestBuild_Nothing(t *testing.T) {
	b := newBuilder(t)
	if _, _, err := b.Build(testFS(t), "styles", []string{"missing.svg"}, 1); err == nil {
		t.Error("expected error when nothing could be packed")
	}
}

func TestBuild_Cached(t *testing.T) {
	b := newBuilder(t)
	fsys := testFS(t)
	first, _, err := b.Build(fsys, "styles", []string{"icons/a.svg"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	delete(fsys, "styles/icons/b.png")
	second, _, err := b.Build(fsys, "styles", []string{"icons/a.svg"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Index, second.Index) || !bytes.Equal(first.Image.Pix, second.Image.Pix) {
		t.Error("repeated build differs")
	}
}

func TestSheetWrite(t *testing.T) {
	b := newBuilder(t)
	dir := t.TempDir()
	for _, ratio := range []int{1, 2} {
		sheet, _, err := b.Build(testFS(t), "styles", []string{"icons/a.svg", "icons/b.png"}, ratio)
		if err != nil {
			t.Fatal(err)
		}
		if err := sheet.Write(filepath.Join(dir, "roads-sprite")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	for _, name := range []string{"roads-sprite.png", "roads-sprite.json", "roads-sprite@2x.png", "roads-sprite@2x.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "roads-sprite@2x.json"))
	if err != nil {
		t.Fatal(err)
	}
	var index map[string]Entry
	if err := json.Unmarshal(data, &index); err != nil {
		t.Fatal(err)
	}
	if index["b"].PixelRatio != 2 || index["b"].X != 32 {
		t.Errorf("index = %+v", index)
	}
}

func TestFileName(t *testing.T) {
	if FileName("s", 1) != "s" || FileName("s", 2) != "s@2x" || FileName("s", 0) != "s" {
		t.Error("unexpected sprite file names")
	}
}
