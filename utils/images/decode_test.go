package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestKind(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr bool
	}{
		{"png", pngData(t, 2, 2), "png", false},
		{"svg", []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`), "svg", false},
		{"text", []byte("hello"), "", true},
		{"empty", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Kind(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Kind() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedImage) {
				t.Errorf("error %v does not wrap ErrUnsupportedImage", err)
			}
			if got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("large raster is scaled down", func(t *testing.T) {
		img, err := Decode(pngData(t, 100, 50), 32)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
			t.Errorf("bounds = %v", img.Bounds())
		}
	})
	t.Run("small raster is kept", func(t *testing.T) {
		img, err := Decode(pngData(t, 8, 8), 32)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if img.Bounds().Dx() != 8 {
			t.Errorf("bounds = %v", img.Bounds())
		}
	})
	t.Run("svg", func(t *testing.T) {
		svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><circle cx="5" cy="5" r="5"/></svg>`)
		img, err := Decode(svg, 24)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 24 {
			t.Errorf("bounds = %v", img.Bounds())
		}
	})
	t.Run("garbage", func(t *testing.T) {
		if _, err := Decode([]byte("not an image"), 24); err == nil {
			t.Error("expected error")
		}
	})
}
