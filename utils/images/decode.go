// Package images turns icon files of any supported format into raster
// images ready to be packed into sprite sheets.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned for data which is neither SVG nor one of
// registered raster formats.
var ErrUnsupportedImage = errors.New("unsupported image format")

// IsSVG sniffs SVG document, which content based detection does not know.
func IsSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	return bytes.Contains(head, []byte("<svg"))
}

// Kind returns detected image type name ("svg", "png", ...).
func Kind(data []byte) (string, error) {
	if IsSVG(data) {
		return "svg", nil
	}
	if !filetype.IsImage(data) {
		return "", ErrUnsupportedImage
	}
	t, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("unable to detect image type: %w", err)
	}
	return t.Extension, nil
}

// Decode produces image no larger than size x size. SVG is rasterized
// directly at that size, raster images are only scaled down.
func Decode(data []byte, size int) (image.Image, error) {
	kind, err := Kind(data)
	if err != nil {
		return nil, err
	}
	if kind == "svg" {
		img, err := RasterizeSVG(data, size, size)
		if err != nil {
			return nil, fmt.Errorf("unable to rasterize svg: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", kind, err)
	}
	return Fit(img, size), nil
}

// Fit scales image down to fit size x size box keeping aspect ratio.
func Fit(img image.Image, size int) image.Image {
	b := img.Bounds()
	if size <= 0 || (b.Dx() <= size && b.Dy() <= size) {
		return img
	}
	return imaging.Fit(img, size, size, imaging.Lanczos)
}
