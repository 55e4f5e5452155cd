package images

import (
	"bytes"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// defaultSVGSize is used when SVG has no view box.
const defaultSVGSize = 64

// maxRasterDim limits pixel dimension of rasterized SVG, so enormous view
// boxes do not exhaust memory.
var maxRasterDim = 4096

// RasterizeSVG renders SVG onto transparent RGBA image.
//
// Rules:
//   - if targetW == 0 && targetH == 0: use SVG viewBox dimensions
//   - if only one of targetW/targetH is > 0: scale by that dimension keeping aspect ratio
//   - if both targetW and targetH are > 0: fit into that box keeping aspect ratio
func RasterizeSVG(svgData []byte, targetW, targetH int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}

	intrW := int(math.Ceil(icon.ViewBox.W))
	intrH := int(math.Ceil(icon.ViewBox.H))
	if intrW <= 0 {
		intrW = defaultSVGSize
	}
	if intrH <= 0 {
		intrH = defaultSVGSize
	}

	w, h := fitSize(intrW, intrH, targetW, targetH)
	if w > maxRasterDim || h > maxRasterDim {
		w, h = fitSize(w, h, maxRasterDim, maxRasterDim)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

// fitSize scales w x h to requested target keeping aspect ratio, never
// returning zero dimension.
func fitSize(w, h, targetW, targetH int) (int, int) {
	switch {
	case targetW <= 0 && targetH <= 0:
	case targetH <= 0:
		h = int(math.Round(float64(targetW) * float64(h) / float64(w)))
		w = targetW
	case targetW <= 0:
		w = int(math.Round(float64(targetH) * float64(w) / float64(h)))
		h = targetH
	default:
		scale := math.Min(float64(targetW)/float64(w), float64(targetH)/float64(h))
		w = int(math.Round(float64(w) * scale))
		h = int(math.Round(float64(h) * scale))
	}
	return max(w, 1), max(h, 1)
}
