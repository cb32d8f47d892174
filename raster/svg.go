package raster

import (
	"bytes"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/javanhut/IconForge/errors"
)

// rasterSize is the edge of the working canvas vector sources render
// onto. Every variant the pipeline produces is smaller, so the vector
// is rasterized once and only ever downscaled.
const rasterSize = 1024

// decodeSVG rasterizes an SVG payload onto the working canvas, fit
// inside and centered with its aspect ratio preserved. Uncovered canvas
// stays fully transparent.
func decodeSVG(data []byte) (*image.NRGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Decode("raster.decodeSVG", "parse svg source", err)
	}

	vw := icon.ViewBox.W
	vh := icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return nil, errors.Decode("raster.decodeSVG", "svg viewBox has no area", nil)
	}

	scale := rasterSize / math.Max(vw, vh)
	w := vw * scale
	h := vh * scale
	icon.SetTarget((rasterSize-w)/2, (rasterSize-h)/2, w, h)

	rgba := image.NewRGBA(image.Rect(0, 0, rasterSize, rasterSize))
	scanner := rasterx.NewScannerGV(rasterSize, rasterSize, rgba, rgba.Bounds())
	rasterizer := rasterx.NewDasher(rasterSize, rasterSize, scanner)
	icon.Draw(rasterizer, 1.0)

	return imaging.Clone(rgba), nil
}
