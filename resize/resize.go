// Package resize scales canonical images to variant dimensions using
// Lanczos resampling.
package resize

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/javanhut/IconForge/errors"
)

// FitPolicy controls how a source is mapped onto a target rectangle
// whose aspect ratio differs from the source's.
type FitPolicy int

const (
	// Cover scales the source uniformly until it covers the target,
	// then center-crops the overflow. No padding is introduced.
	Cover FitPolicy = iota
	// Contain scales the source uniformly until it fits inside the
	// target, then pads the remainder with fully transparent pixels,
	// centered.
	Contain
)

// String returns the policy name for logs and error messages.
func (p FitPolicy) String() string {
	switch p {
	case Cover:
		return "cover"
	case Contain:
		return "contain"
	default:
		return "unknown"
	}
}

// Resize maps src onto a width x height buffer according to the fit
// policy. The source is never modified; the result is always a freshly
// allocated buffer. Identical inputs produce byte-identical output.
func Resize(src *image.NRGBA, width, height int, fit FitPolicy) (*image.NRGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, errors.Processing("resize.Resize", "empty source image", nil)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Newf(errors.KindProcessing, "resize.Resize",
			"invalid target dimensions %dx%d", width, height)
	}

	switch fit {
	case Cover:
		return imaging.Fill(src, width, height, imaging.Center, imaging.Lanczos), nil
	case Contain:
		return contain(src, width, height), nil
	default:
		return nil, errors.Newf(errors.KindProcessing, "resize.Resize",
			"unknown fit policy %d", int(fit))
	}
}

// contain scales src to the largest size that fits inside the target,
// upscaling if needed, and pastes it centered on a transparent canvas.
// imaging.Fit is not used here because it never enlarges.
func contain(src *image.NRGBA, width, height int) *image.NRGBA {
	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()

	scale := math.Min(float64(width)/float64(sw), float64(height)/float64(sh))
	cw := int(math.Round(float64(sw) * scale))
	ch := int(math.Round(float64(sh) * scale))
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	if cw > width {
		cw = width
	}
	if ch > height {
		ch = height
	}

	inner := imaging.Resize(src, cw, ch, imaging.Lanczos)
	canvas := imaging.New(width, height, color.NRGBA{})
	return imaging.PasteCenter(canvas, inner)
}
