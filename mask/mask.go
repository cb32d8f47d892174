// Package mask cuts rounded corners into icon variants by zeroing alpha
// outside a quarter-circle in each corner of the buffer.
package mask

import "image"

// Apply zeroes the alpha channel of every pixel strictly outside the
// quarter-circle of the given radius in each of the four r x r corner
// squares. Color channels and pixels outside the corner squares are never
// touched. A radius of 0 returns the buffer unchanged.
//
// The test is integer-only: a pixel is cleared when dx*dx+dy*dy > r*r,
// where dx and dy are the pixel center's distances from the corner's
// circle center in pixel units. Pixels exactly on the boundary are kept.
//
// The buffer is modified in place and returned. Callers must clamp the
// radius to floor(min(w,h)/2) beforehand; Apply performs no clamping.
func Apply(img *image.NRGBA, radius int) *image.NRGBA {
	if radius <= 0 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r := radius
	rr := r * r

	alphaAt := func(x, y int) int {
		return img.PixOffset(b.Min.X+x, b.Min.Y+y) + 3
	}

	// Top-left corner.
	for y := 0; y < r; y++ {
		dy := r - y
		for x := 0; x < r; x++ {
			dx := r - x
			if dx*dx+dy*dy > rr {
				img.Pix[alphaAt(x, y)] = 0
			}
		}
	}

	// Top-right corner.
	for y := 0; y < r; y++ {
		dy := r - y
		for x := w - r; x < w; x++ {
			dx := x - (w - r - 1)
			if dx*dx+dy*dy > rr {
				img.Pix[alphaAt(x, y)] = 0
			}
		}
	}

	// Bottom-left corner.
	for y := h - r; y < h; y++ {
		dy := y - (h - r - 1)
		for x := 0; x < r; x++ {
			dx := r - x
			if dx*dx+dy*dy > rr {
				img.Pix[alphaAt(x, y)] = 0
			}
		}
	}

	// Bottom-right corner.
	for y := h - r; y < h; y++ {
		dy := y - (h - r - 1)
		for x := w - r; x < w; x++ {
			dx := x - (w - r - 1)
			if dx*dx+dy*dy > rr {
				img.Pix[alphaAt(x, y)] = 0
			}
		}
	}

	return img
}
