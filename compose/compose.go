// Package compose derives the icon variant family from one canonical
// image according to a declarative size table.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/javanhut/IconForge/errors"
	"github.com/javanhut/IconForge/mask"
	"github.com/javanhut/IconForge/raster"
	"github.com/javanhut/IconForge/resize"
)

// SizeSpec declares one variant to derive. Tables of these are fixed at
// build time, never discovered at runtime.
type SizeSpec struct {
	// Name is the output filename the variant is published under.
	Name   string
	Width  int
	Height int
	// Fit selects how the source maps onto the target rectangle.
	Fit resize.FitPolicy
	// RoundCorners applies the policy-scaled corner mask.
	RoundCorners bool
}

// Variant is one derived icon. Immutable once created.
type Variant struct {
	Spec  SizeSpec
	Image *image.NRGBA
	PNG   []byte
}

// Compose derives every variant in the table from the canonical image.
// Each variant is an independent copy; none aliases the source or any
// sibling. The batch is fail-fast: the first error aborts the run and
// no partial set is returned. Output order equals table order.
func Compose(ctx context.Context, src *raster.Canonical, policy mask.RadiusPolicy, specs []SizeSpec) ([]Variant, error) {
	if src == nil || src.Image() == nil {
		return nil, errors.Processing("compose.Compose", "nil canonical source", nil)
	}
	if len(specs) == 0 {
		return nil, errors.Processing("compose.Compose", "empty size table", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Processing("compose.Compose", "batch canceled", err)
	}

	variants := make([]Variant, len(specs))
	jobs := make(chan int)
	done := make(chan struct{})

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			close(done)
		})
	}

	workers := runtime.NumCPU()
	if workers > len(specs) {
		workers = len(specs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				v, err := renderVariant(src, policy, specs[idx])
				if err != nil {
					fail(err)
					return
				}
				variants[idx] = v
			}
		}()
	}

feed:
	for i := range specs {
		select {
		case jobs <- i:
		case <-done:
			break feed
		case <-ctx.Done():
			fail(errors.Processing("compose.Compose", "batch canceled", ctx.Err()))
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return variants, nil
}

// renderVariant performs the resize, mask, encode chain for one table
// row. The resized buffer is variant-private, so the mask mutates it in
// place.
func renderVariant(src *raster.Canonical, policy mask.RadiusPolicy, spec SizeSpec) (Variant, error) {
	img, err := resize.Resize(src.Image(), spec.Width, spec.Height, spec.Fit)
	if err != nil {
		return Variant{}, err
	}

	if spec.RoundCorners {
		img = mask.Apply(img, policy.EffectiveRadius(spec.Width, spec.Height))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return Variant{}, errors.Processing("compose.renderVariant",
			fmt.Sprintf("encode %s", spec.Name), err)
	}

	return Variant{Spec: spec, Image: img, PNG: buf.Bytes()}, nil
}
