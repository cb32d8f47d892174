// Package pipeline orchestrates one icon generation request: validate,
// decode, derive the variant family, and assemble the published file
// set.
package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/jackmordaunt/icns/v3"
	"go.uber.org/zap"

	"github.com/javanhut/IconForge/compose"
	"github.com/javanhut/IconForge/errors"
	"github.com/javanhut/IconForge/ico"
	"github.com/javanhut/IconForge/manifest"
	"github.com/javanhut/IconForge/mask"
	"github.com/javanhut/IconForge/raster"
)

const (
	// MaxSourceBytes is the hard input ceiling, enforced before any
	// decoding starts.
	MaxSourceBytes = 10 << 20
	// MaxRadius bounds the requested corner radius.
	MaxRadius = 256
	// RadiusReference is the edge length radius requests are expressed
	// against. Curvature depends only on the request and the target
	// size, never on the source image's shape.
	RadiusReference = 192
)

// Request is one icon generation job.
type Request struct {
	// Data is the raw source payload.
	Data []byte
	// MIME is the declared source type.
	MIME string
	// Radius is the corner radius in pixels at the reference size.
	Radius int
	// Meta passes through to manifest and README generation.
	Meta manifest.Metadata
}

// File is one published output.
type File struct {
	Name string
	Data []byte
}

// Result is the complete, internally consistent asset family. It only
// ever exists whole: a failed run returns nothing.
type Result struct {
	Variants []compose.Variant
	Files    []File
}

// Validate applies the caller-side input checks: payload presence and
// ceiling, source type, radius range. It runs before any decoding.
func Validate(req Request) error {
	const op = "pipeline.Validate"
	if len(req.Data) == 0 {
		return errors.Validation(op, "source payload is empty")
	}
	if len(req.Data) > MaxSourceBytes {
		return errors.Validationf(op, "source payload is %d bytes, limit is %d",
			len(req.Data), MaxSourceBytes)
	}
	if !raster.Supported(req.MIME) {
		return errors.Validationf(op, "unsupported source type %q", req.MIME)
	}
	if req.Radius < 0 || req.Radius > MaxRadius {
		return errors.Validationf(op, "radius %d outside [0,%d]", req.Radius, MaxRadius)
	}
	return nil
}

// Generator derives icon families. The zero value is not usable; call
// New.
type Generator struct {
	// Sizes is the variant derivation table.
	Sizes []compose.SizeSpec
	// ContainerSizes are the square dimensions multiplexed into the
	// icon container, in container order.
	ContainerSizes []int
	// Reference is the radius policy reference size.
	Reference int
}

// New returns a Generator with the published size table.
func New() *Generator {
	return &Generator{
		Sizes:          DefaultSizes(),
		ContainerSizes: ContainerSizes(),
		Reference:      RadiusReference,
	}
}

// Run executes one request. Any stage failure aborts the run; a partial
// Result is never returned. Identical requests produce byte-identical
// results.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := Validate(req); err != nil {
		return nil, err
	}

	src, err := raster.Decode(req.Data, req.MIME)
	if err != nil {
		return nil, err
	}

	policy := mask.RadiusPolicy{BaseRadius: req.Radius, ReferenceSize: g.Reference}
	variants, err := compose.Compose(ctx, src, policy, g.Sizes)
	if err != nil {
		return nil, err
	}

	container, err := g.encodeContainer(variants)
	if err != nil {
		return nil, err
	}

	icnsData, err := encodeICNS(variants)
	if err != nil {
		return nil, err
	}

	webManifest, err := manifest.WebManifest(req.Meta)
	if err != nil {
		return nil, err
	}
	readme, err := manifest.README(req.Meta)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(variants)+5)
	for _, v := range variants {
		files = append(files, File{Name: v.Spec.Name, Data: v.PNG})
	}
	files = append(files,
		File{Name: ContainerName, Data: container},
		File{Name: ContainerAppName, Data: container},
		File{Name: ICNSName, Data: icnsData},
		File{Name: ManifestName, Data: webManifest},
		File{Name: ReadmeName, Data: readme},
	)

	Logger().Info("icon set generated",
		zap.String("source_type", req.MIME),
		zap.Int("source_bytes", len(req.Data)),
		zap.Int("variants", len(variants)),
		zap.Int("radius", req.Radius),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{Variants: variants, Files: files}, nil
}

// encodeContainer multiplexes the container-size variants, smallest
// first, into one icon container.
func (g *Generator) encodeContainer(variants []compose.Variant) ([]byte, error) {
	entries := make([]ico.Entry, 0, len(g.ContainerSizes))
	for _, size := range g.ContainerSizes {
		v, ok := findVariant(variants, size, size)
		if !ok {
			return nil, errors.Newf(errors.KindEncode, "pipeline.encodeContainer",
				"size table has no %dpx variant for the container", size)
		}
		entries = append(entries, ico.Entry{Width: size, Height: size, Data: v.PNG})
	}
	return ico.Encode(entries)
}

// encodeICNS renders the macOS application icon from the 512px variant.
func encodeICNS(variants []compose.Variant) ([]byte, error) {
	v, ok := findVariant(variants, ICNSSourceSize, ICNSSourceSize)
	if !ok {
		return nil, errors.Newf(errors.KindEncode, "pipeline.encodeICNS",
			"size table has no %dpx variant for the icns icon", ICNSSourceSize)
	}

	var buf bytes.Buffer
	if err := icns.Encode(&buf, v.Image); err != nil {
		return nil, errors.Wrap(errors.KindEncode, "pipeline.encodeICNS",
			"encode icns", err)
	}
	return buf.Bytes(), nil
}

func findVariant(variants []compose.Variant, width, height int) (compose.Variant, bool) {
	for _, v := range variants {
		if v.Spec.Width == width && v.Spec.Height == height {
			return v, true
		}
	}
	return compose.Variant{}, false
}
