package compose

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/javanhut/IconForge/errors"
	"github.com/javanhut/IconForge/mask"
	"github.com/javanhut/IconForge/raster"
	"github.com/javanhut/IconForge/resize"
)

func canonicalFixture(t *testing.T, w, h int, c color.NRGBA) *raster.Canonical {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	src, err := raster.Decode(buf.Bytes(), raster.MIMEPNG)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return src
}

func testTable() []SizeSpec {
	return []SizeSpec{
		{Name: "favicon-16x16.png", Width: 16, Height: 16, Fit: resize.Cover, RoundCorners: true},
		{Name: "favicon-32x32.png", Width: 32, Height: 32, Fit: resize.Cover, RoundCorners: true},
		{Name: "og-image.png", Width: 120, Height: 63, Fit: resize.Contain, RoundCorners: false},
	}
}

func TestComposeProducesTableInOrder(t *testing.T) {
	src := canonicalFixture(t, 512, 512, color.NRGBA{R: 255, A: 255})
	policy := mask.RadiusPolicy{BaseRadius: 40, ReferenceSize: 192}

	variants, err := Compose(context.Background(), src, policy, testTable())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(variants) != 3 {
		t.Fatalf("got %d variants, want 3", len(variants))
	}
	for i, spec := range testTable() {
		v := variants[i]
		if v.Spec.Name != spec.Name {
			t.Errorf("variant %d is %q, want %q", i, v.Spec.Name, spec.Name)
		}
		if b := v.Image.Bounds(); b.Dx() != spec.Width || b.Dy() != spec.Height {
			t.Errorf("%s buffer is %dx%d, want %dx%d", spec.Name, b.Dx(), b.Dy(), spec.Width, spec.Height)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(v.PNG))
		if err != nil {
			t.Fatalf("%s payload: %v", spec.Name, err)
		}
		if cfg.Width != spec.Width || cfg.Height != spec.Height {
			t.Errorf("%s payload is %dx%d, want %dx%d", spec.Name, cfg.Width, cfg.Height, spec.Width, spec.Height)
		}
	}
}

func TestComposeAppliesScaledMask(t *testing.T) {
	src := canonicalFixture(t, 512, 512, color.NRGBA{R: 255, A: 255})
	policy := mask.RadiusPolicy{BaseRadius: 40, ReferenceSize: 192}

	variants, err := Compose(context.Background(), src, policy, testTable())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	// 32px at base 40/192 gives an effective radius of 7: the extreme
	// corner pixels are cleared, the center is untouched.
	v := variants[1]
	if a := v.Image.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("rounded corner pixel alpha = %d, want 0", a)
	}
	if a := v.Image.NRGBAAt(31, 31).A; a != 0 {
		t.Errorf("rounded corner pixel alpha = %d, want 0", a)
	}
	if a := v.Image.NRGBAAt(16, 16).A; a != 255 {
		t.Errorf("center pixel alpha = %d, want 255", a)
	}

	// RoundCorners false leaves every source-covered pixel opaque, even
	// with a nonzero policy radius. The square source lands centered in
	// the 120x63 contain target as a 63x63 block.
	og := variants[2]
	offX := og.Spec.Width/2 - 63/2
	for x := offX; x < offX+63; x++ {
		if a := og.Image.NRGBAAt(x, og.Spec.Height/2).A; a != 255 {
			t.Fatalf("unrounded variant content pixel (%d) alpha = %d", x, a)
		}
	}
	if a := og.Image.NRGBAAt(offX-1, og.Spec.Height/2).A; a != 0 {
		t.Errorf("contain margin pixel alpha = %d, want 0", a)
	}
}

func TestComposeVariantsAreIndependent(t *testing.T) {
	src := canonicalFixture(t, 64, 64, color.NRGBA{G: 200, A: 255})
	variants, err := Compose(context.Background(), src, mask.RadiusPolicy{}, testTable())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	variants[0].Image.SetNRGBA(0, 0, color.NRGBA{})
	if a := src.Image().NRGBAAt(0, 0).A; a != 255 {
		t.Error("mutating a variant changed the canonical source")
	}
	if a := variants[1].Image.NRGBAAt(0, 0).A; a == 0 {
		t.Error("variant buffers alias each other")
	}
}

func TestComposeDeterministic(t *testing.T) {
	src := canonicalFixture(t, 200, 100, color.NRGBA{R: 12, G: 34, B: 56, A: 255})
	policy := mask.RadiusPolicy{BaseRadius: 40, ReferenceSize: 192}

	a, err := Compose(context.Background(), src, policy, testTable())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	b, err := Compose(context.Background(), src, policy, testTable())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for i := range a {
		if !bytes.Equal(a[i].PNG, b[i].PNG) {
			t.Errorf("variant %s differs between identical runs", a[i].Spec.Name)
		}
	}
}

func TestComposeFailsFast(t *testing.T) {
	src := canonicalFixture(t, 64, 64, color.NRGBA{A: 255})
	table := []SizeSpec{
		{Name: "ok.png", Width: 16, Height: 16, Fit: resize.Cover},
		{Name: "broken.png", Width: 0, Height: 16, Fit: resize.Cover},
		{Name: "also-ok.png", Width: 32, Height: 32, Fit: resize.Cover},
	}

	variants, err := Compose(context.Background(), src, mask.RadiusPolicy{}, table)
	if !errors.IsKind(err, errors.KindProcessing) {
		t.Fatalf("err = %v, want processing kind", err)
	}
	if variants != nil {
		t.Error("failed batch returned a partial variant set")
	}
}

func TestComposeEmptyTable(t *testing.T) {
	src := canonicalFixture(t, 16, 16, color.NRGBA{A: 255})
	if _, err := Compose(context.Background(), src, mask.RadiusPolicy{}, nil); !errors.IsKind(err, errors.KindProcessing) {
		t.Errorf("err = %v, want processing kind", err)
	}
}

func TestComposeNilSource(t *testing.T) {
	if _, err := Compose(context.Background(), nil, mask.RadiusPolicy{}, testTable()); !errors.IsKind(err, errors.KindProcessing) {
		t.Errorf("err = %v, want processing kind", err)
	}
}

func TestComposeCanceledContext(t *testing.T) {
	src := canonicalFixture(t, 64, 64, color.NRGBA{A: 255})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	variants, err := Compose(ctx, src, mask.RadiusPolicy{}, testTable())
	if !errors.IsKind(err, errors.KindProcessing) {
		t.Fatalf("err = %v, want processing kind", err)
	}
	if variants != nil {
		t.Error("canceled batch returned variants")
	}
}
