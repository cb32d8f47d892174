// Package raster decodes source payloads into the canonical image the
// whole variant family derives from.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	ico "github.com/sergeymakinen/go-ico"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/javanhut/IconForge/errors"
)

// Source MIME types the normalizer accepts.
const (
	MIMEPNG    = "image/png"
	MIMEJPEG   = "image/jpeg"
	MIMESVG    = "image/svg+xml"
	MIMEWebP   = "image/webp"
	MIMEBMP    = "image/bmp"
	MIMEICO    = "image/x-icon"
	MIMEICOAlt = "image/vnd.microsoft.icon"
)

// Supported reports whether mime names a decodable source type.
func Supported(mime string) bool {
	switch mime {
	case MIMEPNG, MIMEJPEG, MIMESVG, MIMEWebP, MIMEBMP, MIMEICO, MIMEICOAlt:
		return true
	}
	return false
}

// MIMEFromPath derives the source MIME type from a file extension.
func MIMEFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return MIMEPNG, nil
	case ".jpg", ".jpeg":
		return MIMEJPEG, nil
	case ".svg":
		return MIMESVG, nil
	case ".webp":
		return MIMEWebP, nil
	case ".bmp":
		return MIMEBMP, nil
	case ".ico":
		return MIMEICO, nil
	}
	return "", errors.Validationf("raster.MIMEFromPath",
		"unsupported source extension %q", filepath.Ext(path))
}

// Canonical is the straight-alpha RGBA image produced once per request.
// It is treated as immutable; variants never alias its memory.
type Canonical struct {
	img *image.NRGBA
}

// Image returns the underlying buffer for read-only use.
func (c *Canonical) Image() *image.NRGBA { return c.img }

// Clone returns an independent copy of the canonical buffer.
func (c *Canonical) Clone() *image.NRGBA { return imaging.Clone(c.img) }

// Width returns the canonical width in pixels.
func (c *Canonical) Width() int { return c.img.Bounds().Dx() }

// Height returns the canonical height in pixels.
func (c *Canonical) Height() int { return c.img.Bounds().Dy() }

// Decode turns a raw source payload into the canonical image.
//
// Raster sources are converted to straight-alpha RGBA; formats without
// an alpha channel get a fully opaque one. ICO sources decode to a
// single best-resolution embedded image. Vector sources are rasterized
// exactly once onto the fixed working canvas; later stages only ever
// scale down.
func Decode(data []byte, mime string) (*Canonical, error) {
	if len(data) == 0 {
		return nil, errors.Decode("raster.Decode", "empty source payload", nil)
	}

	var (
		img image.Image
		err error
	)
	switch mime {
	case MIMEPNG:
		img, err = png.Decode(bytes.NewReader(data))
	case MIMEJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case MIMEWebP:
		img, err = webp.Decode(bytes.NewReader(data))
	case MIMEBMP:
		img, err = bmp.Decode(bytes.NewReader(data))
	case MIMEICO, MIMEICOAlt:
		img, err = ico.Decode(bytes.NewReader(data))
	case MIMESVG:
		nrgba, serr := decodeSVG(data)
		if serr != nil {
			return nil, serr
		}
		return &Canonical{img: nrgba}, nil
	default:
		return nil, errors.Newf(errors.KindDecode, "raster.Decode",
			"unsupported source type %q", mime)
	}
	if err != nil {
		return nil, errors.Decode("raster.Decode",
			fmt.Sprintf("decode %s source", mime), err)
	}
	return &Canonical{img: imaging.Clone(img)}, nil
}
