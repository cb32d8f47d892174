// Package archive bundles a generated file set into a single zip for
// download.
package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"time"

	"github.com/klauspost/compress/flate"

	"github.com/javanhut/IconForge/errors"
	"github.com/javanhut/IconForge/pipeline"
)

// bundleTime is the fixed entry timestamp. Bundles of the same file set
// must be byte-identical, so wall-clock time never leaks in.
var bundleTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Bundle packs the files into one zip, preserving order. Nested names
// like "app/favicon.ico" become folder entries.
func Bundle(files []pipeline.File) ([]byte, error) {
	if len(files) == 0 {
		return nil, errors.Encode("archive.Bundle", "no files to bundle")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	for _, f := range files {
		if f.Name == "" {
			return nil, errors.Encode("archive.Bundle", "file with empty name")
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: bundleTime,
		})
		if err != nil {
			return nil, errors.Wrap(errors.KindEncode, "archive.Bundle", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, errors.Wrap(errors.KindEncode, "archive.Bundle", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(errors.KindEncode, "archive.Bundle", "close zip", err)
	}
	return buf.Bytes(), nil
}
