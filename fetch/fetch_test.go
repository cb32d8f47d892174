package fetch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/javanhut/IconForge/errors"
	"github.com/javanhut/IconForge/pipeline"
	"github.com/javanhut/IconForge/raster"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestFetchReturnsBytesAndMIME(t *testing.T) {
	payload := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer srv.Close()

	data, mime, err := NewClient().Fetch(context.Background(), srv.URL+"/logo.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("fetched bytes differ from served bytes")
	}
	if mime != raster.MIMEPNG {
		t.Errorf("mime = %q, want %q", mime, raster.MIMEPNG)
	}
}

func TestFetchFallsBackToExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("<svg/>"))
	}))
	defer srv.Close()

	_, mime, err := NewClient().Fetch(context.Background(), srv.URL+"/icon.svg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if mime != raster.MIMESVG {
		t.Errorf("mime = %q, want %q", mime, raster.MIMESVG)
	}
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, _, err := NewClient().Fetch(context.Background(), srv.URL+"/missing.png")
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("err = %v, want validation kind", err)
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	big := make([]byte, pipeline.MaxSourceBytes+1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(big)
	}))
	defer srv.Close()

	_, _, err := NewClient().Fetch(context.Background(), srv.URL+"/huge.png")
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("err = %v, want validation kind", err)
	}
}

func TestFetchRejectsBadScheme(t *testing.T) {
	_, _, err := NewClient().Fetch(context.Background(), "ftp://example.com/a.png")
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("ftp: err = %v, want validation kind", err)
	}

	_, _, err = NewClient().Fetch(context.Background(), "   ")
	if !errors.IsKind(err, errors.KindValidation) {
		t.Errorf("blank: err = %v, want validation kind", err)
	}
}

func TestFetchClassifiesRefusedConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, _, err := NewClient().Fetch(context.Background(), addr+"/logo.png")
	if err == nil {
		t.Fatal("expected an error from a closed server")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("err = %v, want a connection refused message", err)
	}
}

func TestNormalizeURLAddsScheme(t *testing.T) {
	if got := normalizeURL("example.com/logo.png"); got != "https://example.com/logo.png" {
		t.Errorf("normalizeURL = %q", got)
	}
	if got := normalizeURL("  http://example.com  "); got != "http://example.com" {
		t.Errorf("normalizeURL = %q", got)
	}
	if got := normalizeURL(""); got != "" {
		t.Errorf("normalizeURL(empty) = %q", got)
	}
}
