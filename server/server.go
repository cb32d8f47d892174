package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/javanhut/IconForge/archive"
	"github.com/javanhut/IconForge/config"
	"github.com/javanhut/IconForge/errors"
	"github.com/javanhut/IconForge/manifest"
	"github.com/javanhut/IconForge/pipeline"
	"github.com/javanhut/IconForge/raster"
)

const (
	// formMemoryBytes is the in-memory threshold for multipart parsing.
	formMemoryBytes = 4 << 20

	// uploadLimitBytes caps the whole request body: the source image
	// ceiling plus headroom for multipart framing and form fields.
	uploadLimitBytes = pipeline.MaxSourceBytes + 1<<20

	// generateTimeout bounds a single pipeline run.
	generateTimeout = 60 * time.Second
)

// Server handles icon generation over HTTP: an upload form on GET /
// and a zip bundle of generated assets on POST /generate.
type Server struct {
	cfg *config.Config
	gen *pipeline.Generator
	log *zap.Logger
}

// New creates an upload server backed by the default pipeline.
func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg: cfg,
		gen: pipeline.New(),
		log: log,
	}
}

// Handler returns the route table. Exposed separately from Start so
// tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/generate", s.handleGenerate)
	return mux
}

// Start runs the upload server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveDone := make(chan error, 1)
	go func() {
		s.log.Info("upload server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("upload server shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// indexData feeds the upload form template.
type indexData struct {
	Defaults config.DefaultsConfig
	Presets  []config.ThemePreset
}

// handleIndex shows the upload form
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tmpl := template.Must(template.New("index").Parse(indexTemplate))
	tmpl.Execute(w, indexData{
		Defaults: s.cfg.Defaults,
		Presets:  config.ThemePresets(),
	})
}

// handleGenerate accepts a multipart upload and streams back the
// generated asset bundle as a zip attachment.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, uploadLimitBytes)
	if err := r.ParseMultipartForm(formMemoryBytes); err != nil {
		http.Error(w, "could not parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Prefer the filename extension; fall back to the declared part
	// content type for extensionless uploads.
	mimeType, err := raster.MIMEFromPath(header.Filename)
	if err != nil {
		if ct := header.Header.Get("Content-Type"); raster.Supported(ct) {
			mimeType = ct
		} else {
			http.Error(w, fmt.Sprintf("unsupported image type for %q", header.Filename), http.StatusBadRequest)
			return
		}
	}

	radius := s.cfg.Defaults.Radius
	if v := r.FormValue("radius"); v != "" {
		radius, err = strconv.Atoi(v)
		if err != nil {
			http.Error(w, "radius must be an integer", http.StatusBadRequest)
			return
		}
	}

	req := pipeline.Request{
		Data:   data,
		MIME:   mimeType,
		Radius: radius,
		Meta: manifest.Metadata{
			AppName:    formValueOr(r, "app_name", s.cfg.Defaults.AppName),
			ShortName:  formValueOr(r, "short_name", s.cfg.Defaults.ShortName),
			ThemeColor: config.ThemeHex(formValueOr(r, "theme_color", s.cfg.Defaults.ThemeColor)),
		},
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	res, err := s.gen.Run(ctx, req)
	if err != nil {
		s.log.Warn("generate failed",
			zap.String("filename", header.Filename),
			zap.String("mime", mimeType),
			zap.Error(err))
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	bundle, err := archive.Bundle(res.Files)
	if err != nil {
		s.log.Error("bundle failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("generated icon set",
		zap.String("filename", header.Filename),
		zap.String("mime", mimeType),
		zap.Int("radius", radius),
		zap.Int("files", len(res.Files)),
		zap.Int("zip_bytes", len(bundle)))

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="icons.zip"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(bundle)))
	w.Write(bundle)
}

// statusForError maps pipeline error kinds onto HTTP status codes:
// bad requests are the client's fault, undecodable images get 422,
// everything else is a server error.
func statusForError(err error) int {
	switch errors.KindOf(err) {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindDecode:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func formValueOr(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

const indexTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>IconForge</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            max-width: 560px;
            margin: 40px auto;
            padding: 20px;
            line-height: 1.6;
        }
        .header {
            border-bottom: 2px solid #333;
            padding-bottom: 20px;
            margin-bottom: 30px;
        }
        label {
            display: block;
            margin-top: 16px;
            font-weight: 600;
        }
        input {
            width: 100%;
            padding: 8px;
            margin-top: 4px;
            border: 1px solid #ccc;
            border-radius: 4px;
            box-sizing: border-box;
        }
        .hint {
            color: #666;
            font-size: 14px;
            margin-top: 4px;
        }
        button {
            margin-top: 24px;
            padding: 12px 40px;
            font-size: 16px;
            font-weight: 600;
            border: none;
            border-radius: 6px;
            cursor: pointer;
            background: #2196F3;
            color: white;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>IconForge</h1>
        <p>Upload a source image and download a complete icon set: favicons, touch icons, ICO, ICNS, web manifest.</p>
    </div>

    <form action="/generate" method="post" enctype="multipart/form-data">
        <label>Source image
            <input type="file" name="image" accept=".png,.jpg,.jpeg,.svg,.webp,.bmp,.ico" required>
        </label>
        <p class="hint">PNG, JPEG, SVG, WebP, BMP or ICO, up to 10 MiB.</p>

        <label>Corner radius
            <input type="number" name="radius" min="0" max="256" value="{{.Defaults.Radius}}">
        </label>
        <p class="hint">Radius at the 192px reference size; 0 keeps square corners.</p>

        <label>App name
            <input type="text" name="app_name" value="{{.Defaults.AppName}}" placeholder="My Application">
        </label>

        <label>Short name
            <input type="text" name="short_name" value="{{.Defaults.ShortName}}" placeholder="MyApp">
        </label>

        <label>Theme color
            <input type="text" name="theme_color" value="{{.Defaults.ThemeColor}}" placeholder="#ffffff" list="theme-presets">
        </label>
        <datalist id="theme-presets">
            {{range .Presets}}<option value="{{.Hex}}">{{.Label}}</option>
            {{end}}
        </datalist>
        <p class="hint">Hex color for the web manifest; preset names like midnight work too.</p>

        <button type="submit">Generate</button>
    </form>
</body>
</html>
`
