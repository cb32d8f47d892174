package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javanhut/IconForge/archive"
	"github.com/javanhut/IconForge/config"
	"github.com/javanhut/IconForge/fetch"
	"github.com/javanhut/IconForge/manifest"
	"github.com/javanhut/IconForge/pipeline"
	"github.com/javanhut/IconForge/raster"
	"github.com/javanhut/IconForge/server"
	"github.com/javanhut/IconForge/watch"
)

// bundleName is the archive written by -zip runs.
const bundleName = "icons.zip"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	var (
		input     = flag.String("input", "", "Path to source image (png, jpeg, svg, webp, bmp, ico)")
		sourceURL = flag.String("url", "", "URL of a source image to download")
		out       = flag.String("out", cfg.Output.Dir, "Output directory")
		radius    = flag.Int("radius", cfg.Defaults.Radius, "Corner radius at the 192px reference size (0-256, 0 = square)")
		appName   = flag.String("name", cfg.Defaults.AppName, "Application name for the web manifest")
		shortName = flag.String("short-name", cfg.Defaults.ShortName, "Short name for the web manifest")
		theme     = flag.String("theme", cfg.Defaults.ThemeColor, "Theme color for the web manifest, hex or preset name")
		zipOut    = flag.Bool("zip", cfg.Output.Zip, "Write a single icons.zip instead of loose files")
		serve     = flag.Bool("serve", false, "Run the upload server")
		addr      = flag.String("addr", cfg.Addr(), "Listen address for -serve")
		watchMode = flag.Bool("watch", false, "Regenerate whenever the input file changes")
		logLevel  = flag.String("log-level", cfg.Log.Level, "Log level (debug, info, warn, error, silent)")
	)
	flag.Parse()

	logger := buildLogger(*logLevel)
	defer logger.Sync()
	pipeline.SetLogger(logger)
	watch.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *serve {
		if err := runServer(ctx, cfg, *addr, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *input == "" && *sourceURL == "" {
		fmt.Fprintln(os.Stderr, "Usage: iconforge -input <image> [-radius n] [-out dir] [-zip] [-watch]")
		fmt.Fprintln(os.Stderr, "       iconforge -url <image-url> [-radius n] [-out dir] [-zip]")
		fmt.Fprintln(os.Stderr, "       iconforge -serve [-addr host:port]")
		os.Exit(1)
	}
	if *input != "" && *sourceURL != "" {
		fmt.Fprintln(os.Stderr, "Use either -input or -url, not both")
		os.Exit(1)
	}
	if *watchMode && *input == "" {
		fmt.Fprintln(os.Stderr, "-watch requires -input")
		os.Exit(1)
	}

	j := job{
		input:  *input,
		url:    *sourceURL,
		out:    *out,
		radius: *radius,
		zip:    *zipOut,
		meta: manifest.Metadata{
			AppName:    *appName,
			ShortName:  *shortName,
			ThemeColor: config.ThemeHex(*theme),
		},
	}

	if err := run(ctx, j); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *watchMode {
		if err := runWatch(ctx, j); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// job carries one generation request assembled from flags.
type job struct {
	input  string
	url    string
	out    string
	radius int
	zip    bool
	meta   manifest.Metadata
}

// run executes a single generation pass and writes the results.
func run(ctx context.Context, j job) error {
	data, mimeType, err := loadSource(ctx, j)
	if err != nil {
		return err
	}

	req := pipeline.Request{
		Data:   data,
		MIME:   mimeType,
		Radius: j.radius,
		Meta:   j.meta,
	}

	res, err := pipeline.New().Run(ctx, req)
	if err != nil {
		return err
	}

	if j.zip {
		bundle, err := archive.Bundle(res.Files)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(j.out, 0755); err != nil {
			return err
		}
		path := filepath.Join(j.out, bundleName)
		if err := os.WriteFile(path, bundle, 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d files)\n", path, len(res.Files))
		return nil
	}

	if err := writeFiles(j.out, res.Files); err != nil {
		return err
	}
	fmt.Printf("Wrote %d files to %s\n", len(res.Files), j.out)
	return nil
}

// loadSource reads the image bytes from the input path or URL.
func loadSource(ctx context.Context, j job) ([]byte, string, error) {
	if j.url != "" {
		data, mimeType, err := fetch.NewClient().Fetch(ctx, j.url)
		if err != nil {
			return nil, "", err
		}
		if mimeType == "" {
			return nil, "", fmt.Errorf("could not determine image type of %s; use -input with a known extension", j.url)
		}
		return data, mimeType, nil
	}

	data, err := os.ReadFile(j.input)
	if err != nil {
		return nil, "", err
	}
	mimeType, err := raster.MIMEFromPath(j.input)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}

// writeFiles lays generated assets out under dir, creating nested
// directories as needed (app/favicon.ico).
func writeFiles(dir string, files []pipeline.File) error {
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// runWatch regenerates on every change to the input file until
// interrupted.
func runWatch(ctx context.Context, j job) error {
	fmt.Printf("Watching %s; press Ctrl-C to stop\n", j.input)
	return watch.Run(ctx, j.input, func() error {
		return run(context.Background(), j)
	})
}

// runServer applies the -addr override and runs the upload server.
func runServer(ctx context.Context, cfg *config.Config, addr string, logger *zap.Logger) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid listen port %q: %w", port, err)
	}
	cfg.Server.Host = host
	cfg.Server.Port = p

	return server.New(cfg, logger).Start(ctx)
}

// buildLogger constructs the process logger for the configured level.
func buildLogger(level string) *zap.Logger {
	switch level {
	case "silent":
		return zap.NewNop()
	case "debug":
		logger, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	default:
		zcfg := zap.NewProductionConfig()
		if lvl, err := zapcore.ParseLevel(level); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		logger, err := zcfg.Build()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}
}
