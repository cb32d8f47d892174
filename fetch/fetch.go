// Package fetch downloads remote source images for the pipeline.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/javanhut/IconForge/errors"
	"github.com/javanhut/IconForge/pipeline"
	"github.com/javanhut/IconForge/raster"
)

type Client struct {
	HTTP *http.Client
}

func NewClient() *Client {
	return &Client{
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 20 * time.Second,
			},
		},
	}
}

// Fetch downloads the source image at rawURL and returns its bytes and
// declared MIME type. The body is capped at the pipeline's input
// ceiling; anything larger is rejected before decoding would see it.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	normalized := normalizeURL(rawURL)
	if normalized == "" {
		return nil, "", errors.Validation("fetch.Fetch", "empty source url")
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return nil, "", errors.Wrap(errors.KindValidation, "fetch.Fetch", "parse source url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", errors.Validationf("fetch.Fetch", "unsupported url scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", wrapError(u.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", errors.Validationf("fetch.Fetch", "source url returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, pipeline.MaxSourceBytes+1))
	if err != nil {
		return nil, "", wrapError(u.String(), err)
	}
	if len(data) > pipeline.MaxSourceBytes {
		return nil, "", errors.Validationf("fetch.Fetch",
			"source exceeds the %d byte limit", pipeline.MaxSourceBytes)
	}

	return data, sourceMIME(resp.Header.Get("Content-Type"), u.Path), nil
}

// sourceMIME picks the type from the response header, falling back to
// the URL's file extension. An empty return means the pipeline's own
// validation will reject the payload with a precise message.
func sourceMIME(contentType, path string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && raster.Supported(mt) {
		return mt
	}
	if mt, err := raster.MIMEFromPath(path); err == nil {
		return mt
	}
	return ""
}

// wrapError provides more helpful error messages for common failures
func wrapError(url string, err error) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()
	if strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "Client.Timeout") {
		return fmt.Errorf("connection timeout - server at %s is not responding", url)
	}
	if strings.Contains(errStr, "connection refused") {
		return fmt.Errorf("connection refused - no server running at %s", url)
	}
	if strings.Contains(errStr, "no such host") {
		return fmt.Errorf("unknown host - could not resolve %s", url)
	}
	if strings.Contains(errStr, "certificate") {
		return fmt.Errorf("TLS/SSL error - certificate issue with %s", url)
	}
	return err
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return raw
}
