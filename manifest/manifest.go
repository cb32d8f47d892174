// Package manifest renders the metadata companions of the icon family:
// the web app manifest and the install README.
package manifest

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/javanhut/IconForge/errors"
)

// Metadata is caller-supplied naming for the generated assets. Values
// pass through uninterpreted; the pipeline never derives behavior from
// them.
type Metadata struct {
	AppName    string
	ShortName  string
	ThemeColor string
}

type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Icons           []manifestIcon `json:"icons"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Display         string         `json:"display"`
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// WebManifest renders site.webmanifest with the two chrome icon
// entries. Field order is fixed by the struct, so output is
// deterministic.
func WebManifest(meta Metadata) ([]byte, error) {
	m := webManifest{
		Name:      meta.AppName,
		ShortName: meta.ShortName,
		Icons: []manifestIcon{
			{Src: "/android-chrome-192x192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/android-chrome-512x512.png", Sizes: "512x512", Type: "image/png"},
		},
		ThemeColor:      meta.ThemeColor,
		BackgroundColor: meta.ThemeColor,
		Display:         "standalone",
	}

	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.KindEncode, "manifest.WebManifest",
			"marshal web manifest", err)
	}
	return append(out, '\n'), nil
}

const readmeText = `# {{if .AppName}}{{.AppName}} icon package{{else}}Icon package{{end}}

Copy every file in this package to the root of your site, keeping the
` + "`app/`" + ` folder, then add the following to the ` + "`<head>`" + ` of your pages:

` + "```html" + `
<link rel="icon" type="image/png" sizes="16x16" href="/favicon-16x16.png">
<link rel="icon" type="image/png" sizes="32x32" href="/favicon-32x32.png">
<link rel="icon" type="image/png" sizes="48x48" href="/favicon-48x48.png">
<link rel="apple-touch-icon" sizes="180x180" href="/apple-touch-icon.png">
<link rel="manifest" href="/site.webmanifest">
{{if .ThemeColor}}<meta name="theme-color" content="{{.ThemeColor}}">
{{end}}<meta property="og:image" content="/og-image.png">
` + "```" + `

## Files

- ` + "`favicon.ico`" + ` - classic multi-resolution icon (16, 32 and 48 px),
  served from the site root for browsers that look it up by convention
- ` + "`app/favicon.ico`" + ` - identical copy for frameworks that publish
  icons from an app directory
- ` + "`favicon-16x16.png`" + `, ` + "`favicon-32x32.png`" + `, ` + "`favicon-48x48.png`" + ` - tab icons
- ` + "`apple-touch-icon.png`" + ` - iOS home screen icon (180 px)
- ` + "`android-chrome-192x192.png`" + `, ` + "`android-chrome-512x512.png`" + ` - Android
  and PWA icons, referenced from ` + "`site.webmanifest`" + `
- ` + "`og-image.png`" + ` - 1200x630 social preview card
- ` + "`AppIcon.icns`" + ` - macOS application icon
- ` + "`site.webmanifest`" + ` - web app manifest
`

var readmeTmpl = template.Must(template.New("readme").Parse(readmeText))

// README renders the install guide bundled alongside the assets.
func README(meta Metadata) ([]byte, error) {
	var buf bytes.Buffer
	if err := readmeTmpl.Execute(&buf, meta); err != nil {
		return nil, errors.Wrap(errors.KindEncode, "manifest.README",
			"render readme", err)
	}
	return buf.Bytes(), nil
}
