package pipeline

import (
	"github.com/javanhut/IconForge/compose"
	"github.com/javanhut/IconForge/resize"
)

// Published names of the non-variant outputs.
const (
	// ContainerName is the classic multi-resolution icon at the site root.
	ContainerName = "favicon.ico"
	// ContainerAppName is the identical copy frameworks auto-discover
	// from an app directory.
	ContainerAppName = "app/favicon.ico"
	ICNSName         = "AppIcon.icns"
	ManifestName     = "site.webmanifest"
	ReadmeName       = "README.md"
)

// ICNSSourceSize is the square variant the macOS icon is built from.
const ICNSSourceSize = 512

// DefaultSizes returns the fixed, ordered derivation table. The names
// are the output contract; consumers link them by convention.
func DefaultSizes() []compose.SizeSpec {
	return []compose.SizeSpec{
		{Name: "favicon-16x16.png", Width: 16, Height: 16, Fit: resize.Cover, RoundCorners: true},
		{Name: "favicon-32x32.png", Width: 32, Height: 32, Fit: resize.Cover, RoundCorners: true},
		{Name: "favicon-48x48.png", Width: 48, Height: 48, Fit: resize.Cover, RoundCorners: true},
		{Name: "apple-touch-icon.png", Width: 180, Height: 180, Fit: resize.Cover, RoundCorners: true},
		{Name: "android-chrome-192x192.png", Width: 192, Height: 192, Fit: resize.Cover, RoundCorners: true},
		{Name: "android-chrome-512x512.png", Width: 512, Height: 512, Fit: resize.Cover, RoundCorners: true},
		{Name: "og-image.png", Width: 1200, Height: 630, Fit: resize.Contain, RoundCorners: false},
	}
}

// ContainerSizes returns the square dimensions multiplexed into the
// icon container, ascending.
func ContainerSizes() []int {
	return []int{16, 32, 48}
}
