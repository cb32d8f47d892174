package config

// ThemePreset pairs a human-readable label with a manifest theme color.
type ThemePreset struct {
	Name  string
	Label string
	Hex   string
}

// ThemePresets lists the named colors offered by the upload form and
// the -theme flag.
func ThemePresets() []ThemePreset {
	return []ThemePreset{
		{Name: "white", Label: "White", Hex: "#ffffff"},
		{Name: "ink", Label: "Ink", Hex: "#111111"},
		{Name: "slate", Label: "Slate", Hex: "#1e293b"},
		{Name: "midnight", Label: "Midnight", Hex: "#0f172a"},
		{Name: "crimson", Label: "Crimson", Hex: "#b91c1c"},
		{Name: "forest", Label: "Forest", Hex: "#14532d"},
	}
}

// ThemeHex resolves a preset name to its color. Anything that is not a
// preset name, hex literals included, passes through unchanged.
func ThemeHex(name string) string {
	for _, opt := range ThemePresets() {
		if opt.Name == name {
			return opt.Hex
		}
	}
	return name
}
