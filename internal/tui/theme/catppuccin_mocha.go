package theme

// NewCatppuccinMocha creates the default Catppuccin Mocha theme, with the
// gold accent used across the siding brand.
func NewCatppuccinMocha() *Theme {
	return &Theme{
		Name:   "catppuccin-mocha",
		IsDark: true,

		Primary:   "#f9e2af", // Yellow
		Secondary: "#b4befe", // Lavender
		Accent:    "#fab387", // Peach

		BgBase:     "#1e1e2e",
		BgMantle:   "#181825",
		BgSurface0: "#313244",
		BgSurface1: "#45475a",

		FgMuted:  "#6c7086",
		FgSubtle: "#a6adc8",
		FgBase:   "#cdd6f4",
		FgBright: "#ffffff",

		Success: "#a6e3a1",
		Warning: "#f9e2af",
		Error:   "#f38ba8",
	}
}
