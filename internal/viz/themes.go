package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a TUI color scheme. GasA and GasB color the two populations;
// Accent draws the partition and Muted the box frame.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	GasA       lipgloss.Color
	GasB       lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Primary:    "#ff00ff",
		Secondary:  "#00ffff",
		Accent:     "#ffff00",
		Background: "#0a0a0a",
		Text:       "#ffffff",
		Muted:      "#666666",
		GasA:       "#ff00ff",
		GasB:       "#00ffff",
	}

	ThemeFireIce = Theme{
		Name:       "fire-ice",
		Primary:    "#ff7043",
		Secondary:  "#4fc3f7",
		Accent:     "#eeeeee",
		Background: "#101418",
		Text:       "#fafafa",
		Muted:      "#546e7a",
		GasA:       "#ff5722",
		GasB:       "#29b6f6",
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Primary:    "#00ff00",
		Secondary:  "#00cc00",
		Accent:     "#88ff88",
		Background: "#001100",
		Text:       "#00ff00",
		Muted:      "#005500",
		GasA:       "#88ff88",
		GasB:       "#ffff00",
	}

	ThemeMinimal = Theme{
		Name:       "minimal",
		Primary:    "#ffffff",
		Secondary:  "#cccccc",
		Accent:     "#0088ff",
		Background: "#000000",
		Text:       "#ffffff",
		Muted:      "#888888",
		GasA:       "#ff5555",
		GasB:       "#0088ff",
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Primary:    "#0077be",
		Secondary:  "#00a8cc",
		Accent:     "#ffd700",
		Background: "#001a33",
		Text:       "#e0f0ff",
		Muted:      "#4488aa",
		GasA:       "#ffd700",
		GasB:       "#00a8cc",
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Primary:    "#ff6b6b",
		Secondary:  "#feca57",
		Accent:     "#ff9ff3",
		Background: "#2d1b2e",
		Text:       "#fff5f5",
		Muted:      "#8b6b8c",
		GasA:       "#ff6b6b",
		GasB:       "#feca57",
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeFireIce,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

var themeIndex = func() map[string]int {
	idx := make(map[string]int, len(Themes))
	for i, t := range Themes {
		idx[t.Name] = i
	}
	return idx
}()

// GetTheme looks a theme up by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	if i, ok := themeIndex[name]; ok {
		return Themes[i]
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// ThemeNames lists theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme returns the theme after the current one, wrapping around.
func nextTheme() Theme {
	i := themeIndex[CurrentTheme.Name]
	return Themes[(i+1)%len(Themes)]
}
