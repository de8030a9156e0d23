package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"toru/internal/debuglog"
)

// Theme is a named color set. User themes are plain TOML files with
// the same fields; missing colors fall back to the default theme.
type Theme struct {
	Name      string `toml:"name"`
	Border    string `toml:"border"`
	Text      string `toml:"text"`
	Muted     string `toml:"muted"`
	Accent    string `toml:"accent"`
	Success   string `toml:"success"`
	Error     string `toml:"error"`
	Highlight string `toml:"highlight"`
	Selected  string `toml:"selected"`
}

func defaultTheme() Theme {
	return Theme{
		Name:      "Default",
		Border:    "#FFFFFF",
		Text:      "#FFFFFF",
		Muted:     "#808080",
		Accent:    "#87CEFA",
		Success:   "#50FA7B",
		Error:     "#FF5555",
		Highlight: "#F1FA8C",
		Selected:  "#2D2D2D",
	}
}

// builtinThemes lists the themes that ship with the app, default first.
func builtinThemes() []Theme {
	return []Theme{
		defaultTheme(),
		{
			Name:      "Dracula",
			Border:    "#6272A4",
			Text:      "#F8F8F2",
			Muted:     "#6272A4",
			Accent:    "#BD93F9",
			Success:   "#50FA7B",
			Error:     "#FF5555",
			Highlight: "#F1FA8C",
			Selected:  "#44475A",
		},
		{
			Name:      "Gruvbox",
			Border:    "#EBDBB2",
			Text:      "#EBDBB2",
			Muted:     "#928374",
			Accent:    "#FABD2F",
			Success:   "#B8BB26",
			Error:     "#FB4934",
			Highlight: "#FE8019",
			Selected:  "#3C3836",
		},
		{
			Name:      "Catppuccin Macchiato",
			Border:    "#B7BDF8",
			Text:      "#CAD3F5",
			Muted:     "#6E738D",
			Accent:    "#C6A0F6",
			Success:   "#A6DA95",
			Error:     "#ED8796",
			Highlight: "#EED49F",
			Selected:  "#363A4F",
		},
	}
}

// fillTheme backfills unset colors from the default theme so a sparse
// user file still renders.
func fillTheme(t Theme) Theme {
	def := defaultTheme()
	if t.Border == "" {
		t.Border = def.Border
	}
	if t.Text == "" {
		t.Text = def.Text
	}
	if t.Muted == "" {
		t.Muted = def.Muted
	}
	if t.Accent == "" {
		t.Accent = def.Accent
	}
	if t.Success == "" {
		t.Success = def.Success
	}
	if t.Error == "" {
		t.Error = def.Error
	}
	if t.Highlight == "" {
		t.Highlight = def.Highlight
	}
	if t.Selected == "" {
		t.Selected = def.Selected
	}
	return t
}

// LoadThemes returns the builtin themes plus any user themes found in
// dir. A broken theme file is skipped, never fatal.
func LoadThemes(dir string) []Theme {
	themes := builtinThemes()
	if dir == "" {
		return themes
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return themes
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		theme, err := loadThemeFile(path)
		if err != nil {
			debuglog.Warnf("skipping theme %s: %v", path, err)
			continue
		}
		themes = append(themes, theme)
	}
	return themes
}

func loadThemeFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var theme Theme
	if err := toml.Unmarshal(data, &theme); err != nil {
		return Theme{}, fmt.Errorf("parsing theme: %w", err)
	}
	if theme.Name == "" {
		theme.Name = strings.TrimSuffix(filepath.Base(path), ".toml")
	}
	return fillTheme(theme), nil
}

// DefaultThemeDir returns the directory user themes are read from.
func DefaultThemeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "toru", "themes")
}

// themeIndex finds a theme by name, case-insensitively.
func themeIndex(themes []Theme, name string) int {
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return 0
}
