// Package tui renders conveyor's terminal output: the run progress display
// and the init wizard.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TermTheme holds all color values for a terminal theme.
type TermTheme struct {
	Name string

	// Brand
	Accent    lipgloss.Color
	AccentDim lipgloss.Color

	// Semantic
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Text
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Dim       lipgloss.Color

	// Surfaces
	Border lipgloss.Color
}

// DarkTheme is the default dark terminal theme.
var DarkTheme = TermTheme{
	Name:      "dark",
	Accent:    lipgloss.Color("#38bdf8"),
	AccentDim: lipgloss.Color("#0369a1"),
	Success:   lipgloss.Color("#22c55e"),
	Warning:   lipgloss.Color("#eab308"),
	Error:     lipgloss.Color("#ef4444"),
	Primary:   lipgloss.Color("#e0e0e8"),
	Secondary: lipgloss.Color("#888888"),
	Dim:       lipgloss.Color("#5a5a70"),
	Border:    lipgloss.Color("#2a2a3a"),
}

// LightTheme is the light terminal theme.
var LightTheme = TermTheme{
	Name:      "light",
	Accent:    lipgloss.Color("#0369a1"),
	AccentDim: lipgloss.Color("#075985"),
	Success:   lipgloss.Color("#15803d"),
	Warning:   lipgloss.Color("#a16207"),
	Error:     lipgloss.Color("#b91c1c"),
	Primary:   lipgloss.Color("#0f172a"),
	Secondary: lipgloss.Color("#374151"),
	Dim:       lipgloss.Color("#4b5563"),
	Border:    lipgloss.Color("#d1d5db"),
}

// DetectTheme returns the appropriate theme based on flag, env, or detection.
func DetectTheme(flagVal string) TermTheme {
	// 1. --theme flag
	switch strings.ToLower(flagVal) {
	case "dark":
		return DarkTheme
	case "light":
		return LightTheme
	}

	// 2. CONVEYOR_THEME env
	if env := os.Getenv("CONVEYOR_THEME"); env != "" {
		switch strings.ToLower(env) {
		case "dark":
			return DarkTheme
		case "light":
			return LightTheme
		}
	}

	// 3. COLORFGBG heuristic (format: "fg;bg")
	if colorfgbg := os.Getenv("COLORFGBG"); colorfgbg != "" {
		parts := strings.Split(colorfgbg, ";")
		if len(parts) >= 2 {
			bg := parts[len(parts)-1]
			if bg == "15" || bg == "7" {
				return LightTheme
			}
		}
	}

	// 4. Default to dark
	return DarkTheme
}

// StyleSet contains pre-computed lipgloss styles derived from a theme.
type StyleSet struct {
	Theme TermTheme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	AccentTxt  lipgloss.Style
	DimTxt     lipgloss.Style
	SuccessTxt lipgloss.Style
	WarningTxt lipgloss.Style
	ErrorTxt   lipgloss.Style
	Box        lipgloss.Style
}

// NewStyleSet builds the styles for a theme.
func NewStyleSet(theme TermTheme) *StyleSet {
	return &StyleSet{
		Theme:      theme,
		Title:      lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
		Subtitle:   lipgloss.NewStyle().Foreground(theme.Secondary),
		AccentTxt:  lipgloss.NewStyle().Foreground(theme.Accent),
		DimTxt:     lipgloss.NewStyle().Foreground(theme.Dim),
		SuccessTxt: lipgloss.NewStyle().Foreground(theme.Success),
		WarningTxt: lipgloss.NewStyle().Foreground(theme.Warning),
		ErrorTxt:   lipgloss.NewStyle().Foreground(theme.Error),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}
