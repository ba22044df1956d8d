// Package ui provides the pages and visual styling for the AutoAccel
// interactive TUI, with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Monochrome palette: black-on-light and white-on-dark, accents via
// inversion.
var (
	// Light mode colors (default)
	LightBackground   = lipgloss.Color("#f2f2f2")
	LightForeground   = lipgloss.Color("#000000")
	LightPrimary      = lipgloss.Color("#000000")
	LightCard         = lipgloss.Color("#ffffff")
	LightChip         = lipgloss.Color("#e6e6e6")
	LightChipText     = lipgloss.Color("#333333")
	LightChipSelected = lipgloss.Color("#000000")
	LightBorder       = lipgloss.Color("#cccccc")
	LightMuted        = lipgloss.Color("#555555")

	// Dark mode colors
	DarkBackground   = lipgloss.Color("#222222")
	DarkForeground   = lipgloss.Color("#ffffff")
	DarkPrimary      = lipgloss.Color("#ffffff")
	DarkCard         = lipgloss.Color("#111111")
	DarkChip         = lipgloss.Color("#555555")
	DarkChipText     = lipgloss.Color("#ffffff")
	DarkChipSelected = lipgloss.Color("#ffffff")
	DarkBorder       = lipgloss.Color("#444444")
	DarkMuted        = lipgloss.Color("#bbbbbb")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#43a047")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme. It is a plain immutable value; build
// one with ResolveTheme and derive styles from it.
type Theme struct {
	Background   lipgloss.Color
	Foreground   lipgloss.Color
	Primary      lipgloss.Color
	Card         lipgloss.Color
	Chip         lipgloss.Color
	ChipText     lipgloss.Color
	ChipSelected lipgloss.Color
	Border       lipgloss.Color
	Muted        lipgloss.Color
	IsDark       bool
}

// ResolveTheme maps the dark-mode flag to its theme tokens.
func ResolveTheme(isDark bool) Theme {
	if isDark {
		return Theme{
			Background:   DarkBackground,
			Foreground:   DarkForeground,
			Primary:      DarkPrimary,
			Card:         DarkCard,
			Chip:         DarkChip,
			ChipText:     DarkChipText,
			ChipSelected: DarkChipSelected,
			Border:       DarkBorder,
			Muted:        DarkMuted,
			IsDark:       true,
		}
	}
	return Theme{
		Background:   LightBackground,
		Foreground:   LightForeground,
		Primary:      LightPrimary,
		Card:         LightCard,
		Chip:         LightChip,
		ChipText:     LightChipText,
		ChipSelected: LightChipSelected,
		Border:       LightBorder,
		Muted:        LightMuted,
		IsDark:       false,
	}
}

// ResolveThemeName maps a config theme name to a theme: "light", "dark", or
// anything else ("system") via terminal detection.
func ResolveThemeName(name string) Theme {
	switch name {
	case "light":
		return ResolveTheme(false)
	case "dark":
		return ResolveTheme(true)
	default:
		return DetectTheme()
	}
}

// DetectTheme auto-detects dark mode from the terminal, defaulting to light.
func DetectTheme() Theme {
	// COLORFGBG is usually "foreground;background"; ANSI indexes 0-6 and 8
	// are dark backgrounds.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return ResolveTheme(true)
				}
			}
		}
	}

	if os.Getenv("AUTOACCEL_DARK_MODE") == "1" {
		return ResolveTheme(true)
	}

	return ResolveTheme(false)
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	App     lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Body          lipgloss.Style
	Muted         lipgloss.Style
	SectionHeader lipgloss.Style

	// Cards
	Card      lipgloss.Style
	CardTitle lipgloss.Style

	// Chips
	Chip         lipgloss.Style
	ChipSelected lipgloss.Style
	ChipDimmed   lipgloss.Style
	ChipFocused  lipgloss.Style

	// Controls
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	buttonFg := theme.Background
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Background(theme.Background).
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		SectionHeader: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Transform(strings.ToUpper).
			MarginBottom(1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		CardTitle: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Chip: lipgloss.NewStyle().
			Foreground(theme.ChipText).
			Background(theme.Chip).
			Padding(0, 1),

		ChipSelected: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.ChipSelected).
			Padding(0, 1),

		ChipDimmed: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Background).
			Padding(0, 1),

		ChipFocused: lipgloss.NewStyle().
			Foreground(theme.ChipText).
			Background(theme.Chip).
			Padding(0, 1).
			Underline(true),

		Button: lipgloss.NewStyle().
			Foreground(buttonFg).
			Background(theme.Primary).
			Padding(0, 3).
			Bold(true),

		ButtonDisabled: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Chip).
			Padding(0, 3),

		Success: lipgloss.NewStyle().Foreground(Success),
		Error:   lipgloss.NewStyle().Foreground(Destructive),
		Warning: lipgloss.NewStyle().Foreground(Warning),
		Info:    lipgloss.NewStyle().Foreground(Info),

		Spinner: lipgloss.NewStyle().Foreground(theme.Primary),
		Divider: lipgloss.NewStyle().Foreground(theme.Border),
	}
}

// DefaultStyles returns styles with the light theme.
func DefaultStyles() Styles {
	return NewStyles(ResolveTheme(false))
}
