package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The TUI must stay readable on light and dark backgrounds. Colors are
// adaptive and faint styling is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted       lipgloss.TerminalColor = ac("240", "243")
	colorChromeFg    lipgloss.TerminalColor = ac("240", "245")
	colorSelectedBg  lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg  lipgloss.TerminalColor = ac("235", "255")
	colorSurfaceBg   lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg   lipgloss.TerminalColor = ac("235", "252")
	colorControlBg   lipgloss.TerminalColor = ac("252", "237")
	colorAccent      lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg    lipgloss.TerminalColor = ac("255", "235")
	colorHighlightFg lipgloss.TerminalColor = ac("130", "214")
	colorErrorFg     lipgloss.TerminalColor = ac("160", "203")
	colorDropMarker  lipgloss.TerminalColor = ac("27", "75")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleChrome() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorChromeFg)
}

func styleTabActive() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorAccentFg).Background(colorAccent)
}

func styleTab() lipgloss.Style {
	return lipgloss.NewStyle().Padding(0, 1).Foreground(colorChromeFg)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorErrorFg)
}

// applyColorProfilePreference only honors NO_COLOR and otherwise trusts the
// terminal. termenv.EnvColorProfile would also respect CLICOLOR, which can
// disable colors in an interactive UI by accident.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference decides light vs dark background. Priority:
// THINGSDO_TUI_THEME, then the configured theme, then COLORFGBG.
func applyThemePreference(configured string) {
	for _, v := range []string{os.Getenv("THINGSDO_TUI_THEME"), configured} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "light":
			lipgloss.SetHasDarkBackground(false)
			return
		case "dark":
			lipgloss.SetHasDarkBackground(true)
			return
		}
	}

	// COLORFGBG is "fg;bg", sometimes with more segments; bg is last.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
