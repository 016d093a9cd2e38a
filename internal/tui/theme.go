package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"weekboard/internal/model"
)

// The board must stay readable on light and dark terminals, so colours are
// lipgloss.AdaptiveColor and faint styling is only used on dark backgrounds.

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
	colorMuted          = ac("240", "243")
	colorSurfaceFg      = ac("235", "252")
	colorControlBg      = ac("252", "235")
	colorInputBg        = ac("254", "234")
	colorAccent         = ac("27", "62")
	colorAccentFg       = ac("255", "235")
	colorSelectedBorder = ac("232", "255")
	colorCardBorder     = ac("250", "243")
	colorCurrentWeek    = ac("28", "114")
	colorError          = ac("160", "203")

	// Card accents per handler.
	colorHandlerInternal = ac("25", "75")
	colorHandlerCustomer = ac("130", "214")
	colorHandlerOther    = ac("90", "177")
)

func handlerColor(h model.Handler) lipgloss.AdaptiveColor {
	switch h {
	case model.HandlerInternal:
		return colorHandlerInternal
	case model.HandlerCustomer:
		return colorHandlerCustomer
	default:
		return colorHandlerOther
	}
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

// applyColorProfilePreference sets the colour profile for the board. NO_COLOR turns
// colours off; otherwise termenv's detection is used, upgraded when TERM or COLORTERM
// advertise more than the probe found.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case profile == termenv.Ascii:
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		profile = termenv.TrueColor
	case strings.Contains(term, "256color") && profile == termenv.ANSI:
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference decides light vs dark palettes.
//
// Priority:
// 1) WEEKBOARD_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg", last segment is the background)
func applyThemePreference() {
	if dark, ok := themeDark(); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

func themeDark() (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WEEKBOARD_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return bg < 7, true
		}
	}
	return false, false
}
