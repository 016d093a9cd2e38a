package tui

import (
	"os"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines so
// columns line up under lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitWidth truncates with an ellipsis or pads ln to width cells.
func fitWidth(ln string, width int) string {
	w := xansi.StringWidth(ln)
	if w > width {
		switch {
		case width <= 0:
			return ""
		case width == 1:
			ln = xansi.Truncate(ln, 1, "")
		default:
			ln = xansi.Truncate(ln, width, glyphEllipsis())
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// Some fonts render box and arrow glyphs badly; WEEKBOARD_TUI_GLYPHS=ascii swaps them.
func asciiGlyphs() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("WEEKBOARD_TUI_GLYPHS")), "ascii")
}

func glyphEllipsis() string {
	if asciiGlyphs() {
		return "~"
	}
	return "…"
}

func glyphCurrent() string {
	if asciiGlyphs() {
		return "*"
	}
	return "●"
}

func glyphDrag() string {
	if asciiGlyphs() {
		return "=>"
	}
	return "⇢"
}

func glyphBullet() string {
	if asciiGlyphs() {
		return "*"
	}
	return "•"
}
