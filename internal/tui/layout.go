package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height
// lines so split panes join cleanly.
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

// fitWidth truncates with an ellipsis or pads ln to width columns.
func fitWidth(ln string, width int) string {
	w := xansi.StringWidth(ln)
	switch {
	case width <= 0:
		return ""
	case w > width && width == 1:
		return xansi.Cut(ln, 0, 1)
	case w > width:
		ln = xansi.Cut(ln, 0, width-1) + "…"
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}
