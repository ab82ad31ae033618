package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall, so split panes line up with lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	height = max(height, 0)

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
		w := xansi.StringWidth(ln)
		if w > width {
			ln = truncateCells(ln, width)
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// truncateCells cuts s to width cells, marking the cut with an ellipsis.
func truncateCells(s string, width int) string {
	switch {
	case width <= 0:
		return ""
	case width == 1:
		return xansi.Cut(s, 0, 1)
	case xansi.StringWidth(s) <= width:
		return s
	default:
		return xansi.Cut(s, 0, width-1) + "…"
	}
}

// splitWidths divides the screen between the plate list and the detail pane.
func splitWidths(total int) (left, right int) {
	left = total * 2 / 5
	if left < 28 {
		left = 28
	}
	right = total - left - 1
	if right < 20 {
		right = 20
	}
	return left, right
}
