package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const focusGutter = "› "

func renderFormLabel(label string, focused bool) string {
	if focused {
		return lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(label)
	}
	return styleMuted().Render(label)
}

// renderFormField renders one labelled single-line input of the plate form, bodyW
// cells wide. The focused field gets a gutter marker; long values are cut with "…".
func renderFormField(bodyW int, label string, focused bool, inputView string) string {
	bodyW = max(bodyW, 10)
	innerW := bodyW - xansi.StringWidth(focusGutter)

	gutter := strings.Repeat(" ", xansi.StringWidth(focusGutter))
	if focused {
		gutter = lipgloss.NewStyle().Foreground(colorAccent).Render(focusGutter)
	}

	value := strings.NewReplacer("\r", " ", "\n", " ").Replace(inputView)
	if xansi.StringWidth(value) > innerW-1 {
		value = xansi.Truncate(value, innerW-1, "…") + "\x1b[0m"
	}
	line := lipgloss.PlaceHorizontal(
		innerW,
		lipgloss.Left,
		value+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	return renderFormLabel(label, focused) + "\n" + gutter + line
}
