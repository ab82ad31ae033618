package tui

import (
	"strconv"
	"strings"

	"platedash/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func renderPlateDetail(p model.Plate, width, height int) string {
	if width < 10 {
		width = 10
	}

	status := "unavailable"
	if p.Available {
		status = "available"
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(p.Title()),
		styleMuted().Render("#"+strconv.Itoa(p.ID)) + "  " +
			styleAvailability(p.Available).Render(glyphAvailable(p.Available)+" "+status),
		"",
		"Price  " + emptyAsDash("R$ ", p.Price),
		"Image  " + styleMuted().Render(truncateCells(emptyAsDash("", p.Image), width-7)),
		"",
	}
	if desc := renderMarkdown(p.Description, width); desc != "" {
		lines = append(lines, desc)
	} else {
		lines = append(lines, styleMuted().Render("No description."))
	}
	return normalizePane(strings.Join(lines, "\n"), width, height)
}

func emptyAsDash(prefix, s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return prefix + s
}
