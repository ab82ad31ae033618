package publish

import (
	"bytes"
	"fmt"
	"strings"

	"platedash/internal/model"
)

type RenderOptions struct {
	IncludeUnavailable bool
	// Title heads the menu index. Defaults to "Menu".
	Title string
}

// RenderPlateMarkdown renders one plate page.
func RenderPlateMarkdown(p model.Plate) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + p.Title())
	writeLn("")
	if img := strings.TrimSpace(p.Image); img != "" {
		writeLn(fmt.Sprintf("![%s](%s)", p.Title(), img))
		writeLn("")
	}
	writeLn("- Price: " + priceText(p.Price))
	if p.Available {
		writeLn("- Status: available")
	} else {
		writeLn("- Status: unavailable")
	}
	writeLn("")
	if d := strings.TrimSpace(p.Description); d != "" {
		writeLn(d)
		writeLn("")
	}
	return buf.String()
}

// RenderMenuMarkdown renders the index: one line per plate, linking to its page.
func RenderMenuMarkdown(plates []model.Plate, opt RenderOptions) string {
	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Menu"
	}

	var buf bytes.Buffer
	buf.WriteString("# " + title + "\n\n")

	n := 0
	for _, p := range plates {
		if !p.Available && !opt.IncludeUnavailable {
			continue
		}
		line := fmt.Sprintf("- [%s](%s) %s", p.Title(), platePagePath(p.ID), priceText(p.Price))
		if !p.Available {
			line += " _(unavailable)_"
		}
		buf.WriteString(line + "\n")
		n++
	}
	if n == 0 {
		buf.WriteString("_Nothing on the menu right now._\n")
	}
	return buf.String()
}

func priceText(price string) string {
	if p := strings.TrimSpace(price); p != "" {
		return "R$ " + p
	}
	return "R$ -"
}

func platePagePath(id int) string {
	return fmt.Sprintf("plates/%d.md", id)
}
