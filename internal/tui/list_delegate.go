package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// plateDelegate renders one plate per line: availability glyph, name, price.
type plateDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newPlateDelegate() plateDelegate {
	return plateDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d plateDelegate) Height() int  { return 1 }
func (d plateDelegate) Spacing() int { return 0 }
func (d plateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d plateDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	it, ok := item.(plateItem)
	if !ok {
		fmt.Fprint(w, truncateCells(fmt.Sprint(item), contentW))
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	mark := styleAvailability(it.plate.Available).Inherit(style).Render(glyphAvailable(it.plate.Available))
	price := strings.TrimSpace(it.plate.Price)
	if price != "" {
		price = "R$ " + price
	}

	// Name fills the space left of the right-aligned price.
	markW := xansi.StringWidth(mark)
	nameW := contentW - markW - 1 - xansi.StringWidth(price) - 1
	name := truncateCells(it.plate.Title(), max(nameW, 1))
	gap := contentW - markW - 1 - xansi.StringWidth(name) - xansi.StringWidth(price)
	if gap < 1 {
		gap = 1
	}

	line := mark + style.Render(" "+name+strings.Repeat(" ", gap)+price)
	if xansi.StringWidth(line) > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, line)
}
