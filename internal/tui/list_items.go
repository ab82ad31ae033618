package tui

import (
	"strconv"
	"strings"

	"platedash/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type plateItem struct {
	plate model.Plate
}

func (i plateItem) FilterValue() string {
	return i.plate.Name + " " + i.plate.Description
}

func (i plateItem) Title() string { return i.plate.Title() }

func (i plateItem) Description() string {
	price := strings.TrimSpace(i.plate.Price)
	if price == "" {
		price = "-"
	}
	return "#" + strconv.Itoa(i.plate.ID) + "  R$ " + price
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, newPlateDelegate(), 0, 0)
	l.Title = title
	// The app renders its own header and footer, so list chrome stays minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("plate", "plates")
	// ESC closes modals and clears filters; only q quits.
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.ForceQuit.SetKeys("ctrl+c")

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

func platesToItems(plates []model.Plate) []list.Item {
	items := make([]list.Item, 0, len(plates))
	for _, p := range plates {
		items = append(items, plateItem{plate: p})
	}
	return items
}

// selectPlateByID moves the cursor to plate id; false if it is not listed.
func selectPlateByID(l *list.Model, id int) bool {
	for i, it := range l.Items() {
		if pi, ok := it.(plateItem); ok && pi.plate.ID == id {
			l.Select(i)
			return true
		}
	}
	return false
}

func selectedPlate(l list.Model) (model.Plate, bool) {
	if it, ok := l.SelectedItem().(plateItem); ok {
		return it.plate, true
	}
	return model.Plate{}, false
}
