package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"platedash/internal/dashboard"
	"platedash/internal/model"
	"platedash/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appModel struct {
	ctrl   *dashboard.Controller
	store  store.Store
	apiURL string
	logger *log.Logger

	width  int
	height int

	list list.Model

	modal        modalKind
	form         plateForm
	deleteFor    model.Plate
	confirmFocus confirmModalFocus

	// restoreID is the plate selected when the dashboard last exited; applied once after the first load.
	restoreID int
	loadErr   error

	minibufferText  string
	minibufferSetAt time.Time
	minibufferSeq   int
}

func newAppModel(opts Options) appModel {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	m := appModel{
		ctrl:   opts.Controller,
		store:  opts.Store,
		apiURL: opts.APIURL,
		logger: logger,
		list:   newList("Plates", nil),
	}
	if st, err := opts.Store.LoadTUIState(); err == nil && st != nil {
		if st.APIURL == "" || st.APIURL == opts.APIURL {
			m.restoreID = st.SelectedPlateID
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd { return m.loadCmd() }

func (m appModel) loadCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return platesLoadedMsg{err: ctrl.Load(context.Background())}
	}
}

func (m appModel) toggleCmd(p model.Plate) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return availabilityMsg{id: p.ID, err: ctrl.ToggleAvailability(context.Background(), p.ID, !p.Available)}
	}
}

func (m appModel) addCmd(d model.PlateDraft) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return plateAddedMsg{name: d.Name, ok: ctrl.AddPlate(context.Background(), d)}
	}
}

func (m appModel) updateCmd(d model.PlateDraft) tea.Cmd {
	ctrl := m.ctrl
	sel, _ := ctrl.EditingSelection()
	return func() tea.Msg {
		applied, err := ctrl.UpdatePlate(context.Background(), d)
		return plateUpdatedMsg{id: sel.ID, applied: applied, err: err}
	}
}

func (m appModel) deleteCmd(p model.Plate) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return plateDeletedMsg{plate: p, err: ctrl.DeletePlate(context.Background(), p.ID)}
	}
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferText = text
	m.minibufferSetAt = time.Now()
	m.minibufferSeq++
	seq := m.minibufferSeq
	return tea.Tick(minibufferAutoClearAfter, func(time.Time) tea.Msg { return minibufferTickMsg{seq: seq} })
}

// refreshPlates rebuilds the list from the controller, keeping the cursor on
// keepID when that plate still exists.
func (m *appModel) refreshPlates(keepID int) {
	idx := m.list.Index()
	m.list.SetItems(platesToItems(m.ctrl.Plates()))
	if keepID != 0 && selectPlateByID(&m.list, keepID) {
		return
	}
	if n := len(m.list.Items()); n > 0 {
		m.list.Select(min(idx, n-1))
	}
}

func (m appModel) selectedID() int {
	if p, ok := selectedPlate(m.list); ok {
		return p.ID
	}
	return 0
}

func (m appModel) saveState() {
	err := m.store.SaveTUIState(&store.TUIState{
		APIURL:          m.apiURL,
		SelectedPlateID: m.selectedID(),
	})
	if err != nil {
		m.logger.Printf("save tui state: %v", err)
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeList()
		if m.modal == modalPlateForm {
			m.form.setWidth(m.width)
		}
		return m, nil

	case minibufferTickMsg:
		if msg.seq == m.minibufferSeq && time.Since(m.minibufferSetAt) >= minibufferAutoClearAfter {
			m.minibufferText = ""
		}
		return m, nil

	case platesLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			m.logger.Printf("load plates: %v", msg.err)
			return m, m.showMinibuffer("Load failed: " + msg.err.Error())
		}
		m.loadErr = nil
		keep := m.selectedID()
		if m.restoreID != 0 {
			keep, m.restoreID = m.restoreID, 0
		}
		m.refreshPlates(keep)
		return m, nil

	case availabilityMsg:
		if msg.err != nil {
			m.logger.Printf("set availability %d: %v", msg.id, msg.err)
			return m, m.showMinibuffer("Availability not changed: " + msg.err.Error())
		}
		m.refreshPlates(m.selectedID())
		p, _ := m.ctrl.Plate(msg.id)
		state := "unavailable"
		if p.Available {
			state = "available"
		}
		return m, m.showMinibuffer(fmt.Sprintf("%s is now %s", p.Title(), state))

	case plateAddedMsg:
		if !msg.ok {
			return m, m.showMinibuffer(fmt.Sprintf("Could not add %q (see log)", msg.name))
		}
		plates := m.ctrl.Plates()
		keep := m.selectedID()
		if len(plates) > 0 {
			keep = plates[len(plates)-1].ID
		}
		m.refreshPlates(keep)
		return m, m.showMinibuffer(fmt.Sprintf("Added %q", msg.name))

	case plateUpdatedMsg:
		switch {
		case errors.Is(msg.err, dashboard.ErrNoEditSelection):
			return m, m.showMinibuffer("No plate selected for editing")
		case msg.err != nil:
			return m, m.showMinibuffer("Update failed: " + msg.err.Error())
		case !msg.applied:
			return m, m.showMinibuffer("Update not applied (see log)")
		}
		m.refreshPlates(msg.id)
		return m, m.showMinibuffer("Saved")

	case plateDeletedMsg:
		if msg.err != nil {
			m.logger.Printf("delete plate %d: %v", msg.plate.ID, msg.err)
			return m, m.showMinibuffer("Delete failed: " + msg.err.Error())
		}
		m.refreshPlates(m.selectedID())
		return m, m.showMinibuffer(fmt.Sprintf("Deleted %q", msg.plate.Title()))

	case tea.KeyMsg:
		switch m.modal {
		case modalPlateForm:
			return m.updateForm(msg)
		case modalConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateList(msg)
	}

	if m.modal == modalPlateForm {
		cmd := m.form.update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While typing a filter every key belongs to the list.
	if m.list.SettingFilter() {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Reload):
		return m, tea.Batch(m.loadCmd(), m.showMinibuffer("Reloading…"))

	case key.Matches(msg, keys.Add):
		m.ctrl.ToggleAddModal()
		m.form = newPlateForm(formAdd, model.PlateDraft{}, m.width)
		m.modal = modalPlateForm
		return m, m.form.setFocus(fieldName)

	case key.Matches(msg, keys.Edit):
		p, ok := selectedPlate(m.list)
		if !ok {
			return m, nil
		}
		m.ctrl.EditPlate(p)
		m.form = newPlateForm(formEdit, p.Draft(), m.width)
		m.modal = modalPlateForm
		return m, m.form.setFocus(fieldName)

	case key.Matches(msg, keys.Toggle):
		p, ok := selectedPlate(m.list)
		if !ok {
			return m, nil
		}
		return m, m.toggleCmd(p)

	case key.Matches(msg, keys.Delete):
		p, ok := selectedPlate(m.list)
		if !ok {
			return m, nil
		}
		m.deleteFor = p
		m.confirmFocus = confirmFocusCancel
		m.modal = modalConfirmDelete
		return m, nil

	case key.Matches(msg, keys.Copy):
		p, ok := selectedPlate(m.list)
		if !ok {
			return m, nil
		}
		if err := copyToClipboard(plateJSON(p)); err != nil {
			return m, m.showMinibuffer("Copy failed: " + err.Error())
		}
		return m, m.showMinibuffer(fmt.Sprintf("Copied %q as JSON", p.Title()))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// closeForm closes whichever controller modal the form was opened for.
func (m *appModel) closeForm() {
	if m.form.mode == formEdit {
		if m.ctrl.EditModalOpen() {
			m.ctrl.ToggleEditModal()
		}
	} else if m.ctrl.AddModalOpen() {
		m.ctrl.ToggleAddModal()
	}
	m.modal = modalNone
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Cancel):
		m.closeForm()
		return m, nil
	case key.Matches(msg, formKeys.Next):
		return m, m.form.next()
	case key.Matches(msg, formKeys.Prev):
		return m, m.form.prev()
	case key.Matches(msg, formKeys.Save):
		d := m.form.draft()
		mode := m.form.mode
		var cmd tea.Cmd
		if mode == formEdit {
			// The target id is read from the selection before the modal closes.
			cmd = m.updateCmd(d)
		} else {
			cmd = m.addCmd(d)
		}
		m.closeForm()
		return m, cmd
	case msg.String() == "enter" && m.form.focus != fieldDescription:
		return m, m.form.next()
	}
	return m, m.form.update(msg)
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n", "ctrl+g":
		m.modal = modalNone
		return m, nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "y":
		m.modal = modalNone
		return m, m.deleteCmd(m.deleteFor)
	case "enter":
		m.modal = modalNone
		if m.confirmFocus == confirmFocusConfirm {
			return m, m.deleteCmd(m.deleteFor)
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) resizeList() {
	leftW, _ := splitWidths(m.width)
	m.list.SetSize(leftW, m.bodyHeight())
}

// bodyHeight is the screen minus header, rule, footer and minibuffer lines.
func (m appModel) bodyHeight() int {
	return max(m.height-4, 3)
}

func (m appModel) View() string {
	header := m.viewHeader()
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), max(m.width, 1)))

	var body string
	switch m.modal {
	case modalPlateForm:
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.form.view(m.width))
	case modalConfirmDelete:
		modal := renderConfirmModal(m.width, "Delete plate",
			fmt.Sprintf("Delete %q (#%d)? This cannot be undone.", m.deleteFor.Title(), m.deleteFor.ID),
			"Delete", "Cancel", m.confirmFocus)
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, modal)
	default:
		body = m.viewBody()
	}

	return strings.Join([]string{header, rule, body, m.viewFooter(), styleMuted().Render(m.minibufferText)}, "\n")
}

func (m appModel) viewHeader() string {
	plates := m.ctrl.Plates()
	avail := 0
	for _, p := range plates {
		if p.Available {
			avail++
		}
	}
	title := styleHeader().Render("platedash")
	meta := styleMuted().Render(fmt.Sprintf("  %s  %s %d plates, %d available", m.apiURL, glyphBullet(), len(plates), avail))
	return title + meta
}

func (m appModel) viewBody() string {
	h := m.bodyHeight()
	leftW, rightW := splitWidths(m.width)

	if !m.ctrl.Loaded() {
		msg := "Loading plates…"
		if m.loadErr != nil {
			msg = "Could not load plates: " + m.loadErr.Error() + "\n\nPress r to retry."
		}
		return normalizePane(msg, m.width, h)
	}
	if len(m.list.Items()) == 0 {
		return normalizePane(styleMuted().Render("No plates yet. Press n to add one."), m.width, h)
	}

	left := normalizePane(m.list.View(), leftW, h)
	right := styleMuted().Render("No plate selected.")
	if p, ok := selectedPlate(m.list); ok {
		right = renderPlateDetail(p, rightW, h)
	}
	right = normalizePane(right, rightW, h)
	sep := normalizePane(strings.TrimRight(strings.Repeat("│\n", h), "\n"), 1, h)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, styleMuted().Render(sep), right)
}

func (m appModel) viewFooter() string {
	if m.modal == modalPlateForm {
		return styleMuted().Render("tab: next field  shift+tab: prev  ctrl+s: save  esc: cancel")
	}
	var parts []string
	for _, b := range keys.footer() {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	parts = append(parts, "/: filter")
	return styleMuted().Render(strings.Join(parts, "  "))
}
