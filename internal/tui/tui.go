package tui

import (
	"io"
	"log"

	"platedash/internal/dashboard"
	"platedash/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Controller *dashboard.Controller
	Store      store.Store
	APIURL     string
	Config     *store.Config
	Logger     *log.Logger
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference(opts.Config)

	m := newAppModel(opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(appModel); ok {
		fm.saveState()
	}
	return err
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
