package tui

import (
	"time"

	"platedash/internal/model"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalPlateForm
	modalConfirmDelete
)

const minibufferAutoClearAfter = 4 * time.Second

// Results of remote calls. Calls run inside tea.Cmds so the UI never blocks on the API.
type (
	platesLoadedMsg struct{ err error }

	availabilityMsg struct {
		id  int
		err error
	}

	plateAddedMsg struct {
		name string
		ok   bool
	}

	plateUpdatedMsg struct {
		id      int
		applied bool
		err     error
	}

	plateDeletedMsg struct {
		plate model.Plate
		err   error
	}

	minibufferTickMsg struct{ seq int }
)
