package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const tuiStateFileName = "tui_state.json"

// Store is the local platedash directory (config dir): UI state and the journal.
type Store struct {
	Dir string
}

// Open returns the Store rooted at the config dir.
func Open() (Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: dir}, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// TUIState stores small UI state for restoring the dashboard on relaunch.
// It is best effort: callers tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// APIURL scopes the saved selection; a selection made against another API is ignored.
	APIURL string `json:"apiUrl,omitempty"`

	SelectedPlateID int `json:"selectedPlateId,omitempty"`
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupted state is treated as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(s.tuiStatePath(), bytes.NewReader(b))
}

// LogPath is where the interactive dashboard writes its diagnostic log,
// unless $PLATEDASH_LOG overrides it.
func (s Store) LogPath() string {
	if v := strings.TrimSpace(os.Getenv("PLATEDASH_LOG")); v != "" {
		return v
	}
	return filepath.Join(s.Dir, "platedash.log")
}
