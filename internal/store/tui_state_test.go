package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTUIState_SaveLoad(t *testing.T) {
	t.Parallel()

	s := Store{Dir: filepath.Join(t.TempDir(), "pd")}
	if err := s.SaveTUIState(&TUIState{APIURL: "http://x", SelectedPlateID: 4}); err != nil {
		t.Fatalf("save: %v", err)
	}
	st, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Version != 1 || st.APIURL != "http://x" || st.SelectedPlateID != 4 {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestTUIState_MissingOrCorruptIsDefault(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	st, err := s.LoadTUIState()
	if err != nil || st.SelectedPlateID != 0 {
		t.Fatalf("missing: st=%+v err=%v", st, err)
	}

	if err := os.WriteFile(filepath.Join(s.Dir, tuiStateFileName), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err = s.LoadTUIState()
	if err != nil || st.Version != 1 || st.SelectedPlateID != 0 {
		t.Fatalf("corrupt: st=%+v err=%v", st, err)
	}
}

func TestTUIState_EmptyDirIsNoop(t *testing.T) {
	t.Parallel()

	s := Store{}
	if err := s.SaveTUIState(&TUIState{SelectedPlateID: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	st, err := s.LoadTUIState()
	if err != nil || st.SelectedPlateID != 0 {
		t.Fatalf("expected default state, got %+v err=%v", st, err)
	}
}
