package tui

import (
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/adapters/ephemeris"
	"lightdeck/internal/adapters/memory"
	"lightdeck/internal/adapters/scenegraph"
	"lightdeck/internal/adapters/tui/views"
	"lightdeck/internal/domain"
)

type fakeStore struct {
	loads   int
	saves   int
	saveErr error
	extra   []string
}

func (f *fakeStore) Load() (*scenegraph.Stage, error) {
	f.loads++
	s := scenegraph.New()
	paths := append([]string{"/World/Sun", "/World/Looks/Red", "/World/Looks/Blue"}, f.extra...)
	for _, path := range paths {
		tag := domain.TypeMaterial
		if path == "/World/Sun" {
			tag = domain.TypeDistantLight
		}
		if _, err := s.Define(path, tag); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (f *fakeStore) Save(*scenegraph.Stage) error {
	f.saves++
	return f.saveErr
}

func (f *fakeStore) Path() string { return "stage.yaml" }

func newTestApp(t *testing.T, store *fakeStore, changes chan struct{}) *App {
	t.Helper()
	app, err := NewApp(Options{
		Store:     store,
		History:   memory.NewHistoryStore(),
		Defaults:  memory.NewDefaultsStore(),
		Ephemeris: ephemeris.New(),
		Changes:   changes,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

func press(a *App, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+e":
		msg = tea.KeyMsg{Type: tea.KeyCtrlE}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestApp_TabSwitching(t *testing.T) {
	app := newTestApp(t, &fakeStore{}, nil)

	press(app, "3")
	if app.active != TabSun {
		t.Errorf("active = %d, expected sun", app.active)
	}
	press(app, "tab")
	if app.active != TabMaterials {
		t.Errorf("active = %d, expected materials", app.active)
	}
	press(app, "tab")
	if app.active != TabHierarchy {
		t.Errorf("active = %d, expected wrap to hierarchy", app.active)
	}
	press(app, "shift+tab")
	if app.active != TabMaterials {
		t.Errorf("active = %d, expected wrap back to materials", app.active)
	}

	press(app, "?")
	if !app.showHelp {
		t.Fatal("expected help to open")
	}
	if !strings.Contains(app.View(), "Lightdeck Help") {
		t.Error("help view not rendered")
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app.Update(cmd())
	if app.showHelp {
		t.Error("expected help to close")
	}
}

func TestApp_QuitAsksWhenDirty(t *testing.T) {
	app := newTestApp(t, &fakeStore{}, nil)

	app.Update(views.StageEditedMsg{})
	if !app.dirty {
		t.Fatal("expected the stage to be marked dirty")
	}
	if isQuit(press(app, "q")) {
		t.Error("first q with unsaved edits should not quit")
	}
	if !isQuit(press(app, "q")) {
		t.Error("second q should quit")
	}
}

func TestApp_SaveIgnoresOwnWrite(t *testing.T) {
	store := &fakeStore{}
	changes := make(chan struct{}, 1)
	app := newTestApp(t, store, changes)

	app.Update(views.StageEditedMsg{})
	press(app, "ctrl+s")
	if store.saves != 1 || app.dirty {
		t.Fatalf("saves = %d, dirty = %v", store.saves, app.dirty)
	}

	// the watcher reports our own save
	app.Update(stageChangedMsg{})
	if store.loads != 1 {
		t.Errorf("own save triggered a reload, loads = %d", store.loads)
	}

	// a foreign write reloads
	store.extra = []string{"/World/Looks/Green"}
	app.Update(stageChangedMsg{})
	if store.loads != 2 {
		t.Errorf("loads = %d, expected 2", store.loads)
	}
	if _, ok := app.stage.PrimAtPath("/World/Looks/Green"); !ok {
		t.Error("reloaded stage is not attached")
	}
}

func TestApp_ExternalChangeWhileDirty(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, store, make(chan struct{}, 1))

	app.Update(views.StageEditedMsg{})
	app.Update(stageChangedMsg{})
	if store.loads != 1 {
		t.Error("a dirty stage must not be reloaded automatically")
	}
	if !app.pendingReload || !app.statusErr {
		t.Error("expected a pending reload warning")
	}

	press(app, "ctrl+r")
	if store.loads != 2 || app.dirty || app.pendingReload {
		t.Errorf("loads = %d, dirty = %v, pending = %v", store.loads, app.dirty, app.pendingReload)
	}
}

func TestApp_SaveFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	app := newTestApp(t, store, nil)

	app.Update(views.StageEditedMsg{})
	press(app, "ctrl+s")
	if !app.dirty {
		t.Error("a failed save keeps the stage dirty")
	}
	if !strings.Contains(app.status, "disk full") {
		t.Errorf("unexpected status %q", app.status)
	}
}

func TestApp_CapturingViewOwnsKeys(t *testing.T) {
	app := newTestApp(t, &fakeStore{}, nil)
	app.Init()

	press(app, "4")
	press(app, "s")
	press(app, "D")
	// the confirmation prompt swallows the tab key
	press(app, "1")
	if app.active != TabMaterials {
		t.Errorf("active = %d while a prompt is open", app.active)
	}
	if isQuit(press(app, "q")) {
		t.Error("q should not quit while a prompt is open")
	}
}

func TestApp_EditStageFile(t *testing.T) {
	store := &fakeStore{}
	app := newTestApp(t, store, nil)
	app.opts.EditCommand = func(string) (*exec.Cmd, error) {
		return nil, errors.New("no editor found")
	}

	app.Update(views.StageEditedMsg{})
	if cmd := press(app, "ctrl+e"); cmd != nil {
		t.Error("editing with unsaved changes should be refused")
	}
	if !strings.Contains(app.status, "Save or reload") {
		t.Errorf("unexpected status %q", app.status)
	}

	app.dirty = false
	press(app, "ctrl+e")
	if app.status != "no editor found" {
		t.Errorf("unexpected status %q", app.status)
	}

	// the editor returned, the file is read again
	app.Update(editorFinishedMsg{})
	if store.loads != 2 {
		t.Errorf("loads = %d, expected a reload after editing", store.loads)
	}
}
