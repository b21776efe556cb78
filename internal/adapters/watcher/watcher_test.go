package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	w.SetSettle(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	t.Cleanup(func() {
		cancel()
		w.Close()
	})
	return w
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prims: []\n"), 0644))
	w := startWatcher(t, path)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("prims: []\n"), 0644))
	}

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_ReportsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prims: []\n"), 0644))
	w := startWatcher(t, path)

	tmp := filepath.Join(dir, ".stage.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("prims: []\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prims: []\n"), 0644))
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

	select {
	case <-w.Changes():
		t.Fatal("unrelated file reported")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "stage.yaml"), nil)
	assert.Error(t, err)
}
