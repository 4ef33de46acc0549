package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	watched := writeFile(t, dir, "watched.obj", triangleOBJ)
	writeFile(t, dir, "other.obj", triangleOBJ)

	w, err := NewWatcher(100 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := w.Add(watched); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Several writes in a burst become one change.
	for i := 0; i < 3; i++ {
		writeFile(t, dir, "other.obj", triangleOBJ)
		writeFile(t, dir, "watched.obj", twoMaterialOBJ)
	}

	want, _ := filepath.Abs(watched)
	select {
	case got := <-w.Changes():
		if got != want {
			t.Errorf("change for %s, want %s", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-w.Changes():
		t.Errorf("unexpected second change %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Error("Changes still open after Close")
	}
	if err := w.Add(os.TempDir()); err != ErrWatcherClosed {
		t.Errorf("expected ErrWatcherClosed, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
