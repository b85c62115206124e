package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// mockWatcher is a simple mock for testing DebouncedWatcher.
type mockWatcher struct {
	mu       sync.Mutex
	events   chan Event
	errors   chan error
	watching map[string]bool
	closed   bool
}

func newMockWatcher() *mockWatcher {
	return &mockWatcher{
		events:   make(chan Event, 100),
		errors:   make(chan error, 100),
		watching: make(map[string]bool),
	}
}

func (m *mockWatcher) Watch(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watching[path] = true
	return nil
}

func (m *mockWatcher) Unwatch(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watching, path)
	return nil
}

func (m *mockWatcher) Events() <-chan Event { return m.events }
func (m *mockWatcher) Errors() <-chan error { return m.errors }

func (m *mockWatcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
		close(m.errors)
	}
	return nil
}

func (m *mockWatcher) send(path string, op Op) {
	m.events <- Event{Path: path, Op: op, Timestamp: time.Now()}
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestOp(t *testing.T) {
	op := OpCreate | OpWrite
	if !op.Has(OpWrite) || op.Has(OpRemove) {
		t.Errorf("Has() wrong for %b", op)
	}
	if OpRename.String() != "RENAME" || Op(0).String() != "UNKNOWN" {
		t.Error("String() mismatch")
	}
}

func TestExtFilter(t *testing.T) {
	f := ExtFilter(".lua")
	if !f(Event{Path: "/s/a.lua"}) || f(Event{Path: "/s/a.lua~"}) {
		t.Error("ExtFilter should match the extension exactly")
	}
}

func TestDebouncedWatcher_Coalesces(t *testing.T) {
	mock := newMockWatcher()
	dw := NewDebouncedWatcher(mock, 30*time.Millisecond)
	defer dw.Close()

	mock.send("/tiles.json", OpCreate)
	mock.send("/tiles.json", OpWrite)
	mock.send("/tiles.json", OpWrite)

	ev := waitEvent(t, dw.Events())
	if ev.Path != "/tiles.json" {
		t.Errorf("Path = %q", ev.Path)
	}
	if !ev.Op.Has(OpCreate) || !ev.Op.Has(OpWrite) {
		t.Errorf("Op = %b, want CREATE|WRITE", ev.Op)
	}

	select {
	case extra := <-dw.Events():
		t.Errorf("expected one coalesced event, got extra %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncedWatcher_SeparatePaths(t *testing.T) {
	mock := newMockWatcher()
	dw := NewDebouncedWatcher(mock, time.Hour)
	defer dw.Close()

	mock.send("/a.lua", OpWrite)
	mock.send("/b.lua", OpWrite)

	deadline := time.Now().Add(2 * time.Second)
	for dw.PendingCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if dw.PendingCount() != 2 {
		t.Fatalf("PendingCount() = %d, want 2", dw.PendingCount())
	}

	dw.Flush()
	seen := map[string]bool{}
	seen[waitEvent(t, dw.Events()).Path] = true
	seen[waitEvent(t, dw.Events()).Path] = true
	if !seen["/a.lua"] || !seen["/b.lua"] {
		t.Errorf("events = %v", seen)
	}
}

func TestDebouncedWatcher_ForwardsErrors(t *testing.T) {
	mock := newMockWatcher()
	dw := NewDebouncedWatcher(mock, 0)
	defer dw.Close()

	boom := errors.New("boom")
	mock.errors <- boom

	select {
	case err := <-dw.Errors():
		if !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestDebouncedWatcher_Close(t *testing.T) {
	mock := newMockWatcher()
	dw := NewDebouncedWatcher(mock, time.Hour)

	if err := dw.Watch("/x"); err != nil {
		t.Fatal(err)
	}
	mock.send("/x", OpWrite)

	if err := dw.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := dw.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
	if _, ok := <-dw.Events(); ok {
		t.Error("events channel should be closed")
	}
	if !mock.closed {
		t.Error("inner watcher should be closed")
	}
}

func TestFSNotifyWatcher_WatchUnwatch(t *testing.T) {
	w, err := NewFSNotifyWatcher()
	if err != nil {
		t.Fatalf("NewFSNotifyWatcher error = %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch error = %v", err)
	}
	if !w.IsWatching(dir) {
		t.Error("should be watching dir")
	}
	if err := w.Watch(dir); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("Watch again error = %v, want ErrAlreadyWatching", err)
	}
	if err := w.Unwatch(dir); err != nil {
		t.Fatalf("Unwatch error = %v", err)
	}
	if err := w.Unwatch(dir); !errors.Is(err, ErrNotWatching) {
		t.Errorf("Unwatch again error = %v, want ErrNotWatching", err)
	}
	if err := w.Watch(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrPathNotExist) {
		t.Errorf("Watch missing error = %v, want ErrPathNotExist", err)
	}
}

func TestFSNotifyWatcher_FileEvents(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "tiles.json")
	other := filepath.Join(dir, "other.json")
	if err := os.WriteFile(catalog, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewFSNotifyWatcher()
	if err != nil {
		t.Fatalf("NewFSNotifyWatcher error = %v", err)
	}
	defer w.Close()

	if err := w.Watch(catalog); err != nil {
		t.Fatalf("Watch error = %v", err)
	}

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(catalog, []byte(`[{"name":"a"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	abs, _ := filepath.Abs(catalog)
	ev := waitEvent(t, w.Events())
	if ev.Path != abs {
		t.Errorf("Path = %q, want %q (siblings must be filtered)", ev.Path, abs)
	}
}

func TestFSNotifyWatcher_DirFilter(t *testing.T) {
	dir := t.TempDir()

	w, err := NewFSNotifyWatcher(WithBufferSize(8), WithEventFilter(ExtFilter(".lua")))
	if err != nil {
		t.Fatalf("NewFSNotifyWatcher error = %v", err)
	}
	defer w.Close()

	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "row.lua"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, w.Events())
	if filepath.Base(ev.Path) != "row.lua" {
		t.Errorf("Path = %q, want row.lua", ev.Path)
	}
}

func TestFSNotifyWatcher_Closed(t *testing.T) {
	w, err := NewFSNotifyWatcher()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Watch(t.TempDir()); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch after Close = %v, want ErrWatcherClosed", err)
	}
}
