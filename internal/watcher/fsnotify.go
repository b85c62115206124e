package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FSNotifyWatcher implements Watcher using fsnotify.
type FSNotifyWatcher struct {
	mu sync.RWMutex

	watcher *fsnotify.Watcher
	config  Config

	// Watched targets: files map to their directory, directories to themselves
	targets map[string]string
	// Reference counts of directories registered with fsnotify
	dirs map[string]int

	events chan Event
	errors chan error

	closed bool
	done   chan struct{}
}

// NewFSNotifyWatcher creates a new fsnotify-based watcher.
func NewFSNotifyWatcher(opts ...WatcherOption) (*FSNotifyWatcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	bufSize := config.BufferSize
	if bufSize <= 0 {
		bufSize = 100
	}

	w := &FSNotifyWatcher{
		watcher: fsw,
		config:  config,
		targets: make(map[string]string),
		dirs:    make(map[string]int),
		events:  make(chan Event, bufSize),
		errors:  make(chan error, bufSize),
		done:    make(chan struct{}),
	}
	go w.run()

	return w, nil
}

// Watch starts watching a file or a directory's immediate children.
func (w *FSNotifyWatcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrPathNotExist
		}
		return err
	}

	if _, ok := w.targets[absPath]; ok {
		return ErrAlreadyWatching
	}

	dir := absPath
	if !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.targets[absPath] = dir
	return nil
}

// Unwatch stops watching a path.
func (w *FSNotifyWatcher) Unwatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	dir, ok := w.targets[absPath]
	if !ok {
		return ErrNotWatching
	}
	delete(w.targets, absPath)

	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	return w.watcher.Remove(dir)
}

// IsWatching returns true if the path is being watched.
func (w *FSNotifyWatcher) IsWatching(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := w.targets[absPath]
	return ok
}

func (w *FSNotifyWatcher) Events() <-chan Event { return w.events }
func (w *FSNotifyWatcher) Errors() <-chan error { return w.errors }

// Close stops watching. Events and Errors are closed once pending
// notifications have been drained.
func (w *FSNotifyWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	// Closing fsnotify closes its channels, which ends run.
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *FSNotifyWatcher) run() {
	defer close(w.done)
	defer close(w.errors)
	defer close(w.events)

	for {
		select {
		case fe, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev, keep := w.convert(fe); keep {
				send(w.events, ev)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			send(w.errors, err)
		}
	}
}

// convert maps an fsnotify event and applies the target and user filters.
func (w *FSNotifyWatcher) convert(fe fsnotify.Event) (Event, bool) {
	op := convertOp(fe.Op)
	if op == 0 || !w.matches(fe.Name) {
		return Event{}, false
	}
	ev := Event{Path: fe.Name, Op: op, Timestamp: time.Now()}
	if w.config.EventFilter != nil && !w.config.EventFilter(ev) {
		return Event{}, false
	}
	return ev, true
}

// matches reports whether path is a watched file or lies in a watched directory.
func (w *FSNotifyWatcher) matches(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if dir, ok := w.targets[path]; ok && dir != path {
		return true
	}
	parent := filepath.Dir(path)
	dir, ok := w.targets[parent]
	return ok && dir == parent
}

var opTable = []struct {
	theirs fsnotify.Op
	ours   Op
}{
	{fsnotify.Create, OpCreate},
	{fsnotify.Write, OpWrite},
	{fsnotify.Remove, OpRemove},
	{fsnotify.Rename, OpRename},
}

// convertOp drops operations other than create, write, remove and rename.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	for _, e := range opTable {
		if fsOp.Has(e.theirs) {
			op |= e.ours
		}
	}
	return op
}

// send delivers v unless the buffer is full.
func send[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}

var _ Watcher = (*FSNotifyWatcher)(nil)
